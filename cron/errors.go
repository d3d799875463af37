package cron

import "fmt"

var (
	// ErrNilTask is returned when a nil task is scheduled
	ErrNilTask = fmt.Errorf("cron: task is required")
)
