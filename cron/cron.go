// Package cron schedules the kit's background jobs, such as off-peak
// analytics revalidation.
//
// Jobs are Tasks registered with a 6-field cron spec (seconds supported).
// Every task runs wrapped in recovery and logging middleware.
package cron

import (
	"context"

	"github.com/modaops/datakit/logger"
)

// Task is one schedulable unit of work.
type Task interface {
	// Name returns the unique identifier for this task
	Name() string
	// Run executes the task
	Run(ctx context.Context) error
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

func (t TaskFunc) Name() string { return t.TaskName }

func (t TaskFunc) Run(ctx context.Context) error { return t.Fn(ctx) }

// Cron manages scheduled tasks.
type Cron interface {
	// Start begins the scheduler
	Start()
	// Close stops the scheduler and waits for running tasks to complete
	Close()
	// AddTask schedules a task. The spec uses the 6-field cron format with
	// seconds, e.g. "0 15 3 * * *" for 03:15:00 daily.
	AddTask(spec string, task Task) error
}

// New creates a cron manager. Middlewares are applied to every task after
// the built-in recovery and logging middleware.
func New(log logger.Logger, mws ...Middleware) Cron {
	builtin := []Middleware{
		recoveryMiddleware(log),
		loggingMiddleware(log),
	}
	return newManager(log, append(builtin, mws...)...)
}
