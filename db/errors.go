package db

import "fmt"

var (
	// ErrNotConnected replica connection not established
	ErrNotConnected = fmt.Errorf("db: replica connection not established")
)

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("db: invalid config: %s", msg)
}

// ErrConnection replica connection error
func ErrConnection(err error) error {
	return fmt.Errorf("db: connection failed: %w", err)
}
