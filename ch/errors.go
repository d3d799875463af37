package ch

import "fmt"

var (
	// ErrConnectionClosed when the connection has been closed
	ErrConnectionClosed = fmt.Errorf("ch: connection is closed")
)

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("ch: invalid config: %s", msg)
}

// ErrConnection ClickHouse connection error
func ErrConnection(err error) error {
	return fmt.Errorf("ch: connection failed: %w", err)
}
