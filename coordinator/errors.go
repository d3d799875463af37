package coordinator

import "fmt"

var (
	// ErrNoSources is returned when a coordinator is constructed without
	// any source
	ErrNoSources = fmt.Errorf("coordinator: no sources configured")
)

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("coordinator: invalid config: %s", msg)
}

// ErrAllSourcesFailed wraps the last error of a fully failed fallback pass
func ErrAllSourcesFailed(n int, last error) error {
	return fmt.Errorf("coordinator: all %d sources failed, last error: %w", n, last)
}
