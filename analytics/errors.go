package analytics

import "fmt"

var (
	// ErrMalformedResponse is returned when the API reports success without
	// a payload
	ErrMalformedResponse = fmt.Errorf("analytics: malformed response: success without data")

	// ErrEmptyResult is returned when a fallback query yields no rows
	ErrEmptyResult = fmt.Errorf("analytics: query returned no rows")
)

// ErrInvalidConfig invalid config
func ErrInvalidConfig(msg string) error {
	return fmt.Errorf("analytics: invalid config: %s", msg)
}

// ErrAPIRequest wraps a transport-level API failure
func ErrAPIRequest(err error) error {
	return fmt.Errorf("analytics: api request failed: %w", err)
}

// ErrAPIStatus returns an error for an unexpected HTTP status
func ErrAPIStatus(code int) error {
	return fmt.Errorf("analytics: api returned status %d", code)
}

// ErrAPIRejected returns an error for a success=false response
func ErrAPIRejected(msg string) error {
	if msg == "" {
		msg = "no error detail"
	}
	return fmt.Errorf("analytics: api rejected request: %s", msg)
}

// ErrQuery wraps a fallback query failure
func ErrQuery(source string, err error) error {
	return fmt.Errorf("analytics: %s query failed: %w", source, err)
}
