package coordinator

import "time"

// Clock supplies the current time. The coordinator reads time only through
// it, so tests drive TTL and rate decisions deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// WithClock replaces the coordinator's clock. Intended for tests; call it
// before any fetch.
func (c *Coordinator[T]) WithClock(clock Clock) *Coordinator[T] {
	c.clock = clock
	return c
}
