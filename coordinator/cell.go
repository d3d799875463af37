package coordinator

import "time"

// cell holds the last-known-good payload and its fetch time. It is replaced
// as a whole on every successful pass, never partially mutated, and a
// non-nil payload always carries a fetch time.
type cell[T any] struct {
	payload   *T
	fetchedAt time.Time
}

func (c *cell[T]) write(v T, now time.Time) {
	c.payload = &v
	c.fetchedAt = now
}

func (c *cell[T]) clear() {
	*c = cell[T]{}
}

// isFresh reports whether the payload exists and is younger than ttl.
// Pure predicate, no side effects.
func (c *cell[T]) isFresh(now time.Time, ttl time.Duration) bool {
	return c.payload != nil && now.Sub(c.fetchedAt) < ttl
}
