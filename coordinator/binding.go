package coordinator

import (
	"context"
	"sync/atomic"
)

// Binding is the per-consumer adapter. Each dashboard widget (or other
// consumer) binds once: the binding subscribes to the coordinator, schedules
// a jitter-delayed initial fetch so simultaneously mounting consumers do not
// stampede, and on Close stops reacting to anything that arrives later.
//
// Closing a binding never cancels a shared in-flight pass: the pass settles
// and updates the coordinator for the remaining consumers.
type Binding[T any] struct {
	coord       *Coordinator[T]
	onChange    func(State[T])
	unsubscribe func()
	cancel      CancelFunc
	closed      atomic.Bool
}

// Bind attaches a consumer to the coordinator. onChange is invoked with a
// fresh state snapshot after every transition until Close; it may be nil for
// consumers that only poll State themselves.
func Bind[T any](c *Coordinator[T], sched Scheduler, onChange func(State[T])) *Binding[T] {
	b := &Binding[T]{coord: c, onChange: onChange}

	b.unsubscribe = c.Subscribe(func() {
		// A notification racing with Close must be a no-op, not a callback
		// into a consumer that already tore down.
		if b.closed.Load() {
			return
		}
		if b.onChange != nil {
			b.onChange(c.State())
		}
	})

	delay := jitterBetween(c.cfg.JitterMin, c.cfg.JitterMax)
	b.cancel = sched.Schedule(delay, func() {
		if b.closed.Load() {
			return
		}
		c.EnsureInitialized(context.Background())
	})

	return b
}

// State returns the coordinator's current state.
func (b *Binding[T]) State() State[T] {
	return b.coord.State()
}

// Close cancels the pending initial fetch, unsubscribes, and marks the
// binding so late notifications are ignored. Safe to call more than once.
func (b *Binding[T]) Close() {
	if !b.closed.CompareAndSwap(false, true) {
		return
	}
	b.cancel()
	b.unsubscribe()
}
