package coordinator

import (
	"sync/atomic"
	"testing"
)

func TestRegistry_SubscribeAndNotify(t *testing.T) {
	r := newRegistry()

	var a, b atomic.Int32
	unsubA := r.subscribe(func() { a.Add(1) })
	r.subscribe(func() { b.Add(1) })

	r.notify()
	if a.Load() != 1 || b.Load() != 1 {
		t.Fatalf("expected both listeners notified, a=%d b=%d", a.Load(), b.Load())
	}

	unsubA()
	unsubA() // idempotent
	r.notify()
	if a.Load() != 1 || b.Load() != 2 {
		t.Fatalf("expected only remaining listener notified, a=%d b=%d", a.Load(), b.Load())
	}
	if r.len() != 1 {
		t.Fatalf("expected 1 listener, got %d", r.len())
	}
}

func TestRegistry_RemovalDuringNotify(t *testing.T) {
	r := newRegistry()

	// Listener A removes listener B mid-pass. Whatever the iteration order,
	// B must never run after its removal within the same pass.
	var removed atomic.Bool
	var unsubB func()
	r.subscribe(func() {
		removed.Store(true)
		unsubB()
	})
	unsubB = r.subscribe(func() {
		if removed.Load() {
			t.Error("listener invoked after removal in the same notify pass")
		}
	})

	r.notify()
}

func TestRegistry_SubscribeSameFuncTwice(t *testing.T) {
	r := newRegistry()

	var n atomic.Int32
	fn := func() { n.Add(1) }
	r.subscribe(fn)
	unsub := r.subscribe(fn)

	r.notify()
	if n.Load() != 2 {
		t.Fatalf("expected both registrations notified, got %d", n.Load())
	}

	unsub()
	r.notify()
	if n.Load() != 3 {
		t.Fatalf("expected one registration left, got %d", n.Load())
	}
}
