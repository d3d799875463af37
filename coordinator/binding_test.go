package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeScheduler captures scheduled calls so tests fire them by hand.
type fakeScheduler struct {
	mu        sync.Mutex
	delays    []time.Duration
	fns       []func()
	cancelled atomic.Int32
}

func (s *fakeScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.fns = append(s.fns, fn)
	s.mu.Unlock()
	return func() { s.cancelled.Add(1) }
}

func (s *fakeScheduler) fire(i int) {
	s.mu.Lock()
	fn := s.fns[i]
	s.mu.Unlock()
	fn()
}

func TestBind_JitteredInitialFetch(t *testing.T) {
	src := &scriptedSource{name: "api", value: "v"}
	c, _ := newTestCoordinator(t, testConfig(), src)
	sched := &fakeScheduler{}

	var states []State[string]
	var mu sync.Mutex
	b := Bind(c, sched, func(st State[string]) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})
	defer b.Close()

	if len(sched.delays) != 1 {
		t.Fatalf("expected one scheduled initial fetch, got %d", len(sched.delays))
	}
	if d := sched.delays[0]; d < time.Second || d > 3*time.Second {
		t.Fatalf("initial fetch delay %v outside jitter bounds", d)
	}
	if src.calls.Load() != 0 {
		t.Fatal("fetch must be deferred until the scheduled callback fires")
	}

	sched.fire(0)

	if src.calls.Load() != 1 {
		t.Fatalf("expected initial fetch after callback, calls=%d", src.calls.Load())
	}
	mu.Lock()
	defer mu.Unlock()
	if len(states) == 0 {
		t.Fatal("expected onChange notifications from the initial pass")
	}
	last := states[len(states)-1]
	if last.Data == nil || *last.Data != "v" {
		t.Fatalf("unexpected final state: %+v", last)
	}
}

func TestBinding_CloseBeforeInitialFetch(t *testing.T) {
	src := &scriptedSource{name: "api", value: "v"}
	c, _ := newTestCoordinator(t, testConfig(), src)
	sched := &fakeScheduler{}

	b := Bind[string](c, sched, nil)
	b.Close()
	b.Close() // idempotent

	if sched.cancelled.Load() == 0 {
		t.Fatal("expected pending initial fetch to be cancelled")
	}

	// A timer that already fired anyway must be a no-op after Close.
	sched.fire(0)
	if src.calls.Load() != 0 {
		t.Fatalf("closed binding triggered a fetch, calls=%d", src.calls.Load())
	}
}

func TestBinding_UnmountSafety(t *testing.T) {
	src := newBlockingSource("api", "shared")
	c, _ := newTestCoordinator(t, testConfig(), src)
	sched := &fakeScheduler{}

	var closedGot, openGot atomic.Int32
	bClosed := Bind(c, sched, func(State[string]) { closedGot.Add(1) })
	bOpen := Bind(c, sched, func(State[string]) { openGot.Add(1) })
	defer bOpen.Close()

	go c.Fetch(context.Background(), Options{})
	<-src.entered

	// Both consumers saw the transition into Fetching; now one unmounts
	// while the shared pass is still in flight.
	seenBeforeClose := closedGot.Load()
	bClosed.Close()

	close(src.release)
	waitFor(t, func() bool { return !c.State().Loading }, "pass never settled")
	waitFor(t, func() bool { return openGot.Load() >= 2 }, "remaining consumer missed the settle notification")

	if closedGot.Load() != seenBeforeClose {
		t.Fatal("closed binding received a notification after Close")
	}
	st := c.State()
	if st.Data == nil || *st.Data != "shared" {
		t.Fatalf("shared state not updated for remaining consumers: %+v", st)
	}
}

func TestJitterBetween_Bounds(t *testing.T) {
	min, max := time.Second, 3*time.Second
	for i := 0; i < 100; i++ {
		d := jitterBetween(min, max)
		if d < min || d > max {
			t.Fatalf("jitter %v outside [%v, %v]", d, min, max)
		}
	}
	if d := jitterBetween(max, min); d != max {
		t.Fatalf("degenerate bounds should return min bound, got %v", d)
	}
}
