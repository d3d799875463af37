package coordinator

import "sync"

// registry is the subscriber set. Listeners are keyed by a handle so the
// same function can be registered more than once by different consumers.
type registry struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func newRegistry() *registry {
	return &registry{listeners: make(map[int]func())}
}

// subscribe adds fn and returns its removal function. The removal function
// is idempotent.
func (r *registry) subscribe(fn func()) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// notify invokes every current listener synchronously, in arbitrary order.
// It iterates a snapshot but re-checks membership per listener, so one
// removed during the pass is not invoked in that same pass.
func (r *registry) notify() {
	r.mu.Lock()
	ids := make([]int, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	r.mu.Unlock()

	for _, id := range ids {
		r.mu.Lock()
		fn, ok := r.listeners[id]
		r.mu.Unlock()
		if ok {
			fn()
		}
	}
}

// len reports the current number of listeners.
func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}
