// Package coordinator provides a shared fetch resource: one expensive,
// unreliable remote value cached for many independent consumers.
//
// A Coordinator owns the last-known-good payload for a single logical data
// source and guards the network behind three gates: a TTL cache, a minimum
// attempt interval, and a single-flight pass so concurrent callers collapse
// into one outbound request. When the network is needed it walks an ordered
// chain of sources until one succeeds. Consumers subscribe for change
// notifications and pull the current state; a failed pass never blanks
// previously fetched data.
//
// The coordinator package follows the kit conventions:
// - Interface-driven design for testability
// - Uses logger.Logger for unified logging
// - Configuration with validation and defaults
// - Structured error handling
//
// Fetch failures are represented as data in State.Err, never returned as Go
// errors: consumers branch on the state they observe, not on exceptions.
package coordinator

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/modaops/datakit/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Source is one entry of the fallback chain: a named way to obtain the
// payload. Sources are tried in the order they were supplied; a Source
// returning a non-nil error sends the pass to the next one.
type Source[T any] interface {
	Name() string
	Fetch(ctx context.Context) (T, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc[T any] struct {
	SourceName string
	Fn         func(ctx context.Context) (T, error)
}

func (s SourceFunc[T]) Name() string { return s.SourceName }

func (s SourceFunc[T]) Fetch(ctx context.Context) (T, error) { return s.Fn(ctx) }

// State is a snapshot of the coordinator, pulled by consumers after a
// notification.
//
// Data points at the last successfully fetched payload and is nil until the
// first success. It MUST be treated as read-only: the same pointer is handed
// to every consumer.
type State[T any] struct {
	Data       *T
	Loading    bool
	Err        error
	FetchedAt  time.Time
	RetryCount int
}

// Options control a single Fetch call.
type Options struct {
	// Force bypasses the TTL cache and the attempt gate. A forced attempt
	// closes the gate for a full interval. A forced call arriving while a
	// pass is already in flight joins that pass rather than queueing a
	// second one; use Refresh to wait for the in-flight pass and then
	// force a fresh fetch.
	Force bool
	// SkipIfLoading returns the current state immediately when a pass is
	// already in flight instead of waiting for its result.
	SkipIfLoading bool
}

// Coordinator is the shared fetch resource for one logical payload.
// All methods are safe for concurrent use.
type Coordinator[T any] struct {
	log     logger.Logger
	cfg     *Config
	clock   Clock
	chain   fallbackChain[T]
	gate    *attemptGate
	reg     *registry
	flights singleflight.Group

	mu          sync.Mutex
	cell        cell[T]
	lastErr     error
	retryCount  int
	loading     bool
	settled     chan struct{} // non-nil while a pass is in flight; closed on settle
	gen         uint64        // pass generation, bumped on settle; keys the flight group
	initialized bool
}

// New creates a Coordinator over the given sources, primary first.
// A nil config uses defaults; zero-valued fields are filled from defaults
// before validation.
func New[T any](log logger.Logger, cfg *Config, sources ...Source[T]) (*Coordinator[T], error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg = cfg.MergeDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	clog := log.With(zap.String("coordinator", cfg.Name))
	return &Coordinator[T]{
		log:   clog,
		cfg:   cfg,
		clock: systemClock{},
		chain: fallbackChain[T]{log: clog, sources: sources},
		gate:  newAttemptGate(cfg.MinFetchInterval),
		reg:   newRegistry(),
	}, nil
}

// State returns a snapshot of the current coordinator state.
func (c *Coordinator[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Subscribe registers fn to be called synchronously after every committed
// state transition. The returned function removes the subscription and is
// safe to call more than once. Listeners receive no payload; they pull the
// current state via State.
func (c *Coordinator[T]) Subscribe(fn func()) (unsubscribe func()) {
	return c.reg.subscribe(fn)
}

// Fetch returns the payload state, hitting the network only when every gate
// agrees. Decision order: an in-flight pass is joined (or skipped per
// opts.SkipIfLoading); a fresh cache is served without network; a denied
// attempt gate serves the last known value, stale or not; otherwise one
// fallback-chain pass runs, shared by all concurrent callers.
//
// Fetch never returns an error: a failed pass is committed into State.Err
// and the previous payload is preserved.
func (c *Coordinator[T]) Fetch(ctx context.Context, opts Options) State[T] {
	c.mu.Lock()
	now := c.clock.Now()

	if c.loading {
		if opts.SkipIfLoading {
			st := c.stateLocked()
			c.mu.Unlock()
			return st
		}
		if !opts.Force {
			// Join the in-flight pass: wait for it to settle and return
			// whatever it committed.
			ch := c.settled
			c.mu.Unlock()
			select {
			case <-ch:
			case <-ctx.Done():
			}
			return c.State()
		}
		// Forced while in flight: the single-flight group below shares the
		// running pass. Refresh awaits settle first, so this only happens on
		// direct forced calls.
	} else if !opts.Force {
		if c.cell.isFresh(now, c.cfg.TTL) {
			st := c.stateLocked()
			c.mu.Unlock()
			return st
		}
		if !c.gate.allow(now) {
			c.log.Debug("fetch throttled, serving last known value",
				zap.Duration("min_interval", c.cfg.MinFetchInterval),
			)
			st := c.stateLocked()
			c.mu.Unlock()
			return st
		}
	} else {
		// Forcing consumes the gate's token so the next unforced attempt
		// waits a full interval from this one.
		c.gate.reset(now)
	}
	// The key carries the pass generation: dispatchers racing on the same
	// generation collapse into one pass, and a dispatcher whose pass settled
	// before its flight started finds the generation bumped inside runPass
	// and backs off with the committed state instead of starting an overlap.
	gen := c.gen
	key := c.cfg.Name + "#" + strconv.FormatUint(gen, 10)
	c.mu.Unlock()

	v, _, _ := c.flights.Do(key, func() (any, error) {
		return c.runPass(ctx, gen), nil
	})
	return v.(State[T])
}

// Refresh waits for any in-flight pass to settle, then runs a forced pass.
// Two passes never overlap, so cache writes cannot race.
func (c *Coordinator[T]) Refresh(ctx context.Context) State[T] {
	c.awaitSettled(ctx)
	return c.Fetch(ctx, Options{Force: true})
}

// EnsureInitialized triggers the initial load exactly once. The first caller
// runs a fetch; every later caller, including those arriving before the
// initial pass completes, gets the current state without starting another.
func (c *Coordinator[T]) EnsureInitialized(ctx context.Context) State[T] {
	c.mu.Lock()
	if c.initialized {
		st := c.stateLocked()
		c.mu.Unlock()
		return st
	}
	c.initialized = true
	c.mu.Unlock()

	return c.Fetch(ctx, Options{SkipIfLoading: true})
}

// ClearCache resets the payload, retry counter and error to their initial
// values. Subscriptions survive and an in-flight pass is not cancelled; its
// result will be committed as usual.
func (c *Coordinator[T]) ClearCache() {
	c.mu.Lock()
	c.cell.clear()
	c.retryCount = 0
	c.lastErr = nil
	c.mu.Unlock()

	c.log.Info("cache cleared")
	c.reg.notify()
}

// runPass executes the fallback-chain pass for one generation and commits
// its outcome. The generation check keeps passes from ever overlapping: a
// caller holding a stale generation finds it bumped and returns the state
// the settled pass committed, without touching the network.
func (c *Coordinator[T]) runPass(ctx context.Context, gen uint64) State[T] {
	c.mu.Lock()
	if c.gen != gen {
		st := c.stateLocked()
		c.mu.Unlock()
		return st
	}
	c.loading = true
	c.settled = make(chan struct{})
	c.mu.Unlock()
	c.reg.notify()

	// A panicking source must not leave the coordinator stuck in the
	// loading state. The normal path settles below and bumps the
	// generation, so this fires on abnormal exit only; the generation
	// guard keeps it from ever settling a successor pass.
	defer func() {
		c.mu.Lock()
		if c.gen != gen {
			c.mu.Unlock()
			return
		}
		c.loading = false
		c.gen++
		close(c.settled)
		c.settled = nil
		c.mu.Unlock()
		c.reg.notify()
	}()

	data, err := c.chain.tryAll(ctx)

	c.mu.Lock()
	if err == nil {
		c.cell.write(data, c.clock.Now())
		c.retryCount = 0
		c.lastErr = nil
	} else {
		// Previous payload is kept: stale data beats a blank dashboard.
		if c.retryCount < c.cfg.MaxRetries {
			c.retryCount++
		}
		c.lastErr = err
	}
	c.loading = false
	c.gen++
	close(c.settled)
	c.settled = nil
	st := c.stateLocked()
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("fetch pass failed",
			zap.Error(err),
			zap.Int("retry_count", st.RetryCount),
		)
	} else {
		c.log.Debug("fetch pass completed")
	}
	c.reg.notify()
	return st
}

// awaitSettled blocks until no pass is in flight or ctx is done.
func (c *Coordinator[T]) awaitSettled(ctx context.Context) {
	for {
		c.mu.Lock()
		if !c.loading {
			c.mu.Unlock()
			return
		}
		ch := c.settled
		c.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return
		}
	}
}

func (c *Coordinator[T]) stateLocked() State[T] {
	return State[T]{
		Data:       c.cell.payload,
		Loading:    c.loading,
		Err:        c.lastErr,
		FetchedAt:  c.cell.fetchedAt,
		RetryCount: c.retryCount,
	}
}
