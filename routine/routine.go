// Package routine provides safe goroutine execution with panic recovery.
//
// Background goroutines in the kit (feed drains, scheduler callbacks, cron
// jobs) run through this package so a panic in one of them is logged instead
// of crashing the process.
package routine

import (
	"context"
	"runtime/debug"
	"sync"

	"github.com/modaops/datakit/logger"
	"go.uber.org/zap"
)

// Runner tracks goroutines it starts so callers can wait for shutdown.
type Runner interface {
	// GoNamed executes fn in a new goroutine with panic recovery.
	// The name identifies the goroutine in logs.
	GoNamed(name string, fn func())

	// GoNamedWithContext executes fn with the given context in a new
	// goroutine with panic recovery.
	GoNamedWithContext(ctx context.Context, name string, fn func(ctx context.Context))

	// Wait blocks until every goroutine started by this runner returns.
	Wait()
}

type defaultRunner struct {
	log logger.Logger
	wg  sync.WaitGroup
}

// New creates a Runner that logs recovered panics to log.
func New(log logger.Logger) Runner {
	return &defaultRunner{log: log}
}

func (r *defaultRunner) GoNamed(name string, fn func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer recoverWithLog(r.log, name)
		fn()
	}()
}

func (r *defaultRunner) GoNamedWithContext(ctx context.Context, name string, fn func(ctx context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer recoverWithLog(r.log, name)
		fn(ctx)
	}()
}

func (r *defaultRunner) Wait() {
	r.wg.Wait()
}

// Go executes fn in a new goroutine with panic recovery, without tracking.
func Go(log logger.Logger, fn func()) {
	GoNamed(log, "", fn)
}

// GoNamed executes a named fn in a new goroutine with panic recovery,
// without tracking.
func GoNamed(log logger.Logger, name string, fn func()) {
	go func() {
		defer recoverWithLog(log, name)
		fn()
	}()
}

// Protect runs fn on the current goroutine and converts a panic into a
// logged event. Used for callbacks invoked from timers and third-party
// libraries.
func Protect(log logger.Logger, name string, fn func()) {
	defer recoverWithLog(log, name)
	fn()
}

func recoverWithLog(log logger.Logger, name string) {
	if rec := recover(); rec != nil {
		fields := []zap.Field{
			zap.Any("panic", rec),
			zap.String("stack", string(debug.Stack())),
		}
		if name != "" {
			fields = append([]zap.Field{zap.String("routine", name)}, fields...)
		}
		log.Error("goroutine panicked", fields...)
	}
}
