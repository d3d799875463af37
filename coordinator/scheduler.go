package coordinator

import (
	"math/rand/v2"
	"time"

	"github.com/modaops/datakit/logger"
	"github.com/modaops/datakit/routine"
)

// CancelFunc cancels a scheduled call. Calling it after the callback fired
// is a no-op.
type CancelFunc func()

// Scheduler defers a call by a duration. It exists as an interface so tests
// run the deferred initial fetch without real timers.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

// timerScheduler runs callbacks on real timers, with panic recovery.
type timerScheduler struct {
	log logger.Logger
}

// NewTimerScheduler returns the production Scheduler.
func NewTimerScheduler(log logger.Logger) Scheduler {
	return &timerScheduler{log: log}
}

func (s *timerScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, func() {
		routine.Protect(s.log, "scheduled-fetch", fn)
	})
	return func() { t.Stop() }
}

// jitterBetween draws a uniform delay in [min, max].
func jitterBetween(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int64N(int64(max-min)+1))
}
