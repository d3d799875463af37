package coordinator

import (
	"time"

	"golang.org/x/time/rate"
)

// attemptGate enforces the minimum interval between outbound attempts. It is
// independent of and stricter than cache freshness: even an expired cache
// does not reopen the gate early. One token, regenerated every interval.
type attemptGate struct {
	lim *rate.Limiter
}

func newAttemptGate(minInterval time.Duration) *attemptGate {
	return &attemptGate{
		lim: rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// allow reports whether an attempt may start at now, consuming the token
// when it does.
func (g *attemptGate) allow(now time.Time) bool {
	return g.lim.AllowN(now, 1)
}

// reset accounts a forced attempt at now: the token is consumed (reserving a
// future one if none is available), so the next unforced attempt waits at
// least a full interval.
func (g *attemptGate) reset(now time.Time) {
	if !g.lim.AllowN(now, 1) {
		g.lim.ReserveN(now, 1)
	}
}
