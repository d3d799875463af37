package coordinator

import (
	"context"

	"github.com/modaops/datakit/logger"
	"go.uber.org/zap"
)

// fallbackChain walks the configured sources in order until one succeeds.
// Ordering is a configuration decision: primary source first, most degraded
// fallback last. No source is tried twice within one pass.
type fallbackChain[T any] struct {
	log     logger.Logger
	sources []Source[T]
}

// tryAll returns the first successful payload. If every source fails it
// returns a composite error carrying the last source error.
func (f fallbackChain[T]) tryAll(ctx context.Context) (T, error) {
	var lastErr error
	for _, src := range f.sources {
		data, err := src.Fetch(ctx)
		if err != nil {
			lastErr = err
			f.log.Warn("source failed, trying next",
				zap.String("source", src.Name()),
				zap.Error(err),
			)
			continue
		}
		f.log.Debug("source succeeded", zap.String("source", src.Name()))
		return data, nil
	}

	var zero T
	return zero, ErrAllSourcesFailed(len(f.sources), lastErr)
}
