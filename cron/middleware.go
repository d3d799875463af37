package cron

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/modaops/datakit/logger"
	"go.uber.org/zap"
)

// Middleware wraps a Task with additional behavior.
type Middleware func(Task) Task

// applyMiddlewares applies mws from last to first, so the first middleware
// is the outermost: applyMiddlewares(t, a, b) runs a(b(t)).
func applyMiddlewares(t Task, mws ...Middleware) Task {
	for i := len(mws) - 1; i >= 0; i-- {
		t = mws[i](t)
	}
	return t
}

// recoveryMiddleware converts a task panic into a logged error so one bad
// run cannot take the scheduler down.
func recoveryMiddleware(log logger.Logger) Middleware {
	return func(next Task) Task {
		return TaskFunc{
			TaskName: next.Name(),
			Fn: func(ctx context.Context) (err error) {
				defer func() {
					if r := recover(); r != nil {
						log.Error("task panicked",
							zap.String("task", next.Name()),
							zap.Any("panic", r),
							zap.String("stack", string(debug.Stack())),
						)
						err = fmt.Errorf("cron: panic recovered: %v", r)
					}
				}()
				return next.Run(ctx)
			},
		}
	}
}

// loggingMiddleware logs task start, completion and duration.
func loggingMiddleware(log logger.Logger) Middleware {
	return func(next Task) Task {
		return TaskFunc{
			TaskName: next.Name(),
			Fn: func(ctx context.Context) error {
				start := time.Now()
				log.Info("task started", zap.String("task", next.Name()))

				err := next.Run(ctx)

				duration := time.Since(start)
				if err != nil {
					log.Error("task failed",
						zap.String("task", next.Name()),
						zap.Duration("duration", duration),
						zap.Error(err),
					)
				} else {
					log.Info("task completed",
						zap.String("task", next.Name()),
						zap.Duration("duration", duration),
					)
				}
				return err
			},
		}
	}
}
