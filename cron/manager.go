package cron

import (
	"context"
	"fmt"

	"github.com/modaops/datakit/logger"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type manager struct {
	cron        *cron.Cron
	middlewares []Middleware
	log         logger.Logger
}

func newManager(log logger.Logger, mws ...Middleware) *manager {
	return &manager{
		cron:        cron.New(cron.WithSeconds()),
		middlewares: mws,
		log:         log,
	}
}

func (m *manager) Start() {
	m.cron.Start()
}

func (m *manager) Close() {
	ctx := m.cron.Stop()
	<-ctx.Done()
}

func (m *manager) AddTask(spec string, task Task) error {
	if task == nil {
		return ErrNilTask
	}

	wrapped := applyMiddlewares(task, m.middlewares...)
	job := cron.FuncJob(func() {
		// Errors are handled inside the middleware chain; a failed run only
		// skips until the next scheduled one.
		_ = wrapped.Run(context.Background())
	})

	if _, err := m.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("cron: failed to add task %s with spec %q: %w", task.Name(), spec, err)
	}

	m.log.Info("task scheduled",
		zap.String("task", task.Name()),
		zap.String("spec", spec),
	)
	return nil
}
