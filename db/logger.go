package db

import (
	"context"
	"fmt"
	"time"

	"github.com/modaops/datakit/logger"
	"go.uber.org/zap"
	glogger "gorm.io/gorm/logger"
)

// gormLogger routes gorm's logging through the kit logger.
type gormLogger struct {
	log           logger.Logger
	level         glogger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(log logger.Logger, cfg *Config) *gormLogger {
	return &gormLogger{
		log:           log.With(zap.String("component", "gorm")),
		level:         gormLogLevel(cfg.LogLevel),
		slowThreshold: cfg.SlowThreshold,
	}
}

func (g *gormLogger) LogMode(level glogger.LogLevel) glogger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *gormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= glogger.Info {
		g.log.Info(fmt.Sprintf(msg, data...))
	}
}

func (g *gormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= glogger.Warn {
		g.log.Warn(fmt.Sprintf(msg, data...))
	}
}

func (g *gormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= glogger.Error {
		g.log.Error(fmt.Sprintf(msg, data...))
	}
}

func (g *gormLogger) Trace(
	ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error,
) {
	if g.level <= glogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && g.level >= glogger.Error:
		g.log.Error("sql error", append(fields, zap.Error(err))...)
	case g.slowThreshold != 0 && elapsed > g.slowThreshold && g.level >= glogger.Warn:
		g.log.Warn("slow sql", append(fields, zap.Duration("threshold", g.slowThreshold))...)
	case g.level >= glogger.Info:
		g.log.Info("sql trace", fields...)
	}
}
