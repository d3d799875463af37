package db

import (
	"context"
	"strings"

	"github.com/modaops/datakit/logger"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

type mysqlReplica struct {
	log logger.Logger
	db  *gorm.DB
}

// NewReplica opens a connection pool to a MySQL replica and pings it.
func NewReplica(log logger.Logger, cfg *Config) (Replica, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig("config is required")
	}
	cfg = cfg.MergeDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{
		Logger:      newGormLogger(log, cfg),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, ErrConnection(err)
	}
	sqldb, err := gdb.DB()
	if err != nil {
		return nil, ErrConnection(err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqldb.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqldb.Ping(); err != nil {
		return nil, ErrConnection(err)
	}

	log.Info("replica connection established",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)
	return &mysqlReplica{log: log, db: gdb}, nil
}

func (r *mysqlReplica) DB() (*gorm.DB, error) {
	if r.db == nil {
		return nil, ErrNotConnected
	}
	return r.db, nil
}

func (r *mysqlReplica) Ping(ctx context.Context) error {
	sqldb, err := r.db.DB()
	if err != nil {
		return ErrConnection(err)
	}
	return sqldb.PingContext(ctx)
}

func (r *mysqlReplica) Close() error {
	sqldb, err := r.db.DB()
	if err != nil {
		return ErrConnection(err)
	}
	return sqldb.Close()
}

func gormLogLevel(level string) glogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return glogger.Silent
	case "error":
		return glogger.Error
	case "info":
		return glogger.Info
	default:
		return glogger.Warn
	}
}
