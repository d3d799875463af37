// Package db provides MySQL read-replica access for the kit's most-degraded
// analytics fallback.
package db

import (
	"context"

	"gorm.io/gorm"
)

// Replica is a read-only handle on a MySQL replica.
type Replica interface {
	// DB returns the underlying gorm handle for running queries
	DB() (*gorm.DB, error)
	// Ping verifies the connection is alive
	Ping(ctx context.Context) error
	// Close closes the connection pool
	Close() error
}
