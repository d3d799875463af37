// Package ch provides a ClickHouse query client for the kit's warehouse
// reads.
//
// Only the read path lives here: analytics fallbacks query pre-aggregated
// warehouse tables. Event ingestion into ClickHouse belongs to the pipeline
// services, not this kit.
package ch

import (
	"context"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Client is the ClickHouse query interface.
type Client interface {
	// Query executes a query and returns driver.Rows
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	// QueryRow executes a query that is expected to return at most one row
	QueryRow(ctx context.Context, query string, args ...any) driver.Row
	// Ping verifies the connection is alive
	Ping(ctx context.Context) error
	// Close closes the client and its connection pool
	Close() error
}
