package analytics

import (
	"context"
	"time"

	"github.com/modaops/datakit/ch"
	"github.com/modaops/datakit/logger"
	"github.com/shopspring/decimal"
)

// warehouseQuery aggregates the 30-day sales rollup per marketplace.
// Casts keep the scan types stable across schema revisions.
const warehouseQuery = `
SELECT
    marketplace,
    CAST(count() AS Int64)       AS orders,
    CAST(sum(quantity) AS Int64) AS units,
    sum(gross_amount)            AS revenue,
    sum(commission_amount)       AS commission
FROM sales_events
WHERE event_date >= today() - 30
GROUP BY marketplace
ORDER BY revenue DESC`

// WarehouseSource reconstructs the snapshot from the ClickHouse warehouse.
// First fallback when the analytics API is down.
type WarehouseSource struct {
	log    logger.Logger
	client ch.Client
}

// NewWarehouseSource creates the warehouse fallback over an existing
// ClickHouse client.
func NewWarehouseSource(log logger.Logger, client ch.Client) (*WarehouseSource, error) {
	if client == nil {
		return nil, ErrInvalidConfig("clickhouse client is required")
	}
	return &WarehouseSource{log: log, client: client}, nil
}

func (s *WarehouseSource) Name() string { return "analytics-warehouse" }

func (s *WarehouseSource) Fetch(ctx context.Context) (Snapshot, error) {
	rows, err := s.client.Query(ctx, warehouseQuery)
	if err != nil {
		return Snapshot{}, ErrQuery("warehouse", err)
	}
	defer rows.Close()

	var stats []MarketplaceStat
	for rows.Next() {
		var (
			marketplace         string
			orders, units       int64
			revenue, commission decimal.Decimal
		)
		if err := rows.Scan(&marketplace, &orders, &units, &revenue, &commission); err != nil {
			return Snapshot{}, ErrQuery("warehouse", err)
		}
		stats = append(stats, MarketplaceStat{
			Marketplace: marketplace,
			Orders:      orders,
			Units:       units,
			Revenue:     revenue,
			Commission:  commission,
		})
	}
	if err := rows.Err(); err != nil {
		return Snapshot{}, ErrQuery("warehouse", err)
	}
	if len(stats) == 0 {
		return Snapshot{}, ErrEmptyResult
	}

	return buildSnapshot(time.Now(), stats), nil
}
