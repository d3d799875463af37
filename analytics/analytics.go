// Package analytics provides the marketplace analytics resource shared by
// the moda dashboard: one coordinated snapshot of sales performance across
// marketplaces, fetched through a degrading fallback chain.
//
// The chain, primary first:
//  1. APISource — the marketplace analytics REST API
//  2. WarehouseSource — aggregates computed from the ClickHouse warehouse
//  3. ReplicaSource — a rollup query against the MySQL read replica
//
// Consumers bind to the coordinator (see the coordinator package); the Feed
// republishes successful snapshot updates to Kafka, and RefreshTask
// revalidates the snapshot on a cron schedule.
package analytics

import (
	"time"

	"github.com/modaops/datakit/coordinator"
	"github.com/modaops/datakit/logger"
	"github.com/shopspring/decimal"
)

// ResourceName keys the shared coordinator for marketplace analytics.
const ResourceName = "marketplace-analytics"

// periodLast30Days is the reporting window all sources agree on.
const periodLast30Days = "last_30d"

// Snapshot is the analytics payload. Money fields are decimals: commission
// and payout figures must survive aggregation without float drift.
type Snapshot struct {
	Period         string            `json:"period"`
	GeneratedAt    time.Time         `json:"generated_at"`
	Orders         int64             `json:"orders"`
	UnitsSold      int64             `json:"units_sold"`
	Revenue        decimal.Decimal   `json:"revenue"`
	Commission     decimal.Decimal   `json:"commission"`
	NetPayout      decimal.Decimal   `json:"net_payout"`
	AvgOrderValue  decimal.Decimal   `json:"avg_order_value"`
	ConversionRate float64           `json:"conversion_rate"`
	Marketplaces   []MarketplaceStat `json:"marketplaces"`
}

// MarketplaceStat is the per-marketplace breakdown row.
type MarketplaceStat struct {
	Marketplace string          `json:"marketplace"`
	Orders      int64           `json:"orders"`
	Units       int64           `json:"units"`
	Revenue     decimal.Decimal `json:"revenue"`
	Commission  decimal.Decimal `json:"commission"`
}

// New assembles the shared coordinator over the given sources, primary
// first. A nil config uses the standard resource name with default policy.
func New(
	log logger.Logger,
	cfg *coordinator.Config,
	sources ...coordinator.Source[Snapshot],
) (*coordinator.Coordinator[Snapshot], error) {
	if cfg == nil {
		cfg = &coordinator.Config{Name: ResourceName}
	}
	return coordinator.New(log, cfg, sources...)
}

// buildSnapshot totals the breakdown rows into a Snapshot. Used by the
// fallback sources that reconstruct the payload from raw rollups; the
// conversion rate needs session counts only the API has, so it stays zero
// on degraded paths.
func buildSnapshot(generatedAt time.Time, rows []MarketplaceStat) Snapshot {
	s := Snapshot{
		Period:       periodLast30Days,
		GeneratedAt:  generatedAt,
		Marketplaces: rows,
	}
	for _, r := range rows {
		s.Orders += r.Orders
		s.UnitsSold += r.Units
		s.Revenue = s.Revenue.Add(r.Revenue)
		s.Commission = s.Commission.Add(r.Commission)
	}
	s.NetPayout = s.Revenue.Sub(s.Commission)
	if s.Orders > 0 {
		s.AvgOrderValue = s.Revenue.DivRound(decimal.NewFromInt(s.Orders), 2)
	}
	return s
}
