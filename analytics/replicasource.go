package analytics

import (
	"context"
	"time"

	"github.com/modaops/datakit/db"
	"github.com/modaops/datakit/logger"
)

// replicaQuery is the most-degraded rollup: scanning order rows on the
// replica is slower and lags replication, but it keeps the dashboard alive
// when both the API and the warehouse are down.
const replicaQuery = `
SELECT
    marketplace,
    COUNT(*)               AS orders,
    SUM(quantity)          AS units,
    SUM(gross_amount)      AS revenue,
    SUM(commission_amount) AS commission
FROM sales_orders
WHERE created_at >= DATE_SUB(CURDATE(), INTERVAL 30 DAY)
GROUP BY marketplace
ORDER BY revenue DESC`

// ReplicaSource reconstructs the snapshot from the MySQL read replica.
// Last entry of the fallback chain.
type ReplicaSource struct {
	log     logger.Logger
	replica db.Replica
}

// NewReplicaSource creates the replica fallback over an existing replica
// handle.
func NewReplicaSource(log logger.Logger, replica db.Replica) (*ReplicaSource, error) {
	if replica == nil {
		return nil, ErrInvalidConfig("replica is required")
	}
	return &ReplicaSource{log: log, replica: replica}, nil
}

func (s *ReplicaSource) Name() string { return "analytics-replica" }

func (s *ReplicaSource) Fetch(ctx context.Context) (Snapshot, error) {
	gdb, err := s.replica.DB()
	if err != nil {
		return Snapshot{}, ErrQuery("replica", err)
	}

	var stats []MarketplaceStat
	if err := gdb.WithContext(ctx).Raw(replicaQuery).Scan(&stats).Error; err != nil {
		return Snapshot{}, ErrQuery("replica", err)
	}
	if len(stats) == 0 {
		return Snapshot{}, ErrEmptyResult
	}

	return buildSnapshot(time.Now(), stats), nil
}
