package analytics

import (
	"context"

	"github.com/modaops/datakit/coordinator"
	"github.com/modaops/datakit/logger"
)

// RefreshTask force-refreshes the shared snapshot on a cron schedule, so
// the first dashboard visitor of the day sees warm data instead of paying
// for the fetch. It implements cron.Task.
type RefreshTask struct {
	log   logger.Logger
	coord *coordinator.Coordinator[Snapshot]
}

// NewRefreshTask creates the scheduled revalidation task.
func NewRefreshTask(log logger.Logger, coord *coordinator.Coordinator[Snapshot]) *RefreshTask {
	return &RefreshTask{log: log, coord: coord}
}

func (t *RefreshTask) Name() string { return "analytics-refresh" }

// Run refreshes the snapshot. A failed pass is reported as an error so the
// cron middleware logs it; the coordinator keeps serving the previous
// snapshot either way.
func (t *RefreshTask) Run(ctx context.Context) error {
	st := t.coord.Refresh(ctx)
	return st.Err
}
