package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/modaops/datakit/coordinator"
	"github.com/modaops/datakit/logger"
	"github.com/shopspring/decimal"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestBuildSnapshot_Totals(t *testing.T) {
	now := time.Now()
	rows := []MarketplaceStat{
		{Marketplace: "zalando", Orders: 80, Units: 120,
			Revenue: mustDecimal(t, "10200.00"), Commission: mustDecimal(t, "1530.00")},
		{Marketplace: "aboutyou", Orders: 40, Units: 60,
			Revenue: mustDecimal(t, "5100.50"), Commission: mustDecimal(t, "765.07")},
	}

	snap := buildSnapshot(now, rows)

	if snap.Period != periodLast30Days {
		t.Errorf("period = %q", snap.Period)
	}
	if snap.Orders != 120 || snap.UnitsSold != 180 {
		t.Errorf("totals = %d orders, %d units", snap.Orders, snap.UnitsSold)
	}
	if snap.Revenue.StringFixed(2) != "15300.50" {
		t.Errorf("revenue = %s", snap.Revenue)
	}
	if snap.Commission.StringFixed(2) != "2295.07" {
		t.Errorf("commission = %s", snap.Commission)
	}
	if snap.NetPayout.StringFixed(2) != "13005.43" {
		t.Errorf("net payout = %s", snap.NetPayout)
	}
	if snap.AvgOrderValue.StringFixed(2) != "127.50" {
		t.Errorf("avg order value = %s", snap.AvgOrderValue)
	}
	if snap.ConversionRate != 0 {
		t.Error("conversion rate must stay zero on degraded paths")
	}
}

func TestBuildSnapshot_NoOrders(t *testing.T) {
	snap := buildSnapshot(time.Now(), nil)
	if !snap.AvgOrderValue.IsZero() {
		t.Errorf("avg order value must be zero without orders, got %s", snap.AvgOrderValue)
	}
}

func TestNew_DefaultsResourceName(t *testing.T) {
	src := coordinator.SourceFunc[Snapshot]{
		SourceName: "stub",
		Fn: func(ctx context.Context) (Snapshot, error) {
			return Snapshot{Period: periodLast30Days}, nil
		},
	}

	coord, err := New(logger.Nop(), nil, src)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	st := coord.Fetch(context.Background(), coordinator.Options{})
	if st.Err != nil || st.Data == nil {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestRefreshTask_Run(t *testing.T) {
	var fail bool
	src := coordinator.SourceFunc[Snapshot]{
		SourceName: "stub",
		Fn: func(ctx context.Context) (Snapshot, error) {
			if fail {
				return Snapshot{}, fmt.Errorf("backend down")
			}
			return Snapshot{Period: periodLast30Days}, nil
		},
	}
	coord, err := New(logger.Nop(), nil, src)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	task := NewRefreshTask(logger.Nop(), coord)
	if task.Name() != "analytics-refresh" {
		t.Errorf("unexpected task name %q", task.Name())
	}
	if err := task.Run(context.Background()); err != nil {
		t.Fatalf("expected successful refresh, got %v", err)
	}

	fail = true
	if err := task.Run(context.Background()); err == nil {
		t.Fatal("expected error from failed refresh")
	}
}
