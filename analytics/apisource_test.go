package analytics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/modaops/datakit/logger"
)

func newAPISourceFor(t *testing.T, handler http.HandlerFunc) *APISource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	src, err := NewAPISource(logger.Nop(), &APIConfig{URL: srv.URL})
	if err != nil {
		t.Fatalf("NewAPISource failed: %v", err)
	}
	return src
}

func TestAPISource_Fetch(t *testing.T) {
	src := newAPISourceFor(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("missing Accept header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"success": true,
			"data": {
				"period": "last_30d",
				"orders": 120,
				"units_sold": 180,
				"revenue": "15300.50",
				"commission": "2295.07",
				"net_payout": "13005.43",
				"avg_order_value": "127.50",
				"conversion_rate": 0.031,
				"marketplaces": [
					{"marketplace": "zalando", "orders": 80, "units": 120,
					 "revenue": "10200.00", "commission": "1530.00"}
				]
			}
		}`))
	})

	snap, err := src.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if snap.Orders != 120 || snap.Period != "last_30d" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Revenue.StringFixed(2) != "15300.50" {
		t.Fatalf("revenue = %s", snap.Revenue)
	}
	if len(snap.Marketplaces) != 1 || snap.Marketplaces[0].Marketplace != "zalando" {
		t.Fatalf("unexpected breakdown: %+v", snap.Marketplaces)
	}
}

func TestAPISource_Fetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"rejected", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": false, "error": "report not ready"}`))
		}},
		{"success without data", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"success": true}`))
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := newAPISourceFor(t, tt.handler)
			if _, err := src.Fetch(context.Background()); err == nil {
				t.Fatal("expected error, got nil")
			}
		})
	}
}

func TestAPISource_Fetch_MalformedSentinel(t *testing.T) {
	src := newAPISourceFor(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success": true}`))
	})
	_, err := src.Fetch(context.Background())
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestNewAPISource_InvalidConfig(t *testing.T) {
	if _, err := NewAPISource(logger.Nop(), nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := NewAPISource(logger.Nop(), &APIConfig{}); err == nil {
		t.Fatal("expected error for missing url")
	}
}
