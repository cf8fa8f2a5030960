package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"yt-opinion-backtest/internal/types"
)

func newTestStore(t *testing.T) *PriceStore {
	t.Helper()
	s, err := NewPriceStore(filepath.Join(t.TempDir(), "prices.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoadSeries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := &types.PriceSeries{Ticker: "TSLA", Close: map[string]float64{
		"2024-04-10": 170.0,
		"2024-04-11": math.NaN(), // null close, stored as NULL
	}}
	if err := s.SaveSeries(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Series(ctx, "TSLA")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out == nil || len(out.Close) != 2 {
		t.Fatalf("loaded series = %+v, want 2 points", out)
	}
	if out.Close["2024-04-10"] != 170.0 {
		t.Errorf("close[2024-04-10] = %v, want 170.0", out.Close["2024-04-10"])
	}
	if !math.IsNaN(out.Close["2024-04-11"]) {
		t.Errorf("close[2024-04-11] = %v, want NaN for a NULL row", out.Close["2024-04-11"])
	}
}

func TestSeriesAbsentTicker(t *testing.T) {
	s := newTestStore(t)

	out, err := s.Series(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if out != nil {
		t.Errorf("absent ticker returned %+v, want nil", out)
	}
}

func TestSaveSeriesUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := &types.PriceSeries{Ticker: "AAPL", Close: map[string]float64{"2024-04-10": 150.0}}
	second := &types.PriceSeries{Ticker: "AAPL", Close: map[string]float64{"2024-04-10": 151.0}}
	if err := s.SaveSeries(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveSeries(ctx, second); err != nil {
		t.Fatal(err)
	}

	out, err := s.Series(ctx, "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	if out.Close["2024-04-10"] != 151.0 {
		t.Errorf("close = %v, want the re-downloaded 151.0", out.Close["2024-04-10"])
	}
}

func TestMissingRegistry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.MarkMissing(ctx, 0, []string{"DEAD", "GONE"}); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if err := s.MarkMissing(ctx, 1, []string{"DEAD"}); err != nil { // re-mark in a later chunk
		t.Fatalf("re-mark: %v", err)
	}

	reg, err := s.MissingRegistry(ctx)
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	if reg.Len() != 2 {
		t.Errorf("registry size = %d, want 2", reg.Len())
	}
	if !reg.Contains("DEAD") || !reg.Contains("GONE") {
		t.Error("registry missing marked tickers")
	}
	if reg.Contains("TSLA") {
		t.Error("registry contains unmarked ticker")
	}
}
