package backtest

import (
	"testing"
	"time"

	"yt-opinion-backtest/internal/types"
)

func seriesWith(dates ...string) *types.PriceSeries {
	s := &types.PriceSeries{Ticker: "TEST", Close: map[string]float64{}}
	for i, d := range dates {
		s.Close[d] = 100 + float64(i)
	}
	return s
}

func day(s string) time.Time {
	t, err := time.Parse(dateKeyLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveNextTradingDaySkipsGap(t *testing.T) {
	// Friday mention, next data point on Monday.
	s := seriesWith("2024-04-12", "2024-04-15")

	key, d, extra := ResolveNextTradingDay(s, day("2024-04-12"))
	if key != "2024-04-15" {
		t.Errorf("resolved key = %q, want 2024-04-15", key)
	}
	if extra != 3 {
		t.Errorf("extra days = %d, want 3", extra)
	}
	if d.Format(dateKeyLayout) != key {
		t.Errorf("resolved time %v does not match key %s", d, key)
	}
}

func TestResolveNextTradingDayNeverReturnsTarget(t *testing.T) {
	// The scan starts one day after the target even when the target itself
	// has data. Exact matches are the caller's job.
	s := seriesWith("2024-04-10", "2024-04-11")

	key, _, extra := ResolveNextTradingDay(s, day("2024-04-10"))
	if key != "2024-04-11" || extra != 1 {
		t.Errorf("got (%q, %d), want (2024-04-11, 1)", key, extra)
	}
}

func TestResolveNextTradingDayBounded(t *testing.T) {
	s := seriesWith("2024-01-02")

	// Nothing within 100 days after the last data point.
	key, d, extra := ResolveNextTradingDay(s, day("2024-03-01"))
	if key != "" || !d.IsZero() || extra != 0 {
		t.Errorf("want not-found sentinel, got (%q, %v, %d)", key, d, extra)
	}
}

func TestResolveNextTradingDayAtBoundEdge(t *testing.T) {
	target := day("2024-01-01")
	s := seriesWith(target.AddDate(0, 0, 100).Format(dateKeyLayout))

	key, _, extra := ResolveNextTradingDay(s, target)
	if extra != 100 {
		t.Errorf("extra = %d, want 100 (bound is inclusive)", extra)
	}
	if key == "" {
		t.Error("data point exactly 100 days out should resolve")
	}
}

func TestParseMentionDate(t *testing.T) {
	cases := []struct {
		in   int
		want string
		ok   bool
	}{
		{20240410, "2024-04-10", true},
		{20241231, "2024-12-31", true},
		{20241301, "", false}, // month 13
		{20240230, "", false}, // Feb 30
		{2024041, "", false},  // seven digits
		{0, "", false},
	}

	for _, c := range cases {
		got, ok := parseMentionDate(c.in)
		if ok != c.ok {
			t.Errorf("parseMentionDate(%d) ok = %v, want %v", c.in, ok, c.ok)
			continue
		}
		if ok && got.Format(dateKeyLayout) != c.want {
			t.Errorf("parseMentionDate(%d) = %s, want %s", c.in, got.Format(dateKeyLayout), c.want)
		}
	}
}
