package backtest

import (
	"time"

	"yt-opinion-backtest/internal/types"
)

const dateKeyLayout = "2006-01-02"

// maxScanDays bounds the forward scan so resolving a date past the end of a
// finite series cannot loop into the indefinite future.
const maxScanDays = 100

// ResolveNextTradingDay finds the nearest date strictly after target that has
// a data point in the series. extraDays counts the calendar days advanced,
// starting at 1 for the first probe. When no present date exists within
// maxScanDays advances it returns the not-found sentinel ("", zero time, 0).
//
// Exact-match lookups never reach this function; callers check the target
// key first and report extraDays = 0 themselves.
func ResolveNextTradingDay(series *types.PriceSeries, target time.Time) (string, time.Time, int) {
	for extra := 1; extra <= maxScanDays; extra++ {
		d := target.AddDate(0, 0, extra)
		key := d.Format(dateKeyLayout)
		if series.Has(key) {
			return key, d, extra
		}
	}
	return "", time.Time{}, 0
}

// parseMentionDate converts an 8-digit YYYYMMDD integer into a calendar
// date. Values that do not form a real date (month 13, Feb 30, too few
// digits) report ok = false.
func parseMentionDate(yyyymmdd int) (time.Time, bool) {
	if yyyymmdd < 10000101 || yyyymmdd > 99991231 {
		return time.Time{}, false
	}
	y := yyyymmdd / 10000
	m := yyyymmdd / 100 % 100
	d := yyyymmdd % 100

	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
