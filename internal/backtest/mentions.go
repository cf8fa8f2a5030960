package backtest

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"yt-opinion-backtest/internal/types"
)

// LoadMentions reads the merged mention table and applies the evaluation
// date window: rows outside (minDate, maxDate) are dropped. Zero bounds
// disable the corresponding check. Ticker validity is not enforced here;
// the batch evaluator skips and logs bad tickers individually.
func LoadMentions(path string, minDate, maxDate int) ([]types.MentionRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var all []types.MentionRecord
	if err := gocsv.UnmarshalFile(f, &all); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make([]types.MentionRecord, 0, len(all))
	for _, r := range all {
		if minDate != 0 && r.Date <= minDate {
			continue
		}
		if maxDate != 0 && r.Date >= maxDate {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// UniqueTickers returns the distinct normalized tickers of the records,
// in first-seen order. Unevaluable codes are skipped.
func UniqueTickers(records []types.MentionRecord) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range records {
		t, ok := NormalizeTicker(r.StockCode)
		if !ok {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
