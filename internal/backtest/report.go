package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"

	"yt-opinion-backtest/internal/types"
)

// PercentReturns converts an offset price list into percentage returns
// relative to its first entry. The baseline is the first offset price, not
// the mention-date price; downstream analysis depends on this exact
// behavior. When the baseline is nil or zero every entry is nil.
func PercentReturns(prices types.FloatList) []*float64 {
	out := make([]*float64, len(prices))
	if len(prices) == 0 {
		return out
	}
	p0 := prices[0]
	if p0 == nil || *p0 == 0 {
		return out
	}
	for i, p := range prices {
		if p == nil {
			continue
		}
		v := round2((*p - *p0) / *p0 * 100)
		out[i] = &v
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WriteReport emits the tabular percentage-return report: one row per
// record, one nday_{i}_r column per offset position. Null percentages are
// written as empty cells.
func WriteReport(w io.Writer, records []types.ReturnRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	ncols := 0
	for _, r := range records {
		if len(r.NDaysList) > ncols {
			ncols = len(r.NDaysList)
		}
	}

	headers := []string{"ticker", "date_mentioned", "extra_days", "price_on_mentioned"}
	for i := 0; i < ncols; i++ {
		headers = append(headers, fmt.Sprintf("nday_%d_r", i))
	}
	if err := cw.Write(headers); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Ticker,
			r.DateMentioned,
			fmt.Sprintf("%d", r.ExtraDays),
			formatPrice(r.PriceOnMentioned),
		}
		returns := PercentReturns(r.PriceList)
		for i := 0; i < ncols; i++ {
			if i < len(returns) && returns[i] != nil {
				row = append(row, fmt.Sprintf("%.2f", *returns[i]))
			} else {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteReportFile writes the report to path, creating parent-less files in
// place (directories must already exist).
func WriteReportFile(path string, records []types.ReturnRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()
	return WriteReport(f, records)
}

func formatPrice(p *float64) string {
	if p == nil {
		return ""
	}
	return fmt.Sprintf("%.4f", *p)
}
