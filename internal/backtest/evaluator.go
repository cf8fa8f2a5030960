package backtest

import (
	"context"
	"strings"
	"time"
	"unicode"

	"yt-opinion-backtest/internal/interfaces"
	"yt-opinion-backtest/internal/logger"
	"yt-opinion-backtest/internal/trace"
	"yt-opinion-backtest/internal/types"
)

// EvaluateMention resolves one mention date against a price series and reads
// the close at each forward day offset. ok = false when the date integer is
// unparseable or no trading day exists at or after the mention date.
//
// Offsets are independent: a missing or null price at one offset yields a
// nil entry with zero extra days and does not affect the others. The output
// lists are parallel to offsets and preserve its order.
func EvaluateMention(ticker string, mentionDate int, series *types.PriceSeries, offsets []int) (types.ReturnRecord, bool) {
	date, ok := parseMentionDate(mentionDate)
	if !ok {
		return types.ReturnRecord{}, false
	}

	key := date.Format(dateKeyLayout)
	anchor := date
	extra := 0
	if !series.Has(key) {
		rk, rd, re := ResolveNextTradingDay(series, date)
		if rk == "" {
			// No trading data anywhere after the mention date.
			return types.ReturnRecord{}, false
		}
		key, anchor, extra = rk, rd, re
	}
	base, _ := series.At(key)

	rec := types.ReturnRecord{
		Ticker:           ticker,
		DateMentioned:    key,
		ExtraDays:        extra,
		PriceOnMentioned: types.Float(base),
		NDaysList:        append(types.IntList(nil), offsets...),
		PriceList:        make(types.FloatList, 0, len(offsets)),
		ExtraDayList:     make(types.IntList, 0, len(offsets)),
	}

	for _, d := range offsets {
		price, extraDays := resolveOffset(series, anchor, d)
		rec.PriceList = append(rec.PriceList, price)
		rec.ExtraDayList = append(rec.ExtraDayList, extraDays)
	}

	return rec, true
}

// resolveOffset finds the close at anchor+days, scanning forward when that
// exact date has no data. Null closes and failed scans degrade to (nil, 0).
func resolveOffset(series *types.PriceSeries, anchor time.Time, days int) (*float64, int) {
	target := anchor.AddDate(0, 0, days)
	key := target.Format(dateKeyLayout)
	extra := 0
	if !series.Has(key) {
		rk, _, re := ResolveNextTradingDay(series, target)
		if rk == "" {
			return nil, 0
		}
		key, extra = rk, re
	}
	v, _ := series.At(key)
	price := types.Float(v)
	if price == nil {
		return nil, 0
	}
	return price, extra
}

// NormalizeTicker trims and uppercases a raw stock code and reports whether
// it is evaluable: non-empty, not the "N/A" placeholder, and a single token
// with no internal whitespace.
func NormalizeTicker(raw string) (string, bool) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" || t == "N/A" {
		return "", false
	}
	if strings.ContainsFunc(t, unicode.IsSpace) {
		return "", false
	}
	return t, true
}

// EvaluateAll walks the mention records in order and evaluates each against
// its ticker's stored price series. Records with bad tickers, registry hits,
// missing series, or unresolvable dates are logged and skipped; the batch
// never aborts, so the result is a best-effort subset of the input.
func EvaluateAll(ctx context.Context, records []types.MentionRecord, offsets []int, src interfaces.SeriesSource, reg interfaces.TickerRegistry) []types.ReturnRecord {
	ctx, span := trace.StartSpan(ctx, "evaluate-mentions")
	defer span.End()

	out := make([]types.ReturnRecord, 0, len(records))
	for _, r := range records {
		ticker, ok := NormalizeTicker(r.StockCode)
		if !ok {
			logger.Skip(ctx, r.StockCode, "invalid_ticker", "stock", r.Stock, "date", r.Date)
			continue
		}
		if reg != nil && reg.Contains(ticker) {
			logger.Skip(ctx, ticker, "known_missing", "date", r.Date)
			continue
		}

		series, err := src.Series(ctx, ticker)
		if err != nil {
			logger.ErrorWithErr(ctx, "Price series read failed", err, "ticker", ticker)
			continue
		}
		if series == nil || len(series.Close) == 0 {
			logger.Skip(ctx, ticker, "no_price_data", "date", r.Date)
			continue
		}

		rec, ok := EvaluateMention(ticker, r.Date, series, offsets)
		if !ok {
			logger.Skip(ctx, ticker, "unresolvable_date", "date", r.Date)
			continue
		}
		out = append(out, rec)
	}

	logger.Info(ctx, "Batch evaluation completed",
		"input", len(records), "evaluated", len(out), "skipped", len(records)-len(out))
	return out
}
