package interfaces

import (
	"context"
	"time"

	"yt-opinion-backtest/internal/types"
)

// PriceFetcher downloads a ticker's daily close series for a date window.
type PriceFetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string, start, end time.Time) (*types.PriceSeries, error)
}

// SeriesSource is the read side of the price store used by the evaluator.
// Implementations return (nil, nil) for unknown tickers.
type SeriesSource interface {
	Series(ctx context.Context, ticker string) (*types.PriceSeries, error)
}

// TickerRegistry answers whether a ticker is known to have no price data.
type TickerRegistry interface {
	Contains(ticker string) bool
}
