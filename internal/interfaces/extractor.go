package interfaces

import (
	"context"

	"yt-opinion-backtest/internal/types"
)

type Extractor interface {
	// ExtractOpinions pulls stock opinions out of one cleaned transcript.
	ExtractOpinions(ctx context.Context, transcript string) ([]types.Opinion, error)

	// MapTickers resolves company names to ticker symbols. Callers chunk the
	// input; implementations send one request per call.
	MapTickers(ctx context.Context, companies []string) ([]types.TickerMapping, error)
}
