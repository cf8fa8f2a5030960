package prices

import (
	"context"
	"time"

	"yt-opinion-backtest/internal/interfaces"
	"yt-opinion-backtest/internal/logger"
	"yt-opinion-backtest/internal/store"
	"yt-opinion-backtest/internal/trace"
)

// Downloader fetches daily close series in chunks and persists them,
// recording failed tickers per chunk in the missing-ticker table.
type Downloader struct {
	fetcher   interfaces.PriceFetcher
	store     *store.PriceStore
	chunkSize int
	pause     time.Duration
}

func NewDownloader(fetcher interfaces.PriceFetcher, st *store.PriceStore, chunkSize int, pause time.Duration) *Downloader {
	return &Downloader{
		fetcher:   fetcher,
		store:     st,
		chunkSize: chunkSize,
		pause:     pause,
	}
}

// DownloadAll fetches and stores every symbol's series for the date window,
// pausing between chunks to respect the upstream rate limit. Individual
// fetch failures mark the ticker missing and continue; the returned lookup
// table maps each ticker to its chunk index.
func (d *Downloader) DownloadAll(ctx context.Context, symbols []string, start, end time.Time) (map[string]int, error) {
	ctx, span := trace.StartSpan(ctx, "download-prices")
	defer span.End()

	chunks := ChunkSymbols(symbols, d.chunkSize)
	lut := BuildReverseLUT(chunks)
	logger.Info(ctx, "Starting price download",
		"symbols", len(symbols), "chunks", len(chunks), "chunk_size", d.chunkSize)

	for idx, chunk := range chunks {
		failed := []string{}
		for _, symbol := range chunk {
			series, err := d.fetcher.FetchDailyCloses(ctx, symbol, start, end)
			if err != nil {
				logger.ErrorWithErr(ctx, "Price download failed", err, "ticker", symbol, "chunk", idx)
				failed = append(failed, symbol)
				continue
			}
			if err := d.store.SaveSeries(ctx, series); err != nil {
				return nil, err
			}
			logger.Debug(ctx, "Series stored", "ticker", symbol, "points", len(series.Close))
		}

		if len(failed) > 0 {
			if err := d.store.MarkMissing(ctx, idx, failed); err != nil {
				return nil, err
			}
		}
		logger.Info(ctx, "Chunk downloaded",
			"chunk", idx+1, "of", len(chunks), "failed", len(failed))

		// Rate limiting between chunks
		if idx < len(chunks)-1 && d.pause > 0 {
			time.Sleep(d.pause)
		}
	}

	return lut, nil
}
