package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"yt-opinion-backtest/internal/backtest"
	"yt-opinion-backtest/internal/logger"
	"yt-opinion-backtest/internal/prices"
	"yt-opinion-backtest/internal/store"
	"yt-opinion-backtest/internal/trace"
)

func main() {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	ctx := context.Background()
	defer trace.Shutdown(ctx)

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		logger.ErrorWithErr(ctx, "Price download failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *store.Config) error {
	records, err := backtest.LoadMentions(cfg.Extract.MentionsCSV, cfg.Backtest.MinDate, cfg.Backtest.MaxDate)
	if err != nil {
		return err
	}
	symbols := backtest.UniqueTickers(records)
	logger.Info(ctx, "Tickers collected", "mentions", len(records), "tickers", len(symbols))

	start, err := time.Parse("2006-01-02", cfg.Prices.StartDate)
	if err != nil {
		return fmt.Errorf("invalid prices.start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", cfg.Prices.EndDate)
	if err != nil {
		return fmt.Errorf("invalid prices.end_date: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Prices.DBPath), 0o755); err != nil {
		return err
	}
	st, err := store.NewPriceStore(cfg.Prices.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	fetcher := prices.NewYahooFetcher(cfg.Prices.ProxyURL, time.Duration(cfg.Prices.TimeoutSecs)*time.Second)

	dl := prices.NewDownloader(fetcher, st, cfg.Prices.ChunkSize,
		time.Duration(cfg.Prices.PauseSeconds)*time.Second)
	lut, err := dl.DownloadAll(ctx, symbols, start, end)
	if err != nil {
		return err
	}

	if cfg.Prices.ReverseLUT != "" {
		if err := prices.SaveReverseLUT(cfg.Prices.ReverseLUT, lut); err != nil {
			return err
		}
	}

	logger.Info(ctx, "Price download completed", "tickers", len(symbols), "db", cfg.Prices.DBPath)
	return nil
}
