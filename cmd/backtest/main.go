package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"yt-opinion-backtest/internal/backtest"
	"yt-opinion-backtest/internal/logger"
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
	reportOnly := flag.Bool("report-only", false, "rebuild the report from saved returns without re-evaluating")
	flag.Parse()

	ctx := context.Background()
	defer trace.Shutdown(ctx)

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, *reportOnly); err != nil {
		logger.ErrorWithErr(ctx, "Backtest failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *store.Config, reportOnly bool) error {
	for _, p := range []string{cfg.Backtest.ReportCSV, cfg.Backtest.ReturnsJSON} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return err
		}
	}

	if reportOnly {
		records, err := backtest.LoadReturnsCSV(cfg.Backtest.ReturnsCSV)
		if err != nil {
			return err
		}
		if err := backtest.WriteReportFile(cfg.Backtest.ReportCSV, records); err != nil {
			return err
		}
		logger.Info(ctx, "Report rebuilt", "file", cfg.Backtest.ReportCSV, "records", len(records))
		return nil
	}

	st, err := store.NewPriceStore(cfg.Prices.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	reg, err := st.MissingRegistry(ctx)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Missing-ticker registry loaded", "tickers", reg.Len())

	mentions, err := backtest.LoadMentions(cfg.Extract.MentionsCSV, cfg.Backtest.MinDate, cfg.Backtest.MaxDate)
	if err != nil {
		return err
	}

	records := backtest.EvaluateAll(ctx, mentions, cfg.Backtest.Offsets, st, reg)

	if err := backtest.SaveReturnsJSON(cfg.Backtest.ReturnsJSON, records); err != nil {
		return err
	}
	if cfg.Backtest.ReturnsCSV != "" {
		if err := backtest.SaveReturnsCSV(cfg.Backtest.ReturnsCSV, records); err != nil {
			return err
		}
	}
	if err := backtest.WriteReportFile(cfg.Backtest.ReportCSV, records); err != nil {
		return err
	}

	logger.Info(ctx, "Backtest completed",
		"mentions", len(mentions), "evaluated", len(records), "report", cfg.Backtest.ReportCSV)
	return nil
}
