package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/joho/godotenv"

	"yt-opinion-backtest/internal/logger"
	"yt-opinion-backtest/internal/store"
	"yt-opinion-backtest/internal/trace"
	"yt-opinion-backtest/internal/transcript"
	"yt-opinion-backtest/internal/types"
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
	step := flag.String("step", "all", "pipeline step: list, meta, transcripts, or all")
	flag.Parse()

	ctx := context.Background()
	defer trace.Shutdown(ctx)

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, *step); err != nil {
		logger.ErrorWithErr(ctx, "Scrape stage failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *store.Config, step string) error {
	s := transcript.NewScraper(30 * time.Second)

	if step == "all" || step == "list" {
		videos, err := s.ChannelVideos(ctx, cfg.Scrape.ChannelURL, cfg.Scrape.VideoLimit)
		if err != nil {
			return err
		}
		if err := saveVideoCSV(cfg.Scrape.VideoListCSV, videos); err != nil {
			return err
		}
		logger.Info(ctx, "Video list saved", "file", cfg.Scrape.VideoListCSV, "videos", len(videos))
	}

	if step == "all" || step == "meta" {
		videos, err := loadVideoCSV(cfg.Scrape.VideoListCSV)
		if err != nil {
			return err
		}
		metas := make([]types.VideoMeta, 0, len(videos))
		for i, v := range videos {
			meta, err := s.VideoMetadata(ctx, v.URL)
			if err != nil {
				logger.ErrorWithErr(ctx, "Metadata fetch failed", err, "video", v.ID)
				continue
			}
			metas = append(metas, meta)
			logger.Info(ctx, "Metadata fetched", "video", meta.ID, "progress", fmt.Sprintf("%d/%d", i+1, len(videos)))
		}
		if err := saveVideoCSV(cfg.Scrape.MetadataCSV, metas); err != nil {
			return err
		}
		logger.Info(ctx, "Metadata saved", "file", cfg.Scrape.MetadataCSV, "videos", len(metas))
	}

	if step == "all" || step == "transcripts" {
		metas, err := loadVideoCSV(cfg.Scrape.MetadataCSV)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(cfg.Scrape.TranscriptDir, 0o755); err != nil {
			return err
		}
		saved := 0
		for i, m := range metas {
			if m.UploadDate == "" {
				logger.Skip(ctx, m.ID, "no_upload_date")
				continue
			}
			outPath := filepath.Join(cfg.Scrape.TranscriptDir, m.UploadDate+".txt")
			if _, err := os.Stat(outPath); err == nil {
				logger.Debug(ctx, "Transcript already present", "video", m.ID, "file", outPath)
				continue
			}

			text, err := s.FetchTranscript(ctx, m.URL)
			if err != nil {
				logger.ErrorWithErr(ctx, "Transcript fetch failed", err, "video", m.ID)
				continue
			}
			if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			saved++
			logger.Info(ctx, "Transcript saved", "video", m.ID,
				"progress", fmt.Sprintf("%d/%d", i+1, len(metas)), "title", m.Title)
		}
		logger.Info(ctx, "Transcript scraping completed", "saved", saved, "of", len(metas))
	}

	return nil
}

func saveVideoCSV(path string, videos []types.VideoMeta) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&videos, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func loadVideoCSV(path string) ([]types.VideoMeta, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	var videos []types.VideoMeta
	if err := gocsv.UnmarshalFile(f, &videos); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return videos, nil
}
