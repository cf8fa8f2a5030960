package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"

	"yt-opinion-backtest/internal/interfaces"
	"yt-opinion-backtest/internal/llm"
	"yt-opinion-backtest/internal/llm/claude"
	"yt-opinion-backtest/internal/llm/openai"
	"yt-opinion-backtest/internal/logger"
	"yt-opinion-backtest/internal/mentions"
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
	step := flag.String("step", "all", "pipeline step: opinions, merge, or all")
	flag.Parse()

	ctx := context.Background()
	defer trace.Shutdown(ctx)

	cfg, err := store.LoadConfig(*configPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		os.Exit(1)
	}

	extractor, err := initializeExtractor(cfg)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize extractor", err)
		os.Exit(1)
	}
	logger.Info(ctx, "Extractor initialized", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	if *step == "all" || *step == "opinions" {
		if err := extractAll(ctx, cfg, extractor); err != nil {
			logger.ErrorWithErr(ctx, "Opinion extraction failed", err)
			os.Exit(1)
		}
	}

	if *step == "all" || *step == "merge" {
		if err := mergeAndFill(ctx, cfg, extractor); err != nil {
			logger.ErrorWithErr(ctx, "Mention merge failed", err)
			os.Exit(1)
		}
	}
}

func initializeExtractor(cfg *store.Config) (interfaces.Extractor, error) {
	switch cfg.LLM.Provider {
	case "OPENAI":
		return openai.NewOpenAIExtractor(cfg), nil
	case "CLAUDE":
		return claude.NewClaudeExtractor(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}
}

// extractAll runs the opinion extraction prompt over every transcript that
// does not yet have an extraction file, writing one JSON file per video.
func extractAll(ctx context.Context, cfg *store.Config, extractor interfaces.Extractor) error {
	entries, err := os.ReadDir(cfg.Scrape.TranscriptDir)
	if err != nil {
		return fmt.Errorf("read transcript dir: %w", err)
	}
	if err := os.MkdirAll(cfg.Extract.ExtractedDir, 0o755); err != nil {
		return err
	}

	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	done := 0
	for i, name := range names {
		date := strings.TrimSuffix(name, ".txt")
		outPath := filepath.Join(cfg.Extract.ExtractedDir, date+".json")
		if _, err := os.Stat(outPath); err == nil {
			logger.Debug(ctx, "Extraction already present", "file", outPath)
			continue
		}

		text, err := os.ReadFile(filepath.Join(cfg.Scrape.TranscriptDir, name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}

		opinions, err := extractor.ExtractOpinions(ctx, string(text))
		if err != nil {
			logger.ErrorWithErr(ctx, "Extraction failed", err, "transcript", name)
			continue
		}

		data, err := json.MarshalIndent(opinions, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		done++
		logger.Info(ctx, "Opinions extracted", "transcript", name,
			"opinions", len(opinions), "progress", fmt.Sprintf("%d/%d", i+1, len(names)))
	}
	logger.Info(ctx, "Opinion extraction completed", "extracted", done, "of", len(names))
	return nil
}

// mergeAndFill flattens the per-video extraction files into the mention
// table, resolves missing ticker symbols through the LLM in chunks, and
// writes the table plus the list of companies that stayed unresolved.
func mergeAndFill(ctx context.Context, cfg *store.Config, extractor interfaces.Extractor) error {
	records, err := mentions.MergeExtracted(cfg.Extract.ExtractedDir)
	if err != nil {
		return err
	}
	logger.Info(ctx, "Mentions merged", "records", len(records))

	missing := mentions.MissingCompanies(records)
	if len(missing) > 0 {
		logger.Info(ctx, "Resolving missing tickers", "companies", len(missing))

		for i, chunk := range llm.Chunk(missing, cfg.LLM.ChunkSize) {
			mappings, err := extractor.MapTickers(ctx, chunk)
			if err != nil {
				logger.ErrorWithErr(ctx, "Ticker mapping failed", err, "chunk", i)
				continue
			}
			filled, _ := mentions.FillMissingCodes(records, mappings)
			logger.Info(ctx, "Ticker chunk resolved", "chunk", i, "filled", filled)
		}
	}

	if err := mentions.SaveCSV(cfg.Extract.MentionsCSV, records); err != nil {
		return err
	}

	unresolved := mentions.MissingCompanies(records)
	data, err := json.MarshalIndent(unresolved, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfg.Extract.MissingJSON, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", cfg.Extract.MissingJSON, err)
	}

	logger.Info(ctx, "Mention table saved", "file", cfg.Extract.MentionsCSV,
		"records", len(records), "unresolved", len(unresolved))
	return nil
}
