package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "scrape:\n  channel_url: https://www.youtube.com/@c\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.LLM.Provider != "OPENAI" {
		t.Errorf("provider = %q, want OPENAI", cfg.LLM.Provider)
	}
	if cfg.LLM.ChunkSize != 20 || cfg.Prices.ChunkSize != 20 {
		t.Errorf("chunk sizes = %d/%d, want 20/20", cfg.LLM.ChunkSize, cfg.Prices.ChunkSize)
	}
	if len(cfg.Backtest.Offsets) == 0 {
		t.Error("offsets default not applied")
	}

	// Every output path gets a default so stages work from a minimal config.
	if cfg.Backtest.ReturnsJSON != "output/returns.json" {
		t.Errorf("returns_json = %q", cfg.Backtest.ReturnsJSON)
	}
	if cfg.Backtest.ReturnsCSV != "output/returns.csv" {
		t.Errorf("returns_csv = %q", cfg.Backtest.ReturnsCSV)
	}
	if cfg.Backtest.ReportCSV != "output/report.csv" {
		t.Errorf("report_csv = %q", cfg.Backtest.ReportCSV)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	if _, err := LoadConfig(writeConfig(t, "llm:\n  provider: GEMINI\n")); err == nil {
		t.Error("unknown provider should fail validation")
	}
	if _, err := LoadConfig(writeConfig(t, "backtest:\n  offsets: [1, -7]\n")); err == nil {
		t.Error("negative offset should fail validation")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing file should return an error")
	}
}
