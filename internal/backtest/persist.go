package backtest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"yt-opinion-backtest/internal/types"
)

// SaveReturnsJSON persists evaluated records as indented JSON.
func SaveReturnsJSON(path string, records []types.ReturnRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal returns: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadReturnsJSON reads records back from JSON. A malformed file is a fatal
// error for the calling stage; it indicates corrupted pipeline state.
func LoadReturnsJSON(path string) ([]types.ReturnRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var records []types.ReturnRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}

// SaveReturnsCSV persists evaluated records as CSV. List-valued fields are
// written as their JSON literal text in a single cell.
func SaveReturnsCSV(path string, records []types.ReturnRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadReturnsCSV reads records back from CSV, parsing the literal list text
// in each list cell before any percentage computation happens.
func LoadReturnsCSV(path string) ([]types.ReturnRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	var records []types.ReturnRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return records, nil
}
