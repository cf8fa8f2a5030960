// Package mentions builds the merged mention table out of the per-video
// extraction results and fills missing ticker symbols from LLM mappings.
package mentions

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"yt-opinion-backtest/internal/types"
)

// MergeExtracted reads every per-video extraction file (<YYYYMMDD>.json or
// <YYYYMMDD>_<model>.json) in dir and flattens it into dated mention
// records. Within one video, repeated mentions of the same stock collapse
// to the first occurrence. Files whose name does not start with an 8-digit
// date are ignored.
func MergeExtracted(dir string) ([]types.MentionRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	names := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	records := []types.MentionRecord{}
	for _, name := range names {
		date, ok := dateFromFilename(name)
		if !ok {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		var opinions []types.Opinion
		if err := json.Unmarshal(data, &opinions); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}

		seen := map[string]struct{}{}
		for _, o := range opinions {
			if o.Stock == "" {
				continue
			}
			if _, dup := seen[o.Stock]; dup {
				continue
			}
			seen[o.Stock] = struct{}{}
			records = append(records, types.MentionRecord{
				Stock:     o.Stock,
				StockCode: o.StockCode,
				Opinion:   o.Opinion,
				Source:    o.Source,
				Quote:     o.Quote,
				Date:      date,
			})
		}
	}

	return records, nil
}

// dateFromFilename extracts the 8-digit date prefix of an extraction file.
func dateFromFilename(name string) (int, bool) {
	base := strings.TrimSuffix(name, ".json")
	if i := strings.IndexByte(base, '_'); i >= 0 {
		base = base[:i]
	}
	if len(base) != 8 {
		return 0, false
	}
	d, err := strconv.Atoi(base)
	if err != nil {
		return 0, false
	}
	return d, true
}

// MissingCompanies lists the distinct stock names that still have no ticker
// symbol, in first-seen order.
func MissingCompanies(records []types.MentionRecord) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range records {
		if r.StockCode != "" {
			continue
		}
		if _, dup := seen[r.Stock]; dup {
			continue
		}
		seen[r.Stock] = struct{}{}
		out = append(out, r.Stock)
	}
	return out
}

// FillMissingCodes fills empty stock codes in place from LLM company→ticker
// mappings. "N/A" mappings are treated as unresolved and left empty. It
// returns how many records were filled and which company names remain
// unresolved.
func FillMissingCodes(records []types.MentionRecord, mappings []types.TickerMapping) (int, []string) {
	s2c := map[string]string{}
	for _, m := range mappings {
		if m.Company == "" || m.Ticker == "" || m.Ticker == "N/A" {
			continue
		}
		s2c[m.Company] = m.Ticker
	}

	filled := 0
	left := []string{}
	seenLeft := map[string]struct{}{}
	for i := range records {
		if records[i].StockCode != "" {
			continue
		}
		if code, ok := s2c[records[i].Stock]; ok {
			records[i].StockCode = code
			filled++
			continue
		}
		if _, dup := seenLeft[records[i].Stock]; !dup {
			seenLeft[records[i].Stock] = struct{}{}
			left = append(left, records[i].Stock)
		}
	}
	return filled, left
}

// SaveCSV writes the mention table.
func SaveCSV(path string, records []types.MentionRecord) error {
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
