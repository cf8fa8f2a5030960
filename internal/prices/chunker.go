package prices

import (
	"encoding/json"
	"fmt"
	"os"
)

// ChunkSymbols splits the ticker list into download groups of at most size.
// The batch download API is rate limited, so each group becomes one paced
// request burst.
func ChunkSymbols(symbols []string, size int) [][]string {
	if size <= 0 {
		size = 20
	}
	chunks := make([][]string, 0, (len(symbols)+size-1)/size)
	for i := 0; i < len(symbols); i += size {
		end := i + size
		if end > len(symbols) {
			end = len(symbols)
		}
		chunks = append(chunks, symbols[i:end])
	}
	return chunks
}

// BuildReverseLUT maps each ticker back to the index of the chunk it was
// downloaded in. Produced once per download run and passed by reference to
// anything that needs to locate a ticker's download group.
func BuildReverseLUT(chunks [][]string) map[string]int {
	lut := make(map[string]int)
	for idx, chunk := range chunks {
		for _, s := range chunk {
			lut[s] = idx
		}
	}
	return lut
}

// SaveReverseLUT persists the lookup table as JSON for later runs.
func SaveReverseLUT(path string, lut map[string]int) error {
	data, err := json.MarshalIndent(lut, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal reverse lut: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadReverseLUT reads a lookup table saved by a previous run.
func LoadReverseLUT(path string) (map[string]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	lut := map[string]int{}
	if err := json.Unmarshal(data, &lut); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return lut, nil
}
