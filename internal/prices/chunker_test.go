package prices

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestChunkSymbols(t *testing.T) {
	symbols := []string{"A", "B", "C", "D", "E"}

	chunks := ChunkSymbols(symbols, 2)
	want := [][]string{{"A", "B"}, {"C", "D"}, {"E"}}
	if !reflect.DeepEqual(chunks, want) {
		t.Errorf("chunks = %v, want %v", chunks, want)
	}

	if got := ChunkSymbols(nil, 2); len(got) != 0 {
		t.Errorf("empty input produced %d chunks", len(got))
	}

	// Non-positive size falls back to the default.
	if got := ChunkSymbols(symbols, 0); len(got) != 1 || len(got[0]) != 5 {
		t.Errorf("default-size chunks = %v", got)
	}
}

func TestBuildReverseLUT(t *testing.T) {
	chunks := [][]string{{"TSLA", "AAPL"}, {"NVDA"}}
	lut := BuildReverseLUT(chunks)

	want := map[string]int{"TSLA": 0, "AAPL": 0, "NVDA": 1}
	if !reflect.DeepEqual(lut, want) {
		t.Errorf("lut = %v, want %v", lut, want)
	}
}

func TestReverseLUTRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lut.json")
	in := map[string]int{"TSLA": 0, "NVDA": 3}

	if err := SaveReverseLUT(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := LoadReverseLUT(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch: %v != %v", in, out)
	}
}
