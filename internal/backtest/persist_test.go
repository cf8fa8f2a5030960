package backtest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"yt-opinion-backtest/internal/types"
)

func sampleRecords() []types.ReturnRecord {
	base := 170.0
	return []types.ReturnRecord{
		{
			Ticker:           "TSLA",
			DateMentioned:    "2024-04-10",
			ExtraDays:        0,
			PriceOnMentioned: &base,
			NDaysList:        types.IntList{14, 30},
			PriceList:        fl(180.0, nil),
			ExtraDayList:     types.IntList{0, 0},
		},
	}
}

func TestReturnsJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "returns.json")
	in := sampleRecords()

	if err := SaveReturnsJSON(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := LoadReturnsJSON(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}

	// Nil prices must appear as JSON null inside the list.
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "[\n      180,\n      null\n    ]") &&
		!strings.Contains(string(data), "[180,null]") {
		t.Errorf("price_list not serialized with null entry:\n%s", data)
	}
}

func TestReturnsCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "returns.csv")
	in := sampleRecords()

	if err := SaveReturnsCSV(path, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := LoadReturnsCSV(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}

	// List cells hold the JSON literal text.
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"[180,null]"`) {
		t.Errorf("price_list cell is not the JSON literal:\n%s", data)
	}
	if !strings.Contains(string(data), `"[14,30]"`) {
		t.Errorf("ndays_list cell is not the JSON literal:\n%s", data)
	}
}

func TestLoadReturnsJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadReturnsJSON(path); err == nil {
		t.Error("malformed JSON should return an error")
	}
}
