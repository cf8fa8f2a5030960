package mentions

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"yt-opinion-backtest/internal/types"
)

func writeExtraction(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMergeExtracted(t *testing.T) {
	dir := t.TempDir()
	writeExtraction(t, dir, "20240410.json", `[
		{"stock": "Tesla", "stock_code": "TSLA", "opinion": "positive", "source": "host", "quote": "great bet"},
		{"stock": "Tesla", "stock_code": "TSLA", "opinion": "negative", "source": "host", "quote": "dup, dropped"},
		{"stock": "Acme Robotics", "stock_code": "", "opinion": "neutral", "source": "quoted", "quote": "interesting"}
	]`)
	writeExtraction(t, dir, "20240411_gpt.json", `[
		{"stock": "Tesla", "stock_code": "TSLA", "opinion": "negative", "source": "host", "quote": "cooling off"}
	]`)
	writeExtraction(t, dir, "notes.json", `[{"stock": "Ignored"}]`) // no date prefix

	records, err := MergeExtracted(dir)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0].Stock != "Tesla" || records[0].Date != 20240410 {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[0].Opinion != "positive" {
		t.Errorf("duplicate stock should keep the first opinion, got %s", records[0].Opinion)
	}
	if records[1].Stock != "Acme Robotics" || records[1].StockCode != "" {
		t.Errorf("record 1 = %+v", records[1])
	}
	if records[2].Date != 20240411 {
		t.Errorf("model-suffixed filename date = %d, want 20240411", records[2].Date)
	}
}

func TestMissingCompanies(t *testing.T) {
	records := []types.MentionRecord{
		{Stock: "Tesla", StockCode: "TSLA"},
		{Stock: "Acme", StockCode: ""},
		{Stock: "Acme", StockCode: ""},
		{Stock: "Globex", StockCode: ""},
	}

	got := MissingCompanies(records)
	want := []string{"Acme", "Globex"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("missing = %v, want %v", got, want)
	}
}

func TestFillMissingCodes(t *testing.T) {
	records := []types.MentionRecord{
		{Stock: "Tesla", StockCode: "TSLA"},
		{Stock: "Acme", StockCode: ""},
		{Stock: "Globex", StockCode: ""},
		{Stock: "Initech", StockCode: ""},
	}
	mappings := []types.TickerMapping{
		{Company: "Acme", Ticker: "ACME", Exchange: "NYSE"},
		{Company: "Globex", Ticker: "N/A"}, // not publicly traded
	}

	filled, left := FillMissingCodes(records, mappings)
	if filled != 1 {
		t.Errorf("filled = %d, want 1", filled)
	}
	if records[1].StockCode != "ACME" {
		t.Errorf("Acme code = %q, want ACME", records[1].StockCode)
	}
	if records[2].StockCode != "" {
		t.Errorf("N/A mapping should leave the code empty, got %q", records[2].StockCode)
	}
	if !reflect.DeepEqual(left, []string{"Globex", "Initech"}) {
		t.Errorf("unresolved = %v, want [Globex Initech]", left)
	}
}
