package types

import (
	"encoding/json"
	"math"
)

// VideoMeta describes one YouTube video discovered on a channel.
type VideoMeta struct {
	ID          string `json:"id" csv:"id"`
	Title       string `json:"title" csv:"title"`
	URL         string `json:"url" csv:"url"`
	UploadDate  string `json:"upload_date" csv:"upload_date"` // YYYYMMDD
	Description string `json:"description" csv:"description"`
}

// Opinion is one stock opinion extracted from a transcript by the LLM.
type Opinion struct {
	Stock     string `json:"stock"`
	StockCode string `json:"stock_code"`
	Opinion   string `json:"opinion"` // positive / negative / neutral
	Source    string `json:"source"`  // host or quoted
	Quote     string `json:"quote"`
}

// TickerMapping is one company-name to ticker resolution from the LLM.
// Ticker is "N/A" when the model could not resolve the company.
type TickerMapping struct {
	Company  string `json:"company"`
	Ticker   string `json:"ticker"`
	Exchange string `json:"exchange"`
}

// MentionRecord is one dated opinion event in the merged mention table.
// Date is an 8-digit YYYYMMDD integer taken from the transcript filename.
type MentionRecord struct {
	Stock     string `json:"stock" csv:"stock"`
	StockCode string `json:"stock_code" csv:"stock_code"`
	Opinion   string `json:"opinion" csv:"opinion"`
	Source    string `json:"source" csv:"source"`
	Quote     string `json:"quote" csv:"quote"`
	Date      int    `json:"date" csv:"date"`
}

// PriceSeries holds a ticker's daily closes keyed by ISO date "2006-01-02".
// A present key with a NaN close is a stored-but-null data point. Gaps
// (weekends, holidays, missing downloads) are simply absent keys.
type PriceSeries struct {
	Ticker string
	Close  map[string]float64
}

// At returns the close for a date key and whether the key is present.
func (s *PriceSeries) At(key string) (float64, bool) {
	v, ok := s.Close[key]
	return v, ok
}

// Has reports whether the series has any data point for the date key.
func (s *PriceSeries) Has(key string) bool {
	_, ok := s.Close[key]
	return ok
}

// FloatList is a list of nullable prices. It serializes to a JSON array
// ([180,null,175]) both as a JSON field and as a single CSV cell, so the
// literal text round-trips through either storage format.
type FloatList []*float64

// MarshalCSV renders the list as its JSON literal for a single CSV cell.
func (l FloatList) MarshalCSV() (string, error) {
	b, err := json.Marshal(l)
	return string(b), err
}

// UnmarshalCSV parses the JSON literal text back from a CSV cell.
func (l *FloatList) UnmarshalCSV(s string) error {
	if s == "" {
		*l = nil
		return nil
	}
	return json.Unmarshal([]byte(s), l)
}

// IntList is a list of day counts serialized the same way as FloatList.
type IntList []int

func (l IntList) MarshalCSV() (string, error) {
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *IntList) UnmarshalCSV(s string) error {
	if s == "" {
		*l = nil
		return nil
	}
	return json.Unmarshal([]byte(s), l)
}

// ReturnRecord is one evaluated mention: the resolved baseline plus the
// prices found at each requested day offset. PriceList entries are nil when
// no usable price exists at that offset (typically past the end of the
// downloaded data). Immutable once produced.
type ReturnRecord struct {
	Ticker           string    `json:"ticker" csv:"ticker"`
	DateMentioned    string    `json:"date_mentioned" csv:"date_mentioned"`
	ExtraDays        int       `json:"extra_days" csv:"extra_days"`
	PriceOnMentioned *float64  `json:"price_on_mentioned" csv:"price_on_mentioned"`
	NDaysList        IntList   `json:"ndays_list" csv:"ndays_list"`
	PriceList        FloatList `json:"price_list" csv:"price_list"`
	ExtraDayList     IntList   `json:"extra_day_list" csv:"extra_day_list"`
}

// Float returns a pointer to v, nil when v is NaN. Convenience for building
// nullable price entries from series values.
func Float(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
