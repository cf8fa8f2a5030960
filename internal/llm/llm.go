// Package llm holds the prompts and response plumbing shared by the
// OpenAI and Claude extractor implementations.
package llm

import (
	"fmt"
	"strings"
)

// SystemPrompt is shared by both extraction passes.
const SystemPrompt = "You are a financial analyst reviewing a YouTube transcript."

// ExtractionPrompt builds the user prompt asking for stock opinions in a
// transcript as a JSON list.
func ExtractionPrompt(transcript string) string {
	return fmt.Sprintf(`Given the following transcript, extract:

1. Stock/company names mentioned
2. Stock ticker symbols if available
3. Host's opinion (positive / negative / neutral)
4. Whether it's the host's own opinion or quoted from another source
5. Include short supporting quote

Format as JSON like this:
[
  {
    "stock": "Tesla",
    "stock_code": "TSLA",
    "opinion": "positive",
    "source": "host",
    "quote": "I think Tesla is a great long-term bet."
  },
  ...
]

Transcript:
%s`, transcript)
}

// TickerPrompt builds the user prompt asking for ticker symbols for a list
// of company names. Callers chunk the list before building the prompt.
func TickerPrompt(companies []string) string {
	var b strings.Builder
	for _, c := range companies {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	return fmt.Sprintf(`Please find the stock tickers for the following companies:
%s
Return in JSON:
[ { "company": ..., "ticker": ..., "exchange": ... } ]
Use "N/A" for the ticker when a company is not publicly traded.`, b.String())
}

// StripFences removes markdown code fences that models wrap around JSON
// responses despite instructions not to.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Chunk splits items into groups of at most size, for request batching.
func Chunk(items []string, size int) [][]string {
	if size <= 0 {
		size = 20
	}
	out := make([][]string, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}
