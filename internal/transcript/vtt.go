package transcript

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	numberingRe    = regexp.MustCompile(`^\d+$`)
	htmlTagRe      = regexp.MustCompile(`<[^>]+>`)
	punctSpaceRe   = regexp.MustCompile(`\s+([.,?!])`)
	headerPrefixes = []string{"WEBVTT", "Kind:", "Language:"}
)

// CleanVTT converts WebVTT caption content into a single cleaned script
// string: timestamps, cue numbering, header lines, and the duplicate lines
// produced by overlapping captions are dropped, inline tags are stripped,
// and stray spaces before punctuation are collapsed.
func CleanVTT(content string) string {
	cleaned := []string{}
	previous := ""

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if line == "" || strings.Contains(line, "-->") || numberingRe.MatchString(line) {
			continue
		}
		if isHeaderLine(line) {
			continue
		}
		// Overlapping captions repeat the previous line verbatim.
		if line == previous {
			continue
		}

		cleaned = append(cleaned, line)
		previous = line
	}

	text := strings.Join(cleaned, " ")
	text = punctSpaceRe.ReplaceAllString(text, "$1")
	text = htmlTagRe.ReplaceAllString(text, "")

	return text
}

func isHeaderLine(line string) bool {
	for _, p := range headerPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return false
}

// CleanVTTFile reads and cleans a VTT file from disk.
func CleanVTTFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return CleanVTT(string(b)), nil
}
