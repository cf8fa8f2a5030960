package transcript

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"yt-opinion-backtest/internal/types"
)

// parseVideoMeta pulls title, upload date, and description out of a watch
// page's metadata tags. The upload date is normalized to YYYYMMDD, the key
// used to name transcript files and to date mention records.
func parseVideoMeta(body []byte, videoURL string) (types.VideoMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return types.VideoMeta{}, fmt.Errorf("parse video page: %w", err)
	}

	meta := types.VideoMeta{URL: videoURL}

	if v, ok := doc.Find(`meta[itemprop="identifier"]`).Attr("content"); ok {
		meta.ID = v
	}
	if v, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		meta.Title = v
	} else if v, ok := doc.Find(`meta[name="title"]`).Attr("content"); ok {
		meta.Title = v
	}
	if v, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
		meta.Description = v
	}
	if v, ok := doc.Find(`meta[itemprop="uploadDate"]`).Attr("content"); ok {
		meta.UploadDate = normalizeUploadDate(v)
	} else if v, ok := doc.Find(`meta[itemprop="datePublished"]`).Attr("content"); ok {
		meta.UploadDate = normalizeUploadDate(v)
	}

	if meta.ID == "" {
		// Fall back to the URL's v parameter.
		if i := strings.Index(videoURL, "v="); i >= 0 {
			id := videoURL[i+2:]
			if j := strings.IndexByte(id, '&'); j >= 0 {
				id = id[:j]
			}
			meta.ID = id
		}
	}
	if meta.Title == "" {
		return meta, fmt.Errorf("no metadata found on %s", videoURL)
	}
	return meta, nil
}

// normalizeUploadDate turns "2024-04-10" or "2024-04-10T08:00:00-07:00"
// into "20240410".
func normalizeUploadDate(v string) string {
	if len(v) >= 10 {
		v = v[:10]
	}
	return strings.ReplaceAll(v, "-", "")
}
