package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/gocolly/colly/v2"

	"yt-opinion-backtest/internal/logger"
	"yt-opinion-backtest/internal/types"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var (
	videoIDRe       = regexp.MustCompile(`"videoId":"([A-Za-z0-9_-]{11})"`)
	captionTracksRe = regexp.MustCompile(`"captionTracks":(\[.*?\])`)
)

// Scraper fetches channel listings, video pages, and caption files from
// YouTube's public web pages.
type Scraper struct {
	timeout time.Duration
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{timeout: timeout}
}

func (s *Scraper) newCollector() *colly.Collector {
	c := colly.NewCollector(
		colly.AllowedDomains("www.youtube.com", "youtube.com"),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", userAgent)
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})
	return c
}

// ChannelVideos lists the most recent videos on a channel's /videos page,
// up to limit. Titles and dates are filled in by VideoMetadata per video;
// the listing page only yields IDs reliably.
func (s *Scraper) ChannelVideos(ctx context.Context, channelURL string, limit int) ([]types.VideoMeta, error) {
	logger.Info(ctx, "Fetching channel video list", "channel", channelURL, "limit", limit)

	c := s.newCollector()

	videos := []types.VideoMeta{}
	seen := map[string]struct{}{}
	c.OnResponse(func(r *colly.Response) {
		for _, m := range videoIDRe.FindAllSubmatch(r.Body, -1) {
			id := string(m[1])
			if _, dup := seen[id]; dup {
				continue
			}
			if limit > 0 && len(videos) >= limit {
				return
			}
			seen[id] = struct{}{}
			videos = append(videos, types.VideoMeta{
				ID:  id,
				URL: "https://www.youtube.com/watch?v=" + id,
			})
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Channel page fetch failed", err, "url", r.Request.URL.String())
	})

	if err := c.Visit(channelURL + "/videos"); err != nil {
		return nil, fmt.Errorf("visit channel %s: %w", channelURL, err)
	}
	c.Wait()

	logger.Info(ctx, "Channel video list fetched", "videos", len(videos))
	return videos, nil
}

// VideoMetadata fetches one watch page and parses its metadata tags.
func (s *Scraper) VideoMetadata(ctx context.Context, videoURL string) (types.VideoMeta, error) {
	c := s.newCollector()

	var meta types.VideoMeta
	var parseErr error
	c.OnResponse(func(r *colly.Response) {
		meta, parseErr = parseVideoMeta(r.Body, videoURL)
	})

	if err := c.Visit(videoURL); err != nil {
		return types.VideoMeta{}, fmt.Errorf("visit %s: %w", videoURL, err)
	}
	c.Wait()

	if parseErr != nil {
		return types.VideoMeta{}, parseErr
	}
	return meta, nil
}

// captionTrack is one entry of the player's captionTracks JSON.
type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// FetchTranscript downloads the English caption track of a video as VTT and
// returns the cleaned script text. Videos without captions yield an error.
func (s *Scraper) FetchTranscript(ctx context.Context, videoURL string) (string, error) {
	c := s.newCollector()

	var tracks []captionTrack
	c.OnResponse(func(r *colly.Response) {
		m := captionTracksRe.FindSubmatch(r.Body)
		if m == nil {
			return
		}
		if err := json.Unmarshal(m[1], &tracks); err != nil {
			logger.Warn(ctx, "Caption track list unparseable", "url", videoURL, "error", err)
		}
	})

	if err := c.Visit(videoURL); err != nil {
		return "", fmt.Errorf("visit %s: %w", videoURL, err)
	}
	c.Wait()

	if len(tracks) == 0 {
		return "", fmt.Errorf("no caption tracks for %s", videoURL)
	}

	track := pickTrack(tracks)
	vtt, err := s.fetchVTT(ctx, track.BaseURL+"&fmt=vtt")
	if err != nil {
		return "", err
	}
	return CleanVTT(vtt), nil
}

// pickTrack prefers manually authored English captions, then auto-generated
// English ("asr"), then whatever is first.
func pickTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if t.LanguageCode == "en" && t.Kind != "asr" {
			return t
		}
	}
	for _, t := range tracks {
		if t.LanguageCode == "en" {
			return t
		}
	}
	return tracks[0]
}

func (s *Scraper) fetchVTT(ctx context.Context, vttURL string) (string, error) {
	c := s.newCollector()

	var body string
	c.OnResponse(func(r *colly.Response) {
		body = string(r.Body)
	})
	if err := c.Visit(vttURL); err != nil {
		return "", fmt.Errorf("fetch captions: %w", err)
	}
	c.Wait()

	if body == "" {
		return "", fmt.Errorf("empty caption response from %s", vttURL)
	}
	return body, nil
}
