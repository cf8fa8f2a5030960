package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"yt-opinion-backtest/internal/llm"
	"yt-opinion-backtest/internal/store"
	"yt-opinion-backtest/internal/trace"
	"yt-opinion-backtest/internal/types"
)

type ClaudeExtractor struct {
	cfg *store.Config
}

func NewClaudeExtractor(cfg *store.Config) *ClaudeExtractor {
	return &ClaudeExtractor{cfg: cfg}
}

func (e *ClaudeExtractor) ExtractOpinions(ctx context.Context, transcript string) ([]types.Opinion, error) {
	out, err := e.complete(ctx, llm.ExtractionPrompt(transcript))
	if err != nil {
		return nil, err
	}

	var opinions []types.Opinion
	if err := json.Unmarshal([]byte(llm.StripFences(out)), &opinions); err != nil {
		return nil, fmt.Errorf("invalid opinion JSON: %w", err)
	}
	return opinions, nil
}

func (e *ClaudeExtractor) MapTickers(ctx context.Context, companies []string) ([]types.TickerMapping, error) {
	out, err := e.complete(ctx, llm.TickerPrompt(companies))
	if err != nil {
		return nil, err
	}

	var mappings []types.TickerMapping
	if err := json.Unmarshal([]byte(llm.StripFences(out)), &mappings); err != nil {
		return nil, fmt.Errorf("invalid ticker JSON: %w", err)
	}
	return mappings, nil
}

func (e *ClaudeExtractor) complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return "", errors.New("ANTHROPIC_API_KEY missing")
	}

	body := map[string]any{
		"model":      e.cfg.LLM.Model,
		"max_tokens": e.cfg.LLM.MaxTokens,
		"system":     llm.SystemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.anthropic.com/v1/messages", bytes.NewReader(bb))
	req.Header.Set("x-api-key", apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("claude http %d", resp.StatusCode)
	}

	var r struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}

	if len(r.Content) == 0 {
		return "", errors.New("no content")
	}

	return strings.TrimSpace(r.Content[0].Text), nil
}
