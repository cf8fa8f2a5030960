package openai

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

type OpenAIExtractor struct {
	cfg *store.Config
}

func NewOpenAIExtractor(cfg *store.Config) *OpenAIExtractor {
	return &OpenAIExtractor{cfg: cfg}
}

func (e *OpenAIExtractor) ExtractOpinions(ctx context.Context, transcript string) ([]types.Opinion, error) {
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

func (e *OpenAIExtractor) MapTickers(ctx context.Context, companies []string) ([]types.TickerMapping, error) {
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

func (e *OpenAIExtractor) complete(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return "", errors.New("OPENAI_API_KEY missing")
	}

	body := map[string]any{
		"model": e.cfg.LLM.Model,
		"messages": []map[string]string{
			{"role": "system", "content": llm.SystemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature": e.cfg.LLM.Temperature,
		"max_tokens":  e.cfg.LLM.MaxTokens,
	}
	bb, _ := json.Marshal(body)

	req, _ := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewReader(bb))
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai http %d", resp.StatusCode)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", err
	}

	if len(r.Choices) == 0 {
		return "", errors.New("no choices")
	}

	return strings.TrimSpace(r.Choices[0].Message.Content), nil
}
