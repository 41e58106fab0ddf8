// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/pdiddy/research-agent/internal/citation"
	"github.com/pdiddy/research-agent/internal/notify"
	"github.com/pdiddy/research-agent/pkg/types"
)

const (
	defaultModel       = openai.GPT3Dot5Turbo
	defaultMaxTokens   = 500
	defaultTemperature = 0.3
)

// OpenAISummarizer asks an OpenAI-compatible chat completion endpoint for
// the summary. Failures are reported to the Notifier and answered with the
// Offline summary.
type OpenAISummarizer struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	notifier    notify.Notifier
	fallback    Offline
}

// NewOpenAI builds a live summarizer from cfg. Zero values select
// gpt-3.5-turbo and 500 max tokens; a nil temperature selects 0.3.
func NewOpenAI(cfg types.SummaryConfig, n notify.Notifier) *OpenAISummarizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	s := &OpenAISummarizer{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: defaultTemperature,
		notifier:    n,
	}
	if s.model == "" {
		s.model = defaultModel
	}
	if s.maxTokens <= 0 {
		s.maxTokens = defaultMaxTokens
	}
	if cfg.Temperature != nil {
		s.temperature = *cfg.Temperature
	}
	if s.notifier == nil {
		s.notifier = notify.Discard
	}
	return s
}

// Name returns the summarizer identifier.
func (s *OpenAISummarizer) Name() string { return "openai" }

// Summarize requests one completion. An empty source list returns
// NoContentMessage without calling the API.
func (s *OpenAISummarizer) Summarize(ctx context.Context, sources []types.ExtractedSource, query string) string {
	if len(sources) == 0 {
		return NoContentMessage
	}

	summary, err := s.complete(ctx, sources, query)
	if err != nil {
		s.notifier.Notify("summarize", err)
		return s.fallback.Summarize(ctx, sources, query)
	}
	return summary
}

func (s *OpenAISummarizer) complete(ctx context.Context, sources []types.ExtractedSource, query string) (string, error) {
	prompt, err := renderPrompt(query, sources)
	if err != nil {
		return "", fmt.Errorf("rendering prompt: %w", err)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   s.maxTokens,
		Temperature: requestTemperature(s.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("completion API: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion API returned no choices")
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("completion API returned empty content")
	}
	if err := citation.Validate(summary, len(sources)); err != nil {
		return "", err
	}
	return summary, nil
}

// requestTemperature maps t to the wire value. The client omits a zero
// temperature, so zero is sent as the smallest positive float32.
func requestTemperature(t float32) float32 {
	if t <= 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
