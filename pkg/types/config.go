// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is the search provider credential. Empty selects offline mode.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Endpoint overrides the search provider URL (default SerpAPI).
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// ExtractConfig holds settings for the extraction stage.
type ExtractConfig struct {
	HTTPConfig `yaml:",inline"`
}

// SummaryConfig holds settings for the summarization stage.
type SummaryConfig struct {
	// APIKey is the completion provider credential. Empty selects offline mode.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Model is the chat completion model identifier (default "gpt-3.5-turbo").
	Model string `json:"model" yaml:"model"`

	// BaseURL overrides the OpenAI-compatible API base URL.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxTokens bounds the completion length (default 500).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// Temperature is the sampling temperature. Nil selects 0.3; zero is
	// honored.
	Temperature *float32 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// PipelineConfig holds settings for a research run.
type PipelineConfig struct {
	// NumResults is the number of search results to process (default 3).
	NumResults int `json:"num_results" yaml:"num_results"`

	// Delay is the pause after each page extraction. Zero means no pause;
	// callers that want the standard cadence use pipeline.DefaultDelay.
	Delay time.Duration `json:"delay" yaml:"delay"`
}

// ArchiveConfig holds settings for the research run archive.
type ArchiveConfig struct {
	// Dir is the directory holding research.db.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of listed runs (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
