// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/research-agent/internal/notify"
	"github.com/pdiddy/research-agent/pkg/types"
)

type chatRequest struct {
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(b)
}

// completionServer serves /chat/completions with handler and returns a
// summarizer pointed at it plus a recorder for notices.
func completionServer(t *testing.T, handler http.HandlerFunc) (*OpenAISummarizer, *notify.Recorder) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	rec := &notify.Recorder{}
	s := NewOpenAI(types.SummaryConfig{APIKey: "sk-test", BaseURL: ts.URL}, rec)
	return s, rec
}

func TestOpenAISummarize(t *testing.T) {
	var got chatRequest
	var gotAuth, gotPath string
	s, rec := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody("  Qubits exploit superposition [Source 1] and entanglement [Source 2].  "))
	})

	summary := s.Summarize(context.Background(), sampleSources(2), "quantum computing")

	assert.Equal(t, "Qubits exploit superposition [Source 1] and entanglement [Source 2].", summary)
	assert.Empty(t, rec.Notices)

	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, 500, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-6)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, systemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Contains(t, got.Messages[1].Content, "Source 1 (Title 1):")
	assert.Contains(t, got.Messages[1].Content, "Source 2 (Title 2):")
}

func TestOpenAISummarizeFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr string
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprint(w, `{"error":{"message":"upstream exploded","type":"server_error"}}`)
			},
			wantErr: "completion API",
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"id":"x","object":"chat.completion","choices":[]}`)
			},
			wantErr: "no choices",
		},
		{
			name: "empty content",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, completionBody("   "))
			},
			wantErr: "empty content",
		},
		{
			name: "citation out of range",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, completionBody("Claim [Source 1]. Other claim [Source 9]."))
			},
			wantErr: "cites [9]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, rec := completionServer(t, tt.handler)
			sources := sampleSources(2)

			summary := s.Summarize(context.Background(), sources, "quantum computing")

			assert.Equal(t, Offline{}.Summarize(context.Background(), sources, "quantum computing"), summary)
			require.Len(t, rec.Notices, 1)
			assert.Equal(t, "summarize", rec.Notices[0].Stage)
			assert.Contains(t, rec.Notices[0].Err.Error(), tt.wantErr)
		})
	}
}

func TestOpenAISummarizeEmptySourcesSkipsAPI(t *testing.T) {
	var calls int32
	s, rec := completionServer(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	assert.Equal(t, NoContentMessage, s.Summarize(context.Background(), nil, "q"))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	assert.Empty(t, rec.Notices)
}

func TestOpenAISummarizeUnreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := ts.URL
	ts.Close()

	rec := &notify.Recorder{}
	s := NewOpenAI(types.SummaryConfig{APIKey: "sk", BaseURL: baseURL}, rec)

	summary := s.Summarize(context.Background(), sampleSources(1), "q")
	assert.True(t, strings.HasPrefix(summary, "Based on the search for 'q'"))
	require.Len(t, rec.Notices, 1)
}

func TestOpenAISummarizeZeroTemperatureIsSent(t *testing.T) {
	var body map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody("Deterministic [Source 1]."))
	}))
	defer ts.Close()

	zero := float32(0)
	s := NewOpenAI(types.SummaryConfig{APIKey: "sk", BaseURL: ts.URL, Temperature: &zero}, nil)

	assert.Equal(t, "Deterministic [Source 1].", s.Summarize(context.Background(), sampleSources(1), "q"))
	require.Contains(t, body, "temperature")
	assert.InDelta(t, 0, body["temperature"], 1e-6)
}
