package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welcomepage/teamgame/internal/game"
)

func TestConfigured(t *testing.T) {
	logger := zerolog.New(io.Discard)

	assert.False(t, NewClient(Config{}, logger).Configured())
	assert.False(t, NewClient(Config{APIKey: "INSERT_OPENAI_KEY"}, logger).Configured())
	assert.True(t, NewClient(Config{APIKey: "sk-test"}, logger).Configured())
}

func TestCompleteWithoutKeyShortCircuits(t *testing.T) {
	client := NewClient(Config{}, zerolog.New(io.Discard))

	_, err := client.Complete(context.Background(), game.CompletionRequest{System: "s", User: "u"})
	assert.ErrorIs(t, err, game.ErrNotConfigured)
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var captured chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "{\"guess_who\": []}"}}],
			"usage": {"prompt_tokens": 321, "completion_tokens": 654}
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL}, zerolog.New(io.Discard))
	result, err := client.Complete(context.Background(), game.CompletionRequest{
		System:      "system prompt",
		User:        "user prompt",
		MaxTokens:   1500,
		Temperature: 0.8,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"guess_who": []}`, result.Content)
	assert.Equal(t, 321, result.PromptTokens)
	assert.Equal(t, 654, result.CompletionTokens)

	assert.Equal(t, defaultModel, captured.Model)
	assert.Equal(t, "json_object", captured.ResponseFormat.Type)
	assert.Equal(t, 1500, captured.MaxTokens)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user prompt", captured.Messages[1].Content)
}

func TestCompleteSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "rate limited"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL}, zerolog.New(io.Discard))
	_, err := client.Complete(context.Background(), game.CompletionRequest{System: "s", User: "u"})
	assert.ErrorContains(t, err, "status 429")
}

func TestCompleteRejectsEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "  "}}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "sk-test", BaseURL: server.URL}, zerolog.New(io.Discard))
	_, err := client.Complete(context.Background(), game.CompletionRequest{System: "s", User: "u"})
	assert.ErrorContains(t, err, "no content")
}
