package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"opencivics/internal/config"
	"opencivics/internal/model"
)

func geminiTestConfig(baseURL string) *config.AIConfig {
	cfg := config.DefaultAIConfig()
	cfg.APIKey = "test-key"
	cfg.BaseURL = baseURL
	return cfg
}

func geminiReply(text string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"parts": []map[string]any{{"text": text}},
			}},
		},
	}
}

func TestGenerateReturnsFirstCandidateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Contains(t, body, "contents")
		require.Contains(t, body, "generationConfig")

		json.NewEncoder(w).Encode(geminiReply("hello from gemini"))
	}))
	defer server.Close()

	client := NewGeminiClient(geminiTestConfig(server.URL))
	text, err := client.Generate(context.Background(), "gemini-1.5-flash", config.ChatParams, "say hello")
	require.NoError(t, err)
	require.Equal(t, "hello from gemini", text)
}

func TestGenerateRateLimitIsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewGeminiClient(geminiTestConfig(server.URL))
	_, err := client.Generate(context.Background(), "gemini-1.5-flash", config.ChatParams, "prompt")
	require.ErrorIs(t, err, model.ErrUpstreamUnavailable)
}

func TestGenerateServerErrorIsUpstreamUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewGeminiClient(geminiTestConfig(server.URL))
	_, err := client.Generate(context.Background(), "gemini-1.5-flash", config.ChatParams, "prompt")
	require.ErrorIs(t, err, model.ErrUpstreamUnavailable)
}

func TestGenerateDeadlineStaysInErrorChain(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		json.NewEncoder(w).Encode(geminiReply("too late"))
	}))
	defer server.Close()

	client := NewGeminiClient(geminiTestConfig(server.URL))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Generate(ctx, "gemini-1.5-flash", config.ChatParams, "prompt")
	require.ErrorIs(t, err, model.ErrUpstreamUnavailable)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerateEmptyCandidatesFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := NewGeminiClient(geminiTestConfig(server.URL))
	_, err := client.Generate(context.Background(), "gemini-1.5-flash", config.ChatParams, "prompt")
	require.Error(t, err)
}

func TestParseGeminiJSONStripsCodeFences(t *testing.T) {
	var out struct {
		Name string `json:"name"`
	}
	err := ParseGeminiJSON("```json\n{\"name\": \"ada\"}\n```", &out)
	require.NoError(t, err)
	require.Equal(t, "ada", out.Name)
}

func TestParseGeminiJSONMalformedKeepsRawText(t *testing.T) {
	var out map[string]any
	err := ParseGeminiJSON("I think the answer is allies", &out)

	var malformed *model.MalformedResponseError
	require.ErrorAs(t, err, &malformed)
	require.Contains(t, malformed.Raw, "allies")
}
