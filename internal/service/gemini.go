package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"opencivics/internal/config"
	"opencivics/internal/model"
)

// GeminiClient calls the Gemini generateContent API over plain HTTP
type GeminiClient struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiClient creates a Gemini client from config
func NewGeminiClient(cfg *config.AIConfig) *GeminiClient {
	return &GeminiClient{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// IsEnabled reports whether an API key is configured
func (g *GeminiClient) IsEnabled() bool {
	return g.config.IsEnabled()
}

// Models exposes the configured model names
func (g *GeminiClient) Models() config.GeminiModels {
	return g.config.Models
}

// Generate sends a prompt to the given model and returns the raw text of
// the first candidate. Quota, auth and server-side failures surface as
// ErrUpstreamUnavailable so callers can distinguish "Gemini is down" from
// "Gemini answered garbage".
func (g *GeminiClient) Generate(ctx context.Context, modelName string, params config.GenerationParams, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     params.Temperature,
			"topP":            params.TopP,
			"maxOutputTokens": params.MaxOutputTokens,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", g.config.ModelEndpoint(modelName), g.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		// Wrap rather than stringify so context deadline errors stay
		// detectable in the chain.
		return "", fmt.Errorf("%w: %w", model.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode == http.StatusForbidden,
		resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: gemini returned %d", model.ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("gemini returned %d: %.200s", resp.StatusCode, body)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &model.MalformedResponseError{Raw: string(body), Err: err}
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// ParseGeminiJSON decodes a Gemini reply into target, stripping any
// markdown code fences first. Undecodable text becomes a
// MalformedResponseError carrying the raw reply; it is never coerced into
// a guessed value.
func ParseGeminiJSON(text string, target any) error {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return &model.MalformedResponseError{Raw: text, Err: err}
	}
	return nil
}
