package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Analysis is for archetype classification (quality over speed)
	Analysis string `json:"analysis"`

	// Summary is for onboarding summary generation
	Summary string `json:"summary"`

	// Chat is for free-form conversation turns (needs to be fast)
	Chat string `json:"chat"`

	// Extraction is for pulling structured interests out of free text
	Extraction string `json:"extraction"`
}

// GenerationParams tune one class of Gemini call
type GenerationParams struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// Per-task generation settings. Classification runs cool for consistency;
// summaries and chat run warmer.
var (
	AnalysisParams   = GenerationParams{Temperature: 0.3, TopP: 0.8, MaxOutputTokens: 2048}
	SummaryParams    = GenerationParams{Temperature: 0.7, TopP: 0.9, MaxOutputTokens: 1024}
	ChatParams       = GenerationParams{Temperature: 0.6, TopP: 0.9, MaxOutputTokens: 1024}
	ExtractionParams = GenerationParams{Temperature: 0.4, TopP: 0.8, MaxOutputTokens: 2048}
)

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			Analysis:   getEnvOrDefault("GEMINI_MODEL_ANALYSIS", "gemini-1.5-pro"),
			Summary:    getEnvOrDefault("GEMINI_MODEL_SUMMARY", "gemini-1.5-flash"),
			Chat:       getEnvOrDefault("GEMINI_MODEL_CHAT", "gemini-1.5-flash"),
			Extraction: getEnvOrDefault("GEMINI_MODEL_EXTRACTION", "gemini-1.5-flash"),
		},
		TimeoutMS: 10000, // 10 second default timeout
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
