package config

// NotionConfig holds configuration for the Notion knowledge-base search
type NotionConfig struct {
	APIKey     string `json:"-"`
	BaseURL    string `json:"baseUrl"`
	DatabaseID string `json:"databaseId"`
	TimeoutMS  int    `json:"timeoutMs"`
}

// DefaultNotionConfig returns the default Notion configuration
func DefaultNotionConfig() *NotionConfig {
	return &NotionConfig{
		APIKey:     getEnvOrDefault("NOTION_API_KEY", ""),
		BaseURL:    "https://api.notion.com/v1",
		DatabaseID: getEnvOrDefault("NOTION_DATABASE_ID", ""),
		TimeoutMS:  8000,
	}
}

// IsEnabled returns true if Notion search is configured; when disabled the
// built-in fallback resource list serves every search
func (c *NotionConfig) IsEnabled() bool {
	return c.APIKey != "" && c.DatabaseID != ""
}
