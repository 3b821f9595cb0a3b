// Package config loads the server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds everything the server needs at startup. A missing credential
// for the selected provider is a configuration fault and fails fast.
type Config struct {
	Port           string
	Provider       string
	OpenAIAPIKey   string
	GeminiAPIKey   string
	ChatModel      string
	EmbedModel     string
	ChromaURL      string
	CollectionName string
	DBPath         string
	LogLevel       string
}

// FromEnv reads configuration from environment variables, applying defaults
// and validating provider credentials.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           getenv("PORT", "8080"),
		Provider:       strings.ToLower(getenv("LLM_PROVIDER", "openai")),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		ChatModel:      os.Getenv("LLM_CHAT_MODEL"),
		EmbedModel:     os.Getenv("LLM_EMBED_MODEL"),
		ChromaURL:      getenv("CHROMA_URL", "http://localhost:8000"),
		CollectionName: getenv("CHROMA_COLLECTION", "portfolio_data"),
		DBPath:         getenv("DB_PATH", "portfolio.db"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("missing OpenAI API key: set OPENAI_API_KEY")
		}
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("missing Gemini API key: set GEMINI_API_KEY")
		}
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER: %s", cfg.Provider)
	}
	return cfg, nil
}

// APIKey returns the credential for the selected provider.
func (c *Config) APIKey() string {
	if c.Provider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
