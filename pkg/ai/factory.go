package ai

import (
	"fmt"
)

// Config holds embedding provider configuration
type Config struct {
	Provider ProviderType // "openai" or "ollama"

	// OpenAI config
	OpenAIAPIKey string
	OpenAIModel  string // e.g., "text-embedding-3-small"

	// Ollama config
	OllamaBaseURL string // e.g., "http://localhost:11434"
	OllamaModel   string // e.g., "nomic-embed-text"
}

// NewEmbeddingService creates an EmbeddingService based on the config.
// This is the factory function - switch provider by changing config.Provider
func NewEmbeddingService(cfg Config) (EmbeddingService, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil

	case ProviderOllama:
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil

	default:
		// Default to OpenAI if API key is available, otherwise Ollama
		if cfg.OpenAIAPIKey != "" {
			return NewOpenAIService(cfg.OpenAIAPIKey, cfg.OpenAIModel), nil
		}
		return NewOllamaService(cfg.OllamaBaseURL, cfg.OllamaModel), nil
	}
}
