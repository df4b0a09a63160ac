package ai

import "context"

// EmbeddingService is the interface for text embedding providers.
// Implement this interface to add new providers (OpenAI, Ollama, etc.)
type EmbeddingService interface {
	// EmbedTexts converts an ordered list of texts into an ordered list of
	// equal-length vectors. Output order matches input order regardless of
	// any provider-side reordering.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions returns the fixed output dimensionality of the model
	Dimensions() int
}

// ProviderType represents the embedding provider type
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderOllama ProviderType = "ollama"
	ProviderAuto   ProviderType = "auto"
)

// maxBatchSize caps the number of inputs per provider call; larger requests
// are split into sequential sub-batches
const maxBatchSize = 100
