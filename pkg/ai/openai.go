package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// modelDimensions maps known OpenAI embedding models to their output size
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// OpenAIService implements EmbeddingService using the OpenAI embeddings API
type OpenAIService struct {
	client *openai.Client
	model  string
	dims   int
}

// NewOpenAIService creates a new OpenAI embedding service
func NewOpenAIService(apiKey, model string) *OpenAIService {
	if model == "" {
		model = "text-embedding-3-small"
	}
	dims, ok := modelDimensions[model]
	if !ok {
		dims = 1536
	}
	return &OpenAIService{
		client: openai.NewClient(apiKey),
		model:  model,
		dims:   dims,
	}
}

// EmbedTexts implements EmbeddingService. Inputs are split into sequential
// sub-batches to stay under the provider payload limit; output order is
// restored using the provider-assigned indices, so it always matches input
// order. A failed sub-batch fails the whole call.
func (s *OpenAIService) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors := make([][]float32, len(texts))

	for start := 0; start < len(texts); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
			Input: batch,
			Model: openai.EmbeddingModel(s.model),
		})
		if err != nil {
			return nil, fmt.Errorf("openai embedding request failed (batch %d-%d): %w", start, end, err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("openai returned %d embeddings for %d inputs", len(resp.Data), len(batch))
		}

		for _, item := range resp.Data {
			if item.Index < 0 || item.Index >= len(batch) {
				return nil, fmt.Errorf("openai returned out-of-range embedding index %d", item.Index)
			}
			vectors[start+item.Index] = item.Embedding
		}
	}

	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("provider returned no embedding for input %d", i)
		}
	}

	return vectors, nil
}

// Dimensions implements EmbeddingService
func (s *OpenAIService) Dimensions() int {
	return s.dims
}
