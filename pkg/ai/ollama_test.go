package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaEmbedTexts(t *testing.T) {
	var prompts []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/embeddings", r.URL.Path)

		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "nomic-embed-text", req.Model)
		prompts = append(prompts, req.Prompt)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"embedding": []float64{0.1, 0.2, float64(len(prompts))},
		})
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "")
	vectors, err := svc.EmbedTexts(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	require.Len(t, vectors, 2)
	assert.Equal(t, []string{"first", "second"}, prompts, "inputs must be embedded in order")
	assert.InDelta(t, 1.0, vectors[0][2], 1e-6)
	assert.InDelta(t, 2.0, vectors[1][2], 1e-6)
}

func TestOllamaEmbedTextsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewOllamaService(server.URL, "")
	_, err := svc.EmbedTexts(context.Background(), []string{"text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestOllamaDimensions(t *testing.T) {
	assert.Equal(t, 768, NewOllamaService("", "").Dimensions())
	assert.Equal(t, 1024, NewOllamaService("", "mxbai-embed-large").Dimensions())
}

func TestFactorySelectsProvider(t *testing.T) {
	svc, err := NewEmbeddingService(Config{Provider: ProviderOllama})
	require.NoError(t, err)
	assert.IsType(t, &OllamaService{}, svc)

	svc, err = NewEmbeddingService(Config{Provider: ProviderOpenAI, OpenAIAPIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIService{}, svc)

	// Auto falls back to the local provider when no api key is configured
	svc, err = NewEmbeddingService(Config{Provider: ProviderAuto})
	require.NoError(t, err)
	assert.IsType(t, &OllamaService{}, svc)
}
