package pipeline

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIEmbedderOptions configures the remote embedding provider.
// BaseURL may point at any OpenAI-compatible endpoint.
type OpenAIEmbedderOptions struct {
	APIKey    string
	BaseURL   string
	Model     string
	Dimension int
}

// OpenAIEmbedder creates an embedder backed by an OpenAI-compatible API.
// Dimension, when set, is verified against every returned vector.
func OpenAIEmbedder(opts OpenAIEmbedderOptions) (EmbedFunc, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("openai embedding model is required")
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	client := openai.NewClientWithConfig(cfg)

	return func(ctx context.Context, texts []string) ([][]float32, error) {
		if len(texts) == 0 {
			return [][]float32{}, nil
		}

		resp, err := client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Model: openai.EmbeddingModel(opts.Model),
			Input: texts,
		})
		if err != nil {
			return nil, fmt.Errorf("create openai embeddings: %w", err)
		}

		results := make([][]float32, len(resp.Data))
		for i, datum := range resp.Data {
			if opts.Dimension > 0 && len(datum.Embedding) != opts.Dimension {
				return nil, fmt.Errorf("openai embedding dimension mismatch: expected %d, got %d", opts.Dimension, len(datum.Embedding))
			}
			results[i] = datum.Embedding
		}

		return results, nil
	}, nil
}
