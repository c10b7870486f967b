package pipeline

import (
	"context"
	"fmt"

	"github.com/knights-analytics/hugot"
	"github.com/mbellot/veracite/helper"
)

// DefaultEmbedder creates an embedder running a local sentence transformer
// through hugot. Uses the all-MiniLM-L6-v2 model which produces
// 384-dimensional embeddings. The model is downloaded on first use and the
// session is created once and reused for every call.
func DefaultEmbedder() (EmbedFunc, error) {
	modelName := "sentence-transformers/all-MiniLM-L6-v2"
	modelPath, err := helper.PrepareModel(modelName, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "embedder-pipeline",
	}
	sentencePipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create sentence pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create sentence pipeline: %w", err)
	}

	return func(ctx context.Context, texts []string) ([][]float32, error) {
		if len(texts) == 0 {
			return [][]float32{}, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := sentencePipeline.RunPipeline(texts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}

		if len(result.Embeddings) != len(texts) {
			return nil, fmt.Errorf("embedding count mismatch: got %d embeddings for %d texts", len(result.Embeddings), len(texts))
		}

		return result.Embeddings, nil
	}, nil
}
