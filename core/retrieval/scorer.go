package retrieval

import (
	"context"
	"fmt"

	"github.com/knights-analytics/hugot"

	"github.com/mbellot/veracite/helper"
)

// ScoreFunc adapts a plain function to the Scorer interface
type ScoreFunc func(ctx context.Context, query string, texts []string) ([]float64, error)

func (f ScoreFunc) Score(ctx context.Context, query string, texts []string) ([]float64, error) {
	return f(ctx, query, texts)
}

// crossEncoderSeparator joins query and passage into the single sequence a
// cross-encoder classification model expects
const crossEncoderSeparator = " [SEP] "

// HugotScorer creates a scorer running a local cross-encoder model through
// hugot. Uses ms-marco-MiniLM-L-6-v2, a relevance classifier trained on
// query-passage pairs. The model is downloaded on first use and the session
// is created once and reused for every call.
func HugotScorer() (Scorer, error) {
	modelName := "cross-encoder/ms-marco-MiniLM-L-6-v2"
	modelPath, err := helper.PrepareModel(modelName, "onnx/model.onnx")
	if err != nil {
		return nil, err
	}

	session, err := hugot.NewGoSession()
	if err != nil {
		return nil, fmt.Errorf("failed to create hugot session: %w", err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "reranker-pipeline",
	}
	classificationPipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		if destroyErr := session.Destroy(); destroyErr != nil {
			return nil, fmt.Errorf("failed to create reranker pipeline: %w (cleanup error: %v)", err, destroyErr)
		}
		return nil, fmt.Errorf("failed to create reranker pipeline: %w", err)
	}

	return ScoreFunc(func(ctx context.Context, query string, texts []string) ([]float64, error) {
		if len(texts) == 0 {
			return []float64{}, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pairs := make([]string, len(texts))
		for i, text := range texts {
			pairs[i] = query + crossEncoderSeparator + text
		}

		result, err := classificationPipeline.RunPipeline(pairs)
		if err != nil {
			return nil, fmt.Errorf("failed to run reranker: %w", err)
		}

		if len(result.ClassificationOutputs) != len(texts) {
			return nil, fmt.Errorf("score count mismatch: got %d outputs for %d texts", len(result.ClassificationOutputs), len(texts))
		}

		scores := make([]float64, len(texts))
		for i, outputs := range result.ClassificationOutputs {
			if len(outputs) == 0 {
				return nil, fmt.Errorf("empty classification output for text %d", i)
			}
			scores[i] = float64(outputs[0].Score)
		}

		return scores, nil
	}), nil
}
