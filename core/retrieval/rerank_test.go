package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbellot/veracite/model"
)

// scoresByIndex fakes a scorer returning preset raw scores in input order
func scoresByIndex(scores ...float64) Scorer {
	return ScoreFunc(func(ctx context.Context, query string, texts []string) ([]float64, error) {
		if len(texts) != len(scores) {
			return nil, fmt.Errorf("expected %d texts, got %d", len(scores), len(texts))
		}
		return scores, nil
	})
}

func TestRerank(t *testing.T) {
	ctx := context.Background()

	t.Run("Normalizes scores and sorts descending", func(t *testing.T) {
		candidates := []*model.RetrievalCandidate{
			candidateFor(1, 0.9, "low"),
			candidateFor(2, 0.8, "high"),
			candidateFor(3, 0.7, "middle"),
		}

		reranked, err := Rerank(ctx, scoresByIndex(1.0, 3.0, 2.0), "query", candidates, 3)

		require.NoError(t, err)
		assert.Equal(t, []string{"high", "middle", "low"}, contentsOf(reranked))
		assert.Equal(t, 1.0, reranked[0].RerankScore)
		assert.Equal(t, 0.5, reranked[1].RerankScore)
		assert.Equal(t, 0.0, reranked[2].RerankScore)
		for _, candidate := range reranked {
			assert.Equal(t, candidate.RerankScore, candidate.Score)
			assert.Equal(t, model.RetrievalMethodReranked, candidate.RetrievalMethod)
		}
	})

	t.Run("Equal raw scores normalize to one half", func(t *testing.T) {
		candidates := []*model.RetrievalCandidate{
			candidateFor(1, 0.9, "first"),
			candidateFor(2, 0.8, "second"),
			candidateFor(3, 0.7, "third"),
		}

		reranked, err := Rerank(ctx, scoresByIndex(4.2, 4.2, 4.2), "query", candidates, 3)

		require.NoError(t, err)
		// Stable sort keeps the original order on ties
		assert.Equal(t, []string{"first", "second", "third"}, contentsOf(reranked))
		for _, candidate := range reranked {
			assert.Equal(t, 0.5, candidate.RerankScore)
		}
	})

	t.Run("Single candidate normalizes to one half", func(t *testing.T) {
		candidates := []*model.RetrievalCandidate{candidateFor(1, 0.9, "only")}

		reranked, err := Rerank(ctx, scoresByIndex(-7.3), "query", candidates, 5)

		require.NoError(t, err)
		require.Len(t, reranked, 1)
		assert.Equal(t, 0.5, reranked[0].RerankScore)
	})

	t.Run("Truncates to k after sorting", func(t *testing.T) {
		candidates := []*model.RetrievalCandidate{
			candidateFor(1, 0.9, "low"),
			candidateFor(2, 0.8, "high"),
			candidateFor(3, 0.7, "middle"),
		}

		reranked, err := Rerank(ctx, scoresByIndex(1.0, 3.0, 2.0), "query", candidates, 2)

		require.NoError(t, err)
		assert.Equal(t, []string{"high", "middle"}, contentsOf(reranked))
	})

	t.Run("Does not modify input candidates", func(t *testing.T) {
		candidates := []*model.RetrievalCandidate{
			candidateFor(1, 0.9, "low"),
			candidateFor(2, 0.8, "high"),
		}

		_, err := Rerank(ctx, scoresByIndex(1.0, 2.0), "query", candidates, 2)

		require.NoError(t, err)
		assert.Equal(t, model.RetrievalMethodVector, candidates[0].RetrievalMethod)
		assert.Equal(t, 0.0, candidates[0].RerankScore)
	})

	t.Run("Empty input yields empty output without scoring", func(t *testing.T) {
		scorer := ScoreFunc(func(ctx context.Context, query string, texts []string) ([]float64, error) {
			t.Fatal("scorer must not be called for empty input")
			return nil, nil
		})

		reranked, err := Rerank(ctx, scorer, "query", nil, 5)

		require.NoError(t, err)
		assert.Empty(t, reranked)
	})

	t.Run("Propagates scorer errors", func(t *testing.T) {
		scorer := ScoreFunc(func(ctx context.Context, query string, texts []string) ([]float64, error) {
			return nil, fmt.Errorf("model unavailable")
		})
		candidates := []*model.RetrievalCandidate{candidateFor(1, 0.9, "only")}

		_, err := Rerank(ctx, scorer, "query", candidates, 5)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "rerank candidates")
	})

	t.Run("Rejects score count mismatch", func(t *testing.T) {
		scorer := ScoreFunc(func(ctx context.Context, query string, texts []string) ([]float64, error) {
			return []float64{1.0}, nil
		})
		candidates := []*model.RetrievalCandidate{
			candidateFor(1, 0.9, "first"),
			candidateFor(2, 0.8, "second"),
		}

		_, err := Rerank(ctx, scorer, "query", candidates, 5)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "mismatch")
	})
}
