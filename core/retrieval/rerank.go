package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/mbellot/veracite/helper"
	"github.com/mbellot/veracite/model"
)

// Scorer produces one relevance score per (query, text) pair. Scores are
// unbounded reals, higher means more relevant.
type Scorer interface {
	Score(ctx context.Context, query string, texts []string) ([]float64, error)
}

// Rerank scores the candidates against the query with the external scorer,
// min-max normalizes the raw scores into [0,1], sorts descending (stable on
// ties, preserving the original relative order) and truncates to k.
// Deterministic for a fixed scorer output. Input candidates are not
// modified, the result carries copies.
func Rerank(ctx context.Context, scorer Scorer, query string, candidates []*model.RetrievalCandidate, k int) ([]*model.RetrievalCandidate, error) {
	if len(candidates) == 0 {
		return []*model.RetrievalCandidate{}, nil
	}

	texts := make([]string, len(candidates))
	for i, candidate := range candidates {
		texts[i] = candidate.Chunk.Content
	}

	scores, err := scorer.Score(ctx, query, texts)
	if err != nil {
		return nil, helper.NewError("rerank candidates", err)
	}
	if len(scores) != len(candidates) {
		return nil, helper.NewError("rerank candidates", fmt.Errorf("score count mismatch: got %d scores for %d candidates", len(scores), len(candidates)))
	}

	normalized := normalizeScores(scores)

	reranked := make([]*model.RetrievalCandidate, len(candidates))
	for i, candidate := range candidates {
		clone := *candidate
		clone.RerankScore = normalized[i]
		clone.Score = normalized[i]
		clone.RetrievalMethod = model.RetrievalMethodReranked
		reranked[i] = &clone
	}

	sort.SliceStable(reranked, func(i, j int) bool {
		return reranked[i].RerankScore > reranked[j].RerankScore
	})

	if k > 0 && len(reranked) > k {
		reranked = reranked[:k]
	}

	return reranked, nil
}

// normalizeScores min-max scales raw scores into [0,1]. When every score is
// equal the scale is undefined and all scores become 0.5.
func normalizeScores(scores []float64) []float64 {
	minScore, maxScore := scores[0], scores[0]
	for _, score := range scores[1:] {
		if score < minScore {
			minScore = score
		}
		if score > maxScore {
			maxScore = score
		}
	}

	normalized := make([]float64, len(scores))
	if maxScore == minScore {
		for i := range normalized {
			normalized[i] = 0.5
		}
		return normalized
	}

	for i, score := range scores {
		normalized[i] = (score - minScore) / (maxScore - minScore)
	}
	return normalized
}
