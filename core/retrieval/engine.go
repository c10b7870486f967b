package retrieval

import (
	"context"

	"github.com/google/uuid"

	"github.com/mbellot/veracite/helper"
	"github.com/mbellot/veracite/model"
)

// ChunkStore is the persistence surface the engine reads from. Implemented
// by database.ChunksDBHandler, kept narrow so tests can fake it.
type ChunkStore interface {
	SelectChunksBySimilarity(embedding []float32, limit int, documentRIDs []uuid.UUID) ([]*model.Chunk, error)
}

// Engine runs the query-side retrieval pipeline: vector search over the
// chunk store, cross-document diversification and optional cross-encoder
// reranking. Stateless per call, concurrent queries share nothing but the
// read-only store and scorer.
type Engine struct {
	chunks ChunkStore
	scorer Scorer
}

// NewEngine creates a retrieval engine. The scorer may be nil, in which
// case reranking is skipped regardless of configuration.
func NewEngine(chunks ChunkStore, scorer Scorer) *Engine {
	return &Engine{
		chunks: chunks,
		scorer: scorer,
	}
}

// VectorRetrieve performs pure vector similarity search with CandidateK
// breadth. Candidates below the similarity threshold are dropped, except
// that the best candidate is always kept so a strict threshold never
// empties an otherwise non-empty result.
func (e *Engine) VectorRetrieve(ctx context.Context, embedding []float32, config *model.QueryConfig) ([]*model.RetrievalCandidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := config.CandidateK
	if limit <= 0 {
		limit = config.TopK
	}

	chunks, err := e.chunks.SelectChunksBySimilarity(embedding, limit, config.DocumentRIDs)
	if err != nil {
		return nil, helper.NewError("vector retrieve", err)
	}

	candidates := make([]*model.RetrievalCandidate, len(chunks))
	for i, chunk := range chunks {
		score := 0.0
		if chunk.Similarity != nil {
			score = *chunk.Similarity
		}
		candidates[i] = &model.RetrievalCandidate{
			Chunk:           chunk,
			Score:           score,
			SimilarityScore: score,
			RetrievalMethod: model.RetrievalMethodVector,
		}
	}

	return filterByThreshold(candidates, config.SimilarityThreshold), nil
}

// filterByThreshold drops candidates scoring below the threshold. When every
// candidate falls below it the single best one is kept.
func filterByThreshold(candidates []*model.RetrievalCandidate, threshold float64) []*model.RetrievalCandidate {
	if threshold <= 0 || len(candidates) == 0 {
		return candidates
	}

	var kept []*model.RetrievalCandidate
	best := candidates[0]
	for _, candidate := range candidates {
		if candidate.SimilarityScore >= threshold {
			kept = append(kept, candidate)
		}
		if candidate.SimilarityScore > best.SimilarityScore {
			best = candidate
		}
	}

	if len(kept) == 0 {
		return []*model.RetrievalCandidate{best}
	}
	return kept
}

// Retrieve runs the full query-side pipeline: vector search, diversification
// down to TopK under the per-document cap, then reranking when enabled and a
// scorer is available. An empty result at any stage is a defined terminal
// state, not an error.
func (e *Engine) Retrieve(ctx context.Context, query string, embedding []float32, config *model.QueryConfig) ([]*model.RetrievalCandidate, error) {
	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}

	candidates, err := e.VectorRetrieve(ctx, embedding, config)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []*model.RetrievalCandidate{}, nil
	}

	selected := SelectDiverse(candidates, config.TopK, config.MaxPerDocument)

	if config.Rerank && e.scorer != nil {
		return Rerank(ctx, e.scorer, query, selected, config.TopK)
	}

	return selected, nil
}
