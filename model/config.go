package model

import "github.com/google/uuid"

// ChunkStrategy selects how documents are split into chunks
type ChunkStrategy string

const (
	// ChunkStrategySentence groups a fixed number of sentences per chunk
	ChunkStrategySentence ChunkStrategy = "sentence"
	// ChunkStrategyToken accumulates text up to a token budget using
	// priority-ordered separators
	ChunkStrategyToken ChunkStrategy = "token"
)

// ChunkConfig represents configuration for document chunking
type ChunkConfig struct {
	Strategy ChunkStrategy `json:"strategy"`

	// Sentence-window parameters
	SentencesPerChunk int `json:"sentences_per_chunk"`
	SentenceOverlap   int `json:"sentence_overlap"`

	// Token-window parameters
	TokenBudget  int `json:"token_budget"`
	TokenOverlap int `json:"token_overlap"`

	// Cleanup parameters
	MinChunkChars int `json:"min_chunk_chars"`
}

// DefaultChunkConfig returns the token-window configuration used for
// regulatory documents (roughly 900-1200 tokens per chunk)
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		Strategy:          ChunkStrategyToken,
		SentencesPerChunk: 5,
		SentenceOverlap:   1,
		TokenBudget:       1050,
		TokenOverlap:      100,
		MinChunkChars:     100,
	}
}

// QueryConfig represents configuration for a retrieval query
type QueryConfig struct {
	// Vector search parameters
	TopK                int     `json:"top_k"`
	CandidateK          int     `json:"candidate_k"` // Breadth of the vector search before diversification
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`

	// Document filtering
	DocumentRIDs []uuid.UUID `json:"document_rids,omitempty"`

	// Diversification parameters
	MaxPerDocument int `json:"max_per_document"`

	// Reranking parameters
	Rerank bool `json:"rerank"`
}

// DefaultQueryConfig returns a sensible default configuration
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{
		TopK:                5,
		CandidateK:          20,
		SimilarityThreshold: 0.5,
		MaxPerDocument:      3,
		Rerank:              true,
	}
}
