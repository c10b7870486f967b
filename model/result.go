package model

// RetrievalMethod describes how a chunk entered the result set
type RetrievalMethod string

const (
	RetrievalMethodVector   RetrievalMethod = "vector"
	RetrievalMethodReranked RetrievalMethod = "reranked"
)

// RetrievalCandidate represents a chunk retrieved for a query.
// Candidates are ephemeral, they are produced per query and never persisted.
type RetrievalCandidate struct {
	Chunk           *Chunk          `json:"chunk"`
	Score           float64         `json:"score"`            // Current ranking score
	SimilarityScore float64         `json:"similarity_score"` // Cosine similarity from the vector index
	RerankScore     float64         `json:"rerank_score"`     // Normalized cross-encoder score, [0,1]
	RetrievalMethod RetrievalMethod `json:"retrieval_method"`
}
