package model

import (
	"time"

	"github.com/google/uuid"
)

// Chunk represents a contiguous retrieval unit derived from a document.
// ChunkIndex is the document-local reading order (contiguous from 0),
// not a similarity rank. Chunks are immutable once created and are
// deleted together with their document.
type Chunk struct {
	ID            int64     `json:"id"`
	DocumentID    int64     `json:"document_id"`
	DocumentRID   uuid.UUID `json:"document_rid"`
	ChunkIndex    int       `json:"chunk_index"`
	Content       string    `json:"content"`
	TokenCount    int       `json:"token_count"`
	PageNumber    int       `json:"page_number"`
	PageExtracted bool      `json:"page_extracted"`
	PhysicalPage  int       `json:"physical_page"`
	SectionTitle  *string   `json:"section_title,omitempty"`
	Embedding     []float32 `json:"embedding,omitempty"`
	Metadata      Metadata  `json:"metadata,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	// Results
	Similarity *float64 `json:"similarity,omitempty"`
}
