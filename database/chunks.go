package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"

	"github.com/mbellot/veracite/helper"
	"github.com/mbellot/veracite/model"
	loadSql "github.com/mbellot/veracite/sql"
)

// ChunksDBHandlerFunctions defines the interface for Chunks database operations.
type ChunksDBHandlerFunctions interface {
	InsertChunk(chunk *model.Chunk) error
	SelectChunk(id int64) (*model.Chunk, error)
	SelectChunksByDocument(documentRID uuid.UUID) ([]*model.Chunk, error)
	SelectChunksBySimilarity(embedding []float32, limit int, documentRIDs []uuid.UUID) ([]*model.Chunk, error)
	DeleteChunksByDocument(documentRID uuid.UUID) error
}

// ChunksDBHandler handles chunk-related database operations
type ChunksDBHandler struct {
	db *helper.Database
}

// NewChunksDBHandler creates a new chunks database handler.
// It initializes the database connection and loads chunk-related SQL functions.
// If force is true, it will reload the SQL functions even if they already exist.
func NewChunksDBHandler(db *helper.Database, embeddingDim int, force bool) (*ChunksDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}

	chunksDbHandler := &ChunksDBHandler{
		db: db,
	}

	err := loadSql.LoadChunksSql(chunksDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load chunks sql", err)
	}

	err = chunksDbHandler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized ChunksDBHandler")

	return chunksDbHandler, nil
}

// CreateTable creates the 'chunks' table in the database.
// If the table already exists, it does not create it again.
// It also creates all necessary extensions and indexes.
func (h *ChunksDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_chunks($1);`, embeddingDim)
	if err != nil {
		log.Panicf("error initializing chunks table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table chunks")

	return nil
}

// InsertChunk inserts a new chunk
func (h *ChunksDBHandler) InsertChunk(chunk *model.Chunk) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_chunk($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		chunk.DocumentID,
		chunk.ChunkIndex,
		chunk.Content,
		chunk.TokenCount,
		chunk.PageNumber,
		chunk.PageExtracted,
		chunk.PhysicalPage,
		chunk.SectionTitle,
		pq.Array(chunk.Embedding),
		chunk.Metadata,
	)

	err := row.Scan(
		&chunk.ID,
		&chunk.DocumentID,
		&chunk.DocumentRID,
		&chunk.ChunkIndex,
		&chunk.Content,
		&chunk.TokenCount,
		&chunk.PageNumber,
		&chunk.PageExtracted,
		&chunk.PhysicalPage,
		&chunk.SectionTitle,
		pq.Array(&chunk.Embedding),
		&chunk.Metadata,
		&chunk.CreatedAt,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// SelectChunk retrieves a chunk by ID
func (h *ChunksDBHandler) SelectChunk(id int64) (*model.Chunk, error) {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM select_chunk($1)`,
		id,
	)

	chunk := &model.Chunk{}
	err := row.Scan(
		&chunk.ID,
		&chunk.DocumentID,
		&chunk.DocumentRID,
		&chunk.ChunkIndex,
		&chunk.Content,
		&chunk.TokenCount,
		&chunk.PageNumber,
		&chunk.PageExtracted,
		&chunk.PhysicalPage,
		&chunk.SectionTitle,
		pq.Array(&chunk.Embedding),
		&chunk.Metadata,
		&chunk.CreatedAt,
	)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return chunk, nil
}

// SelectChunksByDocument retrieves all chunks for a document in reading order
func (h *ChunksDBHandler) SelectChunksByDocument(documentRID uuid.UUID) ([]*model.Chunk, error) {
	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chunks_by_document($1)`,
		documentRID,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var chunks []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.DocumentRID,
			&chunk.ChunkIndex,
			&chunk.Content,
			&chunk.TokenCount,
			&chunk.PageNumber,
			&chunk.PageExtracted,
			&chunk.PhysicalPage,
			&chunk.SectionTitle,
			pq.Array(&chunk.Embedding),
			&chunk.Metadata,
			&chunk.CreatedAt,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		chunks = append(chunks, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return chunks, nil
}

// SelectChunksBySimilarity performs vector similarity search ordered by
// descending cosine similarity. If documentRIDs is nil or empty, searches
// across all documents. Threshold filtering happens in the retrieval engine,
// not here.
func (h *ChunksDBHandler) SelectChunksBySimilarity(embedding []float32, limit int, documentRIDs []uuid.UUID) ([]*model.Chunk, error) {
	embeddingVector := pgvector.NewVector(embedding)

	var documentRIDsParam interface{}
	if len(documentRIDs) > 0 {
		documentRIDsParam = pq.Array(documentRIDs)
	} else {
		documentRIDsParam = nil
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_chunks_by_similarity($1, $2, $3)`,
		embeddingVector,
		limit,
		documentRIDsParam,
	)
	if err != nil {
		return nil, helper.NewError("query", err)
	}
	defer rows.Close()

	var results []*model.Chunk
	for rows.Next() {
		chunk := &model.Chunk{}
		err := rows.Scan(
			&chunk.ID,
			&chunk.DocumentID,
			&chunk.DocumentRID,
			&chunk.ChunkIndex,
			&chunk.Content,
			&chunk.TokenCount,
			&chunk.PageNumber,
			&chunk.PageExtracted,
			&chunk.PhysicalPage,
			&chunk.SectionTitle,
			pq.Array(&chunk.Embedding),
			&chunk.Metadata,
			&chunk.CreatedAt,
			&chunk.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}

		results = append(results, chunk)
	}

	err = rows.Err()
	if err != nil {
		return nil, helper.NewError("rows error", err)
	}

	return results, nil
}

// DeleteChunksByDocument deletes every chunk of a document
func (h *ChunksDBHandler) DeleteChunksByDocument(documentRID uuid.UUID) error {
	_, err := h.db.Instance.Exec(
		`SELECT delete_chunks_by_document($1)`,
		documentRID,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
