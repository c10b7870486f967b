package veracite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mbellot/veracite/core/pipeline"
	"github.com/mbellot/veracite/core/retrieval"
	"github.com/mbellot/veracite/core/validate"
	"github.com/mbellot/veracite/database"
	"github.com/mbellot/veracite/extract"
	"github.com/mbellot/veracite/helper"
	"github.com/mbellot/veracite/model"
	loadSql "github.com/mbellot/veracite/sql"
)

// Veracite provides a unified interface to ingestion, retrieval and
// citation validation
type Veracite struct {
	DB        *helper.Database
	Chunks    *database.ChunksDBHandler
	Documents *database.DocumentsDBHandler
	Pipeline  *pipeline.Pipeline // Optional chunking and embedding pipeline
	Engine    *retrieval.Engine  // Query-side retrieval engine
	Validator *validate.Validator
	// Logging
	log *slog.Logger
}

// NewVeracite creates a new Veracite instance with all handlers initialized.
// The validator starts in lenient mode, use UseStrictValidation for literal
// substring matching only.
func NewVeracite(config *helper.DatabaseConfiguration, embeddingDim int) (*Veracite, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	// Initialize database
	db := helper.NewDatabase("veracite", config, logger)
	err := loadSql.Init(db.Instance)
	if err != nil {
		return nil, helper.NewError("initialize database extensions", err)
	}

	// Create handlers in the correct order (documents first, then chunks)
	// force=false to not reload if functions already exist
	documents, err := database.NewDocumentsDBHandler(db, false)
	if err != nil {
		return nil, helper.NewError("create documents handler", err)
	}

	chunks, err := database.NewChunksDBHandler(db, embeddingDim, false)
	if err != nil {
		return nil, helper.NewError("create chunks handler", err)
	}

	// The engine starts without a scorer, reranking is skipped until
	// UseDefaultReranker or SetScorer wires one in
	engine := retrieval.NewEngine(chunks, nil)

	return &Veracite{
		DB:        db,
		Chunks:    chunks,
		Documents: documents,
		Engine:    engine,
		Validator: validate.NewValidator(true),
		log:       logger,
	}, nil
}

// Close closes the database connection
func (v *Veracite) Close() error {
	if v.DB != nil && v.DB.Instance != nil {
		return v.DB.Instance.Close()
	}
	return nil
}

// SetPipeline sets the chunking pipeline for document processing
func (v *Veracite) SetPipeline(pipeline *pipeline.Pipeline) {
	v.Pipeline = pipeline
}

// UseDefaultPipeline sets up the default token-window chunking and embedding
// pipeline. This uses DefaultChunkConfig (token windows of roughly 1050
// tokens with 100 token overlap) and DefaultEmbedder with the
// all-MiniLM-L6-v2 model (384 dimensions).
func (v *Veracite) UseDefaultPipeline() error {
	embedder, err := pipeline.DefaultEmbedder()
	if err != nil {
		return helper.NewError("create default embedder", err)
	}

	p, err := pipeline.NewPipeline(model.DefaultChunkConfig(), embedder)
	if err != nil {
		return helper.NewError("create default pipeline", err)
	}

	v.Pipeline = p
	return nil
}

// SetScorer sets the cross-encoder scorer used for reranking
func (v *Veracite) SetScorer(scorer retrieval.Scorer) {
	v.Engine = retrieval.NewEngine(v.Chunks, scorer)
}

// UseDefaultReranker wires in the local cross-encoder reranker
// (ms-marco-MiniLM-L-6-v2 through hugot)
func (v *Veracite) UseDefaultReranker() error {
	scorer, err := retrieval.HugotScorer()
	if err != nil {
		return helper.NewError("create default reranker", err)
	}

	v.SetScorer(scorer)
	return nil
}

// UseStrictValidation switches the validator to literal substring matching
// only, rejecting near-verbatim quotes
func (v *Veracite) UseStrictValidation() {
	v.Validator = validate.NewValidator(false)
}

// ProcessAndInsertDocument processes a document by:
// 1. Inserting the document metadata (without content)
// 2. Processing the content into chunks using the pipeline
// 3. Inserting all chunks with the document ID
// The document's Content field is used for processing but not stored in the
// database. Form feeds in the content separate physical pages.
// Returns the number of chunks inserted and any error encountered.
func (v *Veracite) ProcessAndInsertDocument(ctx context.Context, doc *model.Document) (int, error) {
	if v.Pipeline == nil {
		return 0, helper.NewError("process document", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	if doc.Content == "" {
		return 0, helper.NewError("process document", fmt.Errorf("document content is empty"))
	}

	// Store content temporarily and clear it before DB insert
	content := doc.Content
	doc.Content = ""

	return v.insertWithPages(ctx, doc, extract.ExtractText(content))
}

// ProcessAndInsertFile extracts a file (PDF page by page, anything else as
// plain text), processes it into chunks and persists document and chunks.
// The title defaults to the file name without extension.
func (v *Veracite) ProcessAndInsertFile(ctx context.Context, path string, metadata model.Metadata) (*model.Document, int, error) {
	pages, err := extract.ExtractFile(path)
	if err != nil {
		return nil, 0, helper.NewError("extract file", err)
	}

	doc := &model.Document{
		Title:    titleFromPath(path),
		Source:   path,
		Metadata: metadata,
	}

	inserted, err := v.insertWithPages(ctx, doc, pages)
	if err != nil {
		return nil, inserted, err
	}

	return doc, inserted, nil
}

// insertWithPages persists the document metadata, runs the segmentation
// pipeline over its pages and persists the resulting chunks
func (v *Veracite) insertWithPages(ctx context.Context, doc *model.Document, pages []pipeline.Page) (int, error) {
	if v.Pipeline == nil {
		return 0, helper.NewError("process document", fmt.Errorf("pipeline not set, use SetPipeline() first"))
	}

	// Insert document metadata
	if err := v.Documents.InsertDocument(doc); err != nil {
		return 0, helper.NewError("insert document", err)
	}

	v.log.Info("Inserted document", slog.String("document_id", doc.RID.String()), slog.String("title", doc.Title))

	// Process pages into chunks
	chunks, err := v.Pipeline.ProcessPages(ctx, pages)
	if err != nil {
		return 0, helper.NewError("process chunks", err)
	}

	v.log.Info("Processed document into chunks", slog.Int("num_chunks", len(chunks)), slog.String("document_id", doc.RID.String()))

	// Insert all chunks
	for i, chunk := range chunks {
		chunk.DocumentID = doc.ID
		if err := v.Chunks.InsertChunk(chunk); err != nil {
			return i, helper.NewError(fmt.Sprintf("insert chunk %d", i), err)
		}
	}

	return len(chunks), nil
}

// embedQuery generates the query embedding through the pipeline's embedder
func (v *Veracite) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if v.Pipeline == nil || v.Pipeline.Embedder == nil {
		return nil, helper.NewError("embed query", fmt.Errorf("pipeline with embedder not set, use SetPipeline() first"))
	}

	embeddings, err := v.Pipeline.Embedder(ctx, []string{query})
	if err != nil {
		return nil, helper.NewError("embed query", err)
	}
	if len(embeddings) != 1 {
		return nil, helper.NewError("embed query", fmt.Errorf("expected one embedding, got %d", len(embeddings)))
	}

	return embeddings[0], nil
}

// Search performs pure vector similarity search without diversification
// or reranking
func (v *Veracite) Search(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalCandidate, error) {
	embedding, err := v.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}

	return v.Engine.VectorRetrieve(ctx, embedding, config)
}

// Query runs the full query-side pipeline: embed the query, vector search,
// cross-document diversification and reranking when a scorer is configured
func (v *Veracite) Query(ctx context.Context, query string, config *model.QueryConfig) ([]*model.RetrievalCandidate, error) {
	embedding, err := v.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	return v.Engine.Retrieve(ctx, query, embedding, config)
}

// DocumentScopedQuery runs the full query-side pipeline within specific
// documents only. This is optimized for single or multi-document Q&A by
// filtering at the database level.
func (v *Veracite) DocumentScopedQuery(ctx context.Context, query string, documentRIDs []uuid.UUID, config *model.QueryConfig) ([]*model.RetrievalCandidate, error) {
	if len(documentRIDs) == 0 {
		return nil, helper.NewError("document scoped query", fmt.Errorf("at least one document RID must be provided"))
	}

	if config == nil {
		defaults := model.DefaultQueryConfig()
		config = &defaults
	}
	config.DocumentRIDs = documentRIDs

	return v.Query(ctx, query, config)
}

// Validate checks every quoted citation in a generated answer against the
// retrieved candidates and returns the grounding report
func (v *Veracite) Validate(answer string, candidates []*model.RetrievalCandidate) *model.GroundingReport {
	chunks := make([]*model.Chunk, len(candidates))
	for i, candidate := range candidates {
		chunks[i] = candidate.Chunk
	}
	return v.Validator.Validate(answer, chunks)
}

// FormatReport renders a grounding report as human-readable text
func (v *Veracite) FormatReport(report *model.GroundingReport) string {
	return validate.FormatReport(report)
}

// BuildContext assembles the retrieved candidates into the context string
// handed to a language model. Each chunk is numbered so citation labels in
// the generated answer line up with the validator's sources.
func (v *Veracite) BuildContext(candidates []*model.RetrievalCandidate) string {
	titles := map[uuid.UUID]string{}
	parts := make([]string, 0, len(candidates))

	for i, candidate := range candidates {
		title, ok := titles[candidate.Chunk.DocumentRID]
		if !ok {
			title = "Unknown"
			if doc, err := v.Documents.SelectDocument(candidate.Chunk.DocumentRID); err == nil {
				title = doc.Title
			}
			titles[candidate.Chunk.DocumentRID] = title
		}

		parts = append(parts, fmt.Sprintf("[Source %d: %s]\n%s\n", i+1, title, candidate.Chunk.Content))
	}

	return strings.Join(parts, "\n")
}

// ChangeIndexType changes the vector index type between HNSW and IVFFlat
func (v *Veracite) ChangeIndexType(ctx context.Context, indexType string, params map[string]interface{}) error {
	return v.Chunks.ChangeIndexType(ctx, indexType, params)
}

// titleFromPath derives a document title from a file path, the file name
// without its extension
func titleFromPath(path string) string {
	base := path
	if idx := strings.LastIndexAny(base, "/\\"); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "" {
		return path
	}
	return base
}
