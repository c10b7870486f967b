package pipeline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mbellot/veracite/core/segment"
	"github.com/mbellot/veracite/helper"
	"github.com/mbellot/veracite/model"
)

// Page is the raw text of one physical page, as produced by the extraction
// layer. Physical is the 1-based position of the page in the file.
type Page struct {
	Text     string
	Physical int
}

// pageJoiner separates page texts in the concatenated document
const pageJoiner = "\n\n"

// Pipeline turns extracted page text into embedded chunk records.
// It is stateless per call, the same pages and configuration always
// produce the same chunk sequence.
type Pipeline struct {
	Chunker       ChunkFunc
	Embedder      EmbedFunc
	Tokenizer     Tokenizer
	MinChunkChars int
}

// NewPipeline builds a pipeline from a chunking configuration. The chunking
// strategy is selected by config.Strategy, tokenization defaults to the
// whitespace tokenizer unless SetTokenizer is called.
func NewPipeline(config model.ChunkConfig, embedder EmbedFunc) (*Pipeline, error) {
	tokenizer := Tokenizer(WordTokenizer{})

	var chunker ChunkFunc
	switch config.Strategy {
	case model.ChunkStrategySentence:
		chunker = SentenceWindowChunker(config.SentencesPerChunk, config.SentenceOverlap)
	case model.ChunkStrategyToken:
		chunker = TokenWindowChunker(config.TokenBudget, config.TokenOverlap, tokenizer)
	default:
		return nil, fmt.Errorf("unknown chunk strategy: %v", config.Strategy)
	}

	minChars := config.MinChunkChars
	if minChars <= 0 {
		minChars = model.DefaultChunkConfig().MinChunkChars
	}

	return &Pipeline{
		Chunker:       chunker,
		Embedder:      embedder,
		Tokenizer:     tokenizer,
		MinChunkChars: minChars,
	}, nil
}

// Process chunks a plain text treated as a single physical page
func (p *Pipeline) Process(ctx context.Context, text string) ([]*model.Chunk, error) {
	return p.ProcessPages(ctx, []Page{{Text: text, Physical: 1}})
}

// ProcessPages runs the full segmentation pipeline over a document's pages:
// page-number mapping, chunking across page boundaries, boundary cleanup,
// section-title detection, token counting and embedding. Chunks are emitted
// in reading order with a contiguous ordinal index starting at 0. Producing
// zero usable chunks is a defined terminal state, not an error.
func (p *Pipeline) ProcessPages(ctx context.Context, pages []Page) ([]*model.Chunk, error) {
	if p.Chunker == nil {
		return nil, helper.NewError("process pages", fmt.Errorf("chunker not set"))
	}

	type pageInfo struct {
		number    int
		extracted bool
		physical  int
		start     int
	}

	// Concatenate pages, remembering where each one starts
	var builder strings.Builder
	infos := make([]pageInfo, 0, len(pages))
	for i, page := range pages {
		if i > 0 {
			builder.WriteString(pageJoiner)
		}
		number, extracted := segment.MapPage(page.Text, page.Physical)
		infos = append(infos, pageInfo{
			number:    number,
			extracted: extracted,
			physical:  page.Physical,
			start:     builder.Len(),
		})
		builder.WriteString(page.Text)
	}
	fullText := builder.String()

	spans, err := p.Chunker(fullText)
	if err != nil {
		return nil, helper.NewError("chunk text", err)
	}

	pageFor := func(offset int) pageInfo {
		idx := sort.Search(len(infos), func(i int) bool { return infos[i].start > offset }) - 1
		if idx < 0 {
			idx = 0
		}
		return infos[idx]
	}

	var chunks []*model.Chunk
	var contents []string
	for _, span := range spans {
		content := segment.CleanBoundaries(span.Content)
		if len([]rune(content)) < p.MinChunkChars {
			continue
		}

		info := pageFor(span.Start)
		chunk := &model.Chunk{
			ChunkIndex:    len(chunks),
			Content:       content,
			TokenCount:    p.Tokenizer.CountTokens(content),
			PageNumber:    info.number,
			PageExtracted: info.extracted,
			PhysicalPage:  info.physical,
			SectionTitle:  segment.DetectSectionTitle(content),
			Metadata:      model.Metadata{},
		}
		chunks = append(chunks, chunk)
		contents = append(contents, content)
	}

	if len(chunks) == 0 {
		return []*model.Chunk{}, nil
	}

	if p.Embedder != nil {
		embeddings, err := p.Embedder(ctx, contents)
		if err != nil {
			return nil, helper.NewError("embed chunks", err)
		}
		if len(embeddings) != len(chunks) {
			return nil, helper.NewError("embed chunks", fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(embeddings), len(chunks)))
		}
		for i, embedding := range embeddings {
			chunks[i].Embedding = embedding
		}
	}

	return chunks, nil
}

// SetTokenizer replaces the default whitespace tokenizer. The token-window
// chunker keeps the tokenizer it was built with, so configure this before
// building a pipeline by hand when budgets must match a specific model.
func (p *Pipeline) SetTokenizer(tok Tokenizer) {
	if tok != nil {
		p.Tokenizer = tok
	}
}
