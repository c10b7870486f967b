package pipeline

import "context"

// Span is one chunk of text produced by a chunking strategy.
// Start is the byte offset of the span's fresh (non-overlap) content in the
// source text, used to attribute the chunk to a physical page.
type Span struct {
	Content string
	Start   int
}

// ChunkFunc is a chunking strategy. Identical input must yield an identical
// span sequence on every call.
type ChunkFunc func(text string) ([]Span, error)

// EmbedFunc generates embeddings for a batch of texts. All vectors returned
// over the lifetime of a deployment have the same dimensionality.
type EmbedFunc func(ctx context.Context, texts []string) ([][]float32, error)

// Tokenizer measures and splits text in model tokens. Implementations must
// be deterministic for a fixed model identifier.
type Tokenizer interface {
	// CountTokens returns the number of tokens in text
	CountTokens(text string) int
	// Tokens returns the token strings, used to carry window overlap
	Tokens(text string) []string
}
