package pipeline

import (
	"fmt"
	"strings"
)

// separator is one split candidate for the token-window strategy.
// attachNext glues the separator to the following piece instead of the
// preceding one, so structural headers stay at the top of their chunk.
type separator struct {
	token      string
	attachNext bool
}

// tokenSeparators is the priority-ordered separator list: multi-blank-line,
// explicit regulatory headers (with localized variants), blank line, newline,
// sentence terminators, clause punctuation, whitespace, character.
var tokenSeparators = []separator{
	{token: "\n\n\n"},
	{token: "\nARTICLE ", attachNext: true},
	{token: "\nArticle ", attachNext: true},
	{token: "\nSECTION ", attachNext: true},
	{token: "\nSection ", attachNext: true},
	{token: "\nCHAPTER ", attachNext: true},
	{token: "\nCHAPITRE ", attachNext: true},
	{token: "\nChapitre ", attachNext: true},
	{token: "\nANNEXE ", attachNext: true},
	{token: "\nAnnexe ", attachNext: true},
	{token: "\n\n"},
	{token: "\n"},
	{token: ". "},
	{token: "! "},
	{token: "? "},
	{token: "; "},
	{token: ": "},
	{token: ", "},
	{token: " "},
	{token: ""},
}

// piece is an intermediate fragment with its byte offset in the source text
type piece struct {
	text  string
	start int
}

// TokenWindowChunker accumulates text up to a token budget, recursively
// preferring the highest-priority separator that yields pieces within
// budget, and keeps the trailing overlap tokens of each window as the start
// of the next one.
func TokenWindowChunker(budget int, overlap int, tok Tokenizer) ChunkFunc {
	return func(text string) ([]Span, error) {
		if tok == nil {
			return nil, fmt.Errorf("tokenizer is required")
		}
		if budget <= 0 {
			return nil, fmt.Errorf("token budget must be positive")
		}
		if overlap < 0 || overlap >= budget {
			return nil, fmt.Errorf("token overlap must be in [0, %d)", budget)
		}

		if strings.TrimSpace(text) == "" {
			return []Span{}, nil
		}

		pieces := splitRecursive(piece{text: text, start: 0}, 0, budget, tok)
		return mergePieces(pieces, budget, overlap, tok), nil
	}
}

// splitRecursive breaks oversized pieces apart with the separator at sepIdx,
// descending to the next separator for any piece still over budget.
func splitRecursive(p piece, sepIdx int, budget int, tok Tokenizer) []piece {
	if tok.CountTokens(p.text) <= budget {
		if strings.TrimSpace(p.text) == "" {
			return nil
		}
		return []piece{p}
	}

	if sepIdx >= len(tokenSeparators) {
		// No separator left, keep the oversized piece as-is
		return []piece{p}
	}

	sep := tokenSeparators[sepIdx]
	parts := splitPieces(p, sep, budget)
	if len(parts) <= 1 {
		return splitRecursive(p, sepIdx+1, budget, tok)
	}

	var result []piece
	for _, part := range parts {
		result = append(result, splitRecursive(part, sepIdx+1, budget, tok)...)
	}
	return result
}

// splitPieces splits p on sep, keeping the separator text attached so that
// concatenating the pieces reproduces the input. The empty separator falls
// back to fixed character windows (one character is at least one token, so a
// window of budget characters never exceeds the budget).
func splitPieces(p piece, sep separator, budget int) []piece {
	if sep.token == "" {
		runes := []rune(p.text)
		var parts []piece
		offset := 0
		for start := 0; start < len(runes); start += budget {
			end := start + budget
			if end > len(runes) {
				end = len(runes)
			}
			part := string(runes[start:end])
			parts = append(parts, piece{text: part, start: p.start + offset})
			offset += len(part)
		}
		return parts
	}

	segments := strings.Split(p.text, sep.token)
	if len(segments) <= 1 {
		return []piece{p}
	}

	var parts []piece
	offset := 0
	for i, segText := range segments {
		text := segText
		start := p.start + offset
		if sep.attachNext && i > 0 {
			text = sep.token + text
			start -= len(sep.token)
		} else if !sep.attachNext && i < len(segments)-1 {
			text = text + sep.token
		}

		if strings.TrimSpace(text) != "" {
			parts = append(parts, piece{text: text, start: start})
		}
		offset += len(segText) + len(sep.token)
	}
	return parts
}

// mergePieces greedily packs pieces into windows under the token budget,
// carrying the trailing overlap tokens of each emitted window into the next.
func mergePieces(pieces []piece, budget int, overlap int, tok Tokenizer) []Span {
	var spans []Span
	var window []piece
	var overlapText string
	windowTokens := 0

	flush := func() {
		if len(window) == 0 {
			return
		}

		var b strings.Builder
		b.WriteString(overlapText)
		for _, p := range window {
			b.WriteString(p.text)
		}

		content := b.String()
		spans = append(spans, Span{Content: content, Start: window[0].start})

		if overlap > 0 {
			tokens := tok.Tokens(content)
			if len(tokens) > overlap {
				tokens = tokens[len(tokens)-overlap:]
			}
			overlapText = strings.Join(tokens, " ") + " "
		}

		window = nil
		windowTokens = tok.CountTokens(overlapText)
	}

	for _, p := range pieces {
		tokens := tok.CountTokens(p.text)
		if len(window) > 0 && windowTokens+tokens > budget {
			flush()
		}
		window = append(window, p)
		windowTokens += tokens
	}
	flush()

	return spans
}
