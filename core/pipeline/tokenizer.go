package pipeline

import "strings"

// WordTokenizer approximates model tokenization by splitting on whitespace.
// It systematically undercounts subword tokenizers, so budgets calibrated
// for a specific model should use that model's tokenizer instead.
type WordTokenizer struct{}

// CountTokens returns the number of whitespace-delimited tokens
func (WordTokenizer) CountTokens(text string) int {
	return len(strings.Fields(text))
}

// Tokens returns the whitespace-delimited tokens
func (WordTokenizer) Tokens(text string) []string {
	return strings.Fields(text)
}
