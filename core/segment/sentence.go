package segment

import (
	"strings"
	"unicode"
)

// minSentenceChars is the noise-suppression threshold, trimmed sentences
// shorter than this are discarded.
const minSentenceChars = 10

// Sentence is a single sentence with its byte offsets in the source text
type Sentence struct {
	Text  string
	Start int
	End   int
}

// SplitSentences splits text into sentences. A boundary is a sentence-final
// punctuation mark (. ! ?) followed by whitespace and an upper-case letter,
// except when the period closes a title abbreviation ("Dr. M. Dupont" stays
// together). Trimmed sentences shorter than 10 characters are dropped.
func SplitSentences(text string) []Sentence {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	var sentences []Sentence
	start := 0

	byteOffset := func(runeIdx int) int {
		return len(string(runes[:runeIdx]))
	}

	for i := 0; i < len(runes); i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		if runes[i] == '.' && isAbbreviation(runes, i) {
			continue
		}

		// Scan over the whitespace run following the punctuation
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j == i+1 || j >= len(runes) || !unicode.IsUpper(runes[j]) {
			continue
		}

		sentences = appendSentence(sentences, text, byteOffset(start), byteOffset(i+1))
		start = j
		i = j - 1
	}

	if start < len(runes) {
		sentences = appendSentence(sentences, text, byteOffset(start), len(text))
	}

	return sentences
}

// titleAbbreviations lists short honorifics whose closing period never ends
// a sentence
var titleAbbreviations = map[string]bool{
	"Dr":   true,
	"Mr":   true,
	"Mrs":  true,
	"Ms":   true,
	"Prof": true,
	"Mme":  true,
	"Mlle": true,
	"MM":   true,
	"St":   true,
}

// isAbbreviation reports whether the period at runes[i] closes a title
// abbreviation: a single letter ("M.", "J.") or a short honorific ("Dr.",
// "Prof."), preceded by a word boundary.
func isAbbreviation(runes []rune, i int) bool {
	if i < 1 || !unicode.IsLetter(runes[i-1]) {
		return false
	}

	start := i - 1
	for start > 0 && unicode.IsLetter(runes[start-1]) {
		start--
	}
	if start > 0 && unicode.IsDigit(runes[start-1]) {
		return false
	}

	if i-start == 1 {
		return true
	}
	return titleAbbreviations[string(runes[start:i])]
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func appendSentence(sentences []Sentence, text string, start, end int) []Sentence {
	raw := text[start:end]
	trimmed := strings.TrimSpace(raw)
	if len([]rune(trimmed)) < minSentenceChars {
		return sentences
	}

	// Keep offsets pointing at the trimmed content
	leading := strings.Index(raw, trimmed)
	return append(sentences, Sentence{
		Text:  trimmed,
		Start: start + leading,
		End:   start + leading + len(trimmed),
	})
}
