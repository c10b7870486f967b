package segment

import (
	"strings"
	"unicode"
)

// backwardTrimThreshold guards the trailing trim, terminal punctuation must
// lie past 70% of the chunk before anything after it is dropped.
const backwardTrimThreshold = 0.7

// CleanBoundaries repairs chunk edges cut mid-sentence. A chunk starting
// with a lower-case letter is trimmed forward to the first sentence boundary
// (punctuation + space + capital letter). A chunk not ending in terminal
// punctuation is trimmed back to the last terminal punctuation, but only
// when that punctuation lies past 70% of the chunk's length. Chunks without
// a usable boundary are left untouched.
func CleanBoundaries(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return text
	}

	text = trimForward(text)
	text = trimBackward(text)

	return strings.TrimSpace(text)
}

func trimForward(text string) string {
	runes := []rune(text)
	if len(runes) == 0 || !unicode.IsLower(runes[0]) {
		return text
	}

	for i := 0; i < len(runes)-2; i++ {
		if !isTerminal(runes[i]) {
			continue
		}
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		if j > i+1 && j < len(runes) && unicode.IsUpper(runes[j]) {
			return string(runes[j:])
		}
	}

	return text
}

func trimBackward(text string) string {
	runes := []rune(text)
	if len(runes) == 0 || isTerminal(runes[len(runes)-1]) {
		return text
	}

	last := -1
	for i := len(runes) - 1; i >= 0; i-- {
		if isTerminal(runes[i]) {
			last = i
			break
		}
	}

	if last < 0 || float64(last) < backwardTrimThreshold*float64(len(runes)) {
		return text
	}

	return string(runes[:last+1])
}
