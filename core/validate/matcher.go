package validate

import (
	"strings"

	"github.com/mbellot/veracite/model"
)

const (
	// fuzzyFastAcceptRatio accepts a chunk immediately during the fuzzy scan
	fuzzyFastAcceptRatio = 0.90
	// fuzzyBestAcceptRatio accepts the best chunk after the full fuzzy scan
	fuzzyBestAcceptRatio = 0.85
)

// matchContext is the reference material one citation is checked against.
// Full is the concatenation of all chunk texts, chunks are the individual
// texts in their supplied order.
type matchContext struct {
	full   string
	chunks []string
}

// matchOutcome is the result of one matcher attempt
type matchOutcome struct {
	matchType  model.MatchType
	ratio      float64
	chunkIndex *int
}

// matcher is one strategy in the validation cascade. It reports ok=false
// when it cannot decide, handing over to the next matcher.
type matcher struct {
	name  string
	match func(text string, ctx matchContext) (matchOutcome, bool)
}

// exactMatch accepts a citation that is a literal substring of the
// concatenated context. The matched chunk is the first whose own text
// contains the citation, -1 substitutes for a span that only matches across
// a chunk boundary.
func exactMatch(text string, ctx matchContext) (matchOutcome, bool) {
	if !strings.Contains(ctx.full, text) {
		return matchOutcome{}, false
	}

	var chunkIndex *int
	for i, chunk := range ctx.chunks {
		if strings.Contains(chunk, text) {
			index := i
			chunkIndex = &index
			break
		}
	}

	return matchOutcome{
		matchType:  model.MatchTypeExact,
		ratio:      1.0,
		chunkIndex: chunkIndex,
	}, true
}

// fuzzyMatch compares the citation against each chunk's full text with a
// sequence-similarity ratio. A chunk scoring at least 0.90 is accepted
// immediately; otherwise the best chunk is accepted if it reaches 0.85.
func fuzzyMatch(text string, ctx matchContext) (matchOutcome, bool) {
	bestRatio := 0.0
	bestIndex := -1

	for i, chunk := range ctx.chunks {
		ratio := sequenceRatio(text, chunk)
		if ratio > bestRatio {
			bestRatio = ratio
			bestIndex = i
		}
		if ratio >= fuzzyFastAcceptRatio {
			index := bestIndex
			return matchOutcome{
				matchType:  model.MatchTypeFuzzy,
				ratio:      ratio,
				chunkIndex: &index,
			}, true
		}
	}

	if bestRatio >= fuzzyBestAcceptRatio {
		index := bestIndex
		return matchOutcome{
			matchType:  model.MatchTypeFuzzy,
			ratio:      bestRatio,
			chunkIndex: &index,
		}, true
	}

	return matchOutcome{}, false
}

// matchersFor builds the ordered cascade: exact matching always runs first,
// fuzzy matching only joins in lenient mode.
func matchersFor(lenient bool) []matcher {
	matchers := []matcher{{name: "exact", match: exactMatch}}
	if lenient {
		matchers = append(matchers, matcher{name: "fuzzy", match: fuzzyMatch})
	}
	return matchers
}
