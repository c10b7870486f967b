package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mbellot/veracite/model"
)

var (
	// markPattern captures data-source and inner text of an annotated span.
	// (?s) lets quoted text run across line breaks.
	markPattern = regexp.MustCompile(`(?s)<mark[^>]*data-source="([^"]*)"[^>]*>(.*?)</mark>`)
	// nestedTagPattern strips markup nested inside a quoted span
	nestedTagPattern = regexp.MustCompile(`<[^>]+>`)
	// whitespacePattern collapses whitespace runs to single spaces
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// invalidSpanMaxChars truncates unmatched citations for reporting
const invalidSpanMaxChars = 150

// chunkJoiner separates chunk texts in the concatenated context
const chunkJoiner = "\n\n"

// Validator checks that every quoted citation in a generated answer occurs
// in the supplied context. In lenient mode near-verbatim quotes are accepted
// through fuzzy matching; strict mode requires literal substrings.
type Validator struct {
	matchers []matcher
}

// NewValidator creates a citation validator. lenient enables the fuzzy
// matching fallback behind exact matching.
func NewValidator(lenient bool) *Validator {
	return &Validator{matchers: matchersFor(lenient)}
}

// ExtractCitations finds every <mark data-source="...">...</mark> span in
// the answer. Nested markup is stripped, whitespace runs collapse to single
// spaces and spans that end up empty are dropped. Spans are returned in
// order of first appearance.
func (v *Validator) ExtractCitations(answer string) []model.CitationSpan {
	spans := []model.CitationSpan{}

	for _, match := range markPattern.FindAllStringSubmatch(answer, -1) {
		source := match[1]
		text := nestedTagPattern.ReplaceAllString(match[2], "")
		text = whitespacePattern.ReplaceAllString(text, " ")
		text = strings.TrimSpace(text)

		if text == "" {
			continue
		}

		spans = append(spans, model.CitationSpan{Text: text, Source: source})
	}

	return spans
}

// Validate checks every citation in the answer against the context chunks
// and aggregates the verdicts into a grounding report. An answer without
// citations yields an all-zero report. Validate never fails, malformed or
// unmatched citations are data, not errors.
func (v *Validator) Validate(answer string, chunks []*model.Chunk) *model.GroundingReport {
	spans := v.ExtractCitations(answer)

	report := &model.GroundingReport{
		InvalidSpans: []string{},
		Warnings:     []string{},
		Verdicts:     []model.CitationVerdict{},
	}
	if len(spans) == 0 {
		return report
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Content
	}
	ctx := matchContext{
		full:   strings.Join(texts, chunkJoiner),
		chunks: texts,
	}

	for _, span := range spans {
		verdict := v.validateSpan(span, ctx)
		report.Verdicts = append(report.Verdicts, verdict)

		if verdict.Matched {
			report.ValidCount++
			if verdict.MatchType == model.MatchTypeFuzzy {
				report.Warnings = append(report.Warnings, fmt.Sprintf(
					"approximate citation (match %.1f%%): %s",
					verdict.MatchRatio*100, truncate(span.Text, 80),
				))
			}
		} else {
			report.InvalidSpans = append(report.InvalidSpans, truncate(span.Text, invalidSpanMaxChars))
		}
	}

	report.Total = len(spans)
	report.HallucinationRate = float64(report.Total-report.ValidCount) / float64(report.Total)

	return report
}

// validateSpan runs the matcher cascade for one citation
func (v *Validator) validateSpan(span model.CitationSpan, ctx matchContext) model.CitationVerdict {
	for _, m := range v.matchers {
		outcome, ok := m.match(span.Text, ctx)
		if !ok {
			continue
		}
		return model.CitationVerdict{
			Text:       span.Text,
			Source:     span.Source,
			Matched:    true,
			MatchType:  outcome.matchType,
			MatchRatio: outcome.ratio,
			ChunkIndex: outcome.chunkIndex,
		}
	}

	return model.CitationVerdict{
		Text:      span.Text,
		Source:    span.Source,
		Matched:   false,
		MatchType: model.MatchTypeNone,
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
