package model

// MatchType describes how a claimed citation was matched against the context
type MatchType string

const (
	MatchTypeExact MatchType = "exact"
	MatchTypeFuzzy MatchType = "fuzzy"
	MatchTypeNone  MatchType = "none"
)

// CitationSpan is one annotated quotation extracted from a generated answer
type CitationSpan struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

// CitationVerdict is the validation result for a single citation span.
// ChunkIndex is the position of the matching chunk in the supplied context
// (nil when unmatched), not a document-local ordinal.
type CitationVerdict struct {
	Text       string    `json:"text"`
	Source     string    `json:"source"`
	Matched    bool      `json:"matched"`
	MatchType  MatchType `json:"match_type"`
	MatchRatio float64   `json:"match_ratio"`
	ChunkIndex *int      `json:"chunk_index,omitempty"`
}

// GroundingReport aggregates all citation verdicts for one answer
type GroundingReport struct {
	Total             int               `json:"total"`
	ValidCount        int               `json:"valid_count"`
	InvalidSpans      []string          `json:"invalid_spans"`
	Warnings          []string          `json:"warnings"`
	HallucinationRate float64           `json:"hallucination_rate"`
	Verdicts          []CitationVerdict `json:"verdicts"`
}

// IsValid reports whether every citation in the answer was matched
func (r *GroundingReport) IsValid() bool {
	return len(r.InvalidSpans) == 0
}
