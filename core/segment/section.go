package segment

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// sectionScanLines is how many non-empty lines of a chunk are examined
	sectionScanLines = 5
	// sectionTitleMaxChars truncates detected titles for storage
	sectionTitleMaxChars = 150
)

// sectionKeywords mark structural headings in regulatory text, including
// the French variants common in ACPR/EU publications.
var sectionKeywords = []string{
	"ARTICLE", "CHAPTER", "SECTION", "TITLE", "PART", "ANNEX",
	"CHAPITRE", "TITRE", "PARTIE", "ANNEXE",
}

// sectionDetector is one heading heuristic. Detectors are tried in priority
// order for each candidate line.
type sectionDetector struct {
	name  string
	match func(line string) bool
}

var (
	numberedHeadingRe   = regexp.MustCompile(`^(?:[IVXLCDM]+|\d+)[.)]?\s+\p{Lu}\pL*`)
	multiLevelHeadingRe = regexp.MustCompile(`^\d+(?:\.\d+)+\.?\s+\S+`)
	labeledSectionRe    = regexp.MustCompile(`(?i)^(?:article|section|chapter|chapitre|part|partie|titre|title)\s+\d+\s*:`)
)

var sectionDetectors = []sectionDetector{
	{name: "keyword", match: containsSectionKeyword},
	{name: "numbered_heading", match: numberedHeadingRe.MatchString},
	{name: "multi_level_numeric", match: multiLevelHeadingRe.MatchString},
	{name: "all_caps", match: isAllCapsHeading},
	{name: "labeled_section", match: labeledSectionRe.MatchString},
}

// DetectSectionTitle examines the first 5 non-empty lines of a cleaned chunk
// and returns the first line matching a heading heuristic, in priority order.
// The title is truncated to 150 characters. Returns nil if no line matches.
func DetectSectionTitle(chunkText string) *string {
	var candidates []string
	for _, line := range strings.Split(chunkText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		candidates = append(candidates, line)
		if len(candidates) == sectionScanLines {
			break
		}
	}

	for _, detector := range sectionDetectors {
		for _, line := range candidates {
			if detector.match(line) {
				title := truncateRunes(line, sectionTitleMaxChars)
				return &title
			}
		}
	}

	return nil
}

func containsSectionKeyword(line string) bool {
	upper := strings.ToUpper(line)
	for _, keyword := range sectionKeywords {
		if strings.Contains(upper, keyword) {
			return true
		}
	}
	return false
}

// isAllCapsHeading matches shouting headings like "DISPOSITIONS GENERALES",
// at least 15 characters and two words with no lower-case letters.
func isAllCapsHeading(line string) bool {
	if len([]rune(line)) <= 15 || len(strings.Fields(line)) < 2 {
		return false
	}

	hasUpper := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
