package segment

import (
	"regexp"
	"strconv"
	"strings"
)

// Printed page numbers above this are treated as artifacts (dates, article
// numbers) rather than page markers.
const maxPlausiblePage = 1000

// pageMarker is one recognizable printed page-number pattern. The capture
// group holds the page number.
type pageMarker struct {
	name    string
	pattern *regexp.Regexp
}

// pageMarkers is checked in priority order. The first pattern that matches
// any candidate line (scanned in original order) wins.
var pageMarkers = []pageMarker{
	{name: "page_n", pattern: regexp.MustCompile(`(?i)\bpage\s+(\d+)\b`)},
	{name: "n_of_m", pattern: regexp.MustCompile(`^\s*(\d+)\s*/\s*\d+\s*$`)},
	{name: "dashed", pattern: regexp.MustCompile(`^\s*[-–]\s*(\d+)\s*[-–]\s*$`)},
	{name: "p_dot_n", pattern: regexp.MustCompile(`(?i)^\s*p(?:\.\s*|\s+)(\d+)\s*$`)},
	{name: "bare_number", pattern: regexp.MustCompile(`^\s*(\d+)\s*$`)},
}

// MapPage recovers a document's printed page number from the raw text of one
// physical page. It scans the first 5 and last 5 lines for a page marker and
// returns the physical index with extracted=false when nothing plausible is
// found.
func MapPage(rawPageText string, physicalIndex int) (int, bool) {
	candidates := candidateLines(rawPageText, 5)

	for _, marker := range pageMarkers {
		for _, line := range candidates {
			match := marker.pattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			number, err := strconv.Atoi(match[1])
			if err != nil {
				continue
			}
			if number >= 1 && number <= maxPlausiblePage {
				return number, true
			}
		}
	}

	return physicalIndex, false
}

// candidateLines returns the first n and last n lines of the page in
// original order, without duplicating lines on short pages.
func candidateLines(text string, n int) []string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 2*n {
		return lines
	}

	candidates := make([]string, 0, 2*n)
	candidates = append(candidates, lines[:n]...)
	candidates = append(candidates, lines[len(lines)-n:]...)
	return candidates
}
