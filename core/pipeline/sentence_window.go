package pipeline

import (
	"fmt"
	"strings"

	"github.com/mbellot/veracite/core/segment"
)

// SentenceWindowChunker groups n consecutive sentences per chunk with an
// overlap of v sentences between consecutive chunks. The window advances by
// max(1, n-v) sentences, so every sentence is covered at least once.
func SentenceWindowChunker(n int, v int) ChunkFunc {
	return func(text string) ([]Span, error) {
		if n <= 0 {
			return nil, fmt.Errorf("sentences per chunk must be positive")
		}
		if v < 0 || v >= n {
			return nil, fmt.Errorf("sentence overlap must be in [0, %d)", n)
		}

		sentences := segment.SplitSentences(text)
		if len(sentences) == 0 {
			return []Span{}, nil
		}

		step := n - v
		if step < 1 {
			step = 1
		}

		var spans []Span
		for start := 0; start < len(sentences); start += step {
			end := start + n
			if end > len(sentences) {
				end = len(sentences)
			}

			parts := make([]string, 0, end-start)
			for _, s := range sentences[start:end] {
				parts = append(parts, s.Text)
			}

			spans = append(spans, Span{
				Content: strings.Join(parts, " "),
				Start:   sentences[start].Start,
			})

			if end == len(sentences) {
				break
			}
		}

		return spans, nil
	}
}
