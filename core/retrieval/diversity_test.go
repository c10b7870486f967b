package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbellot/veracite/model"
)

// candidateFor builds a retrieval candidate for tests, content doubles as
// an identity marker.
func candidateFor(documentID int64, score float64, content string) *model.RetrievalCandidate {
	return &model.RetrievalCandidate{
		Chunk: &model.Chunk{
			DocumentID: documentID,
			Content:    content,
			Similarity: &score,
		},
		Score:           score,
		SimilarityScore: score,
		RetrievalMethod: model.RetrievalMethodVector,
	}
}

func contentsOf(candidates []*model.RetrievalCandidate) []string {
	out := make([]string, len(candidates))
	for i, candidate := range candidates {
		out[i] = candidate.Chunk.Content
	}
	return out
}

func TestSelectDiverse(t *testing.T) {
	t.Run("First pass takes one chunk per document", func(t *testing.T) {
		candidates := []*model.RetrievalCandidate{
			candidateFor(1, 0.9, "a1"),
			candidateFor(1, 0.8, "a2"),
			candidateFor(1, 0.7, "a3"),
			candidateFor(2, 0.6, "b1"),
			candidateFor(3, 0.5, "c1"),
		}

		selected := SelectDiverse(candidates, 3, 3)

		assert.Equal(t, []string{"a1", "b1", "c1"}, contentsOf(selected))
	})

	t.Run("Second pass fills remaining slots under the cap", func(t *testing.T) {
		candidates := []*model.RetrievalCandidate{
			candidateFor(1, 0.9, "a1"),
			candidateFor(1, 0.8, "a2"),
			candidateFor(1, 0.7, "a3"),
			candidateFor(2, 0.6, "b1"),
		}

		selected := SelectDiverse(candidates, 4, 2)

		// a3 is blocked by the per-document cap even though a slot is free
		assert.Equal(t, []string{"a1", "b1", "a2"}, contentsOf(selected))
	})

	t.Run("No document exceeds the per-document cap", func(t *testing.T) {
		var candidates []*model.RetrievalCandidate
		for i := 0; i < 5; i++ {
			candidates = append(candidates, candidateFor(1, 0.9, "a"))
			candidates = append(candidates, candidateFor(2, 0.8, "b"))
		}

		selected := SelectDiverse(candidates, 6, 3)

		require.LessOrEqual(t, len(selected), 6)
		perDocument := map[int64]int{}
		for _, candidate := range selected {
			perDocument[candidate.Chunk.DocumentID]++
		}
		for _, count := range perDocument {
			assert.LessOrEqual(t, count, 3)
		}
	})

	t.Run("Output never exceeds k", func(t *testing.T) {
		candidates := []*model.RetrievalCandidate{
			candidateFor(1, 0.9, "a1"),
			candidateFor(2, 0.8, "b1"),
			candidateFor(3, 0.7, "c1"),
			candidateFor(4, 0.6, "d1"),
		}

		selected := SelectDiverse(candidates, 2, 3)

		assert.Equal(t, []string{"a1", "b1"}, contentsOf(selected))
	})

	t.Run("Empty input yields empty output", func(t *testing.T) {
		selected := SelectDiverse(nil, 5, 3)

		assert.NotNil(t, selected)
		assert.Empty(t, selected)
	})

	t.Run("Non-positive k yields empty output", func(t *testing.T) {
		candidates := []*model.RetrievalCandidate{candidateFor(1, 0.9, "a1")}

		assert.Empty(t, SelectDiverse(candidates, 0, 3))
	})

	t.Run("Identical input yields identical selection", func(t *testing.T) {
		candidates := []*model.RetrievalCandidate{
			candidateFor(1, 0.9, "a1"),
			candidateFor(2, 0.9, "b1"),
			candidateFor(1, 0.9, "a2"),
			candidateFor(3, 0.9, "c1"),
		}

		first := SelectDiverse(candidates, 3, 2)
		second := SelectDiverse(candidates, 3, 2)

		assert.Equal(t, contentsOf(first), contentsOf(second))
	})
}
