package retrieval

import "github.com/mbellot/veracite/model"

// SelectDiverse picks at most k candidates while spreading the selection
// across source documents. Two greedy passes over the similarity-ordered
// input: the first admits one chunk per distinct document, the second fills
// the remaining slots with further chunks up to maxPerDocument per document.
// Input order is preserved within each pass and no threshold filtering
// happens here, scores may still be provisional.
func SelectDiverse(candidates []*model.RetrievalCandidate, k int, maxPerDocument int) []*model.RetrievalCandidate {
	if len(candidates) == 0 || k <= 0 {
		return []*model.RetrievalCandidate{}
	}
	if maxPerDocument <= 0 {
		maxPerDocument = 1
	}

	selected := make([]*model.RetrievalCandidate, 0, k)
	perDocument := make(map[int64]int)
	taken := make(map[*model.RetrievalCandidate]bool)

	// Pass 1: one chunk per new document
	for _, candidate := range candidates {
		if len(selected) == k {
			return selected
		}
		docID := candidate.Chunk.DocumentID
		if perDocument[docID] > 0 {
			continue
		}
		perDocument[docID]++
		taken[candidate] = true
		selected = append(selected, candidate)
	}

	// Pass 2: fill remaining slots under the per-document cap
	for _, candidate := range candidates {
		if len(selected) == k {
			break
		}
		if taken[candidate] {
			continue
		}
		docID := candidate.Chunk.DocumentID
		if perDocument[docID] >= maxPerDocument {
			continue
		}
		perDocument[docID]++
		taken[candidate] = true
		selected = append(selected, candidate)
	}

	return selected
}
