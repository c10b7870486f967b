package validate

// sequenceRatio computes the similarity of two strings as 2*M/T, where M is
// the number of matched characters across the longest matching blocks and T
// the total length of both strings. This mirrors Python's
// difflib.SequenceMatcher.ratio(), including the suppression of popular
// characters in long reference strings, so thresholds tuned against it keep
// their meaning.
func sequenceRatio(a string, b string) float64 {
	ra := []rune(a)
	rb := []rune(b)

	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}

	matches := 0
	for _, block := range matchingBlocks(ra, rb) {
		matches += block.size
	}

	return 2.0 * float64(matches) / float64(total)
}

type matchBlock struct {
	a    int
	b    int
	size int
}

// chainIndex maps each rune of b to its positions, dropping popular runes
// (more than 1% of a sequence of at least 200 runes) the way difflib's
// autojunk heuristic does.
func chainIndex(rb []rune) map[rune][]int {
	b2j := make(map[rune][]int)
	for j, r := range rb {
		b2j[r] = append(b2j[r], j)
	}

	if n := len(rb); n >= 200 {
		threshold := n/100 + 1
		for r, indices := range b2j {
			if len(indices) > threshold {
				delete(b2j, r)
			}
		}
	}

	return b2j
}

// longestMatch finds the longest block of equal runes in
// ra[alo:ahi] x rb[blo:bhi], preferring the earliest block on ties.
// The index only seeds matches at non-popular runes, so the best block is
// extended afterwards over adjacent equal runes in both directions; this is
// how matches spanning popular runes (spaces, frequent letters) are
// recovered, exactly as difflib's find_longest_match does it.
func longestMatch(ra []rune, rb []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) matchBlock {
	best := matchBlock{a: alo, b: blo, size: 0}
	j2len := make(map[int]int)

	for i := alo; i < ahi; i++ {
		newJ2len := make(map[int]int)
		for _, j := range b2j[ra[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > best.size {
				best = matchBlock{a: i - k + 1, b: j - k + 1, size: k}
			}
		}
		j2len = newJ2len
	}

	for best.a > alo && best.b > blo && ra[best.a-1] == rb[best.b-1] {
		best.a--
		best.b--
		best.size++
	}
	for best.a+best.size < ahi && best.b+best.size < bhi && ra[best.a+best.size] == rb[best.b+best.size] {
		best.size++
	}

	return best
}

// matchingBlocks returns the non-overlapping matching blocks of ra and rb in
// ascending order, found by recursively splitting around the longest match.
func matchingBlocks(ra []rune, rb []rune) []matchBlock {
	b2j := chainIndex(rb)

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(ra), 0, len(rb)}}

	var blocks []matchBlock
	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		block := longestMatch(ra, rb, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if block.size == 0 {
			continue
		}

		blocks = append(blocks, block)
		if s.alo < block.a && s.blo < block.b {
			queue = append(queue, span{s.alo, block.a, s.blo, block.b})
		}
		if block.a+block.size < s.ahi && block.b+block.size < s.bhi {
			queue = append(queue, span{block.a + block.size, s.ahi, block.b + block.size, s.bhi})
		}
	}

	return blocks
}
