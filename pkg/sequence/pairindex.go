// Package sequence implements the separating-sequence engine (C4),
// splitting tree (C5), distinguishing-sequence family (C6), and cover
// construction (C7) from spec.md §4.4-§4.7.
package sequence

import "github.com/soucha/fsmlib/pkg/fsm"

// PairIndex packs the unordered pair {i,j}, i<j, into the triangular
// index idx(i,j) = i*n + j - 1 - i*(i+3)/2 (spec.md §3).
func PairIndex(i, j, n int) int {
	if i > j {
		i, j = j, i
	}
	return i*n + j - 1 - i*(i+3)/2
}

// NumPairs returns the number of unordered pairs over n states.
func NumPairs(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// PairStates inverts PairIndex, returning the (i,j) pair, i<j, for idx
// over n states.
func PairStates(idx, n int) (int, int) {
	for i := 0; i < n; i++ {
		rowStart := PairIndex(i, i+1, n)
		rowLen := n - i - 1
		if idx >= rowStart && idx < rowStart+rowLen {
			return i, i + (idx - rowStart) + 1
		}
	}
	return -1, -1
}

// Seq is an input sequence.
type Seq []fsm.InputID
