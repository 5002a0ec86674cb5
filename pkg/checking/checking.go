// Package checking implements the checking-experiment method family
// (C8, spec.md §4.8): given an FSM and a bound m on extra states, each
// method builds a set of input sequences guaranteeing that any
// equivalent-on-TS machine with at most n+m states is isomorphic to
// the original.
package checking

import (
	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/soucha/fsmlib/pkg/sequence"
)

// TestSuite is a deduplicated set of input sequences.
type TestSuite struct {
	Sequences []sequence.Seq
}

func newSuite() *TestSuite { return &TestSuite{} }

func (s *TestSuite) add(seq sequence.Seq) {
	for _, existing := range s.Sequences {
		if seqEqual(existing, seq) {
			return
		}
	}
	s.Sequences = append(s.Sequences, seq)
}

func (s *TestSuite) addAll(seqs []sequence.Seq) {
	for _, seq := range seqs {
		s.add(seq)
	}
}

func seqEqual(a, b sequence.Seq) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func concat(prefix, suffix sequence.Seq) sequence.Seq {
	out := make(sequence.Seq, 0, len(prefix)+len(suffix))
	out = append(out, prefix...)
	out = append(out, suffix...)
	return out
}

// invalidInput reports whether fsm is nil or m is negative (spec.md
// §4.8: invalid input yields an empty suite and one diagnostic).
// Whether fsm is compact is not checked.
func invalidInput(f *fsm.FSM, m int) bool {
	if f == nil || m < 0 {
		return true
	}
	return false
}
