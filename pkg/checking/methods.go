package checking

import (
	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/soucha/fsmlib/pkg/sequence"
)

// W builds the W-method test suite: transition cover x traversal set
// x characterizing set (spec.md §4.8). Always applicable to a reduced
// FSM.
func W(f *fsm.FSM, m int) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "W: negative extra-state bound")
		return newSuite()
	}
	tc := sequence.TransitionCover(f)
	trav := sequence.TraversalSet(f, m)
	trav = append(trav, sequence.Seq{})
	cset := sequence.ReduceCSetEqualLength(sequence.CSet(f))

	out := newSuite()
	out.addAll(tc)
	for _, p := range tc {
		for _, t := range trav {
			pt := concat(p, t)
			for _, c := range cset {
				out.add(concat(pt, c))
			}
		}
	}
	return out
}

// Wp builds the Wp-method suite: CSet appended to the state cover, and
// per-state separating sequences (SCSet) appended at the leaves of the
// traversal set (spec.md §4.8) — a strictly smaller suite than W's for
// most machines, since it only needs full characterization at the
// state-cover frontier.
func Wp(f *fsm.FSM, m int) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "Wp: negative extra-state bound")
		return newSuite()
	}
	sc := sequence.StateCover(f)
	tc := sequence.TransitionCover(f)
	trav := sequence.TraversalSet(f, m)
	trav = append(trav, sequence.Seq{})
	cset := sequence.ReduceCSetEqualLength(sequence.CSet(f))
	table := sequence.ComputeSeparating(f)

	out := newSuite()
	out.addAll(tc)
	for _, p := range sc {
		for _, c := range cset {
			out.add(concat(p, c))
		}
	}
	for _, p := range tc {
		end := f.EndPathState(0, toFSMSeq(p))
		if end == fsm.WrongState || end == fsm.NullState {
			continue
		}
		for _, t := range trav {
			endT := f.EndPathState(end, toFSMSeq(t))
			if endT == fsm.WrongState || endT == fsm.NullState {
				continue
			}
			pt := concat(p, t)
			for other := 0; other < f.NumStates(); other++ {
				if other == int(endT) {
					continue
				}
				sep := table.Sequence(int(endT), other)
				if sep != nil {
					out.add(concat(pt, sep))
				}
			}
		}
	}
	return out
}

// HSI builds the HSI-method suite: transition cover extended by each
// reached state's harmonized identifier, which is generally smaller
// than the full characterizing set appended by W (spec.md §4.8).
func HSI(f *fsm.FSM, m int) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "HSI: negative extra-state bound")
		return newSuite()
	}
	tree := sequence.BuildSplittingTree(f)
	if tree == nil {
		f.Notice(fsm.KindUnreducedMachine, "HSI: FSM is not reduced, no splitting tree")
		return newSuite()
	}
	tc := sequence.TransitionCover(f)
	trav := sequence.TraversalSet(f, m)
	trav = append(trav, sequence.Seq{})
	hsi := tree.HarmonizedStateIdentifiers()

	out := newSuite()
	out.addAll(tc)
	for _, p := range tc {
		end := f.EndPathState(0, toFSMSeq(p))
		if end == fsm.WrongState || end == fsm.NullState {
			continue
		}
		for _, t := range trav {
			endT := f.EndPathState(end, toFSMSeq(t))
			if endT == fsm.WrongState || endT == fsm.NullState {
				continue
			}
			pt := concat(p, t)
			for _, ident := range hsi[int(endT)] {
				out.add(concat(pt, ident))
			}
		}
	}
	return out
}

// PDSMethod appends the global preset distinguishing sequence to every
// transition-cover entry (spec.md §4.8). Empty suite if no PDS exists.
func PDSMethod(f *fsm.FSM, m int) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "PDS method: negative extra-state bound")
		return newSuite()
	}
	pds, ok := sequence.PDS(f)
	out := newSuite()
	if !ok {
		f.Notice(fsm.KindNotApplicable, "PDS method: no preset distinguishing sequence exists")
		return out
	}
	for _, p := range sequence.TransitionCover(f) {
		out.add(concat(p, pds))
	}
	return out
}

// SVSMethod appends each reached state's own state-verifying sequence
// to every transition-cover entry ending there (spec.md §4.8).
func SVSMethod(f *fsm.FSM, m int) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "SVS method: negative extra-state bound")
		return newSuite()
	}
	out := newSuite()
	svs := make([]sequence.Seq, f.NumStates())
	for s := 0; s < f.NumStates(); s++ {
		seq, ok := sequence.SVS(f, fsm.StateID(s))
		if !ok {
			f.Notice(fsm.KindNotApplicable, "SVS method: a state has no verifying sequence")
			return newSuite()
		}
		svs[s] = seq
	}
	for _, p := range sequence.TransitionCover(f) {
		end := f.EndPathState(0, toFSMSeq(p))
		if end == fsm.WrongState || end == fsm.NullState {
			continue
		}
		out.add(concat(p, svs[int(end)]))
	}
	return out
}

func toFSMSeq(s sequence.Seq) []fsm.InputID { return []fsm.InputID(s) }
