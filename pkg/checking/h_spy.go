package checking

import (
	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/soucha/fsmlib/pkg/sequence"
)

// testTreeNode is a node of the growing test tree shared by H, SPY,
// and SPYH: a path from the root plus the FSM state it reaches.
type testTreeNode struct {
	path  sequence.Seq
	state fsm.StateID
}

// H builds the H-method suite: transition cover, then for every pair
// of tree nodes reaching different states, the pair's sequence from the
// separating table is appended to both nodes' paths (spec.md §4.8).
// It does not check whether a pair is already distinguished by an
// existing prefix; every such pair gets its extension.
func H(f *fsm.FSM, m int) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "H: negative extra-state bound")
		return newSuite()
	}
	table := sequence.ComputeSeparating(f)
	tc := sequence.TransitionCover(f)

	var nodes []testTreeNode
	for _, p := range tc {
		end := f.EndPathState(0, toFSMSeq(p))
		if end == fsm.WrongState || end == fsm.NullState {
			continue
		}
		nodes = append(nodes, testTreeNode{path: p, state: end})
	}

	out := newSuite()
	out.addAll(tc)
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			if a.state == b.state {
				continue
			}
			sep := table.Sequence(int(a.state), int(b.state))
			if sep == nil {
				continue
			}
			out.add(concat(a.path, sep))
			out.add(concat(b.path, sep))
		}
	}
	return out
}

// SPY builds the SPY-method suite: an HSI-based convergent tree (here,
// the transition cover plus harmonized identifiers), then every
// uncovered transition is extended by the HSI of its end state under
// traversal words up to length m (spec.md §4.8).
func SPY(f *fsm.FSM, m int) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "SPY: negative extra-state bound")
		return newSuite()
	}
	tree := sequence.BuildSplittingTree(f)
	if tree == nil {
		f.Notice(fsm.KindUnreducedMachine, "SPY: FSM is not reduced, no splitting tree")
		return newSuite()
	}
	hsi := tree.HarmonizedStateIdentifiers()
	tc := sequence.TransitionCover(f)
	trav := sequence.TraversalSet(f, m)
	trav = append(trav, sequence.Seq{})

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

// SPYH builds on SPY by additionally running H's greedy pairwise
// refinement over the resulting tree's convergent nodes, so that
// conjectured-equal states that SPY alone would leave unconfirmed are
// explicitly distinguished (spec.md §4.8).
func SPYH(f *fsm.FSM, m int) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "SPYH: negative extra-state bound")
		return newSuite()
	}
	base := SPY(f, m)
	if len(base.Sequences) == 0 {
		return base
	}
	table := sequence.ComputeSeparating(f)

	var nodes []testTreeNode
	for _, p := range base.Sequences {
		end := f.EndPathState(0, toFSMSeq(p))
		if end == fsm.WrongState || end == fsm.NullState {
			continue
		}
		nodes = append(nodes, testTreeNode{path: p, state: end})
	}

	out := newSuite()
	out.addAll(base.Sequences)
	converged := map[[2]fsm.StateID]bool{}
	for i := 0; i < len(nodes); i++ {
		for j := i + 1; j < len(nodes); j++ {
			a, b := nodes[i], nodes[j]
			if a.state == b.state || converged[[2]fsm.StateID{a.state, b.state}] {
				continue
			}
			converged[[2]fsm.StateID{a.state, b.state}] = true
			sep := table.Sequence(int(a.state), int(b.state))
			if sep == nil {
				continue
			}
			out.add(concat(a.path, sep))
			out.add(concat(b.path, sep))
		}
	}
	return out
}

// S builds the S-method suite using the splitting tree directly and a
// divergence-preserving state cover: no two state-cover entries are
// convergent (reach states already distinguished by construction), so
// every uncovered transition only needs pairwise distinguishing
// against the cover's images rather than the whole state set
// (spec.md §4.8).
func S(f *fsm.FSM, m int) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "S: negative extra-state bound")
		return newSuite()
	}
	tree := sequence.BuildSplittingTree(f)
	if tree == nil {
		f.Notice(fsm.KindUnreducedMachine, "S: FSM is not reduced, no splitting tree")
		return newSuite()
	}
	sc := sequence.StateCover(f)
	tc := sequence.TransitionCover(f)

	out := newSuite()
	out.addAll(tc)
	for _, p := range tc {
		end := f.EndPathState(0, toFSMSeq(p))
		if end == fsm.WrongState || end == fsm.NullState {
			continue
		}
		for _, other := range sc {
			os := f.EndPathState(0, toFSMSeq(other))
			if os == fsm.WrongState || os == fsm.NullState || os == end {
				continue
			}
			sep := tree.SeparatingSequenceFrom(int(end), []int{int(os)})
			if sep != nil {
				out.add(concat(p, sep))
			}
		}
	}
	return out
}

// SExt extends an already-built partial suite with the state-cover-
// driven distinguishing sequences of S: it runs the full S construction
// and returns the union of partial and S's suite (spec.md §4.8: `S_ext`).
func SExt(f *fsm.FSM, partial *TestSuite, m int) *TestSuite {
	if invalidInput(f, m) || partial == nil {
		f.Notice(fsm.KindInvalidArgument, "S_ext: invalid input")
		return newSuite()
	}
	extra := S(f, m)
	out := newSuite()
	out.addAll(partial.Sequences)
	out.addAll(extra.Sequences)
	return out
}

// C builds a checking-sequence variant: a single concatenated sequence
// advanced through the FSM, appending an ADS-confirmed suffix whenever
// a transition's end state has not yet been verified (spec.md §4.8).
// Returns a suite containing that one sequence (plus the empty
// sequence when the FSM emits on state 0, to observe its output).
func C(f *fsm.FSM, m int) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "C: negative extra-state bound")
		return newSuite()
	}
	ads, ok := sequence.ADS(f)
	if !ok {
		f.Notice(fsm.KindNotApplicable, "C: no adaptive distinguishing sequence exists")
		return newSuite()
	}

	verified := make([]bool, f.NumStates()*f.NumInputs())
	idx := func(s fsm.StateID, i fsm.InputID) int { return int(s)*f.NumInputs() + int(i) }

	var whole sequence.Seq
	for s := 0; s < f.NumStates(); s++ {
		for i := 0; i < f.NumInputs(); i++ {
			if verified[idx(fsm.StateID(s), fsm.InputID(i))] {
				continue
			}
			toS := sequence.StateCover(f)
			var reach sequence.Seq
			for _, p := range toS {
				if int(f.EndPathState(0, toFSMSeq(p))) == s {
					reach = p
					break
				}
			}
			if reach == nil {
				continue
			}
			suffix := adsTrace(f, ads, fsm.StateID(s), fsm.InputID(i))
			if suffix == nil {
				continue
			}
			whole = append(whole, reach...)
			whole = append(whole, fsm.InputID(i))
			whole = append(whole, suffix...)
			verified[idx(fsm.StateID(s), fsm.InputID(i))] = true
		}
	}

	out := newSuite()
	if f.EmitsOnState() {
		out.add(sequence.Seq{})
	}
	if len(whole) > 0 {
		out.add(whole)
	}
	return out
}

// adsTrace walks ads from the state reached by applying i at s,
// returning the full ADS sequence needed to confirm that state.
func adsTrace(f *fsm.FSM, ads *sequence.ADSNode, s fsm.StateID, i fsm.InputID) sequence.Seq {
	next := f.NextState(s, i)
	if next == fsm.NullState || next == fsm.WrongState {
		return nil
	}
	var out sequence.Seq
	node := ads
	cur := next
	for node != nil && node.Children != nil {
		out = append(out, node.Input)
		o := f.Output(cur, node.Input)
		nc := f.NextState(cur, node.Input)
		if nc == fsm.NullState || nc == fsm.WrongState {
			return out
		}
		cur = nc
		node = node.Children[o]
	}
	return out
}
