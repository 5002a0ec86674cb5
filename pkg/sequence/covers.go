package sequence

import "github.com/soucha/fsmlib/pkg/fsm"

// StateCover returns one input sequence per reachable state (state 0
// included, with the empty sequence), chosen by BFS from state 0 with
// ties broken lexicographically by input index (spec.md §4.7).
func StateCover(f *fsm.FSM) []Seq {
	n := f.NumStates()
	cover := make([]Seq, n)
	seen := make([]bool, n)
	cover[0] = Seq{}
	seen[0] = true
	queue := []int{0}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for i := 0; i < f.NumInputs(); i++ {
			t := f.NextState(fsm.StateID(s), fsm.InputID(i))
			if t == fsm.NullState || t == fsm.WrongState || seen[int(t)] {
				continue
			}
			seen[int(t)] = true
			cover[int(t)] = append(append(Seq{}, cover[s]...), fsm.InputID(i))
			queue = append(queue, int(t))
		}
	}
	out := make([]Seq, 0, n)
	for s := 0; s < n; s++ {
		if seen[s] {
			out = append(out, cover[s])
		}
	}
	return out
}

// TransitionCover extends the state cover by every single-input
// extension (spec.md §4.7), so every transition out of a covered
// state is exercised at least once. Includes the empty sequence when
// f emits on state 0.
func TransitionCover(f *fsm.FSM) []Seq {
	sc := StateCover(f)
	out := make([]Seq, 0, len(sc)*(f.NumInputs()+1))
	if f.EmitsOnState() {
		out = append(out, Seq{})
	}
	out = append(out, sc...)
	for _, prefix := range sc {
		end := f.EndPathState(0, toFSMSeq(prefix))
		if end == fsm.WrongState || end == fsm.NullState {
			continue
		}
		for i := 0; i < f.NumInputs(); i++ {
			if f.NextState(end, fsm.InputID(i)) == fsm.NullState {
				continue
			}
			out = append(out, append(append(Seq{}, prefix...), fsm.InputID(i)))
		}
	}
	return out
}

// TraversalSet returns every input word of length <= depth. depth = 0
// yields the empty set by convention (spec.md §4.7); callers that also
// want the empty sequence add it explicitly.
func TraversalSet(f *fsm.FSM, depth int) []Seq {
	if depth <= 0 {
		return nil
	}
	p := f.NumInputs()
	var out []Seq
	frontier := []Seq{{}}
	for l := 1; l <= depth; l++ {
		var next []Seq
		for _, seq := range frontier {
			for i := 0; i < p; i++ {
				ns := append(append(Seq{}, seq...), fsm.InputID(i))
				out = append(out, ns)
				next = append(next, ns)
			}
		}
		frontier = next
	}
	return out
}
