package fsm

import "fmt"

// RemoveState deletes state s and every transition that enters or leaves
// it. State 0 cannot be removed. The resulting machine may be non-compact
// (DESIGN NOTES: the makeCompact/removeState interaction beyond this point
// is an Open Question from spec.md §9).
func (f *FSM) RemoveState(s StateID) bool {
	if s == 0 {
		f.notice(KindInvalidArgument, "RemoveState: cannot remove the initial state")
		return false
	}
	if !f.validState(s) {
		f.notice(KindInvalidArgument, fmt.Sprintf("RemoveState: state %d does not exist", s))
		return false
	}
	if f.trans[s] == nil {
		f.notice(KindInvalidArgument, fmt.Sprintf("RemoveState: state %d already removed", s))
		return false
	}

	f.trans[s] = nil
	if f.caps.transOut {
		f.transOut[s] = nil
	}
	if f.caps.stateOut {
		f.stateOut[s] = DefaultOutput
	}

	for t := 0; t < f.n; t++ {
		if f.trans[t] == nil {
			continue
		}
		for i := 0; i < f.p; i++ {
			if f.trans[t][i] == s {
				f.trans[t][i] = NullState
				if f.caps.transOut {
					f.transOut[t][i] = DefaultOutput
				}
			}
		}
	}
	return true
}

func (f *FSM) removed(s int) bool { return f.trans[s] == nil }

// reachableFrom0 returns the set of states reachable from state 0 via any
// defined transition, by BFS.
func (f *FSM) reachableFrom0() map[StateID]bool {
	seen := map[StateID]bool{0: true}
	queue := []StateID{0}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if f.removed(int(cur)) {
			continue
		}
		for i := 0; i < f.p; i++ {
			t := f.trans[cur][i]
			if t != NullState && !seen[t] {
				seen[t] = true
				queue = append(queue, t)
			}
		}
	}
	return seen
}

// RemoveUnreachableStates deletes every state not reachable from state 0.
func (f *FSM) RemoveUnreachableStates() {
	reach := f.reachableFrom0()
	for s := 0; s < f.n; s++ {
		if f.removed(s) || reach[StateID(s)] {
			continue
		}
		f.RemoveState(StateID(s))
	}
}

// MakeCompact re-indexes states to a dense [0..n-1] range, preserving the
// reachable sub-structure, and trims unused input/output alphabet tails.
func (f *FSM) MakeCompact() {
	var kept []StateID
	for s := 0; s < f.n; s++ {
		if !f.removed(s) {
			kept = append(kept, StateID(s))
		}
	}
	remap := make(map[StateID]StateID, len(kept))
	for newIdx, old := range kept {
		remap[old] = StateID(newIdx)
	}

	newN := len(kept)
	nf := New(f.Type, newN, f.p, f.q)
	nf.Name, nf.Description = f.Name, f.Description

	for newIdx, old := range kept {
		for i := 0; i < f.p; i++ {
			target := f.trans[old][i]
			if target == NullState {
				nf.trans[newIdx][i] = NullState
				continue
			}
			if t, ok := remap[target]; ok {
				nf.trans[newIdx][i] = t
			} else {
				nf.trans[newIdx][i] = NullState // target itself was removed
			}
		}
		if f.caps.transOut {
			copy(nf.transOut[newIdx], f.transOut[old])
		}
		if f.caps.stateOut {
			nf.stateOut[newIdx] = f.stateOut[old]
		}
	}

	f.n = nf.n
	f.trans = nf.trans
	f.transOut = nf.transOut
	f.stateOut = nf.stateOut
	f.trimAlphabetTails()
}

// trimAlphabetTails shrinks p/q down to the highest index actually used,
// per spec.md §4.1's "trim unused alphabet tails".
func (f *FSM) trimAlphabetTails() {
	maxInput := -1
	maxOutput := -1
	for s := 0; s < f.n; s++ {
		for i := 0; i < f.p; i++ {
			if f.trans[s][i] != NullState && i > maxInput {
				maxInput = i
			}
			if f.caps.transOut && f.transOut[s][i] != DefaultOutput && int(f.transOut[s][i]) > maxOutput {
				maxOutput = int(f.transOut[s][i])
			}
		}
		if f.caps.stateOut && f.stateOut[s] != DefaultOutput && int(f.stateOut[s]) > maxOutput {
			maxOutput = int(f.stateOut[s])
		}
	}
	if maxInput+1 < f.p {
		newP := maxInput + 1
		for s := 0; s < f.n; s++ {
			f.trans[s] = f.trans[s][:newP]
			if f.caps.transOut {
				f.transOut[s] = f.transOut[s][:newP]
			}
		}
		f.p = newP
	}
	if maxOutput+1 < f.q && f.Type != TypeDFA {
		f.q = maxOutput + 1
	}
}
