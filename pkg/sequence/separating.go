package sequence

import "github.com/soucha/fsmlib/pkg/fsm"

const (
	nullPair = -1 // input does not help separate this pair
	selfPair = -2 // input directly distinguishes by its own output
)

// LinkCell is the per-pair entry of the separating-sequence table
// (spec.md §3): MinLen is the length of the shortest known separating
// sequence, Next[i] is either nullPair (i doesn't help), selfPair (i
// itself distinguishes by output), or the pair index reached by
// applying i to both states. Resolved is false until some sequence
// separating the pair has been found.
type LinkCell struct {
	MinLen   int
	Next     []int
	Resolved bool
}

// SeparatingTable holds one LinkCell per unordered state pair.
type SeparatingTable struct {
	N     int
	Cells []LinkCell
}

// ComputeSeparating builds the separating-sequence table for f by
// fixpoint propagation (spec.md §4.4):
//  1. initialize every pair unresolved;
//  2. mark pairs that differ by state output (length 0) or by some
//     input's transition output (length 1);
//  3. propagate: a pair (s,t) is separated by input i, length 1+L, if
//     (delta(s,i), delta(t,i)) is already separated by length L;
//  4. repeat step 3 to a fixpoint.
func ComputeSeparating(f *fsm.FSM) *SeparatingTable {
	n := f.NumStates()
	p := f.NumInputs()
	np := NumPairs(n)
	t := &SeparatingTable{N: n, Cells: make([]LinkCell, np)}
	for idx := range t.Cells {
		t.Cells[idx].Next = make([]int, p)
		for i := range t.Cells[idx].Next {
			t.Cells[idx].Next[i] = nullPair
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			idx := PairIndex(i, j, n)
			cell := &t.Cells[idx]

			if f.EmitsOnState() && f.Output(fsm.StateID(i), fsm.StoutInput) != f.Output(fsm.StateID(j), fsm.StoutInput) {
				cell.MinLen = 0
				cell.Resolved = true
				continue
			}
			for in := 0; in < p; in++ {
				oi := f.Output(fsm.StateID(i), fsm.InputID(in))
				oj := f.Output(fsm.StateID(j), fsm.InputID(in))
				if oi != oj {
					cell.Next[in] = selfPair
					cell.MinLen = 1
					cell.Resolved = true
				}
			}
		}
	}

	changed := true
	for changed {
		changed = false
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				idx := PairIndex(i, j, n)
				cell := &t.Cells[idx]
				for in := 0; in < p; in++ {
					if cell.Next[in] == selfPair {
						continue
					}
					ti := f.NextState(fsm.StateID(i), fsm.InputID(in))
					tj := f.NextState(fsm.StateID(j), fsm.InputID(in))
					if ti == fsm.NullState || tj == fsm.NullState || ti == fsm.WrongState || tj == fsm.WrongState {
						continue
					}
					if int(ti) == int(tj) {
						continue // same successor: i cannot separate via recursion
					}
					pIdx := PairIndex(int(ti), int(tj), n)
					succ := &t.Cells[pIdx]
					if !succ.Resolved {
						continue
					}
					cand := 1 + succ.MinLen
					if !cell.Resolved || cand < cell.MinLen {
						cell.MinLen = cand
						cell.Resolved = true
						cell.Next[in] = pIdx
						changed = true
					} else if cand == cell.MinLen && cell.Next[in] != pIdx {
						cell.Next[in] = pIdx
						changed = true
					}
				}
			}
		}
	}

	return t
}

// Sequence reconstructs the shortest separating sequence for pair
// (i,j), or nil if the pair cannot be separated (only possible for a
// partial, non-reduced FSM, spec.md §4.4).
func (t *SeparatingTable) Sequence(i, j int) Seq {
	idx := PairIndex(i, j, t.N)
	return t.sequenceOf(idx, map[int]bool{})
}

func (t *SeparatingTable) sequenceOf(idx int, guard map[int]bool) Seq {
	cell := t.Cells[idx]
	if !cell.Resolved {
		return nil
	}
	if cell.MinLen == 0 {
		return Seq{}
	}
	if guard[idx] {
		return nil // cycle guard: should not be reachable once resolved
	}
	guard[idx] = true

	for in, nxt := range cell.Next {
		if nxt == selfPair {
			return Seq{fsm.InputID(in)}
		}
	}
	for in, nxt := range cell.Next {
		if nxt >= 0 && 1+t.Cells[nxt].MinLen == cell.MinLen {
			rest := t.sequenceOf(nxt, guard)
			if rest == nil {
				continue
			}
			out := make(Seq, 0, 1+len(rest))
			out = append(out, fsm.InputID(in))
			out = append(out, rest...)
			return out
		}
	}
	return nil
}

// AllSequences returns the separating sequence for every unordered
// state pair, indexed by PairIndex.
func (t *SeparatingTable) AllSequences() []Seq {
	out := make([]Seq, len(t.Cells))
	for idx := range t.Cells {
		out[idx] = t.sequenceOf(idx, map[int]bool{})
	}
	return out
}
