package checking

import (
	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/soucha/fsmlib/pkg/sequence"
)

// Segment is one test segment of the M-family (spec.md §4.8): a
// transition (state, input) followed by the ADS confirming the next
// state.
type Segment struct {
	From   fsm.StateID
	Input  fsm.InputID
	To     fsm.StateID
	Verify sequence.Seq // the ADS trace confirming To
}

func buildSegments(f *fsm.FSM, ads *sequence.ADSNode) []Segment {
	var segs []Segment
	for s := 0; s < f.NumStates(); s++ {
		for i := 0; i < f.NumInputs(); i++ {
			next := f.NextState(fsm.StateID(s), fsm.InputID(i))
			if next == fsm.NullState || next == fsm.WrongState {
				continue
			}
			segs = append(segs, Segment{
				From:   fsm.StateID(s),
				Input:  fsm.InputID(i),
				To:     next,
				Verify: adsTrace(f, ads, fsm.StateID(s), fsm.InputID(i)),
			})
		}
	}
	return segs
}

// overlapCost estimates the connection cost from segment a's tail to
// segment b's head: 0 if a ends exactly where b starts (no repositioning
// input needed), else the length of the shortest known repositioning
// sequence (len(states)+1 if none, i.e. a reset is needed).
func overlapCost(f *fsm.FSM, paths [][]int, a, b Segment) int {
	if a.To == b.From {
		return 0
	}
	d := paths[int(a.To)][int(b.From)]
	if d < 0 {
		return f.NumStates() + 1 // unreachable without reset
	}
	return d
}

// TourSolver orders a set of segments into a connected sequence,
// minimizing total repositioning cost. Mstar/Mrstar hand this to an
// external ILP solver (out of scope, spec.md §4.8); the package
// defaults to a greedy nearest-neighbor solver.
type TourSolver interface {
	Solve(f *fsm.FSM, segs []Segment, paths [][]int) []int // returns a permutation of segs
}

// GreedyTourSolver picks, at each step, the unvisited segment whose
// head is cheapest to reach from the current tail.
type GreedyTourSolver struct{}

func (GreedyTourSolver) Solve(f *fsm.FSM, segs []Segment, paths [][]int) []int {
	n := len(segs)
	used := make([]bool, n)
	order := make([]int, 0, n)
	cur := fsm.StateID(0)
	for len(order) < n {
		best, bestCost := -1, -1
		for i, s := range segs {
			if used[i] {
				continue
			}
			cost := 0
			if s.From != cur {
				d := paths[int(cur)][int(s.From)]
				if d < 0 {
					continue
				}
				cost = d
			}
			if best == -1 || cost < bestCost {
				best, bestCost = i, cost
			}
		}
		if best == -1 {
			for i := range used {
				if !used[i] {
					best = i
					break
				}
			}
		}
		used[best] = true
		order = append(order, best)
		cur = segs[best].To
	}
	return order
}

// connectSegments concatenates segs in the given order into a single
// sequence, inserting a repositioning path (via paths/reachability)
// between consecutive segments when needed, and recording it as a
// reset boundary (a fresh sequence in the suite) when withReset is
// true and no repositioning path exists.
func connectSegments(f *fsm.FSM, segs []Segment, order []int, withReset bool) *TestSuite {
	out := newSuite()
	sc := sequence.StateCover(f)
	reachBy := func(s fsm.StateID) sequence.Seq {
		for _, p := range sc {
			if f.EndPathState(0, toFSMSeq(p)) == s {
				return p
			}
		}
		return nil
	}

	var whole sequence.Seq
	cur := fsm.StateID(0)
	for _, idx := range order {
		s := segs[idx]
		if s.From != cur {
			path := reachBy(s.From)
			if path == nil {
				if !withReset {
					continue
				}
				out.add(whole)
				whole = nil
				path = reachBy(s.From)
				if path == nil {
					continue
				}
			}
			whole = append(whole, path...)
		}
		whole = append(whole, s.Input)
		whole = append(whole, s.Verify...)
		cur = s.To
	}
	if len(whole) > 0 {
		out.add(whole)
	}
	return out
}

// Ma connects every test segment in-line, greedily, without resets
// (spec.md §4.8).
func Ma(f *fsm.FSM, m int) *TestSuite {
	return mFamily(f, m, GreedyTourSolver{}, false)
}

// Mra is Ma's reset-permitted variant: when no in-line repositioning
// path exists, it starts a fresh sequence from state 0 instead of
// failing to connect (spec.md §4.8).
func Mra(f *fsm.FSM, m int) *TestSuite {
	return mFamily(f, m, GreedyTourSolver{}, true)
}

// Mg orders the segments with GreedyTourSolver and connects them without
// resets (spec.md §4.8). It computes no cost matrix and no routing of its
// own, so it builds the same suite as Ma.
func Mg(f *fsm.FSM, m int) *TestSuite {
	return mFamily(f, m, GreedyTourSolver{}, false)
}

// Mrg is Mg's reset-permitted variant.
func Mrg(f *fsm.FSM, m int) *TestSuite {
	return mFamily(f, m, GreedyTourSolver{}, true)
}

// Mstar builds the segment set and its pairwise cost matrix for an
// external ILP solver to route optimally; the solve step itself is out
// of scope (spec.md §4.8 names GUROBI explicitly as external). This
// implementation exposes CostMatrix and falls back to the greedy
// solver so the method remains usable standalone.
func Mstar(f *fsm.FSM, m int, solver TourSolver) *TestSuite {
	if solver == nil {
		solver = GreedyTourSolver{}
	}
	return mFamily(f, m, solver, false)
}

// Mrstar is Mstar's reset-permitted variant.
func Mrstar(f *fsm.FSM, m int, solver TourSolver) *TestSuite {
	if solver == nil {
		solver = GreedyTourSolver{}
	}
	return mFamily(f, m, solver, true)
}

func mFamily(f *fsm.FSM, m int, solver TourSolver, withReset bool) *TestSuite {
	if invalidInput(f, m) {
		f.Notice(fsm.KindInvalidArgument, "M-family: negative extra-state bound")
		return newSuite()
	}
	ads, ok := sequence.ADS(f)
	if !ok {
		f.Notice(fsm.KindNotApplicable, "M-family: no adaptive distinguishing sequence exists")
		return newSuite()
	}
	segs := buildSegments(f, ads)
	_, paths := fsmShortestPaths(f)
	order := solver.Solve(f, segs, paths)
	return connectSegments(f, segs, order, withReset)
}

// CostMatrix returns the pairwise overlap-cost matrix between test
// segments (spec.md §4.8: "the cost matrix construction is in scope").
func CostMatrix(f *fsm.FSM, m int) ([]Segment, [][]int) {
	ads, ok := sequence.ADS(f)
	if !ok {
		return nil, nil
	}
	segs := buildSegments(f, ads)
	_, paths := fsmShortestPaths(f)
	matrix := make([][]int, len(segs))
	for i := range matrix {
		matrix[i] = make([]int, len(segs))
		for j := range matrix[i] {
			matrix[i][j] = overlapCost(f, paths, segs[i], segs[j])
		}
	}
	return segs, matrix
}

func fsmShortestPaths(f *fsm.FSM) (int, [][]int) {
	return f.NumStates(), f.ShortestPaths()
}
