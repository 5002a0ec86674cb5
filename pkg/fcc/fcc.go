// Package fcc implements the Fault-Coverage Checker (C9, spec.md §4.9):
// given a specification FSM, a test suite, and an extra-state bound m,
// it enumerates every FSM with at most n+m states that reproduces
// every (input, output) pair the suite induces on the specification.
// A checking-experiment method's suite is complete exactly when this
// enumeration returns a single, isomorphic candidate.
package fcc

import (
	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/soucha/fsmlib/pkg/sequence"
)

// Result holds the candidates a run of Check found.
type Result struct {
	Candidates []*fsm.FSM
}

// searchBudget bounds the number of fully-built candidates this
// backtracking search will construct before giving up, as a guard
// against the search's inherent worst-case blowup (spec.md names no
// bound; this one is generous for the sizes the library targets).
const searchBudget = 20000

type cellKey struct {
	state int
	input fsm.InputID
}

type assignment struct {
	target int
	output fsm.OutputID
}

// Check enumerates candidates per spec.md §4.9, via backtracking over
// the partial transition table: each (state, input) cell touched while
// replaying ts is assigned a target state (chosen among already-opened
// states or a fresh one, bounded by n+m) and the output observed on
// the specification fsm; a branch is pruned the moment a sequence's
// observed output disagrees with what the fixed part of the table
// would produce.
func Check(f *fsm.FSM, ts []sequence.Seq, m int) *Result {
	if f == nil || m < 0 {
		if f != nil {
			f.Notice(fsm.KindInvalidArgument, "fcc.Check: negative extra-state bound")
		}
		return &Result{}
	}
	maxStates := f.NumStates() + m
	if maxStates < 1 {
		return &Result{}
	}

	observed := make([][]fsm.OutputID, len(ts))
	for i, seq := range ts {
		observed[i] = f.OutputAlongPath(0, []fsm.InputID(seq))
	}

	search := &searchState{
		spec:      f,
		ts:        ts,
		observed:  observed,
		maxStates: maxStates,
		table:     map[cellKey]assignment{},
		found:     nil,
		budget:    searchBudget,
	}
	search.run(0)
	return &Result{Candidates: search.found}
}

type searchState struct {
	spec      *fsm.FSM
	ts        []sequence.Seq
	observed  [][]fsm.OutputID
	maxStates int
	table     map[cellKey]assignment
	opened    int // number of distinct states opened so far (state 0 counts as 1)
	found     []*fsm.FSM
	budget    int
}

// run processes ts[seqIdx] to completion (backtracking over every
// still-undetermined target state along the way), then moves to the
// next sequence; once every sequence has replayed consistently, it
// materializes one candidate FSM.
func (s *searchState) run(seqIdx int) {
	if s.budget <= 0 {
		return
	}
	if s.opened == 0 {
		s.opened = 1 // state 0 always exists
	}
	if seqIdx == len(s.ts) {
		s.emit()
		return
	}
	s.replay(seqIdx, 0, fsm.StateID(0))
}

// replay walks ts[seqIdx] from position pos, currently at state cur,
// backtracking over target-state choices for any untouched cell.
func (s *searchState) replay(seqIdx, pos int, cur fsm.StateID) {
	if s.budget <= 0 {
		return
	}
	seq := s.ts[seqIdx]
	if pos == len(seq) {
		s.run(seqIdx + 1)
		return
	}
	i := seq[pos]
	wantOutput := s.observed[seqIdx][pos]
	key := cellKey{int(cur), i}

	if a, ok := s.table[key]; ok {
		if a.output != wantOutput {
			return // prune: fixed part of the table disagrees with this trace
		}
		s.replay(seqIdx, pos+1, fsm.StateID(a.target))
		return
	}

	for target := 0; target < s.opened; target++ {
		s.table[key] = assignment{target: target, output: wantOutput}
		s.replay(seqIdx, pos+1, fsm.StateID(target))
		delete(s.table, key)
		if s.budget <= 0 {
			return
		}
	}
	if s.opened < s.maxStates {
		newState := s.opened
		s.table[key] = assignment{target: newState, output: wantOutput}
		s.opened++
		s.replay(seqIdx, pos+1, fsm.StateID(newState))
		s.opened--
		delete(s.table, key)
	}
}

// emit materializes the current table as an FSM and keeps it if it is
// not isomorphic to an already-found candidate.
func (s *searchState) emit() {
	s.budget--
	n := s.opened
	cand := fsm.New(s.spec.Type, n, s.spec.NumInputs(), s.spec.NumOutputs())
	for key, a := range s.table {
		if s.spec.EmitsOnTransition() {
			cand.SetTransition(fsm.StateID(key.state), key.input, fsm.StateID(a.target), a.output)
		} else {
			cand.SetTransition(fsm.StateID(key.state), key.input, fsm.StateID(a.target))
		}
	}
	if s.spec.EmitsOnState() {
		// State output is observed via STOUT_INPUT in the same traces;
		// propagate it the same way transition cells are: read it
		// directly off the specification, since every reached state was
		// reached by some ts prefix and therefore already queried.
		for state := 0; state < n; state++ {
			cand.SetStateOutput(fsm.StateID(state), s.stateOutputFor(state))
		}
	}

	for _, existing := range s.found {
		if fsm.Isomorphic(existing, cand) {
			return
		}
	}
	s.found = append(s.found, cand)
}

// stateOutputFor recovers the state output a candidate's conjectured
// state should carry, by finding some ts prefix that reaches it and
// reading the specification's output there.
func (s *searchState) stateOutputFor(candState int) fsm.OutputID {
	for seqIdx, seq := range s.ts {
		cur := fsm.StateID(0)
		for pos, i := range seq {
			key := cellKey{int(cur), i}
			a, ok := s.table[key]
			if !ok {
				break
			}
			cur = fsm.StateID(a.target)
			if int(cur) == candState {
				specCur := s.specStateAt(seqIdx, pos+1)
				if specCur != fsm.WrongState {
					return s.spec.Output(specCur, fsm.StoutInput)
				}
			}
		}
	}
	return fsm.DefaultOutput
}

// specStateAt replays ts[seqIdx] on the specification itself up to
// position pos and returns the state reached.
func (s *searchState) specStateAt(seqIdx, pos int) fsm.StateID {
	cur := fsm.StateID(0)
	for i := 0; i < pos; i++ {
		cur = s.spec.NextState(cur, s.ts[seqIdx][i])
		if cur == fsm.WrongState || cur == fsm.NullState {
			return fsm.WrongState
		}
	}
	return cur
}
