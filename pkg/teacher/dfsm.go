package teacher

import (
	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/soucha/fsmlib/pkg/sequence"
)

// TeacherDFSM answers queries directly against a specification FSM
// held in memory, rather than through a BlackBox device. Grounded on
// TeacherTests.cpp's TestTeacherDFSM scenario.
type TeacherDFSM struct {
	counters
	target     *fsm.FSM
	resettable bool
	cur        fsm.StateID
}

// NewTeacherDFSM wraps target. resettable controls whether
// ResetBlackBox and ResetAndOutputQuery may restart the target at
// state 0; when false, reset requests are reported as diagnostics and
// ignored, matching the original's non-resettable DFSM mode.
func NewTeacherDFSM(target *fsm.FSM, resettable bool) *TeacherDFSM {
	return &TeacherDFSM{target: target, resettable: resettable, cur: 0}
}

func (t *TeacherDFSM) IsBlackBoxResettable() bool { return t.resettable }

func (t *TeacherDFSM) ResetBlackBox() {
	if !t.resettable {
		t.target.Notice(fsm.KindNotApplicable, "TeacherDFSM: target is not resettable")
		return
	}
	t.resets++
	t.cur = 0
}

func (t *TeacherDFSM) OutputQuery(seq []fsm.InputID) []fsm.OutputID {
	out := make([]fsm.OutputID, len(seq))
	for i, in := range seq {
		out[i] = t.target.Output(t.cur, in)
		if in != fsm.StoutInput {
			t.cur = t.target.NextState(t.cur, in)
			if t.cur == fsm.WrongState || t.cur == fsm.NullState {
				t.cur = fsm.WrongState
			}
		}
	}
	t.recordQuery(len(seq))
	return out
}

func (t *TeacherDFSM) ResetAndOutputQuery(seq []fsm.InputID) []fsm.OutputID {
	t.ResetBlackBox()
	return t.OutputQuery(seq)
}

// EquivalenceQuery walks the product of target and conjecture from
// their respective state 0, breadth-first over inputs, returning the
// shortest input sequence where an output disagrees.
func (t *TeacherDFSM) EquivalenceQuery(conjecture *fsm.FSM) (sequence.Seq, bool) {
	t.equivalenceReqs++
	if conjecture == nil || conjecture.NumInputs() != t.target.NumInputs() {
		return nil, true
	}

	type frame struct {
		a, b fsm.StateID
		path sequence.Seq
	}
	start := frame{a: 0, b: 0}
	queue := []frame{start}
	visited := map[[2]fsm.StateID]bool{{0, 0}: true}

	if t.target.EmitsOnState() && t.target.Output(0, fsm.StoutInput) != conjecture.Output(0, fsm.StoutInput) {
		return sequence.Seq{}, true
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for i := 0; i < t.target.NumInputs(); i++ {
			in := fsm.InputID(i)
			oa := t.target.Output(cur.a, in)
			ob := conjecture.Output(cur.b, in)
			if oa != ob {
				return append(append(sequence.Seq{}, cur.path...), in), true
			}
			na := t.target.NextState(cur.a, in)
			nb := conjecture.NextState(cur.b, in)
			if na == fsm.WrongState || nb == fsm.WrongState {
				continue
			}
			if na == fsm.NullState || nb == fsm.NullState {
				continue
			}
			key := [2]fsm.StateID{na, nb}
			if visited[key] {
				continue
			}
			visited[key] = true
			queue = append(queue, frame{a: na, b: nb, path: append(append(sequence.Seq{}, cur.path...), in)})
		}
	}
	return nil, false
}
