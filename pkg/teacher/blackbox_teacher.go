package teacher

import (
	"github.com/soucha/fsmlib/pkg/checking"
	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/soucha/fsmlib/pkg/sequence"
)

// CheckingMethod is any of pkg/checking's suite-building functions
// (W, Wp, HSI, H, SPY, SPYH, S, C, ...), used by TeacherBB to decide
// equivalence queries.
type CheckingMethod func(f *fsm.FSM, m int) *checking.TestSuite

// TeacherBB answers queries by driving a BlackBox device and decides
// equivalence queries by running a checking-experiment method's test
// suite against the conjecture and replaying each sequence on the
// device, returning the first sequence whose observed output disagrees
// with the conjecture (spec.md §4.10). Grounded on TeacherTests.cpp's
// TestTeacherBB scenario.
type TeacherBB struct {
	counters
	bb          BlackBox
	method      CheckingMethod
	extraStates int
}

func NewTeacherBB(bb BlackBox, method CheckingMethod, extraStates int) *TeacherBB {
	return &TeacherBB{bb: bb, method: method, extraStates: extraStates}
}

func (t *TeacherBB) IsBlackBoxResettable() bool { return t.bb.IsResettable() }

func (t *TeacherBB) ResetBlackBox() {
	before := t.bb.AppliedResetCount()
	t.bb.Reset()
	if t.bb.AppliedResetCount() != before {
		t.resets++
	}
}

func (t *TeacherBB) OutputQuery(seq []fsm.InputID) []fsm.OutputID {
	out := make([]fsm.OutputID, len(seq))
	for i, in := range seq {
		out[i] = t.bb.Query(in)
	}
	t.recordQuery(len(seq))
	return out
}

func (t *TeacherBB) ResetAndOutputQuery(seq []fsm.InputID) []fsm.OutputID {
	t.ResetBlackBox()
	return t.OutputQuery(seq)
}

// EquivalenceQuery runs t.method against conjecture, replays every
// resulting sequence on the device from a fresh reset, and returns the
// first sequence whose observed output diverges from conjecture's
// prediction.
func (t *TeacherBB) EquivalenceQuery(conjecture *fsm.FSM) (sequence.Seq, bool) {
	t.equivalenceReqs++
	if conjecture == nil {
		return nil, true
	}
	suite := t.method(conjecture, t.extraStates)
	for _, seq := range suite.Sequences {
		fsmSeq := make([]fsm.InputID, len(seq))
		copy(fsmSeq, seq)

		t.ResetBlackBox()
		observed := t.OutputQuery(fsmSeq)
		expected := conjecture.OutputAlongPath(0, fsmSeq)
		for i := range observed {
			if i >= len(expected) || observed[i] != expected[i] {
				return append(sequence.Seq{}, seq[:i+1]...), true
			}
		}
	}
	return nil, false
}
