package teacher

import "github.com/soucha/fsmlib/pkg/fsm"

// BlackBox is a device that accepts one input at a time and reports
// one output, optionally supporting reset to a known initial state
// (spec.md §4.10). It is the seam TeacherBB drives through, and is
// the interface the port bridge (bridge.go) exposes across goroutines.
type BlackBox interface {
	IsResettable() bool
	Reset()
	Query(i fsm.InputID) fsm.OutputID
	AppliedResetCount() int
	QueriedSymbolsCount() int
}

// BlackBoxDFSM is a reference BlackBox backed by an in-memory FSM,
// used in place of a physical or networked device in tests. Grounded
// on BlackBoxTests.cpp's TestBlackBoxDFSM scenario.
type BlackBoxDFSM struct {
	target     *fsm.FSM
	resettable bool
	cur        fsm.StateID
	resets     int
	symbols    int
}

func NewBlackBoxDFSM(target *fsm.FSM, resettable bool) *BlackBoxDFSM {
	return &BlackBoxDFSM{target: target, resettable: resettable}
}

func (b *BlackBoxDFSM) IsResettable() bool { return b.resettable }

func (b *BlackBoxDFSM) Reset() {
	if !b.resettable {
		b.target.Notice(fsm.KindNotApplicable, "BlackBoxDFSM: device is not resettable")
		return
	}
	b.resets++
	b.cur = 0
}

func (b *BlackBoxDFSM) Query(i fsm.InputID) fsm.OutputID {
	out := b.target.Output(b.cur, i)
	b.symbols++
	if i != fsm.StoutInput {
		next := b.target.NextState(b.cur, i)
		if next == fsm.WrongState {
			b.cur = fsm.WrongState
		} else if next != fsm.NullState {
			b.cur = next
		}
	}
	return out
}

func (b *BlackBoxDFSM) AppliedResetCount() int   { return b.resets }
func (b *BlackBoxDFSM) QueriedSymbolsCount() int { return b.symbols }
