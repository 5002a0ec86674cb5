// Package teacher implements the Teacher/BlackBox abstraction for
// active learning (C10, spec.md §4.10): a Teacher answers output
// queries and equivalence queries against a hidden target, tracking
// the counters learners report progress through.
package teacher

import (
	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/soucha/fsmlib/pkg/sequence"
)

// Teacher is queried by a learning algorithm building up a conjectured
// FSM. All query methods advance the teacher's notion of the target's
// current state; ResetAndOutputQuery additionally requests a reset
// first when the target supports one.
type Teacher interface {
	IsBlackBoxResettable() bool
	ResetBlackBox()

	OutputQuery(seq []fsm.InputID) []fsm.OutputID
	ResetAndOutputQuery(seq []fsm.InputID) []fsm.OutputID

	// EquivalenceQuery checks conjecture against the target. It
	// returns the counterexample input sequence and true when the two
	// disagree, or (nil, false) when no difference was found.
	EquivalenceQuery(conjecture *fsm.FSM) (sequence.Seq, bool)

	AppliedResetCount() int
	QueriedSymbolsCount() int
	OutputQueryCount() int
	EquivalenceQueryCount() int
}

// counters tracks the four running totals every concrete Teacher
// reports, mirroring the original's getAppliedResetCount /
// getQueriedSymbolsCount / getOutputQueryCount /
// getEquivalenceQueryCount accessors.
type counters struct {
	resets          int
	queriedSymbols  int
	outputQueries   int
	equivalenceReqs int
}

func (c *counters) AppliedResetCount() int     { return c.resets }
func (c *counters) QueriedSymbolsCount() int   { return c.queriedSymbols }
func (c *counters) OutputQueryCount() int      { return c.outputQueries }
func (c *counters) EquivalenceQueryCount() int { return c.equivalenceReqs }

func (c *counters) recordQuery(seqLen int) {
	c.outputQueries++
	c.queriedSymbols += seqLen
}
