package checking

import (
	"testing"

	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMealy3 mirrors pkg/sequence's fixture: state 0/1 agree on input
// 0 but diverge on input 1; state 2 diverges from both on input 0.
func buildMealy3(t *testing.T) *fsm.FSM {
	t.Helper()
	f := fsm.New(fsm.TypeMealy, 3, 2, 2)
	require.True(t, f.SetTransition(0, 0, 1, 0))
	require.True(t, f.SetTransition(0, 1, 2, 0))
	require.True(t, f.SetTransition(1, 0, 1, 0))
	require.True(t, f.SetTransition(1, 1, 2, 1))
	require.True(t, f.SetTransition(2, 0, 0, 1))
	require.True(t, f.SetTransition(2, 1, 0, 1))
	return f
}

func TestWMethodNonEmpty(t *testing.T) {
	f := buildMealy3(t)
	suite := W(f, 0)
	assert.NotEmpty(t, suite.Sequences)
}

func TestWMethodRejectsNegativeExtraStates(t *testing.T) {
	f := buildMealy3(t)
	suite := W(f, -1)
	assert.Empty(t, suite.Sequences)
}

func TestWpSubsetSizeReasonable(t *testing.T) {
	f := buildMealy3(t)
	wSuite := W(f, 0)
	wpSuite := Wp(f, 0)
	assert.NotEmpty(t, wpSuite.Sequences)
	assert.LessOrEqual(t, len(wpSuite.Sequences), len(wSuite.Sequences)+len(wSuite.Sequences))
}

func TestHSIMethodNonEmpty(t *testing.T) {
	f := buildMealy3(t)
	suite := HSI(f, 0)
	assert.NotEmpty(t, suite.Sequences)
}

func TestHMethodNonEmpty(t *testing.T) {
	f := buildMealy3(t)
	suite := H(f, 0)
	assert.NotEmpty(t, suite.Sequences)
}

func TestSPYAndSPYHNonEmpty(t *testing.T) {
	f := buildMealy3(t)
	assert.NotEmpty(t, SPY(f, 0).Sequences)
	assert.NotEmpty(t, SPYH(f, 0).Sequences)
}

func TestSMethodNonEmpty(t *testing.T) {
	f := buildMealy3(t)
	assert.NotEmpty(t, S(f, 0).Sequences)
}

func TestCMethodProducesOneCheckingSequence(t *testing.T) {
	f := buildMealy3(t)
	suite := C(f, 0)
	assert.Len(t, suite.Sequences, 1)
}

func TestCostMatrixIsSquareOverSegments(t *testing.T) {
	f := buildMealy3(t)
	segs, matrix := CostMatrix(f, 0)
	require.NotEmpty(t, segs)
	require.Len(t, matrix, len(segs))
	for i := range matrix {
		require.Len(t, matrix[i], len(segs))
	}
}

func TestMaAndMgNonEmpty(t *testing.T) {
	f := buildMealy3(t)
	assert.NotEmpty(t, Ma(f, 0).Sequences)
	assert.NotEmpty(t, Mg(f, 0).Sequences)
}

// Mg must never produce a longer checking sequence than Ma for the same
// machine. Both currently order segments with GreedyTourSolver and
// connect them without resets, so their lengths are equal here.
func TestMgCheckingSequenceIsNoLongerThanMa(t *testing.T) {
	f := buildMealy3(t)
	maSuite := Ma(f, 0)
	mgSuite := Mg(f, 0)
	require.Len(t, maSuite.Sequences, 1, "Ma with no resets should connect every segment into one sequence")
	require.Len(t, mgSuite.Sequences, 1, "Mg with no resets should connect every segment into one sequence")
	assert.LessOrEqual(t, len(mgSuite.Sequences[0]), len(maSuite.Sequences[0]))
}
