package fsm

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMoore5 is the DFSM fixture shared by the Learning-package tests
// (TeacherTests.cpp / BlackBoxTests.cpp's 5-state, 3-input machine).
func buildMoore5(t *testing.T) *FSM {
	t.Helper()
	f := New(TypeDFSM, 5, 3, 2)
	require.True(t, f.SetTransition(0, 0, 0))
	require.True(t, f.SetTransition(0, 1, 1))
	require.True(t, f.SetTransition(0, 2, 2))
	require.True(t, f.SetTransition(1, 0, 3))
	require.True(t, f.SetTransition(2, 1, 4))
	require.True(t, f.SetTransition(3, 2, 0))
	require.True(t, f.SetTransition(4, 0, 2))
	require.True(t, f.SetStateOutput(0, 0))
	require.True(t, f.SetStateOutput(1, 1))
	require.True(t, f.SetStateOutput(2, 0))
	require.True(t, f.SetStateOutput(4, 1))
	return f
}

func TestOutputAlongPathMatchesManualWalk(t *testing.T) {
	f := New(TypeDFSM, 2, 1, 2)
	require.True(t, f.SetTransition(0, 0, 1, 1))
	require.True(t, f.SetTransition(1, 0, 0, 0))
	require.True(t, f.SetStateOutput(0, 0))
	require.True(t, f.SetStateOutput(1, 1))

	out := f.OutputAlongPath(0, []InputID{StoutInput, 0, StoutInput, 0})
	assert.Equal(t, []OutputID{0, 1, 1, 0}, out)
}

func TestNextStateUndefinedTransitionReturnsNull(t *testing.T) {
	f := buildMoore5(t)
	assert.Equal(t, NullState, f.NextState(1, 1))
}

func TestNextStateOutOfRangeReturnsWrong(t *testing.T) {
	f := buildMoore5(t)
	assert.Equal(t, WrongState, f.NextState(99, 0))
	assert.Equal(t, WrongState, f.NextState(0, 99))
}

func TestEndPathStateFollowsWholeSequence(t *testing.T) {
	f := buildMoore5(t)
	end := f.EndPathState(0, []InputID{1, 0, 2})
	assert.Equal(t, StateID(0), end) // 0 -1-> 1 -0-> 3 -2-> 0
}

func TestCloneIsIndependent(t *testing.T) {
	f := buildMoore5(t)
	clone := f.Clone()
	require.True(t, clone.SetTransition(1, 1, 2))
	assert.Equal(t, NullState, f.NextState(1, 1))
	assert.Equal(t, StateID(2), clone.NextState(1, 1))
}

func TestMinimizeIsIdempotent(t *testing.T) {
	f := New(TypeMoore, 4, 2, 2)
	require.True(t, f.SetTransition(0, 0, 1))
	require.True(t, f.SetTransition(0, 1, 2))
	require.True(t, f.SetTransition(1, 0, 3))
	require.True(t, f.SetTransition(1, 1, 3))
	require.True(t, f.SetTransition(2, 0, 3))
	require.True(t, f.SetTransition(2, 1, 3))
	require.True(t, f.SetTransition(3, 0, 3))
	require.True(t, f.SetTransition(3, 1, 3))
	require.True(t, f.SetStateOutput(0, 0))
	require.True(t, f.SetStateOutput(1, 1))
	require.True(t, f.SetStateOutput(2, 1)) // states 1 and 2 are equivalent
	require.True(t, f.SetStateOutput(3, 0))

	f.Minimize()
	firstPass := f.NumStates()
	assert.Equal(t, 3, firstPass) // {0}, {1,2}, {3}

	f.Minimize()
	assert.Equal(t, firstPass, f.NumStates())
	assert.True(t, Isomorphic(f, f))
}

func TestSaveLoadRoundTripsToIsomorphicMachine(t *testing.T) {
	f := buildMoore5(t)
	var buf strings.Builder
	require.NoError(t, f.Write(&buf))

	loaded, err := Read(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.True(t, Isomorphic(f, loaded))
}

func TestDOTContainsEveryLiveState(t *testing.T) {
	f := buildMoore5(t)
	out := f.DOT("moore5")
	assert.Contains(t, out, "digraph")
	for s := 0; s < f.NumStates(); s++ {
		assert.Contains(t, out, "\""+strconv.Itoa(s)+"/")
	}
}

func TestIsReducedDetectsEquivalentStates(t *testing.T) {
	f := New(TypeMoore, 3, 1, 2)
	require.True(t, f.SetTransition(0, 0, 1))
	require.True(t, f.SetTransition(1, 0, 2))
	require.True(t, f.SetTransition(2, 0, 1))
	require.True(t, f.SetStateOutput(0, 0))
	require.True(t, f.SetStateOutput(1, 1))
	require.True(t, f.SetStateOutput(2, 1))
	assert.False(t, f.IsReduced())

	f.Minimize()
	assert.True(t, f.IsReduced())
}

// TestMinimizeCollapsesToHandVerifiedReducedReference builds a 7-state
// unreduced machine whose states fall into four behavioral classes –
// {0}, {1,2,3}, {4,5}, {6} – and checks Minimize lands on a 4-state
// machine isomorphic to the reduced reference built directly from
// those same four classes.
func TestMinimizeCollapsesToHandVerifiedReducedReference(t *testing.T) {
	unreduced := New(TypeDFSM, 7, 1, 2)
	require.True(t, unreduced.SetTransition(0, 0, 1))
	require.True(t, unreduced.SetTransition(1, 0, 4))
	require.True(t, unreduced.SetTransition(2, 0, 4))
	require.True(t, unreduced.SetTransition(3, 0, 5))
	require.True(t, unreduced.SetTransition(4, 0, 6))
	require.True(t, unreduced.SetTransition(5, 0, 6))
	require.True(t, unreduced.SetTransition(6, 0, 6))
	require.True(t, unreduced.SetStateOutput(0, 0))
	require.True(t, unreduced.SetStateOutput(1, 1))
	require.True(t, unreduced.SetStateOutput(2, 1))
	require.True(t, unreduced.SetStateOutput(3, 1))
	require.True(t, unreduced.SetStateOutput(4, 0))
	require.True(t, unreduced.SetStateOutput(5, 0))
	require.True(t, unreduced.SetStateOutput(6, 1))

	reduced := New(TypeDFSM, 4, 1, 2)
	require.True(t, reduced.SetTransition(0, 0, 1))
	require.True(t, reduced.SetTransition(1, 0, 2))
	require.True(t, reduced.SetTransition(2, 0, 3))
	require.True(t, reduced.SetTransition(3, 0, 3))
	require.True(t, reduced.SetStateOutput(0, 0))
	require.True(t, reduced.SetStateOutput(1, 1))
	require.True(t, reduced.SetStateOutput(2, 0))
	require.True(t, reduced.SetStateOutput(3, 1))

	unreduced.Minimize()
	assert.Equal(t, 4, unreduced.NumStates())
	assert.True(t, Isomorphic(unreduced, reduced))
}

func TestShortestPathsMatchesHandCountedDistances(t *testing.T) {
	f := buildMoore5(t)
	dist := f.ShortestPaths()
	assert.Equal(t, 0, dist[0][0])
	assert.Equal(t, 1, dist[0][1])
	assert.Equal(t, 2, dist[0][3]) // 0 -1-> 1 -0-> 3
	assert.Equal(t, 3, dist[1][2]) // 1 -0-> 3 -2-> 0 -2-> 2
	assert.Equal(t, 0, dist[1][1])
}

func TestIsStronglyConnected(t *testing.T) {
	f := buildMoore5(t)
	assert.False(t, f.IsStronglyConnected()) // states 2 and 4 form a trap, unreachable back to 0/1/3

	ring := New(TypeDFA, 3, 1, 1)
	require.True(t, ring.SetTransition(0, 0, 1))
	require.True(t, ring.SetTransition(1, 0, 2))
	require.True(t, ring.SetTransition(2, 0, 0))
	assert.True(t, ring.IsStronglyConnected())
}
