package fcc

import (
	"testing"

	"github.com/soucha/fsmlib/pkg/checking"
	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/soucha/fsmlib/pkg/sequence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildMealy2 is the 2-state, 2-input Mealy machine spec.md §8's first
// two regression scenarios are built on.
func buildMealy2(t *testing.T) *fsm.FSM {
	t.Helper()
	f := fsm.New(fsm.TypeMealy, 2, 2, 2)
	require.True(t, f.SetTransition(0, 0, 0, 0))
	require.True(t, f.SetTransition(0, 1, 1, 0))
	require.True(t, f.SetTransition(1, 0, 0, 1))
	require.True(t, f.SetTransition(1, 1, 1, 1))
	return f
}

func TestWMethodSuiteYieldsExactlyOneCandidate(t *testing.T) {
	f := buildMealy2(t)
	suite := checking.W(f, 0)
	require.NotEmpty(t, suite.Sequences)

	result := Check(f, suite.Sequences, 0)
	assert.Len(t, result.Candidates, 1)
}

func TestTruncatedSuiteYieldsTwoCandidates(t *testing.T) {
	f := buildMealy2(t)
	truncated := []sequence.Seq{
		{0, 0},
		{1, 0, 0},
		{1, 1},
	}
	result := Check(f, truncated, 0)
	assert.Len(t, result.Candidates, 2)
}

func TestCheckRejectsNegativeExtraStates(t *testing.T) {
	f := buildMealy2(t)
	result := Check(f, []sequence.Seq{{0, 1}}, -1)
	assert.Empty(t, result.Candidates)
}

func TestCheckOnMealy3WithFullWMethodIsConsistent(t *testing.T) {
	f := fsm.New(fsm.TypeMealy, 3, 2, 2)
	require.True(t, f.SetTransition(0, 0, 1, 0))
	require.True(t, f.SetTransition(0, 1, 2, 0))
	require.True(t, f.SetTransition(1, 0, 1, 0))
	require.True(t, f.SetTransition(1, 1, 2, 1))
	require.True(t, f.SetTransition(2, 0, 0, 1))
	require.True(t, f.SetTransition(2, 1, 0, 1))

	suite := checking.W(f, 0)
	result := Check(f, suite.Sequences, 0)
	require.NotEmpty(t, result.Candidates)
	for _, cand := range result.Candidates {
		for _, seq := range suite.Sequences {
			want := f.OutputAlongPath(0, []fsm.InputID(seq))
			got := cand.OutputAlongPath(0, []fsm.InputID(seq))
			assert.Equal(t, want, got)
		}
	}
}
