package sequence

import (
	"testing"

	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDSAndHSOnMealy3(t *testing.T) {
	f := buildMealy3(t)

	seq, ok := PDS(f)
	require.True(t, ok)
	traces := map[string]bool{}
	for s := 0; s < 3; s++ {
		out := f.OutputAlongPath(fsm.StateID(s), toFSMSeq(seq))
		key := seqKeyFromOutputs(out)
		assert.False(t, traces[key], "PDS must give every state a distinct trace")
		traces[key] = true
	}

	hseq, ok := HS(f)
	require.True(t, ok)
	assert.NotNil(t, hseq)
}

func TestADSExistsForMealy3(t *testing.T) {
	f := buildMealy3(t)
	root, ok := ADS(f)
	require.True(t, ok)
	require.NotNil(t, root)
}

func TestSVSPerState(t *testing.T) {
	f := buildMealy3(t)
	for s := 0; s < 3; s++ {
		_, ok := SVS(f, fsm.StateID(s))
		assert.True(t, ok, "state %d should have an SVS in a reduced machine", s)
	}
}

func TestCSetSeparatesEveryPair(t *testing.T) {
	f := buildMealy3(t)
	cset := CSet(f)
	require.NotEmpty(t, cset)

	reduced := ReduceCSetEqualLength(cset)
	assert.LessOrEqual(t, len(reduced), len(cset))
}

func TestStateAndTransitionCovers(t *testing.T) {
	f := buildMealy3(t)
	sc := StateCover(f)
	assert.Len(t, sc, 3)
	assert.Equal(t, Seq{}, sc[0])

	tc := TransitionCover(f)
	assert.GreaterOrEqual(t, len(tc), len(sc))
}

// A homing sequence only guarantees that states producing the same
// observed output end up in the same final state, not that every state
// converges to one. Applying HS's result from every state and grouping
// by observed output must never split a group across two final states.
func TestHomingSequenceGroupsStatesByFinalStateConsistently(t *testing.T) {
	f := buildMealy3(t)
	seq, ok := HS(f)
	require.True(t, ok)

	finalByObs := map[string]fsm.StateID{}
	for s := 0; s < f.NumStates(); s++ {
		path := toFSMSeq(seq)
		out := f.OutputAlongPath(fsm.StateID(s), path)
		end := f.EndPathState(fsm.StateID(s), path)
		key := seqKeyFromOutputs(out)
		if prev, seen := finalByObs[key]; seen {
			assert.Equal(t, prev, end,
				"states with identical observed output %q must land on the same final state", key)
		} else {
			finalByObs[key] = end
		}
	}
}

// buildChainDFA5 is a 5-state acceptor of strings ending in four
// consecutive 1s: state s < 4 advances to s+1 on input 1 and resets to
// 0 on input 0; state 4 (accepting) self-loops on 1 and resets on 0.
func buildChainDFA5(t *testing.T) *fsm.FSM {
	t.Helper()
	f := fsm.New(fsm.TypeDFA, 5, 2, 2)
	for s := 0; s < 5; s++ {
		require.True(t, f.SetTransition(fsm.StateID(s), 0, 0))
	}
	for s := 0; s < 4; s++ {
		require.True(t, f.SetTransition(fsm.StateID(s), 1, fsm.StateID(s+1)))
	}
	require.True(t, f.SetTransition(4, 1, 4))
	require.True(t, f.SetStateOutput(4, 1))
	for s := 0; s < 4; s++ {
		require.True(t, f.SetStateOutput(fsm.StateID(s), 0))
	}
	return f
}

func TestPDSSeparatesAllStatesOnDFA(t *testing.T) {
	f := buildChainDFA5(t)
	seq, ok := PDS(f)
	require.True(t, ok)

	traces := map[string]bool{}
	for s := 0; s < f.NumStates(); s++ {
		out := f.OutputAlongPath(fsm.StateID(s), toFSMSeq(seq))
		key := seqKeyFromOutputs(out)
		assert.False(t, traces[key], "PDS must give every state a distinct trace")
		traces[key] = true
	}
}

func TestTransitionCoverHitsEveryTransitionOnDFA(t *testing.T) {
	f := buildChainDFA5(t)
	tc := TransitionCover(f)

	seen := map[[2]int]bool{}
	for _, seq := range tc {
		cur := fsm.StateID(0)
		for _, in := range seq {
			next := f.NextState(cur, in)
			seen[[2]int{int(cur), int(in)}] = true
			cur = next
		}
	}
	for s := 0; s < f.NumStates(); s++ {
		for i := 0; i < f.NumInputs(); i++ {
			assert.True(t, seen[[2]int{s, i}], "transition cover must exercise state %d input %d", s, i)
		}
	}
}

func seqKeyFromOutputs(out []fsm.OutputID) string {
	var buf []byte
	for _, o := range out {
		buf = appendInt(buf, int(o))
		buf = append(buf, ',')
	}
	return string(buf)
}
