package sequence

import (
	"testing"

	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairIndexRoundTrip(t *testing.T) {
	for n := 2; n <= 8; n++ {
		seen := map[int]bool{}
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				idx := PairIndex(i, j, n)
				require.False(t, seen[idx], "duplicate index %d for n=%d", idx, n)
				seen[idx] = true
				gi, gj := PairStates(idx, n)
				assert.Equal(t, i, gi)
				assert.Equal(t, j, gj)
			}
		}
		assert.Equal(t, NumPairs(n), len(seen))
	}
}

// buildMealy3 returns a minimal 3-state Mealy machine where states 0
// and 1 agree on input 0 but differ on input 1, and state 2 differs
// from both immediately on input 0.
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

func TestComputeSeparatingDistinguishesAllPairs(t *testing.T) {
	f := buildMealy3(t)
	table := ComputeSeparating(f)

	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			seq := table.Sequence(i, j)
			require.NotNil(t, seq, "pair (%d,%d) should be separable", i, j)
			oi := f.OutputAlongPath(fsm.StateID(i), seq)
			oj := f.OutputAlongPath(fsm.StateID(j), seq)
			assert.NotEqual(t, oi, oj, "sequence %v must actually separate %d and %d", seq, i, j)
		}
	}
}

func TestComputeSeparatingStateOutputShortCircuits(t *testing.T) {
	f := fsm.New(fsm.TypeMoore, 2, 1, 2)
	require.True(t, f.SetStateOutput(0, 0))
	require.True(t, f.SetStateOutput(1, 1))
	require.True(t, f.SetTransition(0, 0, 1))
	require.True(t, f.SetTransition(1, 0, 0))

	table := ComputeSeparating(f)
	seq := table.Sequence(0, 1)
	assert.Equal(t, Seq{}, seq, "state outputs alone should separate with the empty sequence")
}
