package sequence

import (
	"testing"

	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplittingTreeSeparatesAllPairs(t *testing.T) {
	f := buildMealy3(t)
	tree := BuildSplittingTree(f)
	require.NotNil(t, tree)

	pairs := tree.StatePairSequences(3)
	for idx, seq := range pairs {
		i, j := PairStates(idx, 3)
		require.NotNil(t, seq, "pair (%d,%d) must have an LCA sequence", i, j)
		oi := f.OutputAlongPath(fsm.StateID(i), toFSMSeq(seq))
		oj := f.OutputAlongPath(fsm.StateID(j), toFSMSeq(seq))
		assert.NotEqual(t, oi, oj)
	}
}

func TestHarmonizedStateIdentifiers(t *testing.T) {
	f := buildMealy3(t)
	tree := BuildSplittingTree(f)
	require.NotNil(t, tree)

	hsi := tree.HarmonizedStateIdentifiers()
	assert.Len(t, hsi, 3)
	for _, seqs := range hsi {
		assert.NotEmpty(t, seqs)
	}
}
