package unionfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnionMakesBothEndsFindEqual(t *testing.T) {
	uf := New(10)
	uf.Union(3, 7)
	assert.Equal(t, uf.Find(3), uf.Find(7))
}

func TestDistinctSetsStayDistinctUntilUnioned(t *testing.T) {
	uf := New(5)
	assert.NotEqual(t, uf.Find(0), uf.Find(1))
	uf.Union(0, 1)
	assert.Equal(t, uf.Find(0), uf.Find(1))
	assert.NotEqual(t, uf.Find(0), uf.Find(2))
}

func TestUnionIsTransitiveAcrossChains(t *testing.T) {
	uf := New(6)
	uf.Union(0, 1)
	uf.Union(1, 2)
	uf.Union(2, 3)
	root := uf.Find(0)
	for _, x := range []int{1, 2, 3} {
		assert.Equal(t, root, uf.Find(x))
	}
	assert.NotEqual(t, root, uf.Find(4))
}

func TestUnionOfAlreadyMergedSetsIsNoop(t *testing.T) {
	uf := New(4)
	uf.Union(0, 1)
	before := uf.Find(0)
	uf.Union(1, 0)
	assert.Equal(t, before, uf.Find(0))
}
