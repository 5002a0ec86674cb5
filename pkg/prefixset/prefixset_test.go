package prefixset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertThenContainsReturnsAllLen(t *testing.T) {
	s := New()
	seq := Seq{0, 1, 0}
	assert.True(t, s.Insert(seq))
	assert.Equal(t, AllLen, s.Contains(seq))
}

func TestInsertReportsFalseOnExactRepeat(t *testing.T) {
	s := New()
	seq := Seq{1, 1}
	assert.True(t, s.Insert(seq))
	assert.False(t, s.Insert(seq))
}

func TestContainsReportsLongestStoredPrefix(t *testing.T) {
	s := New()
	s.Insert(Seq{0, 1})
	assert.Equal(t, 2, s.Contains(Seq{0, 1, 1, 1}))
	assert.Equal(t, 0, s.Contains(Seq{1, 0}))
}

func TestMaximalSequencesArePrefixFree(t *testing.T) {
	s := New()
	s.Insert(Seq{0})
	s.Insert(Seq{0, 1})
	s.Insert(Seq{1, 0, 1})

	maximal := s.MaximalSequences()
	for i := range maximal {
		for j := range maximal {
			if i == j {
				continue
			}
			assert.False(t, isPrefixOf(maximal[i], maximal[j]),
				"%v is a prefix of %v, maximal set is not prefix-free", maximal[i], maximal[j])
		}
	}
}

func TestPopMaximalDrainsTheSet(t *testing.T) {
	s := New()
	s.Insert(Seq{0, 1})
	s.Insert(Seq{1})

	first := s.PopMaximal()
	assert.NotNil(t, first)
	second := s.PopMaximal()
	assert.NotNil(t, second)
	assert.Nil(t, s.PopMaximal())
}

func isPrefixOf(a, b Seq) bool {
	if len(a) >= len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
