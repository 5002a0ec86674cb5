// Package prefixset implements a trie of input sequences (spec.md §4.2):
// insert, prefix-query, and maximal-sequence (leaf-path) extraction.
package prefixset

import "github.com/soucha/fsmlib/pkg/fsm"

// Seq is an input sequence.
type Seq []fsm.InputID

type node struct {
	children map[fsm.InputID]*node
	terminal bool // a stored sequence ends exactly here
}

func newNode() *node { return &node{children: map[fsm.InputID]*node{}} }

// Set is a trie of input sequences.
type Set struct {
	root *node
}

// New returns an empty prefix set.
func New() *Set { return &Set{root: newNode()} }

// Insert adds seq and reports whether it was new, i.e. not already a
// prefix of a previously stored sequence (spec.md §4.2: `insert` returns
// true iff the sequence is new).
func (s *Set) Insert(seq Seq) bool {
	n := s.root
	isNew := false
	for _, in := range seq {
		child, ok := n.children[in]
		if !ok {
			child = newNode()
			n.children[in] = child
			isNew = true
		}
		n = child
	}
	if !n.terminal {
		if len(n.children) == 0 {
			isNew = true
		}
		n.terminal = true
	}
	return isNew
}

// AllLen is the sentinel Contains returns when seq is itself fully
// contained (spec.md §4.2: "sentinel 'all' if seq is itself contained
// entire").
const AllLen = -1

// Contains returns the length of the longest stored prefix of seq, 0 if
// none, or AllLen if seq itself is a stored sequence.
func (s *Set) Contains(seq Seq) int {
	n := s.root
	longestTerminal := 0
	if n.terminal {
		longestTerminal = 0 // empty sequence
	}
	matched := 0
	for _, in := range seq {
		child, ok := n.children[in]
		if !ok {
			break
		}
		matched++
		n = child
		if n.terminal {
			longestTerminal = matched
		}
	}
	if matched == len(seq) && n.terminal {
		return AllLen
	}
	return longestTerminal
}

// PopMaximal removes and returns an arbitrary leaf-path sequence (one
// with no stored continuation), or nil if the set is empty.
func (s *Set) PopMaximal() Seq {
	if len(s.root.children) == 0 && !s.root.terminal {
		return nil
	}
	var path []fsm.InputID
	n := s.root
	for {
		if len(n.children) == 0 {
			break
		}
		var pick fsm.InputID
		for in := range n.children {
			pick = in
			break
		}
		path = append(path, pick)
		n = n.children[pick]
	}
	s.remove(path)
	return path
}

// PopMaximalWithPrefix returns a leaf sequence beginning with prefix,
// removing it from the set, or (nil, false) if none exists.
func (s *Set) PopMaximalWithPrefix(prefix Seq) (Seq, bool) {
	n := s.root
	for _, in := range prefix {
		child, ok := n.children[in]
		if !ok {
			return nil, false
		}
		n = child
	}
	path := append(Seq{}, prefix...)
	for len(n.children) > 0 {
		var pick fsm.InputID
		for in := range n.children {
			pick = in
			break
		}
		path = append(path, pick)
		n = n.children[pick]
	}
	s.remove(path)
	return path, true
}

// remove deletes the node chain for path, pruning dead branches upward.
func (s *Set) remove(path Seq) {
	chain := []*node{s.root}
	n := s.root
	for _, in := range path {
		n = n.children[in]
		chain = append(chain, n)
	}
	n.terminal = false
	for i := len(path); i > 0; i-- {
		parent := chain[i-1]
		child := chain[i]
		if len(child.children) == 0 && !child.terminal {
			delete(parent.children, path[i-1])
		} else {
			break
		}
	}
}

// MaximalSequences returns every leaf path (a sequence with no stored
// continuation), with trailing STOUT_INPUT markers stripped.
func (s *Set) MaximalSequences() []Seq {
	var out []Seq
	var walk func(n *node, prefix Seq)
	walk = func(n *node, prefix Seq) {
		if len(n.children) == 0 {
			trimmed := trimTrailingStout(prefix)
			cp := append(Seq{}, trimmed...)
			out = append(out, cp)
			return
		}
		for in, child := range n.children {
			walk(child, append(prefix, in))
		}
	}
	if len(s.root.children) == 0 {
		return []Seq{{}}
	}
	walk(s.root, nil)
	return out
}

func trimTrailingStout(seq Seq) Seq {
	end := len(seq)
	for end > 0 && seq[end-1] == fsm.StoutInput {
		end--
	}
	return seq[:end]
}
