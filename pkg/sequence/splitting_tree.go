package sequence

import (
	"sort"

	"github.com/soucha/fsmlib/pkg/fsm"
)

// SplitNode is one node of a splitting tree (spec.md §4.5): a block of
// currently-indistinguishable states, the input sequence that splits
// it, the image of each block member after that sequence, and the
// children keyed by the output observed along the splitting sequence.
type SplitNode struct {
	Block      []int
	Sequence   Seq
	NextStates []int // parallel to Block: image of Block[k] after Sequence
	Children   map[fsm.OutputID]*SplitNode

	// Undistinguished counts block members sharing a successor under
	// Sequence; they remain together in a single child.
	Undistinguished int

	parent *SplitNode
}

// IsLeaf reports whether n has been split no further (singleton block).
func (n *SplitNode) IsLeaf() bool { return len(n.Children) == 0 }

// SplittingTree partitions an FSM's states by refining output traces.
type SplittingTree struct {
	Root  *SplitNode
	byIdx [][]*SplitNode // byIdx[state] = all nodes on the root-to-leaf path containing state, ordered root-first
}

// BuildSplittingTree constructs the splitting tree for f (spec.md
// §4.5): starting from the root block of all states, it splits every
// non-singleton leaf by the sequence bestSplit picks (the shortest
// length that splits the block at all; among sequences of that length,
// the first with the most blocks), until every leaf is a singleton.
// A longer sequence that would split into more blocks is not considered.
// Returns nil if f is not reduced (some pair of states cannot ever be
// split).
func BuildSplittingTree(f *fsm.FSM) *SplittingTree {
	n := f.NumStates()
	all := make([]int, n)
	for i := range all {
		all[i] = i
	}
	root := &SplitNode{Block: all}
	t := &SplittingTree{Root: root, byIdx: make([][]*SplitNode, n)}
	for s := 0; s < n; s++ {
		t.byIdx[s] = []*SplitNode{root}
	}

	var split func(node *SplitNode) bool
	split = func(node *SplitNode) bool {
		if len(node.Block) <= 1 {
			return true
		}
		seq, images, children, undist, ok := bestSplit(f, node.Block)
		if !ok {
			return false
		}
		node.Sequence = seq
		node.NextStates = images
		node.Children = children
		node.Undistinguished = undist
		for _, child := range children {
			child.parent = node
			for _, s := range child.Block {
				t.byIdx[s] = append(t.byIdx[s], child)
			}
			if !split(child) {
				return false
			}
		}
		return true
	}

	if !split(root) {
		return nil
	}
	return t
}

// bestSplit searches sequences by increasing length (BFS over inputs)
// and stops at the first length at which some sequence splits block
// into more than one class, classes being keyed by the output of the
// last step (lastStepOutput). Among the sequences of that length it
// returns the first one with the largest number of classes; longer
// sequences are not examined once a split is found.
func bestSplit(f *fsm.FSM, block []int) (Seq, []int, map[fsm.OutputID]*SplitNode, int, bool) {
	p := f.NumInputs()
	const maxLen = 64 // generous bound; a reduced FSM splits within n-1 steps

	type candidate struct {
		seq     Seq
		classes map[fsm.OutputID][]int
	}

	frontier := []Seq{{}}
	for length := 0; length <= maxLen; length++ {
		var best *candidate
		for _, seq := range frontier {
			classes := map[fsm.OutputID][]int{}
			ok := true
			for _, s := range block {
				end := f.EndPathState(fsm.StateID(s), toFSMSeq(seq))
				if end == fsm.WrongState {
					ok = false
					break
				}
				out := lastStepOutput(f, fsm.StateID(s), seq, end)
				classes[out] = append(classes[out], s)
			}
			if !ok {
				continue
			}
			if len(classes) > 1 {
				if best == nil || len(classes) > len(best.classes) {
					best = &candidate{seq: seq, classes: classes}
				}
			}
		}
		if best != nil {
			children := map[fsm.OutputID]*SplitNode{}
			images := make([]int, len(block))
			undist := 0
			for out, members := range best.classes {
				sort.Ints(members)
				child := &SplitNode{Block: members}
				children[out] = child
			}
			imageCount := map[int]int{}
			for k, s := range block {
				end := f.EndPathState(fsm.StateID(s), toFSMSeq(best.seq))
				images[k] = int(end)
				imageCount[int(end)]++
			}
			for _, img := range images {
				if imageCount[img] > 1 {
					undist++
				}
			}
			return best.seq, images, children, undist, true
		}
		if length == maxLen {
			break
		}
		var next []Seq
		for _, seq := range frontier {
			for i := 0; i < p; i++ {
				ns := make(Seq, len(seq)+1)
				copy(ns, seq)
				ns[len(seq)] = fsm.InputID(i)
				next = append(next, ns)
			}
		}
		if len(next) == 0 {
			break
		}
		frontier = next
	}
	return nil, nil, nil, 0, false
}

func toFSMSeq(s Seq) []fsm.InputID { return []fsm.InputID(s) }

// lastStepOutput returns the output observed on the last step of seq run
// from start, ending at end: the state output of end for variants that
// emit on state, otherwise the transition output of the final input (the
// only output a pure-Mealy machine ever produces). An empty seq carries
// no observed output, so it always collapses to the same class.
func lastStepOutput(f *fsm.FSM, start fsm.StateID, seq Seq, end fsm.StateID) fsm.OutputID {
	if f.EmitsOnState() {
		return f.Output(end, fsm.StoutInput)
	}
	if len(seq) == 0 {
		return fsm.DefaultOutput
	}
	prev := f.EndPathState(start, toFSMSeq(seq[:len(seq)-1]))
	return f.Output(prev, seq[len(seq)-1])
}

// SeparatingSequenceFrom walks the tree to find the lowest common
// ancestor splitting state from at least one member of diffStates,
// returning its sequence (spec.md §4.5). Members of diffStates equal to
// state are ignored; returns nil if no other member shares a node with
// state (for instance when diffStates is empty or holds only state).
func (t *SplittingTree) SeparatingSequenceFrom(state int, diffStates []int) Seq {
	path := t.byIdx[state]
	diffSet := map[int]bool{}
	for _, d := range diffStates {
		diffSet[d] = true
	}
	for i := len(path) - 1; i >= 0; i-- {
		node := path[i]
		for _, other := range diffStates {
			if containsInt(node.Block, other) && other != state {
				return append(Seq{}, node.Sequence...)
			}
		}
	}
	return nil
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// StatePairSequences returns, for every unordered state pair, the
// sequence of its lowest common ancestor node in the splitting tree.
func (t *SplittingTree) StatePairSequences(n int) []Seq {
	out := make([]Seq, NumPairs(n))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out[PairIndex(i, j, n)] = t.lca(i, j)
		}
	}
	return out
}

func (t *SplittingTree) lca(i, j int) Seq {
	pi, pj := t.byIdx[i], t.byIdx[j]
	var best Seq
	for k := 0; k < len(pi) && k < len(pj) && pi[k] == pj[k]; k++ {
		if pi[k].Sequence != nil {
			best = pi[k].Sequence
		}
	}
	return best
}

// HarmonizedStateIdentifiers returns, for each state, the sequences on
// its root-to-leaf path (spec.md §4.5).
func (t *SplittingTree) HarmonizedStateIdentifiers() [][]Seq {
	out := make([][]Seq, len(t.byIdx))
	for s, path := range t.byIdx {
		var seqs []Seq
		for _, node := range path {
			if node.Sequence != nil {
				seqs = append(seqs, node.Sequence)
			}
		}
		out[s] = seqs
	}
	return out
}
