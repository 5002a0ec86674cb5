package sequence

import (
	"sort"

	"github.com/soucha/fsmlib/pkg/fsm"
)

// block is one class of a current-state partition: candidates that
// have produced an identical output trace so far, each tagged with
// the state it descends from. A partition starts as a single block
// holding every state; applying an input splits each block
// independently into sub-blocks keyed by the output just observed —
// blocks descended from different parents never re-merge, since they
// were already distinguished by an earlier output.
type block struct {
	cur    []fsm.StateID // current state of the k-th surviving branch
	origin []fsm.StateID // the state that branch started from
}

// partition is the BFS search state shared by PDS and HS.
type partition []block

func initialPartition(n int) partition {
	b := block{cur: make([]fsm.StateID, n), origin: make([]fsm.StateID, n)}
	for s := 0; s < n; s++ {
		b.cur[s] = fsm.StateID(s)
		b.origin[s] = fsm.StateID(s)
	}
	return partition{b}
}

// step splits every block of p independently by the output observed
// under input i, returning the refined partition.
func (p partition) step(f *fsm.FSM, i fsm.InputID) partition {
	var next partition
	for _, b := range p {
		classes := map[fsm.OutputID]block{}
		var keys []fsm.OutputID
		for k, s := range b.cur {
			o := f.Output(s, i)
			ns := f.NextState(s, i)
			if ns == fsm.NullState || ns == fsm.WrongState || o == fsm.WrongOutput {
				continue
			}
			if _, ok := classes[o]; !ok {
				keys = append(keys, o)
			}
			nb := classes[o]
			nb.cur = append(nb.cur, ns)
			nb.origin = append(nb.origin, b.origin[k])
			classes[o] = nb
		}
		sort.Slice(keys, func(a, c int) bool { return keys[a] < keys[c] })
		for _, o := range keys {
			next = append(next, classes[o])
		}
	}
	return next
}

// allSingletonBlocks is the PDS acceptance condition: every state's
// output trace under the sequence so far is unique, i.e. every block
// has collapsed to exactly one surviving branch.
func allSingletonBlocks(p partition) bool {
	for _, b := range p {
		if len(b.cur) != 1 {
			return false
		}
	}
	return true
}

// sameCurrentWithinBlocks is the homing-sequence acceptance condition:
// within each output-trace class, every surviving branch has reached
// the same current state, so that state is determined by the trace.
func sameCurrentWithinBlocks(p partition) bool {
	for _, b := range p {
		for _, c := range b.cur[1:] {
			if c != b.cur[0] {
				return false
			}
		}
	}
	return true
}

const bfsDepthBound = 200

// PDS computes a preset distinguishing sequence: one input sequence
// after which every state's output trace is unique (spec.md §4.6).
// Returns (seq, true) if one exists.
func PDS(f *fsm.FSM) (Seq, bool) {
	return presetSearch(f, allSingletonBlocks)
}

// HS computes a homing sequence: one input sequence after which the
// current state is uniquely determined by the observed output trace
// (spec.md §4.6). Always exists for a reduced, completely-specified
// FSM.
func HS(f *fsm.FSM) (Seq, bool) {
	return presetSearch(f, sameCurrentWithinBlocks)
}

func presetSearch(f *fsm.FSM, accept func(partition) bool) (Seq, bool) {
	n := f.NumStates()
	if n <= 1 {
		return Seq{}, true
	}
	start := initialPartition(n)
	if accept(start) {
		return Seq{}, true
	}
	type frame struct {
		p   partition
		seq Seq
	}
	queue := []frame{{start, Seq{}}}
	visited := map[string]bool{}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if len(cur.seq) > bfsDepthBound {
			continue
		}
		for i := 0; i < f.NumInputs(); i++ {
			np := cur.p.step(f, fsm.InputID(i))
			if len(np) == 0 {
				continue
			}
			key := partitionKey(np)
			if visited[key] {
				continue
			}
			visited[key] = true
			nseq := append(append(Seq{}, cur.seq...), fsm.InputID(i))
			if accept(np) {
				return nseq, true
			}
			queue = append(queue, frame{np, nseq})
		}
	}
	return nil, false
}

func partitionKey(p partition) string {
	var buf []byte
	for _, b := range p {
		for _, c := range b.cur {
			buf = appendInt(buf, int(c))
			buf = append(buf, ',')
		}
		buf = append(buf, '|')
	}
	return string(buf)
}

// ADSNode is one node of an adaptive distinguishing sequence tree
// (spec.md §4.6): apply Input, branch on the observed output.
type ADSNode struct {
	State    fsm.StateID // the single candidate state once resolved; WrongState while still branching
	Input    fsm.InputID
	Children map[fsm.OutputID]*ADSNode
}

// ADS computes an adaptive distinguishing sequence tree, or (nil,
// false) if none exists. Unlike PDS, ADS only ever tracks one live
// candidate block at a time: each branch of the tree independently
// narrows its own block of still-indistinguishable origin states.
func ADS(f *fsm.FSM) (*ADSNode, bool) {
	n := f.NumStates()
	start := initialPartition(n)[0]
	node, ok := adsSearch(f, start, map[string]bool{}, 0)
	return node, ok
}

func adsSearch(f *fsm.FSM, b block, visiting map[string]bool, depth int) (*ADSNode, bool) {
	if len(b.cur) == 1 {
		return &ADSNode{State: b.origin[0]}, true
	}
	if depth > bfsDepthBound {
		return nil, false
	}
	key := partitionKey(partition{b})
	if visiting[key] {
		return nil, false
	}
	visiting[key] = true
	defer delete(visiting, key)

	for i := 0; i < f.NumInputs(); i++ {
		classes := blockSplit(f, b, fsm.InputID(i))
		if len(classes) < 2 {
			continue // this input doesn't refine the block at all
		}
		children := map[fsm.OutputID]*ADSNode{}
		ok := true
		for o, sub := range classes {
			child, good := adsSearch(f, sub, visiting, depth+1)
			if !good {
				ok = false
				break
			}
			children[o] = child
		}
		if ok {
			return &ADSNode{State: fsm.WrongState, Input: fsm.InputID(i), Children: children}, true
		}
	}
	return nil, false
}

// blockSplit partitions a single block by the output observed under
// input i.
func blockSplit(f *fsm.FSM, b block, i fsm.InputID) map[fsm.OutputID]block {
	classes := map[fsm.OutputID]block{}
	for k, s := range b.cur {
		o := f.Output(s, i)
		ns := f.NextState(s, i)
		if ns == fsm.NullState || ns == fsm.WrongState || o == fsm.WrongOutput {
			continue
		}
		nb := classes[o]
		nb.cur = append(nb.cur, ns)
		nb.origin = append(nb.origin, b.origin[k])
		classes[o] = nb
	}
	return classes
}

// SVS computes a state-verifying sequence for state s: a sequence
// under which s's output trace is not shared by any other state
// (spec.md §4.6). Returns (nil, false) if none exists.
func SVS(f *fsm.FSM, s fsm.StateID) (Seq, bool) {
	n := f.NumStates()
	type frame struct {
		cur []fsm.StateID // cur[0] is the image of s; rest are the other surviving candidates
		seq Seq
	}
	start := make([]fsm.StateID, 0, n)
	start = append(start, s)
	for i := 0; i < n; i++ {
		if fsm.StateID(i) != s {
			start = append(start, fsm.StateID(i))
		}
	}
	queue := []frame{{start, Seq{}}}
	visited := map[string]bool{}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if len(cur.seq) > bfsDepthBound {
			continue
		}
		for i := 0; i < f.NumInputs(); i++ {
			ref := f.Output(cur.cur[0], fsm.InputID(i))
			refNext := f.NextState(cur.cur[0], fsm.InputID(i))
			if ref == fsm.WrongOutput || refNext == fsm.NullState || refNext == fsm.WrongState {
				continue
			}
			var survivors []fsm.StateID
			survivors = append(survivors, refNext)
			for _, c := range cur.cur[1:] {
				o := f.Output(c, fsm.InputID(i))
				if o != ref {
					continue
				}
				nc := f.NextState(c, fsm.InputID(i))
				if nc == fsm.NullState || nc == fsm.WrongState {
					continue
				}
				survivors = append(survivors, nc)
			}
			nseq := append(append(Seq{}, cur.seq...), fsm.InputID(i))
			if len(survivors) == 1 {
				return nseq, true
			}
			key := svsKey(survivors, nseq)
			if visited[key] {
				continue
			}
			visited[key] = true
			queue = append(queue, frame{survivors, nseq})
		}
	}
	return nil, false
}

// SS computes a synchronizing sequence: one sequence that drives every
// state to the same final state, regardless of starting state
// (spec.md §4.6), via Cerny-style iterative pair reduction. Returns
// (nil, false) if none exists (e.g. the FSM is partial in a way that
// blocks synchronization, or no such sequence exists).
func SS(f *fsm.FSM) (Seq, bool) {
	n := f.NumStates()
	cur := make([]fsm.StateID, n)
	for i := range cur {
		cur[i] = fsm.StateID(i)
	}
	var seq Seq
	distinct := func(xs []fsm.StateID) int {
		seen := map[fsm.StateID]bool{}
		for _, x := range xs {
			seen[x] = true
		}
		return len(seen)
	}
	for iter := 0; iter < n*n+10 && distinct(cur) > 1; iter++ {
		bestInput, bestCount := -1, distinct(cur)
		var bestNext []fsm.StateID
		for i := 0; i < f.NumInputs(); i++ {
			next := make([]fsm.StateID, n)
			ok := true
			for k, s := range cur {
				ns := f.NextState(s, fsm.InputID(i))
				if ns == fsm.NullState || ns == fsm.WrongState {
					ok = false
					break
				}
				next[k] = ns
			}
			if !ok {
				continue
			}
			if d := distinct(next); d < bestCount {
				bestCount = d
				bestInput = i
				bestNext = next
			}
		}
		if bestInput == -1 {
			return nil, false
		}
		seq = append(seq, fsm.InputID(bestInput))
		cur = bestNext
	}
	if distinct(cur) != 1 {
		return nil, false
	}
	return seq, true
}

// CSet returns the characterizing set: the union of separating
// sequences for every state pair (spec.md §4.6), always defined for a
// reduced FSM.
func CSet(f *fsm.FSM) []Seq {
	table := ComputeSeparating(f)
	var out []Seq
	for _, seq := range table.AllSequences() {
		if seq != nil {
			out = append(out, seq)
		}
	}
	return out
}

// ReduceCSetLSSL reduces a characterizing set by the "longest subsumes
// shorter" heuristic: drop any sequence that is a prefix of another
// surviving sequence, since the longer one already separates
// everything the shorter one does plus more.
func ReduceCSetLSSL(cset []Seq) []Seq {
	kept := make([]bool, len(cset))
	for i := range kept {
		kept[i] = true
	}
	for i, a := range cset {
		if !kept[i] {
			continue
		}
		for j, b := range cset {
			if i == j || !kept[j] {
				continue
			}
			if isPrefix(a, b) && len(a) < len(b) {
				kept[i] = false
				break
			}
		}
	}
	var out []Seq
	for i, k := range kept {
		if k {
			out = append(out, cset[i])
		}
	}
	return out
}

// ReduceCSetEqualLength reduces a characterizing set by discarding
// exact duplicates, keeping the first occurrence of each distinct
// sequence (spec.md §4.6: `reduceCSet_EqualLength`).
func ReduceCSetEqualLength(cset []Seq) []Seq {
	seen := map[string]bool{}
	var out []Seq
	for _, s := range cset {
		key := seqKey(s)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func svsKey(survivors []fsm.StateID, seq Seq) string {
	buf := make([]byte, 0, len(survivors)*4+4)
	for _, s := range survivors {
		buf = appendInt(buf, int(s))
		buf = append(buf, ',')
	}
	buf = append(buf, '|')
	buf = appendInt(buf, len(seq))
	return string(buf)
}

func isPrefix(a, b Seq) bool {
	if len(a) > len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func seqKey(s Seq) string {
	buf := make([]byte, 0, len(s)*4)
	for _, in := range s {
		buf = appendInt(buf, int(in))
		buf = append(buf, ',')
	}
	return string(buf)
}
