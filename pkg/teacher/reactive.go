package teacher

import (
	"github.com/soucha/fsmlib/pkg/fsm"
	"github.com/soucha/fsmlib/pkg/sequence"
)

// TeacherRL wraps a BlackBox and caches the result of ResetAndOutputQuery
// keyed by the whole queried sequence (spec.md §4.10: "reactive"
// learning). Every reset clears the cache, and a cache miss resets the
// device, so the cache holds at most the most recent ResetAndOutputQuery
// sequence: repeating that same sequence replays from the cache without
// touching the device, while any other sequence resets and re-queries.
// OutputQuery results are not cached.
//
// This caches whole queried sequences rather than the original's
// per-symbol prefix trie; a query that shares only a prefix with the
// cached one is re-queried from scratch.
type TeacherRL struct {
	counters
	bb    BlackBox
	cache map[string][]fsm.OutputID
}

func NewTeacherRL(bb BlackBox) *TeacherRL {
	return &TeacherRL{bb: bb, cache: map[string][]fsm.OutputID{}}
}

func (t *TeacherRL) IsBlackBoxResettable() bool { return t.bb.IsResettable() }

func (t *TeacherRL) ResetBlackBox() {
	before := t.bb.AppliedResetCount()
	t.bb.Reset()
	if t.bb.AppliedResetCount() != before {
		t.resets++
	}
	t.cache = map[string][]fsm.OutputID{}
}

func (t *TeacherRL) OutputQuery(seq []fsm.InputID) []fsm.OutputID {
	out := make([]fsm.OutputID, len(seq))
	for i, in := range seq {
		out[i] = t.bb.Query(in)
	}
	t.recordQuery(len(seq))
	return out
}

// ResetAndOutputQuery returns the cached result for seq, without
// resetting or querying the device, if seq is the sequence cached by
// the previous ResetAndOutputQuery; otherwise it resets the device
// (clearing the cache), queries seq and caches the result.
func (t *TeacherRL) ResetAndOutputQuery(seq []fsm.InputID) []fsm.OutputID {
	key := seqKey(seq)
	if cached, ok := t.cache[key]; ok {
		t.outputQueries++
		return cached
	}
	t.ResetBlackBox()
	out := t.OutputQuery(seq)
	t.cache[key] = out
	return out
}

func (t *TeacherRL) EquivalenceQuery(conjecture *fsm.FSM) (sequence.Seq, bool) {
	t.equivalenceReqs++
	if conjecture == nil {
		return nil, true
	}
	for key, out := range t.cache {
		seq := decodeSeqKey(key)
		expected := conjecture.OutputAlongPath(0, seq)
		for i := range out {
			if i >= len(expected) || out[i] != expected[i] {
				return append(sequence.Seq{}, seq[:i+1]...), true
			}
		}
	}
	return nil, false
}

func seqKey(seq []fsm.InputID) string {
	b := make([]byte, 0, len(seq)*4)
	for _, in := range seq {
		b = append(b, byte(in>>24), byte(in>>16), byte(in>>8), byte(in))
	}
	return string(b)
}

func decodeSeqKey(key string) []fsm.InputID {
	b := []byte(key)
	seq := make([]fsm.InputID, len(b)/4)
	for i := range seq {
		v := int32(b[i*4])<<24 | int32(b[i*4+1])<<16 | int32(b[i*4+2])<<8 | int32(b[i*4+3])
		seq[i] = fsm.InputID(v)
	}
	return seq
}
