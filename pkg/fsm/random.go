package fsm

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Go has no native thread-local storage; spec §5 asks for a per-thread
// seed initialized from wall-clock time at first use. A mutex-guarded
// package-level source is the idiomatic approximation (DESIGN.md records
// this substitution) — every goroutine shares one seeded generator
// instead of one per OS thread.
var (
	randMu     sync.Mutex
	randSource *rand.Rand
)

func randGen() *rand.Rand {
	randMu.Lock()
	defer randMu.Unlock()
	if randSource == nil {
		randSource = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return randSource
}

// HashCode returns a random alphanumeric sequence of the given length,
// the Go equivalent of the original Utils::hashCode. Backed by
// google/uuid for the entropy source rather than hand-rolled PRNG
// character sampling.
func HashCode(length int) string {
	if length <= 0 {
		return ""
	}
	const alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	id := uuid.New()
	raw := id.String()
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[int(raw[i%len(raw)])%len(alphabet)]
	}
	return string(out)
}

// UniqueName concatenates name with a generated hash and suffix, the Go
// analogue of Utils::getUniqueName, for callers that need a
// collision-free label.
func UniqueName(name, suffix string) string {
	return name + "-" + HashCode(8) + suffix
}

// Generate produces a random, connected machine of the given variant and
// dimensions whose outputs exhaust [0..q-1] and which, for DFSM,
// satisfies λ(s,i) = μ(δ(s,i)) whenever both sides are defined —
// redrawing internally until the compatibility condition holds, per
// spec.md §4.1 and original_source/FSMdevel/FSMgenerator.cpp.
func Generate(t Type, n, p, q int) *FSM {
	for attempt := 0; attempt < 10000; attempt++ {
		f := attemptGenerate(t, n, p, q)
		if f != nil {
			return f
		}
	}
	return nil
}

func attemptGenerate(t Type, n, p, q int) *FSM {
	f := New(t, n, p, q)
	rg := randGen()

	// Build a random spanning structure first so the machine is
	// connected: state s+1 gets an incoming transition from some state
	// in [0..s] before any other randomization happens.
	for s := 1; s < n; s++ {
		from := StateID(rg.Intn(s))
		in := InputID(pickUnusedInput(f, from, rg))
		f.trans[from][in] = StateID(s)
	}

	// Fill remaining transitions randomly (may stay undefined — partial
	// machines are allowed).
	for s := 0; s < n; s++ {
		for i := 0; i < p; i++ {
			if f.trans[s][i] != NullState {
				continue
			}
			if rg.Intn(4) == 0 {
				continue // leave undefined sometimes
			}
			f.trans[s][i] = StateID(rg.Intn(n))
		}
	}

	usedOutputs := map[OutputID]bool{}
	if f.caps.transOut {
		for s := 0; s < n; s++ {
			for i := 0; i < p; i++ {
				if f.trans[s][i] == NullState {
					continue
				}
				o := OutputID(rg.Intn(q))
				f.transOut[s][i] = o
				usedOutputs[o] = true
			}
		}
	}
	if f.caps.stateOut {
		for s := 0; s < n; s++ {
			o := OutputID(rg.Intn(q))
			f.stateOut[s] = o
			usedOutputs[o] = true
		}
	}
	for o := 0; o < q; o++ {
		if !usedOutputs[OutputID(o)] {
			return nil // retry: didn't exhaust the output alphabet
		}
	}

	if t == TypeDFSM {
		for s := 0; s < n; s++ {
			for i := 0; i < p; i++ {
				target := f.trans[s][i]
				if target == NullState {
					continue
				}
				if f.transOut[s][i] != f.stateOut[target] {
					return nil // retry: DFSM compatibility violated
				}
			}
		}
	}

	if !f.IsStronglyConnected() {
		return nil
	}
	return f
}

func pickUnusedInput(f *FSM, s StateID, rg *rand.Rand) int {
	for i := 0; i < f.p; i++ {
		if f.trans[s][i] == NullState {
			return i
		}
	}
	return rg.Intn(f.p)
}
