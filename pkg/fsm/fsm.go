package fsm

import "fmt"

// New allocates an empty machine of the given variant, dimensions
// (n states, p inputs, q outputs). DFA output alphabets are silently
// clamped to 2 (spec §4.1).
func New(t Type, n, p, q int) *FSM {
	if t == TypeDFA && q > 2 {
		q = 2
	}
	caps := capsFor(t)

	f := &FSM{
		Type: t,
		caps: caps,
		n:    n,
		p:    p,
		q:    q,
		diag: newDiagnostics(),
	}

	f.trans = make([][]StateID, n)
	for s := range f.trans {
		f.trans[s] = make([]StateID, p)
		for i := range f.trans[s] {
			f.trans[s][i] = NullState
		}
	}

	if caps.transOut {
		f.transOut = make([][]OutputID, n)
		for s := range f.transOut {
			f.transOut[s] = make([]OutputID, p)
			for i := range f.transOut[s] {
				f.transOut[s][i] = DefaultOutput
			}
		}
	}

	if caps.stateOut {
		f.stateOut = make([]OutputID, n)
		for s := range f.stateOut {
			f.stateOut[s] = DefaultOutput
		}
	}

	return f
}

func (f *FSM) validState(s StateID) bool   { return s >= 0 && int(s) < f.n }
func (f *FSM) validInput(i InputID) bool   { return i >= 0 && int(i) < f.p }
func (f *FSM) validOutput(o OutputID) bool { return o >= 0 && int(o) < f.q }

// SetTransition sets δ(s,i) = t [with output o, for variants that emit on
// transitions]. STOUT_INPUT is forbidden here; re-setting the same
// transition succeeds.
func (f *FSM) SetTransition(s StateID, i InputID, t StateID, o ...OutputID) bool {
	if i == StoutInput {
		f.notice(KindInvalidArgument, "SetTransition: STOUT_INPUT not allowed as a real input")
		return false
	}
	if !f.validState(s) || !f.validInput(i) || !f.validState(t) {
		f.notice(KindInvalidArgument, fmt.Sprintf("SetTransition: out-of-range state/input (s=%d i=%d t=%d)", s, i, t))
		return false
	}
	f.trans[s][i] = t
	if len(o) > 0 {
		if !f.caps.transOut {
			f.notice(KindNotSupportedByVariant, "SetTransition: variant does not emit on transitions")
			return false
		}
		if !f.validOutput(o[0]) {
			f.notice(KindInvalidArgument, fmt.Sprintf("SetTransition: out-of-range output %d", o[0]))
			return false
		}
		f.transOut[s][i] = o[0]
	}
	return true
}

// SetStateOutput sets μ(s) = o for variants that emit on states.
func (f *FSM) SetStateOutput(s StateID, o OutputID) bool {
	if !f.caps.stateOut {
		f.notice(KindNotSupportedByVariant, "SetStateOutput: variant does not emit on states")
		return false
	}
	if !f.validState(s) || !f.validOutput(o) {
		f.notice(KindInvalidArgument, fmt.Sprintf("SetStateOutput: out-of-range state/output (s=%d o=%d)", s, o))
		return false
	}
	f.stateOut[s] = o
	return true
}

// SetTransitionOutput sets λ(s,i) = o directly (helper over SetTransition
// for callers that already know the target state).
func (f *FSM) SetTransitionOutput(s StateID, i InputID, o OutputID) bool {
	if !f.caps.transOut {
		f.notice(KindNotSupportedByVariant, "SetTransitionOutput: variant does not emit on transitions")
		return false
	}
	if !f.validState(s) || !f.validInput(i) || !f.validOutput(o) {
		f.notice(KindInvalidArgument, "SetTransitionOutput: out-of-range argument")
		return false
	}
	f.transOut[s][i] = o
	return true
}

// NextState returns δ(s,i), NullState if undefined, WrongState on
// out-of-range arguments.
func (f *FSM) NextState(s StateID, i InputID) StateID {
	if !f.validState(s) || (!f.validInput(i) && i != StoutInput) {
		return WrongState
	}
	if i == StoutInput {
		return s
	}
	return f.trans[s][i]
}

// EndPathState folds NextState over seq starting at s, propagating
// WrongState.
func (f *FSM) EndPathState(s StateID, seq []InputID) StateID {
	cur := s
	for _, i := range seq {
		cur = f.NextState(cur, i)
		if cur == WrongState {
			return WrongState
		}
		if cur == NullState {
			return NullState
		}
	}
	return cur
}

// Output returns λ(s,i), or μ(s) when i == StoutInput, WrongOutput on
// invalid arguments or an undefined transition/output.
func (f *FSM) Output(s StateID, i InputID) OutputID {
	if !f.validState(s) {
		return WrongOutput
	}
	if i == StoutInput {
		if !f.caps.stateOut {
			return DefaultOutput
		}
		return f.stateOut[s]
	}
	if !f.validInput(i) {
		return WrongOutput
	}
	if f.trans[s][i] == NullState {
		return WrongOutput
	}
	if !f.caps.transOut {
		return DefaultOutput
	}
	return f.transOut[s][i]
}

// OutputAlongPath runs seq from s and returns the aligned output trace;
// steps that traverse an undefined transition are marked WrongOutput.
func (f *FSM) OutputAlongPath(s StateID, seq []InputID) []OutputID {
	out := make([]OutputID, len(seq))
	cur := s
	for idx, i := range seq {
		out[idx] = f.Output(cur, i)
		nxt := f.NextState(cur, i)
		if nxt == WrongState || nxt == NullState {
			cur = NullState
			continue
		}
		cur = nxt
	}
	return out
}

// Clone returns a deep copy of f, including its diagnostics handler.
func (f *FSM) Clone() *FSM {
	c := New(f.Type, f.n, f.p, f.q)
	c.Name = f.Name
	c.Description = f.Description
	f.diag.mu.RLock()
	c.diag.set(f.diag.handler)
	f.diag.mu.RUnlock()
	for s := 0; s < f.n; s++ {
		copy(c.trans[s], f.trans[s])
		if f.caps.transOut {
			copy(c.transOut[s], f.transOut[s])
		}
	}
	if f.caps.stateOut {
		copy(c.stateOut, f.stateOut)
	}
	return c
}
