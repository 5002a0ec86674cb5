package fsm

// equivalenceClasses partitions live states by behavioral equivalence
// using Moore-style partition refinement: start by grouping on
// (state-output, per-input transition-output) signature, then repeatedly
// refine by the classes of successor states until the partition is
// stable. This is the Hopcroft-flavoured refinement spec.md §4.1 calls
// for, specialized per variant via the capability flags instead of a
// type hierarchy.
func (f *FSM) equivalenceClasses() []int {
	class := make([]int, f.n)
	for s := 0; s < f.n; s++ {
		class[s] = -1
	}

	type sig struct {
		stateOut OutputID
		transOut string
	}
	sigOf := func(s int) sig {
		so := DefaultOutput
		if f.caps.stateOut {
			so = f.stateOut[s]
		}
		to := ""
		if f.caps.transOut {
			b := make([]byte, 0, f.p*4)
			for i := 0; i < f.p; i++ {
				if f.trans[s][i] == NullState {
					b = append(b, '#')
				} else {
					b = appendInt(b, int(f.transOut[s][i]))
				}
				b = append(b, ',')
			}
			to = string(b)
		}
		return sig{stateOut: so, transOut: to}
	}

	sigToClass := map[sig]int{}
	next := 0
	for s := 0; s < f.n; s++ {
		if f.removed(s) {
			continue
		}
		sg := sigOf(s)
		c, ok := sigToClass[sg]
		if !ok {
			c = next
			next++
			sigToClass[sg] = c
		}
		class[s] = c
	}

	for {
		changed := false
		refineMap := map[string]int{}
		newClass := make([]int, f.n)
		for s := range newClass {
			newClass[s] = -1
		}
		nextC := 0
		for s := 0; s < f.n; s++ {
			if f.removed(s) {
				continue
			}
			key := sig2{base: class[s]}
			key.succ = make([]int, f.p)
			for i := 0; i < f.p; i++ {
				t := f.trans[s][i]
				if t == NullState {
					key.succ[i] = -1
				} else {
					key.succ[i] = class[t]
				}
			}
			k := key.encode()
			c, ok := refineMap[k]
			if !ok {
				c = nextC
				nextC++
				refineMap[k] = c
			}
			newClass[s] = c
		}
		for s := 0; s < f.n; s++ {
			if newClass[s] != class[s] {
				changed = true
			}
		}
		class = newClass
		if !changed {
			break
		}
	}

	return class
}

type sig2 struct {
	base int
	succ []int
}

func (s sig2) encode() string {
	b := make([]byte, 0, 4+4*len(s.succ))
	b = appendInt(b, s.base)
	for _, v := range s.succ {
		b = append(b, '|')
		b = appendInt(b, v)
	}
	return string(b)
}

func appendInt(b []byte, v int) []byte {
	if v < 0 {
		b = append(b, '-')
		v = -v
	}
	if v == 0 {
		return append(b, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(b, tmp[i:]...)
}

// Minimize reduces f via partition refinement and compacts it. Returns
// false (leaving f unchanged) if f is empty.
func (f *FSM) Minimize() bool {
	if f.n == 0 {
		f.notice(KindInvalidArgument, "Minimize: empty machine")
		return false
	}
	class := f.equivalenceClasses()

	// pick a representative state per class, preferring state 0's class
	// to remain mapped to state 0.
	repOf := map[int]StateID{}
	order := []int{}
	zeroClass := class[0]
	order = append(order, zeroClass)
	repOf[zeroClass] = 0
	for s := 0; s < f.n; s++ {
		if f.removed(s) || s == 0 {
			continue
		}
		c := class[s]
		if _, ok := repOf[c]; !ok {
			repOf[c] = StateID(s)
			order = append(order, c)
		}
	}

	classToNew := make(map[int]StateID, len(order))
	for idx, c := range order {
		classToNew[c] = StateID(idx)
	}

	nf := New(f.Type, len(order), f.p, f.q)
	nf.Name, nf.Description = f.Name, f.Description
	for idx, c := range order {
		rep := repOf[c]
		for i := 0; i < f.p; i++ {
			t := f.trans[rep][i]
			if t == NullState {
				nf.trans[idx][i] = NullState
			} else {
				nf.trans[idx][i] = classToNew[class[t]]
			}
			if f.caps.transOut {
				nf.transOut[idx][i] = f.transOut[rep][i]
			}
		}
		if f.caps.stateOut {
			nf.stateOut[idx] = f.stateOut[rep]
		}
	}

	f.n = nf.n
	f.trans = nf.trans
	f.transOut = nf.transOut
	f.stateOut = nf.stateOut
	f.trimAlphabetTails()
	return true
}
