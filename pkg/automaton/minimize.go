package automaton

// Minimize collapses equivalent states via Moore's partition-refinement
// algorithm (table filling). Every automaton operation in this package
// (Intersect/Union/Difference/Complement/Project/Concat) returns its result
// through Minimize so callers never carry redundant state around, matching
// the "canonical form" requirement.
//
// This is the textbook O(n^2 * |Sigma|) refinement rather than Hopcroft's
// near-linear algorithm: automata in this domain stay small enough (bounded
// string lengths, bounded integer widths) that the simpler algorithm is
// the right trade, and it is far easier to read.
func Minimize(d *DFA) *DFA {
	d = d.Clone()
	d.Totalize()
	reachable := d.Reachable()

	// Initial partition: accepting vs non-accepting, restricted to reachable
	// states. Unreachable states are dropped entirely.
	classOf := make([]int, d.NumStates)
	const unreachable = -1
	for s := 0; s < d.NumStates; s++ {
		if !reachable.Test(uint(s)) {
			classOf[s] = unreachable
			continue
		}
		if d.IsAccept(StateID(s)) {
			classOf[s] = 1
		} else {
			classOf[s] = 0
		}
	}

	changed := true
	for changed {
		changed = false
		signature := make(map[string]int, d.NumStates)
		next := make([]int, d.NumStates)
		nextID := 0
		for s := 0; s < d.NumStates; s++ {
			if classOf[s] == unreachable {
				next[s] = unreachable
				continue
			}
			key := encodeSignature(d, classOf, StateID(s))
			id, ok := signature[key]
			if !ok {
				id = nextID
				nextID++
				signature[key] = id
			}
			next[s] = id
		}
		for s := 0; s < d.NumStates; s++ {
			if next[s] != classOf[s] {
				changed = true
			}
		}
		classOf = next
	}

	// Build the minimized automaton from equivalence classes.
	classCount := 0
	for s := 0; s < d.NumStates; s++ {
		if classOf[s] != unreachable && classOf[s] >= classCount {
			classCount = classOf[s] + 1
		}
	}
	out := New(classCount, d.AlphabetSize)
	out.Start = StateID(classOf[d.Start])
	seen := make([]bool, classCount)
	for s := 0; s < d.NumStates; s++ {
		c := classOf[s]
		if c == unreachable || seen[c] {
			continue
		}
		seen[c] = true
		if d.IsAccept(StateID(s)) {
			out.SetAccept(StateID(c))
		}
		for sym := uint64(0); sym < d.AlphabetSize; sym++ {
			to, _ := d.Step(StateID(s), sym)
			out.SetTrans(StateID(c), sym, StateID(classOf[to]))
		}
	}
	out.sink = classOfSink(d, classOf)
	return out
}

func classOfSink(d *DFA, classOf []int) StateID {
	if !d.HasSink() {
		return noSink
	}
	c := classOf[int(d.SinkState())]
	if c < 0 {
		return noSink
	}
	return StateID(c)
}

func encodeSignature(d *DFA, classOf []int, s StateID) string {
	buf := make([]byte, 0, 8+int(d.AlphabetSize)*4)
	buf = appendInt(buf, classOf[int(s)])
	for sym := uint64(0); sym < d.AlphabetSize; sym++ {
		to, _ := d.Step(s, sym)
		buf = append(buf, '|')
		buf = appendInt(buf, classOf[int(to)])
	}
	return string(buf)
}

func appendInt(buf []byte, v int) []byte {
	if v < 0 {
		buf = append(buf, '-')
		v = -v
	}
	if v == 0 {
		return append(buf, '0')
	}
	start := len(buf)
	for v > 0 {
		buf = append(buf, byte('0'+v%10))
		v /= 10
	}
	// reverse the digits just appended
	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}
