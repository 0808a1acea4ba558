package automaton

// Witness returns the symbol sequence of the shortest accepted word, and
// among words of that length the lexicographically smallest by symbol
// value (a plain breadth-first search over the state graph, parent-pointer
// reconstruction). Returns ok=false if the automaton's language is empty.
func Witness(d *DFA) (symbols []uint64, ok bool) {
	if d.IsAccept(d.Start) {
		return nil, true
	}
	type parent struct {
		state StateID
		sym   uint64
	}
	prev := map[StateID]parent{d.Start: {noSink, 0}}
	queue := []StateID{d.Start}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for sym := uint64(0); sym < d.AlphabetSize; sym++ {
			to, exists := d.Step(s, sym)
			if !exists {
				continue
			}
			if _, seen := prev[to]; seen {
				continue
			}
			prev[to] = parent{s, sym}
			if d.IsAccept(to) {
				// reconstruct path
				var path []uint64
				cur := to
				for cur != d.Start {
					p := prev[cur]
					path = append([]uint64{p.sym}, path...)
					cur = p.state
				}
				return path, true
			}
			queue = append(queue, to)
		}
	}
	return nil, false
}

// Accepts reports whether d accepts the given symbol sequence.
func Accepts(d *DFA, symbols []uint64) bool {
	s := d.Start
	for _, sym := range symbols {
		next, exists := d.Step(s, sym)
		if !exists {
			return false
		}
		s = next
	}
	return d.IsAccept(s)
}

// Equivalent reports whether a and b accept the same language: true iff
// the symmetric difference is empty.
func Equivalent(a, b *DFA) (bool, error) {
	diffAB, err := Difference(a, b)
	if err != nil {
		return false, err
	}
	diffBA, err := Difference(b, a)
	if err != nil {
		return false, err
	}
	return diffAB.IsEmpty() && diffBA.IsEmpty(), nil
}
