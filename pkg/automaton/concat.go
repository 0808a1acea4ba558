package automaton

// Concat builds the automaton accepting { uv : u in L(a), v in L(b) } over
// a shared alphabet. Internally this runs an NFA-style subset construction
// (every accepting state of a also behaves as if it were b.Start, an
// epsilon jump folded directly into the subset-construction closure
// instead of materializing epsilon edges) and finishes through Minimize.
func Concat(a, b *DFA) (*DFA, error) {
	if a.AlphabetSize != b.AlphabetSize {
		return nil, &ErrIncompatibleTracks{A: a.AlphabetSize, B: b.AlphabetSize}
	}
	a = a.Clone()
	b = b.Clone()
	a.Totalize()
	b.Totalize()

	// Tag states: (0, s) for a-states, (1, s) for b-states, to keep the two
	// state spaces disjoint in the subset construction.
	type tagged struct {
		side int
		id   StateID
	}
	closure := func(states []tagged) []tagged {
		seen := map[tagged]bool{}
		var out []tagged
		var stack []tagged
		add := func(t tagged) {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
				stack = append(stack, t)
			}
		}
		for _, t := range states {
			add(t)
		}
		for len(stack) > 0 {
			t := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if t.side == 0 && a.IsAccept(t.id) {
				add(tagged{1, b.Start})
			}
		}
		return out
	}

	keyOf := func(states []tagged) string {
		seen := map[tagged]bool{}
		for _, t := range states {
			seen[t] = true
		}
		buf := make([]byte, 0, len(states)*6)
		for side := 0; side <= 1; side++ {
			maxID := a.NumStates
			if side == 1 {
				maxID = b.NumStates
			}
			for id := 0; id < maxID; id++ {
				if seen[tagged{side, StateID(id)}] {
					buf = append(buf, byte(side))
					buf = appendInt(buf, id)
					buf = append(buf, ',')
				}
			}
		}
		return string(buf)
	}

	ids := map[string]StateID{}
	var sets [][]tagged
	get := func(states []tagged) StateID {
		k := keyOf(states)
		if id, ok := ids[k]; ok {
			return id
		}
		id := StateID(len(sets))
		ids[k] = id
		sets = append(sets, states)
		return id
	}

	start := closure([]tagged{{0, a.Start}})
	startID := get(start)

	for i := 0; i < len(sets); i++ {
		cur := sets[i]
		for sym := uint64(0); sym < a.AlphabetSize; sym++ {
			var next []tagged
			for _, t := range cur {
				if t.side == 0 {
					to, _ := a.Step(t.id, sym)
					next = append(next, tagged{0, to})
				} else {
					to, _ := b.Step(t.id, sym)
					next = append(next, tagged{1, to})
				}
			}
			get(closure(next))
		}
	}

	out := New(len(sets), a.AlphabetSize)
	out.Start = startID
	for i, cur := range sets {
		for _, t := range cur {
			if (t.side == 0 && a.IsAccept(t.id) && b.IsAccept(b.Start)) ||
				(t.side == 1 && b.IsAccept(t.id)) {
				out.SetAccept(StateID(i))
			}
		}
		for sym := uint64(0); sym < a.AlphabetSize; sym++ {
			var next []tagged
			for _, t := range cur {
				if t.side == 0 {
					to, _ := a.Step(t.id, sym)
					next = append(next, tagged{0, to})
				} else {
					to, _ := b.Step(t.id, sym)
					next = append(next, tagged{1, to})
				}
			}
			out.SetTrans(StateID(i), sym, get(closure(next)))
		}
	}
	return Minimize(out), nil
}

// ConcatAll folds Concat across a slice of automata in order.
func ConcatAll(parts []*DFA) (*DFA, error) {
	if len(parts) == 0 {
		return nil, nil
	}
	acc := parts[0]
	for _, p := range parts[1:] {
		var err error
		acc, err = Concat(acc, p)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}
