package automaton

import "sort"

// Project existentially quantifies out part of the symbol encoding: given
// a mapping from an old symbol to a new (narrower) symbol, it builds the
// automaton accepting { project(w) : w in L(d) }. Since dropping a
// dimension can make the result non-deterministic (two old symbols that
// differ only in the dropped component collapse to one new symbol), this
// performs a subset construction over the old state space before handing
// the result to Minimize.
//
// This is how the solver's "forget a variable" step (pkg/solve's
// projectOutVar, count.CountVariable) and the binary integer automaton's
// slack-variable projection are both implemented: both need "automaton
// over a wider alphabet, projected down" (the <, <=, >, >= linear-relation
// automata all go through this).
func Project(d *DFA, newAlphabetSize uint64, project func(oldSymbol uint64) uint64) *DFA {
	d = d.Clone()
	d.Totalize()

	type stateSet string
	keyOf := func(states []StateID) stateSet {
		sorted := append([]StateID(nil), states...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		buf := make([]byte, 0, len(sorted)*4)
		for _, s := range sorted {
			buf = appendInt(buf, int(s))
			buf = append(buf, ',')
		}
		return stateSet(buf)
	}

	setIDs := map[stateSet]StateID{}
	var sets [][]StateID
	get := func(states []StateID) StateID {
		k := keyOf(states)
		if id, ok := setIDs[k]; ok {
			return id
		}
		id := StateID(len(sets))
		setIDs[k] = id
		sets = append(sets, append([]StateID(nil), states...))
		return id
	}

	startID := get([]StateID{d.Start})

	// newSym -> set of old symbols mapping to it, precomputed once.
	bySymbol := map[uint64][]uint64{}
	for oldSym := uint64(0); oldSym < d.AlphabetSize; oldSym++ {
		ns := project(oldSym)
		bySymbol[ns] = append(bySymbol[ns], oldSym)
	}

	for i := 0; i < len(sets); i++ {
		cur := sets[i]
		for newSym := uint64(0); newSym < newAlphabetSize; newSym++ {
			seen := map[StateID]bool{}
			var next []StateID
			for _, oldSym := range bySymbol[newSym] {
				for _, s := range cur {
					to, _ := d.Step(s, oldSym)
					if !seen[to] {
						seen[to] = true
						next = append(next, to)
					}
				}
			}
			if len(next) > 0 {
				get(next)
			}
		}
	}

	out := New(len(sets), newAlphabetSize)
	out.Start = startID
	for i, cur := range sets {
		for _, s := range cur {
			if d.IsAccept(s) {
				out.SetAccept(StateID(i))
				break
			}
		}
		for newSym := uint64(0); newSym < newAlphabetSize; newSym++ {
			seen := map[StateID]bool{}
			var next []StateID
			for _, oldSym := range bySymbol[newSym] {
				for _, s := range cur {
					to, _ := d.Step(s, oldSym)
					if !seen[to] {
						seen[to] = true
						next = append(next, to)
					}
				}
			}
			if len(next) > 0 {
				out.SetTrans(StateID(i), newSym, get(next))
			}
		}
	}
	return Minimize(out)
}
