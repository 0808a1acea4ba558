package automaton

// NamedTracks pairs a multi-track automaton with the variable name riding
// each of its tracks, so separately built relations (each over their own
// small track list) can be joined on shared names instead of requiring
// every construction to agree on a single global track order up front.
type NamedTracks struct {
	DFA    *DFA
	Tracks []string
}

// LiftTracks rebuilds d (over order's tracks) into an automaton over the
// wider newOrder track list: every track in order keeps its constraint,
// and every track present only in newOrder is free (any symbol,
// independently at every position). This is how two relations built over
// different (overlapping) variable sets get onto a shared alphabet before
// Product.
func LiftTracks(d *DFA, order, newOrder []string) *DFA {
	oldIndex := map[string]int{}
	for i, n := range order {
		oldIndex[n] = i
	}
	k := len(order)
	newK := len(newOrder)
	newAlphabet := AlphabetSizeForTracks(newK)

	out := New(d.NumStates, newAlphabet)
	out.Start = d.Start
	for s := 0; s < d.NumStates; s++ {
		if d.IsAccept(StateID(s)) {
			out.SetAccept(StateID(s))
		}
	}
	for s := 0; s < d.NumStates; s++ {
		for sym := uint64(0); sym < newAlphabet; sym++ {
			parts := UnpackSymbol(sym, newK)
			oldParts := make([]int, k)
			for i, name := range newOrder {
				if oi, ok := oldIndex[name]; ok {
					oldParts[oi] = parts[i]
				}
			}
			oldSym := PackSymbol(oldParts)
			to, ok := d.Step(StateID(s), oldSym)
			if ok {
				out.SetTrans(StateID(s), sym, to)
			}
		}
	}
	return out
}

// Join lifts a and b onto the union of their track names and intersects
// them, returning the combined relation and its track order. This is how
// the string solver composes two separately-built relations (e.g. two
// ConcatRelation instances sharing a synthetic intermediate track) into
// one joint automaton without hand-writing a bespoke product for every
// combination.
func Join(a NamedTracks, b NamedTracks) (NamedTracks, error) {
	order := UnionOrderTracks(a.Tracks, b.Tracks)
	la := LiftTracks(a.DFA, a.Tracks, order)
	lb := LiftTracks(b.DFA, b.Tracks, order)
	inter, err := Intersect(la, lb)
	if err != nil {
		return NamedTracks{}, err
	}
	return NamedTracks{DFA: inter, Tracks: order}, nil
}

// UnionOrderTracks returns the deduplicated concatenation of a then any of
// b's names not already in a, preserving a's order (stable, unlike a
// sorted union) since callers often want a particular name to land first.
func UnionOrderTracks(a, b []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(a)+len(b))
	for _, n := range a {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	for _, n := range b {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// DropNamedTrack existentially quantifies out the named track and returns
// the result with that name removed from Tracks.
func DropNamedTrack(nt NamedTracks, name string) NamedTracks {
	idx := -1
	for i, n := range nt.Tracks {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nt
	}
	remaining := make([]string, 0, len(nt.Tracks)-1)
	remaining = append(remaining, nt.Tracks[:idx]...)
	remaining = append(remaining, nt.Tracks[idx+1:]...)
	return NamedTracks{DFA: DropTrack(nt.DFA, len(nt.Tracks), idx), Tracks: remaining}
}
