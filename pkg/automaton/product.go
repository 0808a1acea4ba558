package automaton

import "github.com/bits-and-blooms/bitset"

// BoolOp selects which Boolean combination Product computes over the
// pairwise reachable state space.
type BoolOp int

const (
	OpIntersect BoolOp = iota
	OpUnion
	OpDifference // a AND NOT b
)

type pairState struct{ a, b StateID }

// Product explores the synchronized product of a and b, restricted to the
// pairs reachable from (a.Start, b.Start), and combines acceptance
// according to op. Both operands are totalized first so every transition
// is explicit and the product is itself total by construction; callers get
// back a DFA with its own materialized sink already in place. Both
// automata must share an alphabet.
func Product(a, b *DFA, op BoolOp) (*DFA, error) {
	if a.AlphabetSize != b.AlphabetSize {
		return nil, &ErrIncompatibleTracks{A: a.AlphabetSize, B: b.AlphabetSize}
	}
	a = a.Clone()
	b = b.Clone()
	a.Totalize()
	b.Totalize()

	ids := map[pairState]StateID{}
	var states []pairState
	get := func(p pairState) StateID {
		if id, ok := ids[p]; ok {
			return id
		}
		id := StateID(len(states))
		ids[p] = id
		states = append(states, p)
		return id
	}

	startPair := pairState{a.Start, b.Start}
	get(startPair)
	for i := 0; i < len(states); i++ {
		p := states[i]
		for sym := uint64(0); sym < a.AlphabetSize; sym++ {
			na, _ := a.Step(p.a, sym)
			nb, _ := b.Step(p.b, sym)
			get(pairState{na, nb})
		}
	}

	out := New(len(states), a.AlphabetSize)
	out.Start = ids[startPair]
	for p, from := range ids {
		for sym := uint64(0); sym < a.AlphabetSize; sym++ {
			na, _ := a.Step(p.a, sym)
			nb, _ := b.Step(p.b, sym)
			out.SetTrans(from, sym, ids[pairState{na, nb}])
		}
		aAcc := a.IsAccept(p.a)
		bAcc := b.IsAccept(p.b)
		var acc bool
		switch op {
		case OpIntersect:
			acc = aAcc && bAcc
		case OpUnion:
			acc = aAcc || bAcc
		case OpDifference:
			acc = aAcc && !bAcc
		}
		if acc {
			out.SetAccept(from)
		}
	}
	return Minimize(out), nil
}

// Intersect is Product with OpIntersect.
func Intersect(a, b *DFA) (*DFA, error) { return Product(a, b, OpIntersect) }

// Union is Product with OpUnion.
func Union(a, b *DFA) (*DFA, error) { return Product(a, b, OpUnion) }

// Difference is Product with OpDifference (a AND NOT b).
func Difference(a, b *DFA) (*DFA, error) { return Product(a, b, OpDifference) }

// Complement returns the automaton accepting the complement language: a
// totalized copy of d with accepting/non-accepting swapped.
func Complement(d *DFA) *DFA {
	out := d.Clone()
	out.Totalize()
	flipped := bitset.New(uint(out.NumStates))
	for s := 0; s < out.NumStates; s++ {
		if !out.Accept.Test(uint(s)) {
			flipped.Set(uint(s))
		}
	}
	out.Accept = flipped
	return Minimize(out)
}
