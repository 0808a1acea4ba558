package automaton

import "github.com/gitrdm/straut/pkg/ast"

// StringAlphabet is the dense symbol space for single-track string
// automata: every byte value.
const StringAlphabet = 256

// FromLiteral builds the automaton accepting exactly the given string.
func FromLiteral(s string) *DFA {
	bytes := []byte(s)
	d := New(len(bytes)+1, StringAlphabet)
	for i, b := range bytes {
		d.SetTrans(StateID(i), uint64(b), StateID(i+1))
	}
	d.SetAccept(StateID(len(bytes)))
	return Minimize(d)
}

// AnyString returns the automaton accepting every string (Sigma*).
func AnyString() *DFA {
	d := New(1, StringAlphabet)
	d.SetAccept(0)
	for sym := uint64(0); sym < StringAlphabet; sym++ {
		d.SetTrans(0, sym, 0)
	}
	return d
}

// EmptyString returns the automaton accepting only the empty string.
func EmptyString() *DFA {
	d := New(1, StringAlphabet)
	d.SetAccept(0)
	return Minimize(d)
}

// NoString returns the automaton accepting no strings at all (the empty
// language), used as the starting point for Or-folds and as the result of
// an unsatisfiable atom.
func NoString() *DFA { return Phi(StringAlphabet) }

// BoundedLength returns the "any string of length <= maxLen" automaton,
// which can be intersected with another automaton to cap its lengths.
func BoundedLength(maxLen int) *DFA {
	d := New(maxLen+1, StringAlphabet)
	for i := 0; i < maxLen; i++ {
		d.SetAccept(StateID(i))
		for sym := uint64(0); sym < StringAlphabet; sym++ {
			d.SetTrans(StateID(i), sym, StateID(i+1))
		}
	}
	d.SetAccept(StateID(maxLen))
	return Minimize(d)
}

// FromRegex compiles a regex AST term into an automaton via the standard
// recursive constructions (literal/concat/union/inter/star/plus/opt/loop),
// each one built from the kernel ops above rather than a separate Thompson
// construction, so every intermediate automaton is already minimized.
func FromRegex(r ast.RegexTerm) (*DFA, error) {
	switch t := r.(type) {
	case ast.RegexLit:
		return FromLiteral(t.Value), nil
	case ast.RegexConcat:
		parts := make([]*DFA, len(t.Args))
		for i, a := range t.Args {
			d, err := FromRegex(a)
			if err != nil {
				return nil, err
			}
			parts[i] = d
		}
		return ConcatAll(parts)
	case ast.RegexUnion:
		acc := NoString()
		for _, a := range t.Args {
			d, err := FromRegex(a)
			if err != nil {
				return nil, err
			}
			var err2 error
			acc, err2 = Union(acc, d)
			if err2 != nil {
				return nil, err2
			}
		}
		return Minimize(acc), nil
	case ast.RegexInter:
		acc := AnyString()
		for _, a := range t.Args {
			d, err := FromRegex(a)
			if err != nil {
				return nil, err
			}
			var err2 error
			acc, err2 = Intersect(acc, d)
			if err2 != nil {
				return nil, err2
			}
		}
		return Minimize(acc), nil
	case ast.RegexStar:
		inner, err := FromRegex(t.Arg)
		if err != nil {
			return nil, err
		}
		return star(inner), nil
	case ast.RegexPlus:
		inner, err := FromRegex(t.Arg)
		if err != nil {
			return nil, err
		}
		st := star(inner)
		return Concat(inner, st)
	case ast.RegexOpt:
		inner, err := FromRegex(t.Arg)
		if err != nil {
			return nil, err
		}
		return Union(inner, EmptyString())
	case ast.RegexLoop:
		inner, err := FromRegex(t.Arg)
		if err != nil {
			return nil, err
		}
		return loop(inner, t.Lo, t.Hi)
	default:
		return nil, &unsupportedRegexError{t}
	}
}

type unsupportedRegexError struct{ term ast.RegexTerm }

func (e *unsupportedRegexError) Error() string { return "automaton: unsupported regex term" }

// star builds the Kleene closure of inner: a subset construction over
// inner's own transition graph where, on landing on an accepting state,
// the walk also nondeterministically restarts from inner.Start (the
// textbook epsilon-closure reading of Kleene star).
func star(inner *DFA) *DFA {
	d := inner.Clone()
	d.Totalize()
	return determinizeStarNFA(d)
}

// determinizeStarNFA runs a subset construction over d where, whenever the
// NFA walk lands on an original accepting state, it also nondeterministically
// restarts from d.Start (the textbook epsilon-closure for Kleene star).
func determinizeStarNFA(d *DFA) *DFA {
	closure := func(states map[StateID]bool) map[StateID]bool {
		out := make(map[StateID]bool, len(states))
		var stack []StateID
		for s := range states {
			out[s] = true
			stack = append(stack, s)
		}
		for len(stack) > 0 {
			s := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if d.IsAccept(s) && !out[d.Start] {
				out[d.Start] = true
				stack = append(stack, d.Start)
			}
		}
		return out
	}
	keyOf := func(states map[StateID]bool) string {
		buf := make([]byte, 0, len(states)*4)
		for s := 0; s < d.NumStates; s++ {
			if states[StateID(s)] {
				buf = appendInt(buf, s)
				buf = append(buf, ',')
			}
		}
		return string(buf)
	}
	ids := map[string]StateID{}
	var sets []map[StateID]bool
	get := func(s map[StateID]bool) StateID {
		k := keyOf(s)
		if id, ok := ids[k]; ok {
			return id
		}
		id := StateID(len(sets))
		ids[k] = id
		sets = append(sets, s)
		return id
	}
	start := closure(map[StateID]bool{d.Start: true})
	startID := get(start)
	for i := 0; i < len(sets); i++ {
		cur := sets[i]
		for sym := uint64(0); sym < d.AlphabetSize; sym++ {
			next := map[StateID]bool{}
			for s := range cur {
				to, _ := d.Step(s, sym)
				next[to] = true
			}
			get(closure(next))
		}
	}
	out := New(len(sets), d.AlphabetSize)
	out.Start = startID
	out.SetAccept(startID) // empty string always in L(inner*)
	for i, cur := range sets {
		for s := range cur {
			if d.IsAccept(s) {
				out.SetAccept(StateID(i))
			}
		}
		for sym := uint64(0); sym < d.AlphabetSize; sym++ {
			next := map[StateID]bool{}
			for s := range cur {
				to, _ := d.Step(s, sym)
				next[to] = true
			}
			out.SetTrans(StateID(i), sym, get(closure(next)))
		}
	}
	return Minimize(out)
}

// loop builds inner^{lo..hi} (hi < 0 means unbounded above, i.e.
// inner^lo . inner*).
func loop(inner *DFA, lo, hi int) (*DFA, error) {
	acc := EmptyString()
	var err error
	for i := 0; i < lo; i++ {
		acc, err = Concat(acc, inner)
		if err != nil {
			return nil, err
		}
	}
	if hi < 0 {
		return Concat(acc, star(inner))
	}
	// inner^lo . (inner?)^(hi-lo): each of the remaining repetitions is
	// independently optional.
	opt, err := Union(inner, EmptyString())
	if err != nil {
		return nil, err
	}
	result := acc
	for i := lo; i < hi; i++ {
		result, err = Concat(result, opt)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
