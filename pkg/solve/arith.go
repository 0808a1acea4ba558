// Package solve builds constraint automata from formula-layer atoms and
// combines them along the AST's And/Or/Not structure, including the
// mixed-constraint refinement loop that ties string lengths back into the
// arithmetic domain.
package solve

import (
	"github.com/gitrdm/straut/internal/errs"
	"github.com/gitrdm/straut/pkg/ast"
	"github.com/gitrdm/straut/pkg/automaton"
	"github.com/gitrdm/straut/pkg/formula"
)

// ArithAutomaton pairs a constraint automaton with the variable order its
// bit tracks follow.
type ArithAutomaton struct {
	DFA      *automaton.DFA
	VarOrder []string
}

// BuildArith compiles a single arithmetic atom into its automaton. Mixed
// atoms (referencing str.len/str.indexof) are rejected here; the top-level
// solver routes those through the refinement loop in refine.go instead.
func (s *Solver) BuildArith(atom ast.ArithAtom) (*ArithAutomaton, error) {
	f, err := formula.FromAtom(atom)
	if err != nil {
		if _, ok := err.(*formula.MixedTermError); ok {
			return nil, errs.Newf(errs.KindUnsupported, "solve.BuildArith", "mixed term must go through the refinement loop")
		}
		return nil, err
	}
	d := automaton.LinearRelation(f.CoeffSlice(), f.Const, f.Op, s.cfg.IntMode.AutomatonIntMode())
	return &ArithAutomaton{DFA: d, VarOrder: f.VarOrder}, nil
}

// AlignArith reorders a (with respect to its own VarOrder) onto the
// requested order by projecting in the missing variables as "any value"
// dimensions, i.e. widening its alphabet, so two ArithAutomatons can be
// intersected/unioned over a shared track layout.
func AlignArith(a *ArithAutomaton, order []string) (*automaton.DFA, error) {
	if sameOrder(a.VarOrder, order) {
		return a.DFA, nil
	}
	return expand(a.DFA, a.VarOrder, order), nil
}

// expand rebuilds d (over oldOrder's alphabet) into one over newOrder's
// wider alphabet, by copying every old transition across every new symbol
// that agrees with it on the shared variables and leaving the new-only
// variables free (self-looping across their values).
func expand(d *automaton.DFA, oldOrder, newOrder []string) *automaton.DFA {
	oldIndex := map[string]int{}
	for i, n := range oldOrder {
		oldIndex[n] = i
	}
	out := automaton.New(d.NumStates, uint64(1)<<uint(len(newOrder)))
	out.Start = d.Start
	for s := 0; s < d.NumStates; s++ {
		if d.IsAccept(automaton.StateID(s)) {
			out.SetAccept(automaton.StateID(s))
		}
	}
	newAlphabet := uint64(1) << uint(len(newOrder))
	for s := 0; s < d.NumStates; s++ {
		for sym := uint64(0); sym < newAlphabet; sym++ {
			oldSym := uint64(0)
			for i, name := range newOrder {
				if oi, ok := oldIndex[name]; ok {
					bit := (sym >> uint(i)) & 1
					oldSym |= bit << uint(oi)
				}
			}
			to, ok := d.Step(automaton.StateID(s), oldSym)
			if ok {
				out.SetTrans(automaton.StateID(s), sym, to)
			}
		}
	}
	return automaton.Minimize(out)
}

// projectOutVar existentially quantifies name out of d (laid out over
// order's bit tracks) and returns the narrower automaton plus the
// remaining order, used to drop the refinement loop's synthetic
// length/indexof variables once they've done their job of tying a string
// automaton's unary length to the arithmetic side.
func projectOutVar(d *automaton.DFA, order []string, name string) (*automaton.DFA, []string) {
	idx := -1
	for i, n := range order {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return d, order
	}
	newOrder := make([]string, 0, len(order)-1)
	newOrder = append(newOrder, order[:idx]...)
	newOrder = append(newOrder, order[idx+1:]...)
	newAlphabet := uint64(1) << uint(len(newOrder))
	project := func(old uint64) uint64 {
		var out uint64
		bit := 0
		for i := 0; i < len(order); i++ {
			if i == idx {
				continue
			}
			if (old>>uint(i))&1 != 0 {
				out |= 1 << uint(bit)
			}
			bit++
		}
		return out
	}
	return automaton.Project(d, newAlphabet, project), newOrder
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
