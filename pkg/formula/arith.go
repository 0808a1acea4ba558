// Package formula normalizes the AST's atomic constraints into the two
// canonical shapes the automaton builders consume: an ordered linear
// arithmetic formula (coefficient map plus constant plus relation) and a
// tagged string formula (one of a closed set of atomic string predicate
// shapes plus its participants). Both carry a stable variable ordering so
// the automaton layer's track/bit-position layout is deterministic across
// runs of the same formula.
package formula

import (
	"sort"

	"github.com/gitrdm/straut/pkg/ast"
)

// ArithFormula is the canonical form of `sum(coeff_i * var_i) + Const op
// 0`, with variables kept in a fixed order (VarOrder) so every automaton
// built from equivalent formulas lays its bit tracks out identically.
type ArithFormula struct {
	VarOrder []string
	Coeffs   map[string]int64
	Const    int64
	Op       ast.RelOp
}

// CoeffSlice returns the coefficients in VarOrder, the shape LinearRelation
// expects.
func (f *ArithFormula) CoeffSlice() []int64 {
	out := make([]int64, len(f.VarOrder))
	for i, name := range f.VarOrder {
		out[i] = f.Coeffs[name]
	}
	return out
}

// FromAtom flattens an ArithTerm tree into an ArithFormula, merging
// repeated variable references (`x + x` becomes coefficient 2 on x) and
// moving every term to the left-hand side so the relation compares against
// the constant 0.
func FromAtom(a ast.ArithAtom) (*ArithFormula, error) {
	coeffs := map[string]int64{}
	var constant int64

	var walk func(t ast.ArithTerm, sign int64) error
	walk = func(t ast.ArithTerm, sign int64) error {
		switch n := t.(type) {
		case ast.ArithVar:
			coeffs[n.Name] += sign
		case ast.ArithConst:
			constant += sign * n.Value
		case ast.ArithAdd:
			for _, a := range n.Args {
				if err := walk(a, sign); err != nil {
					return err
				}
			}
		case ast.ArithSub:
			if err := walk(n.Lhs, sign); err != nil {
				return err
			}
			return walk(n.Rhs, -sign)
		case ast.ArithMul:
			coeffs[varNameOf(n.Term)] += sign * n.Coeff
		case ast.ArithNeg:
			return walk(n.Term, -sign)
		case ast.ArithStrLen, ast.ArithIndexOf:
			return &MixedTermError{Term: t}
		}
		return nil
	}

	if err := walk(a.Lhs, 1); err != nil {
		return nil, err
	}
	if err := walk(a.Rhs, -1); err != nil {
		return nil, err
	}

	order := make([]string, 0, len(coeffs))
	for name, c := range coeffs {
		if c != 0 {
			order = append(order, name)
		}
	}
	sort.Strings(order)

	return &ArithFormula{VarOrder: order, Coeffs: coeffs, Const: constant, Op: a.Op}, nil
}

// MixedTermError marks an arithmetic atom that references a string-valued
// subterm (str.len, str.indexof) and therefore cannot be flattened to a
// pure ArithFormula without the mixed-constraint refinement loop.
type MixedTermError struct{ Term ast.ArithTerm }

func (e *MixedTermError) Error() string { return "formula: atom references a mixed (string) term" }

func varNameOf(t ast.ArithTerm) string {
	if v, ok := t.(ast.ArithVar); ok {
		return v.Name
	}
	return ""
}

// MergeVariables reorders f to match a shared variable ordering, used
// whenever two ArithFormulas are about to be combined (e.g. by the
// arithmetic solver's And/Or traversal) so their automata agree on which
// track holds which variable.
func MergeVariables(f *ArithFormula, order []string) *ArithFormula {
	out := &ArithFormula{
		VarOrder: order,
		Coeffs:   make(map[string]int64, len(order)),
		Const:    f.Const,
		Op:       f.Op,
	}
	for _, name := range order {
		out.Coeffs[name] = f.Coeffs[name]
	}
	return out
}

// UnionOrder returns the sorted union of two variable orderings.
func UnionOrder(a, b []string) []string {
	set := map[string]bool{}
	for _, n := range a {
		set[n] = true
	}
	for _, n := range b {
		set[n] = true
	}
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
