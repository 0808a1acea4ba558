package formula

import "github.com/gitrdm/straut/pkg/ast"

// StringFormula is the canonical form of a single atomic string predicate:
// a tag naming the predicate shape, its two string operands and, for
// InRe, its regex. FromStrAtom copies these from the StrAtom unchanged.
type StringFormula struct {
	Tag   ast.StrTag
	Lhs   ast.StrTerm
	Rhs   ast.StrTerm
	Re    ast.RegexTerm
	CharAt int // participant index for EQ_CHARAT's constant index operand, when known at flatten time
}

// MixedShadow records an arithmetic subterm that reached into a string
// (str.len, str.indexof) so the top-level solver can route the owning atom
// through the mixed-constraint refinement loop instead of straight to the
// string solver.
type MixedShadow struct {
	Kind  string // "len" or "indexof"
	Of    ast.StrTerm
	Alias string // synthetic arithmetic variable name standing in for this term's value
}

// FromStrAtom converts a StrAtom into its canonical StringFormula.
func FromStrAtom(a ast.StrAtom) *StringFormula {
	return &StringFormula{Tag: a.Tag, Lhs: a.Lhs, Rhs: a.Rhs, Re: a.Re}
}

// Participants returns the string-sorted variables this formula
// references, used by the dependency slicer to build the variable
// hypergraph.
func (f *StringFormula) Participants() []ast.VarRef {
	out := ast.StrVars(f.Lhs)
	if f.Rhs != nil {
		out = append(out, ast.StrVars(f.Rhs)...)
	}
	return out
}
