package solve

import (
	"github.com/gitrdm/straut/internal/errs"
	"github.com/gitrdm/straut/pkg/ast"
	"github.com/gitrdm/straut/pkg/automaton"
	"github.com/gitrdm/straut/pkg/symtab"
)

// refineMixedAtom compiles an arithmetic atom that references str.len or
// str.indexof by introducing a synthetic integer variable standing in for
// the mixed term, tying that variable to the string variable's possible
// lengths (or match positions) via the unary/binary semilinear bridge, and
// intersecting the result with the rest of the arithmetic relation before
// projecting the synthetic variable back out.
//
// The string variable's "possible lengths" are read from the symbol table
// as it stands at the moment this atom is compiled (Σ* — every length —
// when unbound or when no symbol table was supplied to the Solver).
// Compiling a string atom binds nothing into the symbol table; only
// pipeline.Run binds a component's result, after the whole component is
// solved. A length atom is therefore narrowed by earlier components or a
// caller-seeded table, never by string atoms of its own conjunction, and
// nothing iterates the refinement to a fixpoint.
func (s *Solver) refineMixedAtom(atom ast.ArithAtom) (*Result, error) {
	mixed, found := findMixedTerm(atom.Lhs)
	if !found {
		mixed, found = findMixedTerm(atom.Rhs)
	}
	if !found {
		return nil, errs.Newf(errs.KindInternal, "solve.refineMixedAtom", "isMixed reported true but no mixed subterm found")
	}

	switch m := mixed.(type) {
	case ast.ArithStrLen:
		return s.refineStrLen(atom, m)
	case ast.ArithIndexOf:
		return s.refineIndexOf(atom, m)
	default:
		return nil, errs.Newf(errs.KindInternal, "solve.refineMixedAtom", "unexpected mixed term type %T", m)
	}
}

func (s *Solver) refineStrLen(atom ast.ArithAtom, lenTerm ast.ArithStrLen) (*Result, error) {
	base, ok := lenTerm.Of.(ast.StrVar)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.refineStrLen", "str.len argument must be a variable")
	}
	synthetic := "#len:" + base.Name

	rewritten := ast.ArithAtom{
		Op:  atom.Op,
		Lhs: substituteArithTerm(atom.Lhs, lenTerm, ast.ArithVar{Name: synthetic}),
		Rhs: substituteArithTerm(atom.Rhs, lenTerm, ast.ArithVar{Name: synthetic}),
	}
	relAuto, err := s.BuildArith(rewritten)
	if err != nil {
		return nil, err
	}

	strDFA := s.lookupStringAutomaton(base.Name)
	unary := automaton.Project(strDFA, automaton.UnaryAlphabet, func(uint64) uint64 { return 0 })
	sl := automaton.ExtractSemilinear(unary)
	lenAuto := lengthConstraintAutomaton(sl, s.cfg.IntMode.AutomatonIntMode(), synthetic)

	order := automaton.UnionOrderTracks(relAuto.VarOrder, []string{synthetic})
	a, err := AlignArith(relAuto, order)
	if err != nil {
		return nil, err
	}
	b, err := AlignArith(lenAuto, order)
	if err != nil {
		return nil, err
	}
	joined, err := automaton.Intersect(a, b)
	if err != nil {
		return nil, err
	}
	joined, finalOrder := projectOutVar(joined, order, synthetic)
	res := &Result{DFA: joined, Order: finalOrder, IsString: false}
	s.emitDot(atom, res.DFA)
	return res, nil
}

// refineIndexOf compiles a mixed atom referencing str.indexof(haystack,
// needle[, start]) for a literal, non-empty needle and a start argument
// that is either omitted or the constant 0 (searching anywhere else first
// requires skipping a variable-length unconstrained prefix, which this
// construction does not yet model). The mixed term is replaced by a
// synthetic variable, whose possible values are the union of
// automaton.IndexOfSemilinear's match positions and, when haystack's
// current binding admits at least one string that does not contain needle
// at all, the sentinel -1 (str.indexof's "not found" value) — exactly the
// same shape refineStrLen already uses for str.len.
func (s *Solver) refineIndexOf(atom ast.ArithAtom, idx ast.ArithIndexOf) (*Result, error) {
	base, ok := idx.Haystack.(ast.StrVar)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.refineIndexOf", "str.indexof haystack must be a variable")
	}
	needle, ok := idx.Needle.(ast.StrConst)
	if !ok || needle.Value == "" {
		return nil, errs.Newf(errs.KindUnsupported, "solve.refineIndexOf", "str.indexof needle must be a non-empty literal")
	}
	if idx.Start != nil {
		if c, ok := idx.Start.(ast.ArithConst); !ok || c.Value != 0 {
			return nil, errs.Newf(errs.KindUnsupported, "solve.refineIndexOf", "str.indexof start must be omitted or the constant 0")
		}
	}

	synthetic := "#indexof:" + base.Name
	rewritten := ast.ArithAtom{
		Op:  atom.Op,
		Lhs: substituteArithTerm(atom.Lhs, idx, ast.ArithVar{Name: synthetic}),
		Rhs: substituteArithTerm(atom.Rhs, idx, ast.ArithVar{Name: synthetic}),
	}
	relAuto, err := s.BuildArith(rewritten)
	if err != nil {
		return nil, err
	}

	haystackDFA := s.lookupStringAutomaton(base.Name)
	sl := automaton.IndexOfSemilinear(haystackDFA, needle.Value)
	notFound, err := automaton.Difference(haystackDFA, automaton.ContainsLiteral(needle.Value))
	if err != nil {
		return nil, err
	}
	if !notFound.IsEmpty() {
		sl.Sets = append(sl.Sets, automaton.LinearSet{Base: -1, Period: 0})
	}
	idxAuto := lengthConstraintAutomaton(sl, s.cfg.IntMode.AutomatonIntMode(), synthetic)

	order := automaton.UnionOrderTracks(relAuto.VarOrder, []string{synthetic})
	a, err := AlignArith(relAuto, order)
	if err != nil {
		return nil, err
	}
	b, err := AlignArith(idxAuto, order)
	if err != nil {
		return nil, err
	}
	joined, err := automaton.Intersect(a, b)
	if err != nil {
		return nil, err
	}
	joined, finalOrder := projectOutVar(joined, order, synthetic)
	res := &Result{DFA: joined, Order: finalOrder, IsString: false}
	s.emitDot(atom, res.DFA)
	return res, nil
}

// lengthConstraintAutomaton builds the single-variable binary-integer
// automaton accepting exactly the values sl describes (used for both
// str.len's lengths and str.indexof's match positions), reducing each
// periodic linear set {Base + k*Period : k >= 0} to the two-variable
// equation `n - Period*k = Base, k >= 0` (the same slack-variable technique
// withSlack uses for inequalities) and projecting the auxiliary k back out,
// then unioning across sl's terms.
func lengthConstraintAutomaton(sl automaton.Semilinear, mode automaton.IntMode, varName string) *ArithAutomaton {
	if len(sl.Sets) == 0 {
		return &ArithAutomaton{DFA: automaton.Phi(uint64(1) << 1), VarOrder: []string{varName}}
	}
	var acc *automaton.DFA
	for _, term := range sl.Sets {
		var d *automaton.DFA
		if term.Period == 0 {
			d = automaton.LinearRelation([]int64{1}, -int64(term.Base), ast.RelEq, mode)
		} else {
			extended := []int64{1, -int64(term.Period)}
			eq := automaton.LinearRelation(extended, -int64(term.Base), ast.RelEq, mode)
			if mode == automaton.ModeSigned {
				if nonNeg, err := automaton.Intersect(eq, automaton.LinearRelation([]int64{0, 1}, 0, ast.RelGe, mode)); err == nil {
					eq = nonNeg
				}
			}
			d = automaton.Project(eq, 1<<1, func(old uint64) uint64 { return old & 1 })
		}
		if acc == nil {
			acc = d
			continue
		}
		u, err := automaton.Union(acc, d)
		if err != nil {
			acc = d
			continue
		}
		acc = u
	}
	return &ArithAutomaton{DFA: acc, VarOrder: []string{varName}}
}

// lookupStringAutomaton returns the string variable's currently known
// automaton, or Σ* (every length, every content) when unconstrained or when
// this Solver was built without a symbol table.
func (s *Solver) lookupStringAutomaton(name string) *automaton.DFA {
	if s.sym == nil {
		return automaton.AnyString()
	}
	v := s.sym.Get(name)
	if v.Kind != symtab.ValueStringAutomaton || v.Automaton == nil {
		return automaton.AnyString()
	}
	return v.Automaton
}

func findMixedTerm(t ast.ArithTerm) (ast.ArithTerm, bool) {
	switch n := t.(type) {
	case ast.ArithStrLen:
		return n, true
	case ast.ArithIndexOf:
		return n, true
	case ast.ArithAdd:
		for _, a := range n.Args {
			if m, ok := findMixedTerm(a); ok {
				return m, ok
			}
		}
	case ast.ArithSub:
		if m, ok := findMixedTerm(n.Lhs); ok {
			return m, ok
		}
		return findMixedTerm(n.Rhs)
	case ast.ArithMul:
		return findMixedTerm(n.Term)
	case ast.ArithNeg:
		return findMixedTerm(n.Term)
	}
	return nil, false
}

// substituteArithTerm replaces every occurrence of target (compared
// structurally via its String form, since ArithStrLen/ArithIndexOf carry no
// identity beyond their content) with replacement.
func substituteArithTerm(t, target, replacement ast.ArithTerm) ast.ArithTerm {
	if t == nil {
		return nil
	}
	if t.String() == target.String() {
		return replacement
	}
	switch n := t.(type) {
	case ast.ArithAdd:
		args := make([]ast.ArithTerm, len(n.Args))
		for i, a := range n.Args {
			args[i] = substituteArithTerm(a, target, replacement)
		}
		return ast.ArithAdd{Args: args}
	case ast.ArithSub:
		return ast.ArithSub{Lhs: substituteArithTerm(n.Lhs, target, replacement), Rhs: substituteArithTerm(n.Rhs, target, replacement)}
	case ast.ArithMul:
		return ast.ArithMul{Coeff: n.Coeff, Term: substituteArithTerm(n.Term, target, replacement)}
	case ast.ArithNeg:
		return ast.ArithNeg{Term: substituteArithTerm(n.Term, target, replacement)}
	default:
		return t
	}
}
