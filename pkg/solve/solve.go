package solve

import (
	"github.com/rs/zerolog"

	"github.com/gitrdm/straut/internal/abort"
	"github.com/gitrdm/straut/internal/config"
	"github.com/gitrdm/straut/internal/errs"
	"github.com/gitrdm/straut/pkg/ast"
	"github.com/gitrdm/straut/pkg/automaton"
	"github.com/gitrdm/straut/pkg/symtab"
)

// Solver compiles a preprocessed, sliced formula component into a single
// automaton whose language is exactly the component's satisfying
// assignments (one joint automaton over every variable the component
// touches), by walking its And/Or/Not structure bottom-up.
type Solver struct {
	cfg     *config.Config
	log     zerolog.Logger
	abort   *abort.Flag
	sym     *symtab.SymTab
	dotHook func(ast.BoolTerm, *automaton.DFA)
}

// New returns a Solver using cfg's IntMode and the given abort flag. sym may
// be nil, in which case string variables referenced by a mixed arithmetic
// term (str.len, str.indexof) are treated as wholly unconstrained (Σ*)
// rather than narrowed by whatever the rest of the formula already pins
// them to.
func New(cfg *config.Config, log zerolog.Logger, flag *abort.Flag, sym *symtab.SymTab) *Solver {
	return &Solver{cfg: cfg, log: log, abort: flag, sym: sym}
}

// SetDotHook installs the optional debug callback invoked after every AST
// node is compiled, handing back the node and the automaton just built for
// it (pipeline.Run installs it when its dotHook argument is non-nil).
func (s *Solver) SetDotHook(hook func(ast.BoolTerm, *automaton.DFA)) {
	s.dotHook = hook
}

// Result is a compiled component: its joint automaton plus the variable
// order (both string-track names and arithmetic-bit variable names) its
// symbols encode.
type Result struct {
	DFA      *automaton.DFA
	Order    []string
	IsString bool // true if Order names string tracks, false if arithmetic bit-vars
}

// Solve compiles term (a single slicer Component's conjunction, already in
// negation-normal flattened form) into its Result.
func (s *Solver) Solve(term ast.BoolTerm) (*Result, error) {
	if s.abort != nil && s.abort.Tripped() {
		return nil, errs.Newf(errs.KindAborted, "solve.Solve", "aborted before compiling %T", term)
	}
	switch t := term.(type) {
	case *ast.And:
		return s.solveAnd(t)
	case *ast.Or:
		return s.solveOr(t)
	case *ast.Not:
		inner, err := s.Solve(t.Arg)
		if err != nil {
			return nil, err
		}
		return &Result{DFA: automaton.Complement(inner.DFA), Order: inner.Order, IsString: inner.IsString}, nil
	case ast.BoolConst:
		if t.Value {
			return &Result{DFA: automaton.AnyString(), Order: nil, IsString: true}, nil
		}
		return &Result{DFA: automaton.NoString(), Order: nil, IsString: true}, nil
	case ast.ArithAtom:
		return s.solveArithLeaf(t)
	case ast.StrAtom:
		return s.solveStrLeaf(t)
	default:
		return nil, errs.Newf(errs.KindInternal, "solve.Solve", "unhandled leaf type %T", term)
	}
}

func (s *Solver) solveArithLeaf(t ast.ArithAtom) (*Result, error) {
	if isMixed(t) {
		return s.refineMixedAtom(t)
	}
	a, err := s.BuildArith(t)
	if err != nil {
		return nil, err
	}
	res := &Result{DFA: a.DFA, Order: a.VarOrder, IsString: false}
	s.emitDot(t, res.DFA)
	return res, nil
}

func (s *Solver) solveStrLeaf(t ast.StrAtom) (*Result, error) {
	a, err := s.BuildString(t)
	if err != nil {
		return nil, err
	}
	res := &Result{DFA: a.DFA, Order: a.Order, IsString: true}
	s.emitDot(t, res.DFA)
	return res, nil
}

func (s *Solver) solveAnd(t *ast.And) (*Result, error) {
	var acc *Result
	for _, child := range t.Args {
		r, err := s.Solve(child)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = r
			continue
		}
		merged, err := combine(acc, r, automaton.OpIntersect)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	if acc == nil {
		return &Result{DFA: automaton.AnyString(), IsString: true}, nil
	}
	s.emitDot(t, acc.DFA)
	return acc, nil
}

func (s *Solver) solveOr(t *ast.Or) (*Result, error) {
	var acc *Result
	for _, child := range t.Args {
		r, err := s.Solve(child)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = r
			continue
		}
		merged, err := combine(acc, r, automaton.OpUnion)
		if err != nil {
			return nil, err
		}
		acc = merged
	}
	if acc == nil {
		return &Result{DFA: automaton.NoString(), IsString: true}, nil
	}
	s.emitDot(t, acc.DFA)
	return acc, nil
}

// combine aligns two Results onto a shared variable order (widening each
// as needed) and folds them with op. Both must agree on IsString. A mixed
// atom compiles to an arithmetic Result, and the slicer puts it in the
// same component as its string variable's own atoms, so a conjunction
// holding both a string atom and a mixed or arithmetic atom fails here
// with an Internal error.
func combine(a, b *Result, op automaton.BoolOp) (*Result, error) {
	if a.IsString != b.IsString {
		return nil, errs.Newf(errs.KindInternal, "solve.combine", "cannot combine string and arithmetic results directly")
	}
	if a.IsString {
		order := automaton.UnionOrderTracks(a.Order, b.Order)
		la := automaton.LiftTracks(a.DFA, a.Order, order)
		lb := automaton.LiftTracks(b.DFA, b.Order, order)
		d, err := automaton.Product(la, lb, op)
		if err != nil {
			return nil, err
		}
		return &Result{DFA: d, Order: order, IsString: true}, nil
	}
	order := unionSorted(a.Order, b.Order)
	la := expand(a.DFA, a.Order, order)
	lb := expand(b.DFA, b.Order, order)
	d, err := automaton.Product(la, lb, op)
	if err != nil {
		return nil, err
	}
	return &Result{DFA: d, Order: order, IsString: false}, nil
}

func unionSorted(a, b []string) []string {
	return automaton.UnionOrderTracks(a, b)
}

func isMixed(t ast.ArithAtom) bool {
	return hasMixed(t.Lhs) || hasMixed(t.Rhs)
}

func hasMixed(t ast.ArithTerm) bool {
	switch n := t.(type) {
	case ast.ArithStrLen, ast.ArithIndexOf:
		return true
	case ast.ArithAdd:
		for _, a := range n.Args {
			if hasMixed(a) {
				return true
			}
		}
	case ast.ArithSub:
		return hasMixed(n.Lhs) || hasMixed(n.Rhs)
	case ast.ArithMul:
		return hasMixed(n.Term)
	case ast.ArithNeg:
		return hasMixed(n.Term)
	}
	return false
}

func (s *Solver) emitDot(node ast.BoolTerm, d *automaton.DFA) {
	if s.dotHook != nil {
		s.dotHook(node, d)
	}
}
