// Package pipeline wires the stages a single query runs through: syntactic
// preprocessing, independent-component slicing, per-component solving against
// a shared symbol table, and model counting of one designated variable.
// Nothing here is itself a kernel algorithm — it is the glue the CLI (and any
// future programmatic caller) drives instead of re-deriving the stage order
// by hand.
package pipeline

import (
	"math/big"

	"github.com/rs/zerolog"

	"github.com/gitrdm/straut/internal/abort"
	"github.com/gitrdm/straut/internal/config"
	"github.com/gitrdm/straut/internal/errs"
	"github.com/gitrdm/straut/pkg/ast"
	"github.com/gitrdm/straut/pkg/automaton"
	"github.com/gitrdm/straut/pkg/count"
	"github.com/gitrdm/straut/pkg/preprocess"
	"github.com/gitrdm/straut/pkg/slicer"
	"github.com/gitrdm/straut/pkg/solve"
	"github.com/gitrdm/straut/pkg/symtab"
)

// Outcome is the result of running a formula through the full pipeline.
type Outcome struct {
	// Sat is false iff some component's compiled automaton is empty.
	Sat bool
	// Components holds one solved result per independent component, in
	// slicer.Slice's discovery order.
	Components []*solve.Result
	// Count is nil unless the caller asked for a variable and it was found
	// in one of the components.
	Count *big.Int
}

// Run preprocesses term, slices it into independent components, solves each
// component in turn against a shared symbol table, and — when countVar is
// non-empty and sat — counts that variable's satisfying assignments up to
// bound under cfg's counting mode.
//
// Components are solved independently and never re-visited: this mirrors
// the single-pass refinement scoping documented in pkg/solve (a mixed atom
// sees only the string automaton already known at the time it is solved).
//
// dotHook, when non-nil, is wired into the solver so it fires once per
// processed AST node; the CLI enables this when its --dot flag is set.
func Run(cfg *config.Config, log zerolog.Logger, term ast.BoolTerm, countVar string, bound uint64, dotHook func(ast.BoolTerm, *automaton.DFA)) (*Outcome, error) {
	cfg = config.WithDefaults(cfg)

	flag := &abort.Flag{}
	if cfg.AbortAfter > 0 {
		stop := abort.WatchTimeout(cfg.AbortAfter, flag)
		defer stop()
	}

	processed := preprocess.SyntacticProcessor(term)
	processed = preprocess.SyntacticOptimizer(processed)

	atoms := conjuncts(processed)
	atoms = preprocess.FormulaOptimizer(atoms, preprocess.CanonicalKey)
	atoms = preprocess.ImplicationRunner(atoms)
	groups := preprocess.EquivalenceClasses(atoms)
	log.Debug().Int("atoms", len(atoms)).Int("equivalence_groups", len(groups)).Msg("preprocessed formula")

	components := slicer.Slice(atoms)
	log.Debug().Int("components", len(components)).Msg("sliced into independent components")

	sym := symtab.New()
	for _, g := range groups {
		sym.SetGroup(g, symtab.Unknown())
	}
	solver := solve.New(cfg, log, flag, sym)
	if dotHook != nil {
		solver.SetDotHook(dotHook)
	}

	out := &Outcome{Sat: true}
	for i, comp := range components {
		if flag.Tripped() {
			return nil, errs.Newf(errs.KindAborted, "pipeline.Run", "aborted while solving component %d", i)
		}
		body := componentTerm(slicer.SortByCost(comp.Atoms))
		res, err := solver.Solve(body)
		if err != nil {
			return nil, err
		}
		out.Components = append(out.Components, res)
		bindResultIntoSymtab(sym, res)

		if res.DFA.IsEmpty() {
			out.Sat = false
			log.Info().Int("component", i).Msg("component is unsatisfiable")
		}
	}

	if !out.Sat || countVar == "" {
		return out, nil
	}

	counter := count.New(cfg, log)
	mode := cfg.DefaultCountMode
	for _, res := range out.Components {
		idx := indexOf(res.Order, countVar)
		if idx < 0 {
			continue
		}
		if res.IsString {
			if len(res.Order) != 1 {
				return nil, errs.Newf(errs.KindUnsupported, "pipeline.Run",
					"counting a variable shared across string tracks (%q) is not supported", countVar)
			}
			n, err := counter.Count(res.DFA, bound, mode)
			if err != nil {
				return nil, err
			}
			out.Count = n
			return out, nil
		}
		n, err := count.CountVariable(res.DFA, res.Order, countVar, bound, mode)
		if err != nil {
			return nil, err
		}
		out.Count = n
		return out, nil
	}

	return nil, errs.Newf(errs.KindUnsupported, "pipeline.Run", "variable %q does not appear in the formula", countVar)
}

// conjuncts flattens a preprocessed term's top-level And into its atoms;
// anything else (a single atom, or a formula whose top level is an Or) is
// treated as one atom so Slice still receives a well-formed, if singleton,
// list.
func conjuncts(term ast.BoolTerm) []ast.BoolTerm {
	if and, ok := term.(*ast.And); ok {
		return and.Args
	}
	return []ast.BoolTerm{term}
}

func componentTerm(atoms []ast.BoolTerm) ast.BoolTerm {
	if len(atoms) == 1 {
		return atoms[0]
	}
	return ast.NewAnd(atoms...)
}

func indexOf(order []string, name string) int {
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return -1
}

// bindResultIntoSymtab records a solved component's single-variable string
// automata in the shared symbol table, so a later component's mixed-atom
// refinement (pkg/solve.refineStrLen) can look up a string variable's known
// automaton even when it was narrowed by a component solved earlier in this
// pass rather than in the same component.
func bindResultIntoSymtab(sym *symtab.SymTab, res *solve.Result) {
	if !res.IsString || len(res.Order) != 1 {
		return
	}
	sym.Bind(res.Order[0], symtab.FromAutomaton(symtab.ValueStringAutomaton, res.DFA))
}
