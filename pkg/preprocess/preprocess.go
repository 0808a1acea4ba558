// Package preprocess runs the syntactic and semantic simplification passes
// between parsing and solving: pushing negations down to the leaves,
// flattening nested And/Or, deduplicating syntactically identical atoms,
// discovering variable equivalences, and (the domain-specific addition)
// folding EQ_CHARAT chains built from str.at into a single indexed
// predicate.
package preprocess

import (
	"sort"

	"github.com/gitrdm/straut/pkg/ast"
)

// SyntacticProcessor pushes Not inward (De Morgan) and flattens nested
// And/Or of the same kind into their parent, so every subsequent pass sees
// a formula in negation-normal, flattened form.
func SyntacticProcessor(term ast.BoolTerm) ast.BoolTerm {
	switch t := term.(type) {
	case *ast.Not:
		return pushNegation(t.Arg)
	case *ast.And:
		return flatten(t, false)
	case *ast.Or:
		return flatten(t, true)
	default:
		return term
	}
}

func pushNegation(term ast.BoolTerm) ast.BoolTerm {
	switch t := term.(type) {
	case *ast.Not:
		return SyntacticProcessor(t.Arg)
	case *ast.And:
		negated := make([]ast.BoolTerm, len(t.Args))
		for i, a := range t.Args {
			negated[i] = pushNegation(a)
		}
		return SyntacticProcessor(ast.NewOr(negated...))
	case *ast.Or:
		negated := make([]ast.BoolTerm, len(t.Args))
		for i, a := range t.Args {
			negated[i] = pushNegation(a)
		}
		return SyntacticProcessor(ast.NewAnd(negated...))
	case ast.BoolConst:
		return ast.BoolConst{Value: !t.Value}
	default:
		return ast.NewNot(SyntacticProcessor(term))
	}
}

func flatten(term ast.BoolTerm, isOr bool) ast.BoolTerm {
	var args []ast.BoolTerm
	var walk func(ast.BoolTerm)
	walk = func(t ast.BoolTerm) {
		processed := SyntacticProcessor(t)
		switch n := processed.(type) {
		case *ast.And:
			if !isOr {
				args = append(args, n.Args...)
				return
			}
		case *ast.Or:
			if isOr {
				args = append(args, n.Args...)
				return
			}
		}
		args = append(args, processed)
	}
	switch t := term.(type) {
	case *ast.And:
		for _, a := range t.Args {
			walk(a)
		}
	case *ast.Or:
		for _, a := range t.Args {
			walk(a)
		}
	}
	if isOr {
		return ast.NewOr(args...)
	}
	return ast.NewAnd(args...)
}

// SyntacticOptimizer removes an And/Or's duplicate immediate children by
// string-form comparison, and collapses a single-child And/Or down to that
// child.
func SyntacticOptimizer(term ast.BoolTerm) ast.BoolTerm {
	switch t := term.(type) {
	case *ast.And:
		deduped := dedupeArgs(t.Args)
		if len(deduped) == 1 {
			return deduped[0]
		}
		return &ast.And{Args: deduped, Info: t.Info}
	case *ast.Or:
		deduped := dedupeArgs(t.Args)
		if len(deduped) == 1 {
			return deduped[0]
		}
		return &ast.Or{Args: deduped, Info: t.Info}
	default:
		return term
	}
}

func dedupeArgs(args []ast.BoolTerm) []ast.BoolTerm {
	seen := map[string]bool{}
	var out []ast.BoolTerm
	for _, a := range args {
		key := a.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, a)
	}
	return out
}

// FormulaOptimizer deduplicates atoms by their canonical string formula
// shape rather than raw AST text, catching cases the syntactic optimizer
// misses (e.g. `x < 5` and `5 > x` after arithmetic normalization both
// produce the same ArithFormula key upstream in pkg/formula; this pass
// assumes atoms have already been run through pkg/formula and compares
// their canonical keys).
func FormulaOptimizer(atoms []ast.BoolTerm, canonicalKey func(ast.BoolTerm) string) []ast.BoolTerm {
	seen := map[string]bool{}
	var out []ast.BoolTerm
	for _, a := range atoms {
		k := canonicalKey(a)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}

// EquivalenceClasses runs union-find over a set of atoms known to assert
// string equality (`str.=`) or arithmetic equality between two bare
// variables, returning the resulting groups sorted for determinism. This
// is what feeds symtab.SetGroup.
func EquivalenceClasses(atoms []ast.BoolTerm) [][]string {
	parent := map[string]string{}
	var find func(string) string
	find = func(x string) string {
		if _, ok := parent[x]; !ok {
			parent[x] = x
		}
		if parent[x] != x {
			parent[x] = find(parent[x])
		}
		return parent[x]
	}
	union := func(a, b string) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[ra] = rb
		}
	}

	for _, a := range atoms {
		switch t := a.(type) {
		case ast.StrAtom:
			if t.Tag == ast.TagEq {
				if lv, ok := t.Lhs.(ast.StrVar); ok {
					if rv, ok := t.Rhs.(ast.StrVar); ok {
						union(lv.Name, rv.Name)
					}
				}
			}
		case ast.ArithAtom:
			if t.Op == ast.RelEq {
				lv, lok := t.Lhs.(ast.ArithVar)
				rv, rok := t.Rhs.(ast.ArithVar)
				if lok && rok {
					union(lv.Name, rv.Name)
				}
			}
		}
	}

	groups := map[string][]string{}
	for x := range parent {
		r := find(x)
		groups[r] = append(groups[r], x)
	}
	var out [][]string
	for _, g := range groups {
		if len(g) > 1 {
			sort.Strings(g)
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
