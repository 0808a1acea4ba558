// Package slicer partitions a formula's top-level conjuncts into maximal
// independent components by variable sharing, so the solver can work each
// component separately (and, eventually, count their cardinalities
// independently and multiply): two atoms land in the same component iff
// they are connected through a chain of shared variables.
package slicer

import (
	"sort"

	"github.com/gitrdm/straut/pkg/ast"
)

// Component is one maximal independent group of atoms: no atom outside the
// component shares a variable with any atom inside it.
type Component struct {
	Atoms []ast.BoolTerm
	Vars  map[string]bool
}

// unionFind is the textbook disjoint-set structure keyed by variable name,
// used to grow components as each atom's variables are unioned together.
type unionFind struct {
	parent map[string]string
}

func newUnionFind() *unionFind { return &unionFind{parent: map[string]string{}} }

func (u *unionFind) find(x string) string {
	if _, ok := u.parent[x]; !ok {
		u.parent[x] = x
	}
	if u.parent[x] != x {
		u.parent[x] = u.find(u.parent[x])
	}
	return u.parent[x]
}

func (u *unionFind) union(x, y string) {
	rx, ry := u.find(x), u.find(y)
	if rx != ry {
		u.parent[rx] = ry
	}
}

// Slice partitions the given conjuncts into maximal independent
// components. Atoms with no variables at all (ground Boolean literals)
// form their own singleton components.
func Slice(atoms []ast.BoolTerm) []Component {
	uf := newUnionFind()
	varsOf := make([][]string, len(atoms))

	for i, a := range atoms {
		names := map[string]bool{}
		collectVars(a, names)
		var vs []string
		for n := range names {
			vs = append(vs, n)
		}
		sort.Strings(vs)
		varsOf[i] = vs
		for j := 1; j < len(vs); j++ {
			uf.union(vs[0], vs[j])
		}
	}

	groups := map[string]*Component{}
	var order []string
	for i, a := range atoms {
		vs := varsOf[i]
		var key string
		if len(vs) == 0 {
			key = "#ground#" + ordinal(i)
		} else {
			key = uf.find(vs[0])
		}
		c, ok := groups[key]
		if !ok {
			c = &Component{Vars: map[string]bool{}}
			groups[key] = c
			order = append(order, key)
		}
		c.Atoms = append(c.Atoms, a)
		for _, v := range vs {
			c.Vars[v] = true
		}
		_ = a
	}

	out := make([]Component, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out
}

func ordinal(i int) string {
	buf := make([]byte, 0, 4)
	if i == 0 {
		return "0"
	}
	for i > 0 {
		buf = append([]byte{byte('0' + i%10)}, buf...)
		i /= 10
	}
	return string(buf)
}

// collectVars gathers every variable a conjunct references. A conjunct is
// usually a single atom, but preprocessing only flattens the formula's
// top-level And — an Or or Not subtree can still appear here (e.g. "(x=1 or
// x=2) and not(x=1)" has the Or as one whole conjunct) — so this walks the
// term rather than assuming it is already a leaf.
func collectVars(term ast.BoolTerm, out map[string]bool) {
	ast.Walk(term, &ast.Visitor{
		Leaf: func(leaf ast.BoolTerm) {
			for _, v := range ast.AtomVars(leaf) {
				out[v.Name] = true
			}
		},
	})
}

// AtomCost ranks atom shapes for solve ordering: arithmetic-only atoms are
// cheapest (built directly without track alignment), then single-track
// string atoms, then relational comparisons between two string variables,
// then mixed arithmetic/string atoms last (they require the refinement
// loop). Lower is cheaper.
func AtomCost(a ast.BoolTerm) int {
	switch t := a.(type) {
	case ast.ArithAtom:
		if referencesString(t) {
			return 3
		}
		return 0
	case ast.StrAtom:
		if t.Rhs != nil && isStringVar(t.Rhs) && isStringVar(t.Lhs) {
			return 2
		}
		return 1
	default:
		return 0
	}
}

func referencesString(a ast.ArithAtom) bool {
	return hasMixedTerm(a.Lhs) || hasMixedTerm(a.Rhs)
}

func hasMixedTerm(t ast.ArithTerm) bool {
	switch n := t.(type) {
	case ast.ArithStrLen, ast.ArithIndexOf:
		return true
	case ast.ArithAdd:
		for _, a := range n.Args {
			if hasMixedTerm(a) {
				return true
			}
		}
	case ast.ArithSub:
		return hasMixedTerm(n.Lhs) || hasMixedTerm(n.Rhs)
	case ast.ArithMul:
		return hasMixedTerm(n.Term)
	case ast.ArithNeg:
		return hasMixedTerm(n.Term)
	}
	return false
}

func isStringVar(t ast.StrTerm) bool {
	_, ok := t.(ast.StrVar)
	return ok
}

// SortByCost returns a copy of atoms ordered by AtomCost, stable within
// equal costs so solve order stays deterministic across runs.
func SortByCost(atoms []ast.BoolTerm) []ast.BoolTerm {
	out := append([]ast.BoolTerm(nil), atoms...)
	sort.SliceStable(out, func(i, j int) bool { return AtomCost(out[i]) < AtomCost(out[j]) })
	return out
}
