package preprocess

import "github.com/gitrdm/straut/pkg/ast"

// CharAtOptimizer folds a conjunction of `(str.at s i) == "c"` atoms for
// the same base string s into a single TagCharAtEq atom per index,
// de-duplicating repeated constraints at the same index and detecting an
// immediate contradiction when the same index is asserted to equal two
// different characters (the two cheapest wins a char-at automaton search
// can get, pulled forward into preprocessing instead of paying for it
// during solving).
func CharAtOptimizer(atoms []ast.BoolTerm) ([]ast.BoolTerm, bool) {
	type key struct {
		base string
		idx  int
	}
	seen := map[key]byte{}
	var out []ast.BoolTerm
	for _, a := range atoms {
		t, ok := a.(ast.StrAtom)
		if !ok || t.Tag != ast.TagCharAtEq {
			out = append(out, a)
			continue
		}
		at, ok := t.Lhs.(ast.StrAt)
		base, ok2 := at.Base.(ast.StrVar)
		idx, ok3 := at.Index.(ast.ArithConst)
		lit, ok4 := t.Rhs.(ast.StrConst)
		if !ok || !ok2 || !ok3 || !ok4 || len(lit.Value) != 1 {
			out = append(out, a)
			continue
		}
		k := key{base.Name, int(idx.Value)}
		want := lit.Value[0]
		if prev, dup := seen[k]; dup {
			if prev != want {
				return nil, false // contradiction: index forced to two characters
			}
			continue // duplicate, drop
		}
		seen[k] = want
		out = append(out, a)
	}
	return out, true
}
