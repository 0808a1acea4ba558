package preprocess

import (
	"fmt"
	"strings"

	"github.com/gitrdm/straut/pkg/ast"
	"github.com/gitrdm/straut/pkg/formula"
)

// CanonicalKey is the canonicalKey FormulaOptimizer expects: it normalizes
// an arithmetic atom's sign and relational direction so `x < 5` and `5 > x`
// produce the same key (formula.FromAtom alone does not, since it preserves
// whichever side the constant started on), and normalizes a symmetric
// string atom's operand order so `a = b` and `b = a` do too. Anything else
// falls back to the term's own String form.
func CanonicalKey(t ast.BoolTerm) string {
	switch a := t.(type) {
	case ast.ArithAtom:
		return canonicalArithKey(a)
	case ast.StrAtom:
		return canonicalStrKey(a)
	default:
		return t.String()
	}
}

func canonicalArithKey(a ast.ArithAtom) string {
	f, err := formula.FromAtom(a)
	if err != nil {
		return a.String()
	}
	op := f.Op
	if len(f.VarOrder) > 0 && f.Coeffs[f.VarOrder[0]] < 0 {
		for name := range f.Coeffs {
			f.Coeffs[name] = -f.Coeffs[name]
		}
		f.Const = -f.Const
		op = flipRelOp(op)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "arith:%s", op)
	for _, name := range f.VarOrder {
		fmt.Fprintf(&b, "|%s:%d", name, f.Coeffs[name])
	}
	fmt.Fprintf(&b, "|c:%d", f.Const)
	return b.String()
}

func flipRelOp(op ast.RelOp) ast.RelOp {
	switch op {
	case ast.RelLt:
		return ast.RelGt
	case ast.RelGt:
		return ast.RelLt
	case ast.RelLe:
		return ast.RelGe
	case ast.RelGe:
		return ast.RelLe
	default:
		return op
	}
}

func canonicalStrKey(a ast.StrAtom) string {
	if a.Tag == ast.TagInRe {
		return fmt.Sprintf("str:%s|%s|%s", a.Tag, a.Lhs, a.Re)
	}
	lhs, rhs := a.Lhs.String(), a.Rhs.String()
	if isSymmetricTag(a.Tag) && rhs < lhs {
		lhs, rhs = rhs, lhs
	}
	return fmt.Sprintf("str:%s|%s|%s", a.Tag, lhs, rhs)
}

func isSymmetricTag(tag ast.StrTag) bool {
	return tag == ast.TagEq || tag == ast.TagNotEq
}
