package preprocess

import "github.com/gitrdm/straut/pkg/ast"

// ImplicationRunner applies two small rewrites across a flat conjunct list:
// `len(s) = 0` is folded to the stronger and cheaper `s = ""`, and any
// `x = y` atom between two bare variables of the same sort causes every
// other occurrence of x in the remaining atoms to be rewritten to y (the
// equality atom itself is left in place, so the variable's own group
// membership is still discoverable downstream by EquivalenceClasses). Runs
// once over the list rather than to a fixpoint, matching the single-pass
// scoping already documented for mixed-atom refinement in pkg/solve.
func ImplicationRunner(atoms []ast.BoolTerm) []ast.BoolTerm {
	return substituteEqualities(rewriteLenZero(atoms))
}

func rewriteLenZero(atoms []ast.BoolTerm) []ast.BoolTerm {
	out := make([]ast.BoolTerm, len(atoms))
	for i, a := range atoms {
		at, ok := a.(ast.ArithAtom)
		if !ok || at.Op != ast.RelEq {
			out[i] = a
			continue
		}
		if v, ok := lenZeroVar(at.Lhs, at.Rhs); ok {
			out[i] = ast.StrAtom{Tag: ast.TagEq, Lhs: v, Rhs: ast.StrConst{Value: ""}}
			continue
		}
		if v, ok := lenZeroVar(at.Rhs, at.Lhs); ok {
			out[i] = ast.StrAtom{Tag: ast.TagEq, Lhs: v, Rhs: ast.StrConst{Value: ""}}
			continue
		}
		out[i] = a
	}
	return out
}

// lenZeroVar reports whether lenSide is `(str.len v)` and zeroSide is the
// constant 0, returning v.
func lenZeroVar(lenSide, zeroSide ast.ArithTerm) (ast.StrVar, bool) {
	lt, ok := lenSide.(ast.ArithStrLen)
	if !ok {
		return ast.StrVar{}, false
	}
	c, ok := zeroSide.(ast.ArithConst)
	if !ok || c.Value != 0 {
		return ast.StrVar{}, false
	}
	v, ok := lt.Of.(ast.StrVar)
	return v, ok
}

func substituteEqualities(atoms []ast.BoolTerm) []ast.BoolTerm {
	out := append([]ast.BoolTerm(nil), atoms...)
	for i, a := range out {
		from, to, ok := equalityPair(a)
		if !ok {
			continue
		}
		for j := range out {
			if j == i {
				continue
			}
			out[j] = substituteVar(out[j], from, to)
		}
	}
	return out
}

// equalityPair reports the (from, to) rewrite an atom licenses: a bare
// variable-to-variable equality of either sort, read left-to-right (x
// rewritten to y, not the reverse).
func equalityPair(a ast.BoolTerm) (from, to string, ok bool) {
	switch t := a.(type) {
	case ast.ArithAtom:
		if t.Op != ast.RelEq {
			return "", "", false
		}
		if lv, lok := t.Lhs.(ast.ArithVar); lok {
			if rv, rok := t.Rhs.(ast.ArithVar); rok {
				return lv.Name, rv.Name, true
			}
		}
	case ast.StrAtom:
		if t.Tag != ast.TagEq {
			return "", "", false
		}
		if lv, lok := t.Lhs.(ast.StrVar); lok {
			if rv, rok := t.Rhs.(ast.StrVar); rok {
				return lv.Name, rv.Name, true
			}
		}
	}
	return "", "", false
}

func substituteVar(term ast.BoolTerm, from, to string) ast.BoolTerm {
	switch t := term.(type) {
	case *ast.And:
		args := make([]ast.BoolTerm, len(t.Args))
		for i, a := range t.Args {
			args[i] = substituteVar(a, from, to)
		}
		return &ast.And{Args: args, Info: t.Info}
	case *ast.Or:
		args := make([]ast.BoolTerm, len(t.Args))
		for i, a := range t.Args {
			args[i] = substituteVar(a, from, to)
		}
		return &ast.Or{Args: args, Info: t.Info}
	case *ast.Not:
		return ast.NewNot(substituteVar(t.Arg, from, to))
	case ast.BoolVar:
		if t.Name == from {
			return ast.BoolVar{Name: to}
		}
		return t
	case ast.ArithAtom:
		return ast.ArithAtom{Op: t.Op, Lhs: substVarArith(t.Lhs, from, to), Rhs: substVarArith(t.Rhs, from, to)}
	case ast.StrAtom:
		return ast.StrAtom{Tag: t.Tag, Lhs: substVarStr(t.Lhs, from, to), Rhs: substVarStr(t.Rhs, from, to), Re: t.Re, At: t.At}
	default:
		return term
	}
}

func substVarArith(t ast.ArithTerm, from, to string) ast.ArithTerm {
	if t == nil {
		return nil
	}
	switch n := t.(type) {
	case ast.ArithVar:
		if n.Name == from {
			return ast.ArithVar{Name: to}
		}
		return n
	case ast.ArithAdd:
		args := make([]ast.ArithTerm, len(n.Args))
		for i, a := range n.Args {
			args[i] = substVarArith(a, from, to)
		}
		return ast.ArithAdd{Args: args}
	case ast.ArithSub:
		return ast.ArithSub{Lhs: substVarArith(n.Lhs, from, to), Rhs: substVarArith(n.Rhs, from, to)}
	case ast.ArithMul:
		return ast.ArithMul{Coeff: n.Coeff, Term: substVarArith(n.Term, from, to)}
	case ast.ArithNeg:
		return ast.ArithNeg{Term: substVarArith(n.Term, from, to)}
	case ast.ArithStrLen:
		return ast.ArithStrLen{Of: substVarStr(n.Of, from, to)}
	case ast.ArithIndexOf:
		return ast.ArithIndexOf{Haystack: substVarStr(n.Haystack, from, to), Needle: substVarStr(n.Needle, from, to), Start: substVarArith(n.Start, from, to)}
	default:
		return t
	}
}

func substVarStr(t ast.StrTerm, from, to string) ast.StrTerm {
	if t == nil {
		return nil
	}
	switch n := t.(type) {
	case ast.StrVar:
		if n.Name == from {
			return ast.StrVar{Name: to}
		}
		return n
	case ast.StrConcat:
		args := make([]ast.StrTerm, len(n.Args))
		for i, a := range n.Args {
			args[i] = substVarStr(a, from, to)
		}
		return ast.StrConcat{Args: args}
	case ast.StrSubstr:
		return ast.StrSubstr{Base: substVarStr(n.Base, from, to), Start: substVarArith(n.Start, from, to), Len: substVarArith(n.Len, from, to)}
	case ast.StrReplace:
		return ast.StrReplace{Base: substVarStr(n.Base, from, to), From: substVarStr(n.From, from, to), To: substVarStr(n.To, from, to)}
	case ast.StrAt:
		return ast.StrAt{Base: substVarStr(n.Base, from, to), Index: substVarArith(n.Index, from, to)}
	default:
		return t
	}
}
