package ast

// VarRef names a variable together with its sort, as returned by the
// Vars collectors below. Used by the dependency slicer to build
// the variable hypergraph and by the symbol table to resolve bindings.
type VarRef struct {
	Name string
	Sort Sort
}

// ArithVars returns the Int/String variables referenced by an ArithTerm
// (String variables appear via ArithStrLen/ArithIndexOf operands, which is
// exactly how a mixed constraint is detected by the refinement loop).
func ArithVars(t ArithTerm) []VarRef {
	var out []VarRef
	var walk func(ArithTerm)
	walk = func(t ArithTerm) {
		switch n := t.(type) {
		case ArithVar:
			out = append(out, VarRef{n.Name, SortInt})
		case ArithConst:
		case ArithAdd:
			for _, a := range n.Args {
				walk(a)
			}
		case ArithSub:
			walk(n.Lhs)
			walk(n.Rhs)
		case ArithMul:
			walk(n.Term)
		case ArithNeg:
			walk(n.Term)
		case ArithStrLen:
			out = append(out, StrVars(n.Of)...)
		case ArithIndexOf:
			out = append(out, StrVars(n.Haystack)...)
			out = append(out, StrVars(n.Needle)...)
			if n.Start != nil {
				walk(n.Start)
			}
		}
	}
	walk(t)
	return out
}

// StrVars returns the String variables referenced by a StrTerm.
func StrVars(t StrTerm) []VarRef {
	var out []VarRef
	var walk func(StrTerm)
	walk = func(t StrTerm) {
		switch n := t.(type) {
		case StrVar:
			out = append(out, VarRef{n.Name, SortString})
		case StrConst:
		case StrConcat:
			for _, a := range n.Args {
				walk(a)
			}
		case StrSubstr:
			walk(n.Base)
			out = append(out, ArithVars(n.Start)...)
			out = append(out, ArithVars(n.Len)...)
		case StrReplace:
			walk(n.Base)
			walk(n.From)
			walk(n.To)
		case StrAt:
			walk(n.Base)
		}
	}
	walk(t)
	return out
}

// AtomVars returns every variable referenced by a Bool-sorted leaf term.
// Panics if term is not a leaf (callers should check ast.IsLeaf first).
func AtomVars(term BoolTerm) []VarRef {
	switch a := term.(type) {
	case ArithAtom:
		return append(ArithVars(a.Lhs), ArithVars(a.Rhs)...)
	case StrAtom:
		vars := append(StrVars(a.Lhs), StrVars(a.Rhs)...)
		return vars
	case BoolVar:
		return []VarRef{{a.Name, SortBool}}
	case BoolConst:
		return nil
	default:
		panic("ast.AtomVars: not a leaf term")
	}
}
