package ast

// Visitor holds optional pre/post callbacks invoked while Walk traverses a
// BoolTerm tree. This replaces the deep class-hierarchy visitor pattern
// instead of a virtual-dispatch Visit method
// implemented once per node type, traversal is driven by a single Walk
// function doing an exhaustive type switch, and callers customize behavior
// with closures.
type Visitor struct {
	// PreAnd/PreOr/PreNot run before descending into the node's children;
	// returning false skips the children (used by preprocessing passes that
	// rewrite a subtree and don't want the rewritten form re-visited).
	PreAnd func(*And) bool
	PreOr  func(*Or) bool
	PreNot func(*Not) bool

	// Leaf is called for every Bool-sorted leaf (ArithAtom, StrAtom,
	// BoolVar, BoolConst).
	Leaf func(BoolTerm)

	// PostAnd/PostOr/PostNot run after all children have been visited.
	PostAnd func(*And)
	PostOr  func(*Or)
	PostNot func(*Not)
}

// Walk traverses term depth-first, invoking v's callbacks. Exhaustive type
// switch stands in for virtual dispatch over the (would-be) AST class
// hierarchy.
func Walk(term BoolTerm, v *Visitor) {
	switch t := term.(type) {
	case *And:
		descend := true
		if v.PreAnd != nil {
			descend = v.PreAnd(t)
		}
		if descend {
			for _, child := range t.Args {
				Walk(child, v)
			}
		}
		if v.PostAnd != nil {
			v.PostAnd(t)
		}
	case *Or:
		descend := true
		if v.PreOr != nil {
			descend = v.PreOr(t)
		}
		if descend {
			for _, child := range t.Args {
				Walk(child, v)
			}
		}
		if v.PostOr != nil {
			v.PostOr(t)
		}
	case *Not:
		descend := true
		if v.PreNot != nil {
			descend = v.PreNot(t)
		}
		if descend {
			Walk(t.Arg, v)
		}
		if v.PostNot != nil {
			v.PostNot(t)
		}
	default:
		// ArithAtom, StrAtom, BoolVar, BoolConst: all leaves.
		if v.Leaf != nil {
			v.Leaf(t)
		}
	}
}

// IsLeaf reports whether term is a Bool-sorted leaf (not And/Or/Not).
func IsLeaf(term BoolTerm) bool {
	switch term.(type) {
	case *And, *Or, *Not:
		return false
	default:
		return true
	}
}
