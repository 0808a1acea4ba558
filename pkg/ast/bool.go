package ast

import "fmt"

// BoolTerm is the top-level Boolean-structured assertion term. ArithAtom
// and StrAtom (defined in arith.go / str.go) are its leaves.
type BoolTerm interface {
	boolTerm()
	Sort() Sort
	String() string
}

// BoolVar references a declared Bool variable.
type BoolVar struct{ Name string }

func (BoolVar) boolTerm()      {}
func (BoolVar) Sort() Sort      { return SortBool }
func (v BoolVar) String() string { return v.Name }

// BoolConst is a Boolean literal.
type BoolConst struct{ Value bool }

func (BoolConst) boolTerm()      {}
func (BoolConst) Sort() Sort      { return SortBool }
func (c BoolConst) String() string {
	if c.Value {
		return "true"
	}
	return "false"
}

// And is n-ary conjunction. Info is allocated zero-valued by NewAnd;
// nothing in this module fills it in.
type And struct {
	Args []BoolTerm
	Info *NodeInfo
}

func (a *And) boolTerm()      {}
func (a *And) Sort() Sort      { return SortBool }
func (a *And) String() string {
	s := "(and"
	for _, t := range a.Args {
		s += " " + t.String()
	}
	return s + ")"
}

// Or is n-ary disjunction.
type Or struct {
	Args []BoolTerm
	Info *NodeInfo
}

func (o *Or) boolTerm()      {}
func (o *Or) Sort() Sort      { return SortBool }
func (o *Or) String() string {
	s := "(or"
	for _, t := range o.Args {
		s += " " + t.String()
	}
	return s + ")"
}

// Not is negation.
type Not struct{ Arg BoolTerm }

func (n *Not) boolTerm()       {}
func (n *Not) Sort() Sort       { return SortBool }
func (n *Not) String() string  { return fmt.Sprintf("(not %s)", n.Arg) }

// NodeInfo carries per-AST-node constraint-information flags:
// whether the node is the root of an independent slicer component and
// which theories it touches. NewAnd and NewOr allocate it zero-valued; the
// slicer (pkg/slicer) and the solvers (pkg/solve) neither set nor read
// these flags.
type NodeInfo struct {
	IsComponent  bool
	HasArith     bool
	HasString    bool
	HasMixed     bool
	ComponentTag int // stable id of the slicer component this node belongs to
}

// NewAnd/NewOr/NewNot are convenience constructors that allocate a fresh
// NodeInfo, used by the programmatic AST builder (the parser's stand-in).
func NewAnd(args ...BoolTerm) *And { return &And{Args: args, Info: &NodeInfo{}} }
func NewOr(args ...BoolTerm) *Or   { return &Or{Args: args, Info: &NodeInfo{}} }
func NewNot(arg BoolTerm) *Not     { return &Not{Arg: arg} }
