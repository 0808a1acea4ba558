package symtab

import "github.com/gitrdm/straut/pkg/ast"

// scopeKey identifies a scope frame by the AST subtree that opened it
// (an *ast.And or *ast.Or node), so nested scopes can be looked up without
// threading an explicit id counter through every traversal.
type scopeKey any

// scope is one binding frame: a name -> Value map plus the group id each
// bound name currently belongs to, if any.
type scope struct {
	bindings map[string]Value
	groupOf  map[string]int
}

func newScope() *scope {
	return &scope{bindings: map[string]Value{}, groupOf: map[string]int{}}
}

// Group is the shared state for a set of variables proven equal by the
// equivalence generator: one Value and one variable ordering serve the
// whole group instead of each member carrying its own automaton.
type Group struct {
	Members []string
	Value   Value
}

// SymTab is the scope stack plus group table. Frames are pushed on
// entering an And/Or node and popped on leaving it; an Or's bindings are
// unioned (per variable, ValueBool via ||, automaton-flavored via
// automaton.Union) into the parent scope on pop rather than discarded,
// which is how a disjunction's branch-local deductions survive past the
// Or node without leaking into sibling branches while it's still open.
type SymTab struct {
	frames []*scope
	keys   []scopeKey
	groups map[int]*Group
	groupSeq int
}

// New returns an empty SymTab with one root frame.
func New() *SymTab {
	return &SymTab{frames: []*scope{newScope()}, keys: []scopeKey{nil}, groups: map[int]*Group{}}
}

// PushScope opens a new frame keyed by the AST node that owns it (typically
// an *ast.And or *ast.Or, passed as `owner`).
func (s *SymTab) PushScope(owner scopeKey) {
	s.frames = append(s.frames, newScope())
	s.keys = append(s.keys, owner)
}

// UnionKind selects how PopScope merges a closing frame's bindings back
// into its parent.
type UnionKind int

const (
	// Discard drops the frame's bindings entirely (used when closing an And
	// scope: conjunctive bindings are already reflected in the parent via
	// direct narrowing, not duplication).
	Discard UnionKind = iota
	// UnionBack ORs/unions each binding into the parent (used when closing
	// an Or scope, per the type doc above).
	UnionBack
)

// PopScope closes the innermost frame, merging according to kind.
func (s *SymTab) PopScope(kind UnionKind) {
	closed := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	s.keys = s.keys[:len(s.keys)-1]
	if kind == Discard || len(s.frames) == 0 {
		return
	}
	parent := s.frames[len(s.frames)-1]
	for name, v := range closed.bindings {
		existing, ok := parent.bindings[name]
		if !ok {
			parent.bindings[name] = v
			continue
		}
		parent.bindings[name] = unionValues(existing, v)
	}
}

func unionValues(a, b Value) Value {
	if a.IsUnknown() {
		return b
	}
	if b.IsUnknown() {
		return a
	}
	if a.Kind == ValueBool && b.Kind == ValueBool {
		return FromBool(a.BoolValue || b.BoolValue)
	}
	if a.Automaton != nil && b.Automaton != nil {
		u, err := automatonUnion(a.Automaton, b.Automaton)
		if err != nil {
			return a
		}
		return FromAutomaton(a.Kind, u)
	}
	return a
}

// Bind assigns v to name in the innermost scope, unless name belongs to an
// equivalence group, in which case it updates the group's shared Value so
// every member sees the narrowed binding through Get.
func (s *SymTab) Bind(name string, v Value) {
	if gid, ok := s.groupIDOf(name); ok {
		s.groups[gid].Value = v
		return
	}
	s.frames[len(s.frames)-1].bindings[name] = v
}

// Get looks up name starting from the innermost scope outward, returning
// Unknown if unbound anywhere, and resolving through the variable's group
// if it has been merged into one.
func (s *SymTab) Get(name string) Value {
	if gid, ok := s.groupIDOf(name); ok {
		return s.groups[gid].Value
	}
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].bindings[name]; ok {
			return v
		}
	}
	return Unknown()
}

func (s *SymTab) groupIDOf(name string) (int, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if gid, ok := s.frames[i].groupOf[name]; ok {
			return gid, true
		}
	}
	return 0, false
}

// IntersectInto narrows name's current value by intersecting it with v
// (used when a second atom constrains an already-bound variable further
// within the same conjunctive scope).
func (s *SymTab) IntersectInto(name string, v Value) error {
	cur := s.Get(name)
	if cur.IsUnknown() {
		s.Bind(name, v)
		return nil
	}
	if cur.Kind == ValueBool && v.Kind == ValueBool {
		s.Bind(name, FromBool(cur.BoolValue && v.BoolValue))
		return nil
	}
	inter, err := automatonIntersect(cur.Automaton, v.Automaton)
	if err != nil {
		return err
	}
	s.Bind(name, FromAutomaton(cur.Kind, inter))
	return nil
}

// SetGroup merges the named variables into one equivalence group sharing a
// single Value (called by the equivalence generator once it has computed
// union-find classes for provably-equal variables).
func (s *SymTab) SetGroup(names []string, initial Value) {
	gid := s.groupSeq
	s.groupSeq++
	s.groups[gid] = &Group{Members: names, Value: initial}
	top := s.frames[len(s.frames)-1]
	for _, n := range names {
		top.groupOf[n] = gid
	}
}

// AtomVars is re-exported for convenience so callers driving a Walk don't
// need a second import just for variable collection.
var AtomVars = ast.AtomVars
