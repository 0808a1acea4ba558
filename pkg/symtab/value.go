// Package symtab implements the scope stack and group table the
// preprocessing and solving passes share: each AST subtree that introduces
// a scope (an And/Or node) gets its own binding frame, variables bound
// under an Or's branches are unioned back into the parent scope on exit,
// and variables proven equal by the equivalence generator share one Value
// slot through a group table rather than duplicating automaton state.
package symtab

import "github.com/gitrdm/straut/pkg/automaton"

// ValueKind discriminates the tagged union Value carries.
type ValueKind int

const (
	ValueUnknown ValueKind = iota
	ValueBool
	ValueStringAutomaton
	ValueIntAutomaton
	ValueUnaryAutomaton
)

// Value is the symbol table's binding payload: a variable is either not
// yet constrained (ValueUnknown), fixed to a Boolean, or carries one of
// the three automaton flavors that stand in for "the set of values this
// variable may still take."
type Value struct {
	Kind      ValueKind
	BoolValue bool
	Automaton *automaton.DFA
}

// Unknown returns the not-yet-constrained Value.
func Unknown() Value { return Value{Kind: ValueUnknown} }

// FromBool wraps a Boolean literal.
func FromBool(b bool) Value { return Value{Kind: ValueBool, BoolValue: b} }

// FromAutomaton wraps a constraint automaton under the given kind.
func FromAutomaton(kind ValueKind, d *automaton.DFA) Value {
	return Value{Kind: kind, Automaton: d}
}

// IsUnknown reports whether v still carries no constraint.
func (v Value) IsUnknown() bool { return v.Kind == ValueUnknown }
