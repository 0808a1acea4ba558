package symtab

import "github.com/gitrdm/straut/pkg/automaton"

func automatonUnion(a, b *automaton.DFA) (*automaton.DFA, error) {
	return automaton.Union(a, b)
}

func automatonIntersect(a, b *automaton.DFA) (*automaton.DFA, error) {
	return automaton.Intersect(a, b)
}
