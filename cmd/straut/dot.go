package main

import (
	"fmt"
	"os"

	"github.com/gitrdm/straut/pkg/ast"
	"github.com/gitrdm/straut/pkg/automaton"
)

// openDotSink opens path (if non-empty) and returns a hook pipeline.Run can
// wire into the solver: one digraph per processed AST node, states named by
// index and accepting states double-circled, in the
// "digraph mgraph { ... \"from\" -> \"to\" ... }" shape this pack's AST/CFG
// debug dumpers use. Returns a nil hook and a nil closer when path is empty.
func openDotSink(path string) (func(ast.BoolTerm, *automaton.DFA), func(), error) {
	if path == "" {
		return nil, nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening dot trace file: %w", err)
	}
	count := 0
	hook := func(term ast.BoolTerm, d *automaton.DFA) {
		count++
		fmt.Fprintf(f, "digraph node%d {\n", count)
		fmt.Fprintf(f, "\tlabel=%q;\n", term.String())
		for s := 0; s < d.NumStates; s++ {
			shape := "circle"
			if d.IsAccept(automaton.StateID(s)) {
				shape = "doublecircle"
			}
			fmt.Fprintf(f, "\t%d [shape=%s];\n", s, shape)
		}
		for s, row := range d.Trans {
			for sym, to := range row {
				fmt.Fprintf(f, "\t%d -> %d [label=%q];\n", s, to, fmt.Sprintf("%d", sym))
			}
		}
		fmt.Fprintf(f, "}\n")
	}
	closer := func() { f.Close() }
	return hook, closer, nil
}
