package main

import (
	"fmt"

	"github.com/gitrdm/straut/internal/config"
	"github.com/gitrdm/straut/pkg/ast"
)

// scenario is one named, programmatically-built formula the CLI can solve
// and count against, standing in for a surface-syntax parser (which this
// module does not implement — formulas here are built directly with the
// pkg/ast constructors, exactly the way pkg/solve and pkg/pipeline's own
// tests build them).
type scenario struct {
	name        string
	description string
	term        ast.BoolTerm
	countVar    string
	bound       uint64
	mode        config.CountMode
}

func scenarios() []scenario {
	return []scenario{
		{
			name:        "bounded-int",
			description: `x=3 and x>=0; count(x, bound 10, AtMost)`,
			term: ast.NewAnd(
				ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 3}},
				ast.ArithAtom{Op: ast.RelGe, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 0}},
			),
			countVar: "x",
			bound:    10,
			mode:     config.AtMost,
		},
		{
			name:        "regex-plus",
			description: `s in (a)+; count(s, bound 3, AtMost)`,
			term: ast.StrAtom{
				Tag: ast.TagInRe,
				Lhs: ast.StrVar{Name: "s"},
				Re:  ast.RegexPlus{Arg: ast.RegexLit{Value: "a"}},
			},
			countVar: "s",
			bound:    3,
			mode:     config.AtMost,
		},
		{
			// len(y)=2 is deliberately NOT used to pin y here: a mixed
			// str.len atom only ever sees a string variable's automaton as
			// already known from an earlier, separately-solved component
			// (see pkg/pipeline's single-pass refinement scoping), and
			// here y is tied to x in the very same component. Pinning y by
			// a plain string equality instead composes through genuine
			// track-level intersection, which the concat builder supports.
			// countVar is left empty: x shares this component's automaton
			// with y (they are tied together by the concat relation), and
			// counting a variable that is not a component's sole string
			// track is out of scope (see pkg/pipeline.Run).
			name:        "concat-equality",
			description: `(x++"b")=y and y="ab" (x is forced to "a")`,
			term: ast.NewAnd(
				ast.StrAtom{
					Tag: ast.TagEq,
					Lhs: ast.StrConcat{Args: []ast.StrTerm{ast.StrVar{Name: "x"}, ast.StrConst{Value: "b"}}},
					Rhs: ast.StrVar{Name: "y"},
				},
				ast.StrAtom{Tag: ast.TagEq, Lhs: ast.StrVar{Name: "y"}, Rhs: ast.StrConst{Value: "ab"}},
			),
			countVar: "",
		},
		{
			name:        "contains-unsat",
			description: `x="abc" and z="z" and contains(x,z)`,
			term: ast.NewAnd(
				ast.StrAtom{Tag: ast.TagEq, Lhs: ast.StrVar{Name: "x"}, Rhs: ast.StrConst{Value: "abc"}},
				ast.StrAtom{Tag: ast.TagEq, Lhs: ast.StrVar{Name: "z"}, Rhs: ast.StrConst{Value: "z"}},
				ast.StrAtom{Tag: ast.TagContains, Lhs: ast.StrVar{Name: "x"}, Rhs: ast.StrVar{Name: "z"}},
			),
			countVar: "",
		},
		{
			name:        "mod-as-disjunction",
			description: `0<=x<=7 and (x=0 or x=2 or x=4 or x=6); count(x, bound 16, AtMost)`,
			term: ast.NewAnd(
				ast.ArithAtom{Op: ast.RelGe, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 0}},
				ast.ArithAtom{Op: ast.RelLe, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 7}},
				ast.NewOr(
					ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 0}},
					ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 2}},
					ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 4}},
					ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 6}},
				),
			),
			countVar: "x",
			bound:    16,
			mode:     config.AtMost,
		},
		{
			name:        "disjunction-negation",
			description: `(x=1 or x=2) and not(x=1); count(x, bound 10, AtMost)`,
			term: ast.NewAnd(
				ast.NewOr(
					ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 1}},
					ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 2}},
				),
				ast.NewNot(ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 1}}),
			),
			countVar: "x",
			bound:    10,
			mode:     config.AtMost,
		},
	}
}

func findScenario(name string) (scenario, error) {
	for _, sc := range scenarios() {
		if sc.name == name {
			return sc, nil
		}
	}
	return scenario{}, fmt.Errorf("no such scenario %q", name)
}
