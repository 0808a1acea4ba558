package pipeline

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/gitrdm/straut/internal/config"
	"github.com/gitrdm/straut/pkg/ast"
)

func TestRunIndependentArithComponentsAreBothSolved(t *testing.T) {
	term := ast.NewAnd(
		ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 5}},
		ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "y"}, Rhs: ast.ArithConst{Value: 3}},
	)
	out, err := Run(config.Default(), zerolog.Nop(), term, "", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Sat {
		t.Fatal("expected sat")
	}
	if len(out.Components) != 2 {
		t.Fatalf("got %d components, want 2 (x and y are independent)", len(out.Components))
	}
}

func TestRunUnsatComponentMarksOutcome(t *testing.T) {
	term := ast.NewAnd(
		ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 5}},
		ast.ArithAtom{Op: ast.RelLt, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 3}},
	)
	out, err := Run(config.Default(), zerolog.Nop(), term, "", 0, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Sat {
		t.Fatal("x=5 and x<3 together should be unsat")
	}
}

func TestRunCountsDesignatedVariable(t *testing.T) {
	term := ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 5}}
	out, err := Run(config.Default(), zerolog.Nop(), term, "x", 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Count == nil || out.Count.Int64() != 1 {
		t.Errorf("Count(x) = %v, want 1", out.Count)
	}
}

func TestRunCountsStringVariable(t *testing.T) {
	term := ast.StrAtom{Tag: ast.TagEq, Lhs: ast.StrVar{Name: "s"}, Rhs: ast.StrConst{Value: "cat"}}
	out, err := Run(config.Default(), zerolog.Nop(), term, "s", 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out.Count == nil || out.Count.Int64() != 1 {
		t.Errorf("Count(s) = %v, want 1 (s is pinned to the literal \"cat\")", out.Count)
	}
}

func TestRunHandlesTopLevelDisjunctionAndNegation(t *testing.T) {
	term := ast.NewAnd(
		ast.NewOr(
			ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 1}},
			ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 2}},
		),
		ast.NewNot(ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 1}}),
	)
	out, err := Run(config.Default(), zerolog.Nop(), term, "x", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Sat {
		t.Fatal("(x=1 or x=2) and not(x=1) should be satisfiable (x=2)")
	}
	if out.Count == nil || out.Count.Int64() != 1 {
		t.Errorf("Count(x) = %v, want 1 (only x=2 survives the negation)", out.Count)
	}
}

func TestRunResolvesAliasedVariableThroughImplicationRunner(t *testing.T) {
	term := ast.NewAnd(
		ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithVar{Name: "y"}},
		ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 7}},
	)
	out, err := Run(config.Default(), zerolog.Nop(), term, "y", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Sat {
		t.Fatal("x=y and x=7 should be satisfiable")
	}
	if out.Count == nil || out.Count.Int64() != 1 {
		t.Errorf("Count(y) = %v, want 1 (y inherits x's binding via equivalence)", out.Count)
	}
}

func TestRunFoldsLenZeroToEmptyString(t *testing.T) {
	term := ast.ArithAtom{
		Op:  ast.RelEq,
		Lhs: ast.ArithStrLen{Of: ast.StrVar{Name: "s"}},
		Rhs: ast.ArithConst{Value: 0},
	}
	out, err := Run(config.Default(), zerolog.Nop(), term, "s", 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !out.Sat {
		t.Fatal("len(s) = 0 should be satisfiable")
	}
	if out.Count == nil || out.Count.Int64() != 1 {
		t.Errorf("Count(s) = %v, want 1 (only the empty string)", out.Count)
	}
}

func TestRunMissingCountVariableErrors(t *testing.T) {
	term := ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 5}}
	_, err := Run(config.Default(), zerolog.Nop(), term, "z", 3, nil)
	if err == nil {
		t.Fatal("expected an error counting a variable absent from the formula")
	}
}
