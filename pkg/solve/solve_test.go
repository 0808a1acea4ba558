package solve

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/gitrdm/straut/internal/config"
	"github.com/gitrdm/straut/pkg/ast"
	"github.com/gitrdm/straut/pkg/automaton"
	"github.com/gitrdm/straut/pkg/symtab"
)

func newTestSolver(sym *symtab.SymTab) *Solver {
	return New(config.Default(), zerolog.Nop(), nil, sym)
}

func TestBuildArithEquation(t *testing.T) {
	s := newTestSolver(nil)
	atom := ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 5}}
	a, err := s.BuildArith(atom)
	if err != nil {
		t.Fatal(err)
	}
	symbols, ok := automaton.Witness(a.DFA)
	if !ok {
		t.Fatal("expected a witness for x=5")
	}
	got := automaton.DecodeValue(symbols, 0, automaton.ModeNatural)
	if got != 5 {
		t.Errorf("decoded x = %d, want 5", got)
	}
}

func TestBuildArithInequalityExcludesEquality(t *testing.T) {
	s := newTestSolver(nil)
	atom := ast.ArithAtom{Op: ast.RelLt, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 3}}
	a, err := s.BuildArith(atom)
	if err != nil {
		t.Fatal(err)
	}
	eq3 := ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 3}}
	b, err := s.BuildArith(eq3)
	if err != nil {
		t.Fatal(err)
	}
	inter, err := automaton.Intersect(a.DFA, b.DFA)
	if err != nil {
		t.Fatal(err)
	}
	if !inter.IsEmpty() {
		t.Error("x<3 and x=3 should be unsatisfiable together")
	}
}

func TestBuildStringEqualityLiteral(t *testing.T) {
	s := newTestSolver(nil)
	atom := ast.StrAtom{Tag: ast.TagEq, Lhs: ast.StrVar{Name: "a"}, Rhs: ast.StrConst{Value: "cat"}}
	sa, err := s.BuildString(atom)
	if err != nil {
		t.Fatal(err)
	}
	if !automaton.Accepts(sa.DFA, symbolsOf("cat")) {
		t.Error("should accept cat")
	}
	if automaton.Accepts(sa.DFA, symbolsOf("dog")) {
		t.Error("should reject dog")
	}
}

func TestBuildStringConcatEqualityWithTrailingLiteral(t *testing.T) {
	s := newTestSolver(nil)
	atom := ast.StrAtom{
		Tag: ast.TagEq,
		Lhs: ast.StrConcat{Args: []ast.StrTerm{ast.StrVar{Name: "x"}, ast.StrConst{Value: "b"}}},
		Rhs: ast.StrVar{Name: "y"},
	}
	sa, err := s.BuildString(atom)
	if err != nil {
		t.Fatal(err)
	}
	var xi, yi int
	for i, n := range sa.Order {
		if n == "x" {
			xi = i
		}
		if n == "y" {
			yi = i
		}
	}
	build := func(x, y string) []uint64 {
		n := len(y)
		out := make([]uint64, n)
		for i := 0; i < n; i++ {
			xc, yc := uint64(automaton.Lambda), uint64(y[i])
			if i < len(x) {
				xc = uint64(x[i])
			}
			parts := make([]int, len(sa.Order))
			parts[xi] = int(xc)
			parts[yi] = int(yc)
			out[i] = automaton.PackSymbol(parts)
		}
		return out
	}

	if !automaton.Accepts(sa.DFA, build("a", "ab")) {
		t.Error("x=a, y=ab should satisfy x++\"b\"=y")
	}
	if automaton.Accepts(sa.DFA, build("a", "ac")) {
		t.Error("x=a, y=ac should not satisfy x++\"b\"=y")
	}
}

func TestSolveAndCombinesIndependentArithAtoms(t *testing.T) {
	s := newTestSolver(nil)
	and := ast.NewAnd(
		ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithConst{Value: 5}},
		ast.ArithAtom{Op: ast.RelEq, Lhs: ast.ArithVar{Name: "y"}, Rhs: ast.ArithConst{Value: 3}},
	)
	res, err := s.Solve(and)
	if err != nil {
		t.Fatal(err)
	}
	if res.DFA.IsEmpty() {
		t.Fatal("x=5 and y=3 should be satisfiable")
	}
	symbols, ok := automaton.Witness(res.DFA)
	if !ok {
		t.Fatal("expected a witness")
	}
	var xi, yi int
	for i, n := range res.Order {
		if n == "x" {
			xi = i
		}
		if n == "y" {
			yi = i
		}
	}
	if automaton.DecodeValue(symbols, xi, automaton.ModeNatural) != 5 {
		t.Error("x should decode to 5")
	}
	if automaton.DecodeValue(symbols, yi, automaton.ModeNatural) != 3 {
		t.Error("y should decode to 3")
	}
}

func TestSolveOrStringLiterals(t *testing.T) {
	s := newTestSolver(nil)
	or := ast.NewOr(
		ast.StrAtom{Tag: ast.TagEq, Lhs: ast.StrVar{Name: "a"}, Rhs: ast.StrConst{Value: "cat"}},
		ast.StrAtom{Tag: ast.TagEq, Lhs: ast.StrVar{Name: "a"}, Rhs: ast.StrConst{Value: "dog"}},
	)
	res, err := s.Solve(or)
	if err != nil {
		t.Fatal(err)
	}
	if !automaton.Accepts(res.DFA, symbolsOf("cat")) || !automaton.Accepts(res.DFA, symbolsOf("dog")) {
		t.Error("or should accept both cat and dog")
	}
	if automaton.Accepts(res.DFA, symbolsOf("cow")) {
		t.Error("or should reject cow")
	}
}

func TestSolveNotComplements(t *testing.T) {
	s := newTestSolver(nil)
	not := ast.NewNot(ast.StrAtom{Tag: ast.TagEq, Lhs: ast.StrVar{Name: "a"}, Rhs: ast.StrConst{Value: "cat"}})
	res, err := s.Solve(not)
	if err != nil {
		t.Fatal(err)
	}
	if automaton.Accepts(res.DFA, symbolsOf("cat")) {
		t.Error("not(a=cat) should reject cat")
	}
	if !automaton.Accepts(res.DFA, symbolsOf("dog")) {
		t.Error("not(a=cat) should accept dog")
	}
}

func TestRefineStrLenSatisfiableWhenLengthMatches(t *testing.T) {
	sym := symtab.New()
	sym.Bind("s", symtab.FromAutomaton(symtab.ValueStringAutomaton, automaton.FromLiteral("abc")))
	s := newTestSolver(sym)
	atom := ast.ArithAtom{
		Op:  ast.RelEq,
		Lhs: ast.ArithStrLen{Of: ast.StrVar{Name: "s"}},
		Rhs: ast.ArithConst{Value: 3},
	}
	res, err := s.Solve(atom)
	if err != nil {
		t.Fatal(err)
	}
	if res.DFA.IsEmpty() {
		t.Error("str.len(s)=3 should be satisfiable when s is bound to a length-3 literal")
	}
}

func TestRefineStrLenUnsatisfiableWhenLengthMismatches(t *testing.T) {
	sym := symtab.New()
	sym.Bind("s", symtab.FromAutomaton(symtab.ValueStringAutomaton, automaton.FromLiteral("abc")))
	s := newTestSolver(sym)
	atom := ast.ArithAtom{
		Op:  ast.RelEq,
		Lhs: ast.ArithStrLen{Of: ast.StrVar{Name: "s"}},
		Rhs: ast.ArithConst{Value: 4},
	}
	res, err := s.Solve(atom)
	if err != nil {
		t.Fatal(err)
	}
	if !res.DFA.IsEmpty() {
		t.Error("str.len(s)=4 should be unsatisfiable when s is bound to a length-3 literal")
	}
}

func TestBuildStringSubstrEquality(t *testing.T) {
	s := newTestSolver(nil)
	atom := ast.StrAtom{
		Tag: ast.TagEq,
		Lhs: ast.StrSubstr{Base: ast.StrVar{Name: "base"}, Start: ast.ArithConst{Value: 1}, Len: ast.ArithConst{Value: 3}},
		Rhs: ast.StrVar{Name: "result"},
	}
	sa, err := s.BuildString(atom)
	if err != nil {
		t.Fatal(err)
	}
	var bi, ri int
	for i, n := range sa.Order {
		if n == "base" {
			bi = i
		}
		if n == "result" {
			ri = i
		}
	}
	build := func(base, result string) []uint64 {
		n := len(base)
		if len(result) > n {
			n = len(result)
		}
		out := make([]uint64, n)
		for i := 0; i < n; i++ {
			bc, rc := uint64(automaton.Lambda), uint64(automaton.Lambda)
			if i < len(base) {
				bc = uint64(base[i])
			}
			if i < len(result) {
				rc = uint64(result[i])
			}
			parts := make([]int, len(sa.Order))
			parts[bi] = int(bc)
			parts[ri] = int(rc)
			out[i] = automaton.PackSymbol(parts)
		}
		return out
	}
	if !automaton.Accepts(sa.DFA, build("xabcy", "abc")) {
		t.Error("substr(xabcy, 1, 3) should equal abc")
	}
	if automaton.Accepts(sa.DFA, build("xabcy", "abd")) {
		t.Error("substr(xabcy, 1, 3) should not equal abd")
	}
}

func TestBuildStringReplaceEquality(t *testing.T) {
	s := newTestSolver(nil)
	atom := ast.StrAtom{
		Tag: ast.TagEq,
		Lhs: ast.StrReplace{Base: ast.StrVar{Name: "base"}, From: ast.StrConst{Value: "cat"}, To: ast.StrConst{Value: "dog"}},
		Rhs: ast.StrVar{Name: "result"},
	}
	sa, err := s.BuildString(atom)
	if err != nil {
		t.Fatal(err)
	}
	var bi, ri int
	for i, n := range sa.Order {
		if n == "base" {
			bi = i
		}
		if n == "result" {
			ri = i
		}
	}
	build := func(base, result string) []uint64 {
		n := len(base)
		if len(result) > n {
			n = len(result)
		}
		out := make([]uint64, n)
		for i := 0; i < n; i++ {
			bc, rc := uint64(automaton.Lambda), uint64(automaton.Lambda)
			if i < len(base) {
				bc = uint64(base[i])
			}
			if i < len(result) {
				rc = uint64(result[i])
			}
			parts := make([]int, len(sa.Order))
			parts[bi] = int(bc)
			parts[ri] = int(rc)
			out[i] = automaton.PackSymbol(parts)
		}
		return out
	}
	if !automaton.Accepts(sa.DFA, build("concatenate", "condogenate")) {
		t.Error("replace(concatenate, cat, dog) should equal condogenate")
	}
	if automaton.Accepts(sa.DFA, build("concatenate", "concatenate")) {
		t.Error("replace(concatenate, cat, dog) should not equal the unreplaced string")
	}
	if automaton.Accepts(sa.DFA, build("concatenate", "concatenatedog")) {
		t.Error("replace must substitute in place, not append")
	}
}

func TestBuildStringReplaceFirstMatchOnly(t *testing.T) {
	s := newTestSolver(nil)
	atom := ast.StrAtom{
		Tag: ast.TagEq,
		Lhs: ast.StrReplace{Base: ast.StrVar{Name: "base"}, From: ast.StrConst{Value: "a"}, To: ast.StrConst{Value: "X"}},
		Rhs: ast.StrVar{Name: "result"},
	}
	sa, err := s.BuildString(atom)
	if err != nil {
		t.Fatal(err)
	}
	var bi, ri int
	for i, n := range sa.Order {
		if n == "base" {
			bi = i
		}
		if n == "result" {
			ri = i
		}
	}
	build := func(base, result string) []uint64 {
		n := len(base)
		if len(result) > n {
			n = len(result)
		}
		out := make([]uint64, n)
		for i := 0; i < n; i++ {
			bc, rc := uint64(automaton.Lambda), uint64(automaton.Lambda)
			if i < len(base) {
				bc = uint64(base[i])
			}
			if i < len(result) {
				rc = uint64(result[i])
			}
			parts := make([]int, len(sa.Order))
			parts[bi] = int(bc)
			parts[ri] = int(rc)
			out[i] = automaton.PackSymbol(parts)
		}
		return out
	}
	if !automaton.Accepts(sa.DFA, build("banana", "bXnana")) {
		t.Error("replace(banana, a, X) should only substitute the first a")
	}
	if automaton.Accepts(sa.DFA, build("banana", "bXnXna")) {
		t.Error("replace must not touch the second occurrence")
	}
}

func TestRefineIndexOfSatisfiableAtMatchPosition(t *testing.T) {
	sym := symtab.New()
	sym.Bind("s", symtab.FromAutomaton(symtab.ValueStringAutomaton, automaton.FromLiteral("xxcatyy")))
	s := newTestSolver(sym)
	atom := ast.ArithAtom{
		Op:  ast.RelEq,
		Lhs: ast.ArithIndexOf{Haystack: ast.StrVar{Name: "s"}, Needle: ast.StrConst{Value: "cat"}},
		Rhs: ast.ArithConst{Value: 2},
	}
	res, err := s.Solve(atom)
	if err != nil {
		t.Fatal(err)
	}
	if res.DFA.IsEmpty() {
		t.Error("indexof(s, cat) = 2 should be satisfiable when s is bound to xxcatyy")
	}
}

func TestRefineIndexOfUnsatisfiableAtWrongPosition(t *testing.T) {
	sym := symtab.New()
	sym.Bind("s", symtab.FromAutomaton(symtab.ValueStringAutomaton, automaton.FromLiteral("xxcatyy")))
	s := newTestSolver(sym)
	atom := ast.ArithAtom{
		Op:  ast.RelEq,
		Lhs: ast.ArithIndexOf{Haystack: ast.StrVar{Name: "s"}, Needle: ast.StrConst{Value: "cat"}},
		Rhs: ast.ArithConst{Value: 0},
	}
	res, err := s.Solve(atom)
	if err != nil {
		t.Fatal(err)
	}
	if !res.DFA.IsEmpty() {
		t.Error("indexof(s, cat) = 0 should be unsatisfiable when s is bound to xxcatyy")
	}
}

func TestRefineIndexOfSignedNegativeOneWhenNoMatch(t *testing.T) {
	sym := symtab.New()
	sym.Bind("s", symtab.FromAutomaton(symtab.ValueStringAutomaton, automaton.FromLiteral("dog")))
	cfg := config.Default()
	cfg.IntMode = config.Signed
	s := New(cfg, zerolog.Nop(), nil, sym)
	atom := ast.ArithAtom{
		Op:  ast.RelEq,
		Lhs: ast.ArithIndexOf{Haystack: ast.StrVar{Name: "s"}, Needle: ast.StrConst{Value: "cat"}},
		Rhs: ast.ArithConst{Value: -1},
	}
	res, err := s.Solve(atom)
	if err != nil {
		t.Fatal(err)
	}
	if res.DFA.IsEmpty() {
		t.Error("indexof(s, cat) = -1 should be satisfiable (signed mode) when s never contains cat")
	}
}

func symbolsOf(str string) []uint64 {
	out := make([]uint64, len(str))
	for i, b := range []byte(str) {
		out[i] = uint64(b)
	}
	return out
}
