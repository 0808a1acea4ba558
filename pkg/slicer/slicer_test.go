package slicer

import (
	"testing"

	"github.com/gitrdm/straut/pkg/ast"
)

func eq(lhs, rhs ast.ArithTerm) ast.ArithAtom {
	return ast.ArithAtom{Op: ast.RelEq, Lhs: lhs, Rhs: rhs}
}

func v(name string) ast.ArithVar { return ast.ArithVar{Name: name} }

func TestSliceSeparatesIndependentGroups(t *testing.T) {
	atoms := []ast.BoolTerm{
		eq(v("x"), ast.ArithConst{Value: 1}),
		eq(v("y"), ast.ArithConst{Value: 2}),
	}
	comps := Slice(atoms)
	if len(comps) != 2 {
		t.Fatalf("got %d components, want 2", len(comps))
	}
}

func TestSliceMergesSharedVariable(t *testing.T) {
	atoms := []ast.BoolTerm{
		eq(v("x"), v("y")),
		eq(v("y"), ast.ArithConst{Value: 2}),
		eq(v("z"), ast.ArithConst{Value: 9}),
	}
	comps := Slice(atoms)
	if len(comps) != 2 {
		t.Fatalf("got %d components, want 2", len(comps))
	}
	var sizes []int
	for _, c := range comps {
		sizes = append(sizes, len(c.Atoms))
	}
	found2, found1 := false, false
	for _, s := range sizes {
		if s == 2 {
			found2 = true
		}
		if s == 1 {
			found1 = true
		}
	}
	if !found2 || !found1 {
		t.Errorf("component sizes = %v, want one of size 2 and one of size 1", sizes)
	}
}

func TestSliceGroundAtomsGetSingletonComponents(t *testing.T) {
	atoms := []ast.BoolTerm{
		ast.BoolConst{Value: true},
		ast.BoolConst{Value: false},
	}
	comps := Slice(atoms)
	if len(comps) != 2 {
		t.Fatalf("got %d components, want 2 singleton ground components", len(comps))
	}
}

func TestSliceHandlesOrAndNotConjuncts(t *testing.T) {
	atoms := []ast.BoolTerm{
		ast.NewOr(eq(v("x"), ast.ArithConst{Value: 1}), eq(v("x"), ast.ArithConst{Value: 2})),
		ast.NewNot(eq(v("x"), ast.ArithConst{Value: 1})),
		eq(v("y"), ast.ArithConst{Value: 9}),
	}
	comps := Slice(atoms)
	if len(comps) != 2 {
		t.Fatalf("got %d components, want 2 (x's Or/Not pair, and y alone)", len(comps))
	}
	var sizes []int
	for _, c := range comps {
		sizes = append(sizes, len(c.Atoms))
	}
	found2, found1 := false, false
	for _, s := range sizes {
		if s == 2 {
			found2 = true
		}
		if s == 1 {
			found1 = true
		}
	}
	if !found2 || !found1 {
		t.Errorf("component sizes = %v, want one of size 2 (x) and one of size 1 (y)", sizes)
	}
}

func TestAtomCostOrdering(t *testing.T) {
	pureArith := eq(v("x"), ast.ArithConst{Value: 1})
	mixedArith := eq(ast.ArithStrLen{Of: ast.StrVar{Name: "s"}}, ast.ArithConst{Value: 1})
	strVsStr := ast.StrAtom{Tag: ast.TagEq, Lhs: ast.StrVar{Name: "a"}, Rhs: ast.StrVar{Name: "b"}}
	strVsLit := ast.StrAtom{Tag: ast.TagEq, Lhs: ast.StrVar{Name: "a"}, Rhs: ast.StrConst{Value: "lit"}}

	if AtomCost(pureArith) != 0 {
		t.Errorf("AtomCost(pure arith) = %d, want 0", AtomCost(pureArith))
	}
	if AtomCost(strVsLit) != 1 {
		t.Errorf("AtomCost(str vs literal) = %d, want 1", AtomCost(strVsLit))
	}
	if AtomCost(strVsStr) != 2 {
		t.Errorf("AtomCost(str vs str) = %d, want 2", AtomCost(strVsStr))
	}
	if AtomCost(mixedArith) != 3 {
		t.Errorf("AtomCost(mixed) = %d, want 3", AtomCost(mixedArith))
	}
}

func TestSortByCostIsStableAndAscending(t *testing.T) {
	mixedArith := eq(ast.ArithStrLen{Of: ast.StrVar{Name: "s"}}, ast.ArithConst{Value: 1})
	pureArith := eq(v("x"), ast.ArithConst{Value: 1})
	atoms := []ast.BoolTerm{mixedArith, pureArith}
	sorted := SortByCost(atoms)
	if AtomCost(sorted[0]) > AtomCost(sorted[1]) {
		t.Errorf("SortByCost did not sort ascending: %v", sorted)
	}
}
