package formula

import (
	"reflect"
	"testing"

	"github.com/gitrdm/straut/pkg/ast"
)

func TestFromAtomMergesRepeatedVariable(t *testing.T) {
	// x + x = 6  ->  coeff(x)=2, const=-6 (moved to one side), op = RelEq
	atom := ast.ArithAtom{
		Op:  ast.RelEq,
		Lhs: ast.ArithAdd{Args: []ast.ArithTerm{ast.ArithVar{Name: "x"}, ast.ArithVar{Name: "x"}}},
		Rhs: ast.ArithConst{Value: 6},
	}
	f, err := FromAtom(atom)
	if err != nil {
		t.Fatal(err)
	}
	if f.Coeffs["x"] != 2 {
		t.Errorf("coeff(x) = %d, want 2", f.Coeffs["x"])
	}
	if f.Const != -6 {
		t.Errorf("const = %d, want -6", f.Const)
	}
	if !reflect.DeepEqual(f.VarOrder, []string{"x"}) {
		t.Errorf("VarOrder = %v, want [x]", f.VarOrder)
	}
}

func TestFromAtomSubtraction(t *testing.T) {
	// x - y = 3
	atom := ast.ArithAtom{
		Op:  ast.RelEq,
		Lhs: ast.ArithSub{Lhs: ast.ArithVar{Name: "x"}, Rhs: ast.ArithVar{Name: "y"}},
		Rhs: ast.ArithConst{Value: 3},
	}
	f, err := FromAtom(atom)
	if err != nil {
		t.Fatal(err)
	}
	if f.Coeffs["x"] != 1 || f.Coeffs["y"] != -1 {
		t.Errorf("coeffs = %v, want x:1 y:-1", f.Coeffs)
	}
	if f.Const != -3 {
		t.Errorf("const = %d, want -3", f.Const)
	}
}

func TestFromAtomMixedTermRejected(t *testing.T) {
	atom := ast.ArithAtom{
		Op:  ast.RelEq,
		Lhs: ast.ArithStrLen{Of: ast.StrVar{Name: "s"}},
		Rhs: ast.ArithConst{Value: 3},
	}
	_, err := FromAtom(atom)
	if err == nil {
		t.Fatal("expected a MixedTermError")
	}
	if _, ok := err.(*MixedTermError); !ok {
		t.Errorf("got %T, want *MixedTermError", err)
	}
}

func TestCoeffSliceFollowsVarOrder(t *testing.T) {
	f := &ArithFormula{VarOrder: []string{"a", "b"}, Coeffs: map[string]int64{"a": 2, "b": -1}}
	got := f.CoeffSlice()
	want := []int64{2, -1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CoeffSlice() = %v, want %v", got, want)
	}
}

func TestUnionOrder(t *testing.T) {
	got := UnionOrder([]string{"b", "a"}, []string{"c", "a"})
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("UnionOrder = %v, want %v", got, want)
	}
}
