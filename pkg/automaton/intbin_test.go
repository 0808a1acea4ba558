package automaton

import (
	"testing"

	"github.com/gitrdm/straut/pkg/ast"
)

// bitsOf encodes a non-negative integer as an LSB-first bit stream over a
// single-variable alphabet, padded to the requested length with zero bits.
func bitsOf(n int64, length int) []uint64 {
	out := make([]uint64, length)
	for i := 0; i < length; i++ {
		out[i] = uint64(n & 1)
		n >>= 1
	}
	return out
}

func TestLinearRelationEquality(t *testing.T) {
	// x == 5
	d := LinearRelation([]int64{1}, -5, ast.RelEq, ModeNatural)
	for n := int64(0); n < 16; n++ {
		want := n == 5
		got := Accepts(d, bitsOf(n, 5))
		if got != want {
			t.Errorf("x=%d: want %v, got %v", n, want, got)
		}
	}
}

func TestLinearRelationSum(t *testing.T) {
	// x + y == 7, two variables packed per symbol: bit0=x, bit1=y
	d := LinearRelation([]int64{1, 1}, -7, ast.RelEq, ModeNatural)
	for x := int64(0); x < 8; x++ {
		for y := int64(0); y < 8; y++ {
			want := x+y == 7
			length := 5
			symbols := make([]uint64, length)
			for i := 0; i < length; i++ {
				xb := (x >> uint(i)) & 1
				yb := (y >> uint(i)) & 1
				symbols[i] = uint64(xb) | uint64(yb)<<1
			}
			got := Accepts(d, symbols)
			if got != want {
				t.Errorf("x=%d y=%d: want %v, got %v", x, y, want, got)
			}
		}
	}
}

// bitsOfSigned encodes n as a two's-complement LSB-first bit stream of the
// requested width; Go's int64->uint64 conversion already produces the
// two's-complement bit pattern, so this just reads width bits off of it.
func bitsOfSigned(n int64, width int) []uint64 {
	u := uint64(n)
	out := make([]uint64, width)
	for i := 0; i < width; i++ {
		out[i] = (u >> uint(i)) & 1
	}
	return out
}

func TestLinearRelationSignedAcceptsNegativeValues(t *testing.T) {
	// x + 3 == 0, i.e. x == -3, under two's-complement signed encoding.
	d := LinearRelation([]int64{1}, 3, ast.RelEq, ModeSigned)
	for _, n := range []int64{-3, -1, 0, 2, -8, 5} {
		want := n == -3
		got := Accepts(d, bitsOfSigned(n, 4))
		if got != want {
			t.Errorf("x=%d (width 4): want %v, got %v", n, want, got)
		}
	}
}

func TestLinearRelationSignedSumOfNegatives(t *testing.T) {
	// x + y == -5, two variables packed per symbol: bit0=x, bit1=y.
	d := LinearRelation([]int64{1, 1}, 5, ast.RelEq, ModeSigned)
	width := 5
	for x := int64(-8); x < 8; x++ {
		for y := int64(-8); y < 8; y++ {
			want := x+y == -5
			xb := bitsOfSigned(x, width)
			yb := bitsOfSigned(y, width)
			symbols := make([]uint64, width)
			for i := 0; i < width; i++ {
				symbols[i] = xb[i] | yb[i]<<1
			}
			got := Accepts(d, symbols)
			if got != want {
				t.Errorf("x=%d y=%d: want %v, got %v", x, y, want, got)
			}
		}
	}
}

func TestLinearRelationLessEqual(t *testing.T) {
	// x <= 3
	d := LinearRelation([]int64{1}, -3, ast.RelLe, ModeNatural)
	for n := int64(0); n < 10; n++ {
		want := n <= 3
		got := Accepts(d, bitsOf(n, 5))
		if got != want {
			t.Errorf("x=%d: want %v, got %v", n, want, got)
		}
	}
}
