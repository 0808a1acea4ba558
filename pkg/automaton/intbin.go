package automaton

import "github.com/gitrdm/straut/pkg/ast"

// IntMode selects how a variable's binary encoding is interpreted: as a
// non-negative natural number (LSB-first, terminated by an infinite run of
// 0-bits) or as a two's-complement signed integer (terminated by an
// infinite run of its sign bit). Signed mode is supported for fixed-width
// runs (every variable's sign bit is read simultaneously with the others,
// which is the representation the counting layer actually uses: widths
// are bounded by the solver's configured bit budget, not truly infinite).
type IntMode int

const (
	ModeNatural IntMode = iota
	ModeSigned
)

// equalityAutomaton builds the automaton for `sum(coeffs[i]*x_i) + const ==
// 0`, reading one bit of every variable per step, least-significant bit
// first, via the carry-state construction (Boudet & Comon's Diophantine
// automaton): state after k bits is the carry c_k with c_0 = const and
// c_{k+1} = (c_k + dot(coeffs, bits_k)) / 2, defined only when that
// quotient is exact.
//
// What a word is allowed to end on depends on mode. In natural mode every
// variable is implicitly padded with an infinite run of 0-bits past the
// explicit word, so acceptance requires the carry to have already reached
// (and then stay at) its zero-continuation fixed point, 0. In signed
// two's-complement mode each variable's own trailing bit is instead its
// sign bit, repeated forever independently of the others; continuing
// variable i's stream forever with bit sigma_i contributes -sigma_i *
// 2^k to its value at bit position k (the standard sign-extension
// identity), which works out to the carry needing to settle at
// dot(coeffs, sigma) rather than 0. Since sigma ranges over {0,1}^n, a
// carry value is accepting in signed mode iff it equals *some* such
// dot(coeffs, sigma) — see signExtensionFixedPoints.
//
// The carry's magnitude never exceeds B = |const| + sum(|coeffs|): each
// step contracts by half after adding at most sum(|coeffs|), so once the
// carry is within that band it never leaves it, which keeps the state
// space finite without any separate overflow handling. Every
// dot(coeffs, sigma) is bounded by sum(|coeffs|) <= B, so the signed
// accept set always falls within the same state space.
func equalityAutomaton(coeffs []int64, constant int64, mode IntMode) *DFA {
	n := len(coeffs)
	alphabet := uint64(1) << uint(n)

	bound := constant
	if bound < 0 {
		bound = -bound
	}
	for _, c := range coeffs {
		if c < 0 {
			bound += -c
		} else {
			bound += c
		}
	}

	span := int(2*bound + 1)
	carryToState := func(c int64) StateID { return StateID(c + bound) }

	d := New(span, alphabet)
	d.Start = carryToState(constant)

	acceptCarry := signExtensionFixedPoints(coeffs, mode)
	if acceptCarry[constant] {
		d.SetAccept(d.Start)
	}

	dot := func(sym uint64) int64 {
		var s int64
		for i := 0; i < n; i++ {
			if (sym>>uint(i))&1 == 1 {
				s += coeffs[i]
			}
		}
		return s
	}

	for c := -bound; c <= bound; c++ {
		from := carryToState(c)
		if acceptCarry[c] {
			d.SetAccept(from)
		}
		for sym := uint64(0); sym < alphabet; sym++ {
			num := c + dot(sym)
			if num%2 != 0 {
				continue // no valid transition: this bit combo is parity-inconsistent
			}
			next := num / 2
			if next < -bound || next > bound {
				continue // cannot happen given the bound above, kept as a guard
			}
			d.SetTrans(from, sym, carryToState(next))
		}
	}

	return Minimize(d)
}

// signExtensionFixedPoints returns the set of carry values a word may
// legitimately end on. Natural mode allows only the zero-continuation
// fixed point, 0. Signed mode allows dot(coeffs, sigma) for every sigma in
// {0,1}^n, one per possible combination of which variables carry a
// negative (sign-bit-1) trailing stream; sigma = 0 reduces to the natural
// case, so this set always contains 0 too.
func signExtensionFixedPoints(coeffs []int64, mode IntMode) map[int64]bool {
	out := map[int64]bool{0: true}
	if mode != ModeSigned {
		return out
	}
	n := len(coeffs)
	for sigma := uint64(0); sigma < uint64(1)<<uint(n); sigma++ {
		var sum int64
		for i := 0; i < n; i++ {
			if (sigma>>uint(i))&1 == 1 {
				sum += coeffs[i]
			}
		}
		out[sum] = true
	}
	return out
}

// LinearRelation constructs the automaton for `sum(coeffs[i]*x_i) + const
// op 0`. Inequalities are reduced to equality with a fresh non-negative
// slack variable (`a.x + c <= 0` iff `exists s>=0: a.x + s + c = 0`, and
// symmetrically for the other three inequality directions), then that
// extra track is existentially quantified away with Project — the same
// reduction ABC-family solvers use instead of tracking carry sign
// separately.
func LinearRelation(coeffs []int64, constant int64, op ast.RelOp, mode IntMode) *DFA {
	n := len(coeffs)
	switch op {
	case ast.RelEq:
		return equalityAutomaton(coeffs, constant, mode)
	case ast.RelNe:
		return Complement(equalityAutomaton(coeffs, constant, mode))
	case ast.RelLe:
		return withSlack(coeffs, constant, 1, n, mode)
	case ast.RelGe:
		return withSlack(coeffs, constant, -1, n, mode)
	case ast.RelLt:
		return withSlack(coeffs, constant+1, 1, n, mode)
	case ast.RelGt:
		return withSlack(coeffs, constant-1, -1, n, mode)
	default:
		return Phi(uint64(1) << uint(n))
	}
}

func withSlack(coeffs []int64, constant int64, slackCoeff int64, n int, mode IntMode) *DFA {
	extended := append(append([]int64{}, coeffs...), slackCoeff)
	eq := equalityAutomaton(extended, constant, mode)
	if mode == ModeSigned {
		// Two's complement: a non-negative slack ends in a 0 sign bit.
		slackBit := uint64(1) << uint(n)
		nonNeg := New(2, slackBit<<1)
		nonNeg.SetAccept(0)
		for sym := uint64(0); sym < slackBit<<1; sym++ {
			to := StateID(0)
			if sym&slackBit != 0 {
				to = 1
			}
			nonNeg.SetTrans(0, sym, to)
			nonNeg.SetTrans(1, sym, to)
		}
		eq, _ = Intersect(eq, nonNeg)
	}
	newAlphabet := uint64(1) << uint(n)
	mask := newAlphabet - 1
	return Project(eq, newAlphabet, func(old uint64) uint64 {
		return old & mask
	})
}

// AnyInt returns the automaton accepting every binary encoding over n
// variables (Z^n, unconstrained).
func AnyInt(n int) *DFA {
	alphabet := uint64(1) << uint(n)
	d := New(1, alphabet)
	d.SetAccept(0)
	for sym := uint64(0); sym < alphabet; sym++ {
		d.SetTrans(0, sym, 0)
	}
	return d
}

// DecodeValue reconstructs the integer represented by a finite bit prefix
// of one variable's track (LSB-first), used when reporting a witness value
// picked from Witness's returned symbol sequence.
func DecodeValue(bits []uint64, varIndex int, mode IntMode) int64 {
	var v int64
	for i, sym := range bits {
		bit := (sym >> uint(varIndex)) & 1
		if bit == 1 {
			v |= int64(1) << uint(i)
		}
	}
	if mode == ModeSigned && len(bits) > 0 {
		signBit := (bits[len(bits)-1] >> uint(varIndex)) & 1
		if signBit == 1 {
			v -= int64(1) << uint(len(bits))
		}
	}
	return v
}
