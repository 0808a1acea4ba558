package automaton

// UnaryAlphabet is the tally symbol automaton over unary integers uses:
// there is exactly one symbol, and a word's length is the value it
// represents.
const UnaryAlphabet = 1

// LinearSet is one term of a semilinear set: {Base + i*Period : i >= 0}
// when Period > 0, or the singleton {Base} when Period == 0.
type LinearSet struct {
	Base   int
	Period int
}

// Contains reports whether n belongs to this linear set.
func (l LinearSet) Contains(n int) bool {
	if n < l.Base {
		return false
	}
	if l.Period == 0 {
		return n == l.Base
	}
	return (n-l.Base)%l.Period == 0
}

// Semilinear is a finite union of LinearSets: the bridge representation
// semilinear-set bridge requires between the unary integer automaton and the
// arithmetic solver's closed-form counting path.
type Semilinear struct {
	Sets []LinearSet
}

// Contains reports whether n belongs to the union.
func (s Semilinear) Contains(n int) bool {
	for _, l := range s.Sets {
		if l.Contains(n) {
			return true
		}
	}
	return false
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

func lcm(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}

// FromSemilinear builds the minimal unary automaton accepting { n : n in
// sl }. Every value is tested directly against sl's linear sets while
// constructing a bounded prefix, long enough to exhibit one full period of
// every periodic term plus a wraparound transition back into that region
// (the "tail then cycle" shape of a rho-shaped functional graph); Minimize then collapses
// it to canonical form, which also handles the degenerate finite-set case
// (no periodic terms at all) correctly since the wraparound is simply
// omitted.
func FromSemilinear(sl Semilinear) *DFA {
	period := 1
	maxBase := 0
	hasPeriodic := false
	for _, l := range sl.Sets {
		if l.Base > maxBase {
			maxBase = l.Base
		}
		if l.Period > 0 {
			hasPeriodic = true
			period = lcm(period, l.Period)
		}
	}

	if !hasPeriodic {
		horizon := maxBase + 1
		d := New(horizon+1, UnaryAlphabet)
		for n := 0; n < horizon; n++ {
			if sl.Contains(n) {
				d.SetAccept(StateID(n))
			}
			d.SetTrans(StateID(n), 0, StateID(n+1))
		}
		// horizon+1 is the standing sink: no transition needed beyond it
		// since every larger n is already known non-accepting.
		return Minimize(d)
	}

	// The cycle must start after every finite term's base, or that base
	// would be revisited once per period.
	cycleStart := maxBase
	for _, l := range sl.Sets {
		if l.Period == 0 && l.Base == maxBase {
			cycleStart = maxBase + 1
		}
	}
	horizon := cycleStart + period
	d := New(horizon, UnaryAlphabet)
	for n := 0; n < horizon; n++ {
		if sl.Contains(n) {
			d.SetAccept(StateID(n))
		}
		if n == horizon-1 {
			d.SetTrans(StateID(n), 0, StateID(horizon-period))
		} else {
			d.SetTrans(StateID(n), 0, StateID(n+1))
		}
	}
	return Minimize(d)
}

// ExtractSemilinear reads the tail+cycle shape back out of a unary
// automaton by following its single transition function (a deterministic
// functional graph over one symbol is always a "rho": a tail leading into
// a cycle) until a state repeats, splitting accepting tail states into
// singleton LinearSets and accepting cycle states into period-Period
// LinearSets. Round-tripping through FromSemilinear/ExtractSemilinear is
// the bridge's correctness property.
func ExtractSemilinear(d *DFA) Semilinear {
	visited := map[StateID]int{}
	var order []StateID
	s := d.Start
	for {
		if idx, seen := visited[s]; seen {
			tailLen := idx
			cycleLen := len(order) - idx
			var sl Semilinear
			for i := 0; i < tailLen; i++ {
				if d.IsAccept(order[i]) {
					sl.Sets = append(sl.Sets, LinearSet{Base: i, Period: 0})
				}
			}
			for i := tailLen; i < tailLen+cycleLen; i++ {
				if d.IsAccept(order[i]) {
					sl.Sets = append(sl.Sets, LinearSet{Base: i, Period: cycleLen})
				}
			}
			return sl
		}
		visited[s] = len(order)
		order = append(order, s)
		next, ok := d.Step(s, 0)
		if !ok {
			// Implicit sink: the remainder of the naturals are all rejected,
			// so there is nothing more to extract.
			var sl Semilinear
			for i, st := range order {
				if d.IsAccept(st) {
					sl.Sets = append(sl.Sets, LinearSet{Base: i, Period: 0})
				}
			}
			return sl
		}
		s = next
	}
}
