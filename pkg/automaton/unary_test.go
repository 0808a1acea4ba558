package automaton

import "testing"

func TestSemilinearRoundTrip(t *testing.T) {
	sl := Semilinear{Sets: []LinearSet{
		{Base: 0, Period: 0},
		{Base: 3, Period: 0},
		{Base: 5, Period: 2},
	}}
	d := FromSemilinear(sl)
	got := ExtractSemilinear(d)
	for n := 0; n < 30; n++ {
		want := sl.Contains(n)
		have := got.Contains(n)
		if want != have {
			t.Errorf("n=%d: want %v, got %v", n, want, have)
		}
	}
}

func TestSemilinearFiniteSet(t *testing.T) {
	sl := Semilinear{Sets: []LinearSet{{Base: 2, Period: 0}, {Base: 4, Period: 0}}}
	d := FromSemilinear(sl)
	for n := 0; n < 10; n++ {
		want := n == 2 || n == 4
		got := Accepts(d, make([]uint64, n))
		if got != want {
			t.Errorf("n=%d: want %v, got %v", n, want, got)
		}
	}
}

func TestSemilinearPurePeriod(t *testing.T) {
	sl := Semilinear{Sets: []LinearSet{{Base: 1, Period: 3}}}
	d := FromSemilinear(sl)
	for n := 0; n < 20; n++ {
		want := n >= 1 && (n-1)%3 == 0
		got := Accepts(d, make([]uint64, n))
		if got != want {
			t.Errorf("n=%d: want %v, got %v", n, want, got)
		}
	}
}
