package automaton

import "testing"

func TestFromLiteralAccepts(t *testing.T) {
	d := FromLiteral("cat")
	cases := []struct {
		in   string
		want bool
	}{
		{"cat", true},
		{"ca", false},
		{"cats", false},
		{"", false},
	}
	for _, c := range cases {
		got := Accepts(d, symbolsOf(c.in))
		if got != c.want {
			t.Errorf("Accepts(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIntersectUnionDifference(t *testing.T) {
	a := FromLiteral("cat")
	b := FromLiteral("car")

	inter, err := Intersect(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !inter.IsEmpty() {
		t.Error("Intersect(cat, car) should be empty")
	}

	union, err := Union(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if !Accepts(union, symbolsOf("cat")) || !Accepts(union, symbolsOf("car")) {
		t.Error("Union(cat, car) must accept both")
	}
	if Accepts(union, symbolsOf("cap")) {
		t.Error("Union(cat, car) must not accept cap")
	}

	diff, err := Difference(union, a)
	if err != nil {
		t.Fatal(err)
	}
	if !Accepts(diff, symbolsOf("car")) || Accepts(diff, symbolsOf("cat")) {
		t.Error("Difference(union, cat) should accept only car")
	}
}

func TestComplement(t *testing.T) {
	a := FromLiteral("x")
	comp := Complement(a)
	if Accepts(comp, symbolsOf("x")) {
		t.Error("complement must not accept x")
	}
	if !Accepts(comp, symbolsOf("")) {
		t.Error("complement must accept the empty string")
	}
	if !Accepts(comp, symbolsOf("xx")) {
		t.Error("complement must accept xx")
	}
}

func TestEquivalent(t *testing.T) {
	a, err := Union(FromLiteral("ab"), FromLiteral("ab"))
	if err != nil {
		t.Fatal(err)
	}
	eq, err := Equivalent(a, FromLiteral("ab"))
	if err != nil {
		t.Fatal(err)
	}
	if !eq {
		t.Error("Union(ab, ab) should equal ab")
	}
}

func TestMinimizeIdempotent(t *testing.T) {
	d := FromLiteral("banana")
	once := Minimize(d)
	twice := Minimize(once)
	if once.NumStates != twice.NumStates {
		t.Errorf("minimize not idempotent: %d vs %d states", once.NumStates, twice.NumStates)
	}
}

func TestWitness(t *testing.T) {
	a, err := Union(FromLiteral("zz"), FromLiteral("a"))
	if err != nil {
		t.Fatal(err)
	}
	symbols, ok := Witness(a)
	if !ok {
		t.Fatal("expected a witness")
	}
	if !Accepts(a, symbols) {
		t.Error("witness must be accepted by the automaton it came from")
	}
	if len(symbols) != 1 {
		t.Errorf("shortest witness should have length 1, got %d", len(symbols))
	}
}

func TestWitnessEmptyLanguage(t *testing.T) {
	_, ok := Witness(NoString())
	if ok {
		t.Error("Phi automaton must have no witness")
	}
}

func symbolsOf(s string) []uint64 {
	out := make([]uint64, len(s))
	for i, b := range []byte(s) {
		out[i] = uint64(b)
	}
	return out
}
