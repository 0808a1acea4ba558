package automaton

import "testing"

func TestContainsLiteral(t *testing.T) {
	d := ContainsLiteral("cat")
	cases := map[string]bool{
		"cat":       true,
		"xxcatyy":   true,
		"concatena": true,
		"dog":       false,
		"ca":        false,
	}
	for s, want := range cases {
		got := Accepts(d, symbolsOf(s))
		if got != want {
			t.Errorf("ContainsLiteral(cat).Accepts(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestNoSubstringTrack(t *testing.T) {
	d := NoSubstringTrack("cat")
	accept := func(s string) bool {
		syms := make([]uint64, len(s)+1)
		for i, b := range []byte(s) {
			syms[i] = uint64(b)
		}
		syms[len(s)] = Lambda
		return Accepts(d, syms)
	}
	if !accept("dog") {
		t.Error("dog should not contain cat")
	}
	if accept("concatenate") {
		t.Error("concatenate contains cat, should be rejected")
	}
	if !accept("") {
		t.Error("the empty track never contains cat")
	}
}

func TestIndexOfSemilinearLiteralHaystack(t *testing.T) {
	h := FromLiteral("xxcatyy")
	sl := IndexOfSemilinear(h, "cat")
	if !sl.Contains(2) {
		t.Error("cat occurs at position 2 in xxcatyy")
	}
	if sl.Contains(0) || sl.Contains(1) || sl.Contains(3) {
		t.Error("cat occurs only at position 2 in xxcatyy")
	}
}

func TestIndexOfSemilinearNoMatch(t *testing.T) {
	h := FromLiteral("dog")
	sl := IndexOfSemilinear(h, "cat")
	if len(sl.Sets) != 0 {
		t.Error("dog never contains cat, no position should be reported")
	}
}
