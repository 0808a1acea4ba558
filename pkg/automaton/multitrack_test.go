package automaton

import "testing"

func packLiterals(tracks ...string) []uint64 {
	maxLen := 0
	for _, t := range tracks {
		if len(t) > maxLen {
			maxLen = len(t)
		}
	}
	out := make([]uint64, maxLen)
	for pos := 0; pos < maxLen; pos++ {
		parts := make([]int, len(tracks))
		for i, t := range tracks {
			if pos < len(t) {
				parts[i] = int(t[pos])
			} else {
				parts[i] = Lambda
			}
		}
		out[pos] = PackSymbol(parts)
	}
	return out
}

func TestMultiTrackEquality(t *testing.T) {
	eq := Equality(2)
	if !Accepts(eq, packLiterals("abc", "abc")) {
		t.Error("equal tracks must be accepted")
	}
	if Accepts(eq, packLiterals("abc", "abd")) {
		t.Error("differing tracks must be rejected")
	}
	if Accepts(eq, packLiterals("ab", "abc")) {
		t.Error("differing lengths must be rejected")
	}
}

func TestConcatRelation(t *testing.T) {
	rel := ConcatRelation()
	if !Accepts(rel, packLiterals("foobar", "foo", "bar")) {
		t.Error("foobar = foo ++ bar should be accepted")
	}
	if Accepts(rel, packLiterals("foobaz", "foo", "bar")) {
		t.Error("foobaz != foo ++ bar, should be rejected")
	}
	if !Accepts(rel, packLiterals("bar", "", "bar")) {
		t.Error("empty-left concat should be accepted")
	}
}

func TestDropTrack(t *testing.T) {
	rel := ConcatRelation()
	projected := DropTrack(rel, 3, 2)
	if !Accepts(projected, packLiterals("foobar", "foo")) {
		t.Error("dropping the right operand should still accept a consistent prefix")
	}
}

func TestExtractTrack(t *testing.T) {
	symbols := packLiterals("hello", "hi")
	got := ExtractTrack(symbols, 2, 0)
	if got != "hello" {
		t.Errorf("ExtractTrack track 0 = %q, want hello", got)
	}
	got1 := ExtractTrack(symbols, 2, 1)
	if got1 != "hi" {
		t.Errorf("ExtractTrack track 1 = %q, want hi", got1)
	}
}
