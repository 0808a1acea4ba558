package formula

import (
	"testing"

	"github.com/gitrdm/straut/pkg/ast"
)

func TestFromStrAtomPreservesTag(t *testing.T) {
	atom := ast.StrAtom{
		Tag: ast.TagContains,
		Lhs: ast.StrVar{Name: "full"},
		Rhs: ast.StrVar{Name: "needle"},
	}
	f := FromStrAtom(atom)
	if f.Tag != ast.TagContains {
		t.Errorf("Tag = %v, want TagContains", f.Tag)
	}
	if f.Lhs != atom.Lhs || f.Rhs != atom.Rhs {
		t.Error("Lhs/Rhs not preserved")
	}
}

func TestParticipantsCollectsBothSides(t *testing.T) {
	f := &StringFormula{
		Lhs: ast.StrVar{Name: "a"},
		Rhs: ast.StrVar{Name: "b"},
	}
	got := f.Participants()
	if len(got) != 2 {
		t.Fatalf("Participants() = %v, want 2 entries", got)
	}
	names := map[string]bool{got[0].Name: true, got[1].Name: true}
	if !names["a"] || !names["b"] {
		t.Errorf("Participants() = %v, want a and b", got)
	}
}

func TestParticipantsSingleSided(t *testing.T) {
	f := &StringFormula{Lhs: ast.StrVar{Name: "a"}}
	got := f.Participants()
	if len(got) != 1 || got[0].Name != "a" {
		t.Errorf("Participants() = %v, want [a]", got)
	}
}
