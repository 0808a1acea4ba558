package solve

import (
	"fmt"
	"strings"

	"github.com/gitrdm/straut/internal/errs"
	"github.com/gitrdm/straut/pkg/ast"
	"github.com/gitrdm/straut/pkg/automaton"
)

// StringAutomaton pairs a constraint automaton with the track layout
// (which string variable rides which track index) it was built over.
type StringAutomaton struct {
	DFA   *automaton.DFA
	Order []string
}

// BuildString compiles a single string atom. Atoms whose participants are
// all literal constants or a single variable are built directly over the
// single-track alphabet; atoms comparing two variables go through the
// multi-track relations.
func (s *Solver) BuildString(atom ast.StrAtom) (*StringAutomaton, error) {
	switch atom.Tag {
	case ast.TagEq, ast.TagNotEq:
		return s.buildEquality(atom)
	case ast.TagBegins:
		return s.buildPrefix(atom)
	case ast.TagEnds:
		return s.buildSuffix(atom)
	case ast.TagContains:
		return s.buildContains(atom)
	case ast.TagCharAtEq:
		return s.buildCharAt(atom)
	case ast.TagInRe:
		return s.buildInRe(atom)
	default:
		return nil, errs.Newf(errs.KindUnsupported, "solve.BuildString", "unknown string tag %v", atom.Tag)
	}
}

func (s *Solver) buildEquality(atom ast.StrAtom) (*StringAutomaton, error) {
	if atom.Tag == ast.TagEq {
		if _, ok := atom.Lhs.(ast.StrConcat); ok {
			return s.buildConcatEquality(atom.Lhs.(ast.StrConcat), atom.Rhs)
		}
		if _, ok := atom.Rhs.(ast.StrConcat); ok {
			return s.buildConcatEquality(atom.Rhs.(ast.StrConcat), atom.Lhs)
		}
		if sub, ok := atom.Lhs.(ast.StrSubstr); ok {
			return s.buildSubstrEquality(sub, atom.Rhs)
		}
		if sub, ok := atom.Rhs.(ast.StrSubstr); ok {
			return s.buildSubstrEquality(sub, atom.Lhs)
		}
		if rep, ok := atom.Lhs.(ast.StrReplace); ok {
			return s.buildReplaceEquality(rep, atom.Rhs)
		}
		if rep, ok := atom.Rhs.(ast.StrReplace); ok {
			return s.buildReplaceEquality(rep, atom.Lhs)
		}
	}
	lv, lok := atom.Lhs.(ast.StrVar)
	rv, rok := atom.Rhs.(ast.StrVar)
	if lok && rok {
		d := automaton.Equality(2)
		if atom.Tag == ast.TagNotEq {
			d = automaton.Complement(d)
		}
		return &StringAutomaton{DFA: d, Order: []string{lv.Name, rv.Name}}, nil
	}
	// variable compared against a literal: single-track membership test
	if lok {
		lit, ok := atom.Rhs.(ast.StrConst)
		if !ok {
			return nil, errs.Newf(errs.KindUnsupported, "solve.buildEquality", "non-constant rhs")
		}
		d := automaton.FromLiteral(lit.Value)
		if atom.Tag == ast.TagNotEq {
			d = automaton.Complement(d)
		}
		return &StringAutomaton{DFA: d, Order: []string{lv.Name}}, nil
	}
	return nil, errs.Newf(errs.KindUnsupported, "solve.buildEquality", "str.= requires at least one variable operand")
}

func (s *Solver) buildPrefix(atom ast.StrAtom) (*StringAutomaton, error) {
	// str.prefixof prefix full: accepts when prefix is a prefix of full,
	// i.e. exists a suffix track such that full = prefix ++ suffix.
	return s.buildConcatRelation(atom.Lhs, atom.Rhs, 2)
}

func (s *Solver) buildSuffix(atom ast.StrAtom) (*StringAutomaton, error) {
	// str.suffixof suffix full: exists a prefix track such that full =
	// prefix ++ suffix.
	return s.buildConcatRelation(atom.Rhs, atom.Lhs, 1)
}

func (s *Solver) buildContains(atom ast.StrAtom) (*StringAutomaton, error) {
	// str.contains full needle: exists prefix, suffix such that full =
	// prefix ++ needle ++ suffix. Built by joining two ConcatRelations on a
	// shared synthetic "mid = needle ++ suffix" track, then projecting
	// every synthetic track away.
	full, fok := atom.Lhs.(ast.StrVar)
	needle, nok := atom.Rhs.(ast.StrVar)
	if !fok || !nok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildContains", "requires two string variables")
	}
	mid, prefix, suffix := "#mid", "#prefix", "#suffix"
	rel1 := automaton.NamedTracks{DFA: automaton.ConcatRelation(), Tracks: []string{mid, needle.Name, suffix}}
	rel2 := automaton.NamedTracks{DFA: automaton.ConcatRelation(), Tracks: []string{full.Name, prefix, mid}}
	joined, err := automaton.Join(rel1, rel2)
	if err != nil {
		return nil, err
	}
	joined = automaton.DropNamedTrack(joined, prefix)
	joined = automaton.DropNamedTrack(joined, mid)
	joined = automaton.DropNamedTrack(joined, suffix)
	return &StringAutomaton{DFA: joined.DFA, Order: joined.Tracks}, nil
}

func (s *Solver) buildCharAt(atom ast.StrAtom) (*StringAutomaton, error) {
	at, ok := atom.Lhs.(ast.StrAt)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildCharAt", "lhs must be str.at")
	}
	base, ok := at.Base.(ast.StrVar)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildCharAt", "str.at base must be a variable")
	}
	idx, ok := at.Index.(ast.ArithConst)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildCharAt", "str.at index must be constant (non-constant index needs the refinement loop)")
	}
	lit, ok := atom.Rhs.(ast.StrConst)
	if !ok || len(lit.Value) != 1 {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildCharAt", "rhs must be a single-character literal")
	}
	d := charAtAutomaton(int(idx.Value), lit.Value[0])
	return &StringAutomaton{DFA: d, Order: []string{base.Name}}, nil
}

func charAtAutomaton(index int, ch byte) *automaton.DFA {
	d := automaton.New(index+2, automaton.StringAlphabet)
	for i := 0; i < index; i++ {
		for sym := uint64(0); sym < automaton.StringAlphabet; sym++ {
			d.SetTrans(automaton.StateID(i), sym, automaton.StateID(i+1))
		}
	}
	d.SetTrans(automaton.StateID(index), uint64(ch), automaton.StateID(index+1))
	accept := automaton.StateID(index + 1)
	d.SetAccept(accept)
	for sym := uint64(0); sym < automaton.StringAlphabet; sym++ {
		d.SetTrans(accept, sym, accept)
	}
	return automaton.Minimize(d)
}

func (s *Solver) buildInRe(atom ast.StrAtom) (*StringAutomaton, error) {
	v, ok := atom.Lhs.(ast.StrVar)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildInRe", "lhs must be a variable")
	}
	d, err := automaton.FromRegex(atom.Re)
	if err != nil {
		return nil, err
	}
	return &StringAutomaton{DFA: d, Order: []string{v.Name}}, nil
}

// buildConcatRelation builds the 2-track relation "part is part of whole"
// (prefix-of when sideIndex==2 i.e. whole=part++suffix, suffix-of when
// sideIndex==1 i.e. whole=prefix++part) by projecting the free third
// track out of ConcatRelation.
func (s *Solver) buildConcatRelation(part, whole ast.StrTerm, sideIndex int) (*StringAutomaton, error) {
	pv, pok := part.(ast.StrVar)
	wv, wok := whole.(ast.StrVar)
	if !pok || !wok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildConcatRelation", "requires two string variables")
	}
	rel := automaton.ConcatRelation() // tracks [whole, left, right]
	var dropIdx int
	var order []string
	if sideIndex == 2 {
		// whole = part ++ (free suffix): drop track 2 (right)
		dropIdx = 2
		order = []string{wv.Name, pv.Name}
	} else {
		// whole = (free prefix) ++ part: drop track 1 (left)
		dropIdx = 1
		order = []string{wv.Name, pv.Name}
	}
	projected := automaton.DropTrack(rel, 3, dropIdx)
	return &StringAutomaton{DFA: projected, Order: order}, nil
}

// buildConcatEquality builds "whole = arg[0] ++ arg[1] ++ ... ++ arg[n-1]"
// for an n-ary str.++ equated to a variable. Each argument is either a
// variable (its own named track) or a literal (a fresh synthetic track
// constrained to that literal), folded pairwise through ConcatRelation the
// same way buildContains composes two ConcatRelations on a shared
// synthetic track, rather than a bespoke n-ary relation.
func (s *Solver) buildConcatEquality(concat ast.StrConcat, wholeTerm ast.StrTerm) (*StringAutomaton, error) {
	whole, ok := wholeTerm.(ast.StrVar)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildConcatEquality", "the non-concat side of a str.++ equality must be a variable")
	}
	if len(concat.Args) < 2 {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildConcatEquality", "str.++ requires at least two arguments")
	}

	names := make([]string, len(concat.Args))
	var literals []automaton.NamedTracks
	for i, arg := range concat.Args {
		switch t := arg.(type) {
		case ast.StrVar:
			names[i] = t.Name
		case ast.StrConst:
			synth := fmt.Sprintf("#lit%d", i)
			names[i] = synth
			literals = append(literals, automaton.NamedTracks{DFA: literalTrackAutomaton(t.Value), Tracks: []string{synth}})
		default:
			return nil, errs.Newf(errs.KindUnsupported, "solve.buildConcatEquality", "str.++ argument must be a variable or literal")
		}
	}

	accName := names[0]
	var acc automaton.NamedTracks
	for i := 1; i < len(names); i++ {
		resultName := fmt.Sprintf("#fold%d", i)
		if i == len(names)-1 {
			resultName = whole.Name
		}
		rel := automaton.NamedTracks{DFA: automaton.ConcatRelation(), Tracks: []string{resultName, accName, names[i]}}
		if i == 1 {
			acc = rel
		} else {
			joined, err := automaton.Join(acc, rel)
			if err != nil {
				return nil, err
			}
			acc = joined
		}
		accName = resultName
	}

	for _, lit := range literals {
		joined, err := automaton.Join(acc, lit)
		if err != nil {
			return nil, err
		}
		acc = joined
	}

	for _, n := range append([]string{}, acc.Tracks...) {
		if strings.HasPrefix(n, "#") {
			acc = automaton.DropNamedTrack(acc, n)
		}
	}
	return &StringAutomaton{DFA: acc.DFA, Order: acc.Tracks}, nil
}

// buildSubstrEquality builds `result = (str.substr base start len)` for a
// constant, non-negative start/len: base = prefix ++ mid, mid = result ++
// suffix, with prefix pinned to exactly `start` real bytes and result
// pinned to exactly `len` real bytes. Composed the same way buildContains
// joins two ConcatRelations on a shared synthetic track, since "the middle
// of a concatenation" is exactly what str.substr extracts. An out-of-range
// request (start+len beyond base's own length) simply has no witness under
// this decomposition, rather than clamping to a shorter or empty result.
func (s *Solver) buildSubstrEquality(sub ast.StrSubstr, resultTerm ast.StrTerm) (*StringAutomaton, error) {
	base, ok := sub.Base.(ast.StrVar)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildSubstrEquality", "str.substr base must be a variable")
	}
	result, ok := resultTerm.(ast.StrVar)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildSubstrEquality", "the non-substr side of a str.substr equality must be a variable")
	}
	start, ok := sub.Start.(ast.ArithConst)
	if !ok || start.Value < 0 {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildSubstrEquality", "str.substr start must be a non-negative constant")
	}
	length, ok := sub.Len.(ast.ArithConst)
	if !ok || length.Value < 0 {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildSubstrEquality", "str.substr len must be a non-negative constant")
	}

	mid, prefix, suffix := "#mid", "#prefix", "#suffix"
	rel1 := automaton.NamedTracks{DFA: automaton.ConcatRelation(), Tracks: []string{mid, result.Name, suffix}}
	rel2 := automaton.NamedTracks{DFA: automaton.ConcatRelation(), Tracks: []string{base.Name, prefix, mid}}
	joined, err := automaton.Join(rel1, rel2)
	if err != nil {
		return nil, err
	}
	prefixLen := automaton.NamedTracks{DFA: exactLengthAutomaton(int(start.Value)), Tracks: []string{prefix}}
	joined, err = automaton.Join(joined, prefixLen)
	if err != nil {
		return nil, err
	}
	resultLen := automaton.NamedTracks{DFA: exactLengthAutomaton(int(length.Value)), Tracks: []string{result.Name}}
	joined, err = automaton.Join(joined, resultLen)
	if err != nil {
		return nil, err
	}

	for _, n := range append([]string{}, joined.Tracks...) {
		if strings.HasPrefix(n, "#") {
			joined = automaton.DropNamedTrack(joined, n)
		}
	}
	return &StringAutomaton{DFA: joined.DFA, Order: joined.Tracks}, nil
}

// buildReplaceEquality builds `result = (str.replace base from to)` for
// literal, non-empty from/to: base = prefix ++ from ++ suffix, result =
// prefix ++ to ++ suffix, sharing the prefix/suffix track names across both
// relations so they're forced equal, plus a NoSubstringTrack constraint on
// prefix enforcing str.replace's first-match semantics (the replaced
// occurrence must be the first one).
func (s *Solver) buildReplaceEquality(rep ast.StrReplace, resultTerm ast.StrTerm) (*StringAutomaton, error) {
	base, ok := rep.Base.(ast.StrVar)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildReplaceEquality", "str.replace base must be a variable")
	}
	result, ok := resultTerm.(ast.StrVar)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildReplaceEquality", "the non-replace side of a str.replace equality must be a variable")
	}
	from, ok := rep.From.(ast.StrConst)
	if !ok || from.Value == "" {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildReplaceEquality", "str.replace from must be a non-empty literal")
	}
	to, ok := rep.To.(ast.StrConst)
	if !ok {
		return nil, errs.Newf(errs.KindUnsupported, "solve.buildReplaceEquality", "str.replace to must be a literal")
	}

	prefix, suffix, fromTrack, toTrack := "#prefix", "#suffix", "#from", "#to"
	baseRel := automaton.NamedTracks{DFA: automaton.ConcatRelation(), Tracks: []string{"#base_mid", prefix, fromTrack}}
	baseRel2 := automaton.NamedTracks{DFA: automaton.ConcatRelation(), Tracks: []string{base.Name, "#base_mid", suffix}}
	acc, err := automaton.Join(baseRel, baseRel2)
	if err != nil {
		return nil, err
	}
	resultRel := automaton.NamedTracks{DFA: automaton.ConcatRelation(), Tracks: []string{"#result_mid", prefix, toTrack}}
	resultRel2 := automaton.NamedTracks{DFA: automaton.ConcatRelation(), Tracks: []string{result.Name, "#result_mid", suffix}}
	acc, err = automaton.Join(acc, resultRel)
	if err != nil {
		return nil, err
	}
	acc, err = automaton.Join(acc, resultRel2)
	if err != nil {
		return nil, err
	}
	fromLit := automaton.NamedTracks{DFA: literalTrackAutomaton(from.Value), Tracks: []string{fromTrack}}
	acc, err = automaton.Join(acc, fromLit)
	if err != nil {
		return nil, err
	}
	toLit := automaton.NamedTracks{DFA: literalTrackAutomaton(to.Value), Tracks: []string{toTrack}}
	acc, err = automaton.Join(acc, toLit)
	if err != nil {
		return nil, err
	}
	noEarlierMatch := automaton.NamedTracks{DFA: automaton.NoSubstringTrack(from.Value), Tracks: []string{prefix}}
	acc, err = automaton.Join(acc, noEarlierMatch)
	if err != nil {
		return nil, err
	}

	for _, n := range append([]string{}, acc.Tracks...) {
		if strings.HasPrefix(n, "#") {
			acc = automaton.DropNamedTrack(acc, n)
		}
	}
	return &StringAutomaton{DFA: acc.DFA, Order: acc.Tracks}, nil
}

// exactLengthAutomaton builds the single-track automaton (alphabet
// TrackSymbols, matching ConcatRelation's tracks) accepting exactly the
// tracks carrying n real bytes: n states each advancing on any non-Lambda
// symbol, then an accepting, absorbing Lambda-self-loop sink — the same
// shape as literalTrackAutomaton, but for "any n bytes" instead of one
// specific literal.
func exactLengthAutomaton(n int) *automaton.DFA {
	d := automaton.New(n+1, automaton.TrackSymbols)
	for i := 0; i < n; i++ {
		for sym := uint64(0); sym < automaton.TrackSymbols; sym++ {
			if sym == automaton.Lambda {
				continue
			}
			d.SetTrans(automaton.StateID(i), sym, automaton.StateID(i+1))
		}
	}
	accept := automaton.StateID(n)
	d.SetAccept(accept)
	d.SetTrans(accept, automaton.Lambda, accept)
	return automaton.Minimize(d)
}

// literalTrackAutomaton builds a single named track's relation: the track
// equals lit exactly, then pads with Lambda for the rest of the word — the
// same "once Lambda always Lambda" tail every multi-track relation in this
// package assumes (mirrored from WellFormed's self-loop).
func literalTrackAutomaton(lit string) *automaton.DFA {
	d := automaton.New(len(lit)+1, automaton.TrackSymbols)
	for i := 0; i < len(lit); i++ {
		d.SetTrans(automaton.StateID(i), uint64(lit[i]), automaton.StateID(i+1))
	}
	accept := automaton.StateID(len(lit))
	d.SetAccept(accept)
	d.SetTrans(accept, automaton.Lambda, accept)
	return automaton.Minimize(d)
}

