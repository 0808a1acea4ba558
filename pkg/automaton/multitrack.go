package automaton

// Lambda is the padding symbol multi-track string automata use on any
// track shorter than the word's overall length, so tracks of different
// lengths can still be read in lockstep (track alignment).
const Lambda = 256

// TrackSymbols is the per-track alphabet: every byte value plus Lambda.
const TrackSymbols = 257

// AlphabetSizeForTracks returns the packed alphabet size for a k-track
// automaton: TrackSymbols^k, each packed symbol a base-TrackSymbols digit
// string. Callers should keep k small (the pack's model-counting use
// cases run with 2-4 participating string variables per atom); this
// packing is only practical while TrackSymbols^k fits a uint64, i.e.
// roughly k <= 7.
func AlphabetSizeForTracks(k int) uint64 {
	size := uint64(1)
	for i := 0; i < k; i++ {
		size *= TrackSymbols
	}
	return size
}

// PackSymbol encodes one per-track symbol vector (byte value 0-255, or
// Lambda) as a single dense integer.
func PackSymbol(tracks []int) uint64 {
	var sym uint64
	for i := len(tracks) - 1; i >= 0; i-- {
		sym = sym*TrackSymbols + uint64(tracks[i])
	}
	return sym
}

// UnpackSymbol is PackSymbol's inverse for a k-track alphabet.
func UnpackSymbol(sym uint64, k int) []int {
	out := make([]int, k)
	for i := 0; i < k; i++ {
		out[i] = int(sym % TrackSymbols)
		sym /= TrackSymbols
	}
	return out
}

// FromTrackLiterals builds the automaton accepting exactly the tuple of
// given strings, one per track, lambda-padded to the longest track's
// length (the canonical multi-track witness shape).
func FromTrackLiterals(tracks []string) *DFA {
	k := len(tracks)
	maxLen := 0
	for _, t := range tracks {
		if len(t) > maxLen {
			maxLen = len(t)
		}
	}
	alphabet := AlphabetSizeForTracks(k)
	d := New(maxLen+1, alphabet)
	for pos := 0; pos < maxLen; pos++ {
		sym := make([]int, k)
		for i, t := range tracks {
			if pos < len(t) {
				sym[i] = int(t[pos])
			} else {
				sym[i] = Lambda
			}
		}
		d.SetTrans(StateID(pos), PackSymbol(sym), StateID(pos+1))
	}
	d.SetAccept(StateID(maxLen))
	return Minimize(d)
}

// WellFormed returns the automaton constraining a k-track word to the
// alignment invariant every multi-track construction relies on: once a
// track reads Lambda, it reads Lambda for the remainder of the word (a
// track cannot "come back" after padding ends), and the empty word is
// trivially well formed.
func WellFormed(k int) *DFA {
	// Two states: "all tracks still possibly real" (0) and "at least one
	// track has started padding" (1, self-looping, requiring every track
	// that already went to Lambda stays Lambda and tracking is permissive
	// for tracks not yet padded).
	alphabet := AlphabetSizeForTracks(k)
	d := New(2, alphabet)
	d.SetAccept(0)
	d.SetAccept(1)
	for sym := uint64(0); sym < alphabet; sym++ {
		parts := UnpackSymbol(sym, k)
		anyLambda := false
		for _, p := range parts {
			if p == Lambda {
				anyLambda = true
			}
		}
		if anyLambda {
			d.SetTrans(0, sym, 1)
		} else {
			d.SetTrans(0, sym, 0)
		}
	}
	for sym := uint64(0); sym < alphabet; sym++ {
		d.SetTrans(1, sym, 1)
	}
	return Minimize(d)
}

// Equality returns the automaton requiring every track to carry the same
// symbol at every position, i.e. string equality expressed as a k-track
// relation (k is typically 2 for `str.=`, but this generalizes to an
// n-way equality group the way the symbol table's group table merges
// equal-string variables).
func Equality(k int) *DFA {
	alphabet := AlphabetSizeForTracks(k)
	d := New(1, alphabet)
	d.SetAccept(0)
	for sym := uint64(0); sym < alphabet; sym++ {
		parts := UnpackSymbol(sym, k)
		equal := true
		for _, p := range parts[1:] {
			if p != parts[0] {
				equal = false
				break
			}
		}
		if equal {
			d.SetTrans(0, sym, 0)
		}
	}
	return Minimize(d)
}

// ConcatRelation returns the 3-track automaton for track0 = track1 ++
// track2: it accepts a well-formed triple where, reading left to right,
// track1's real (non-Lambda) symbols are produced first and must equal
// track0's symbols one-for-one, then once track1 goes to Lambda the
// remaining track0 symbols must equal track2's real symbols, and track0
// goes to Lambda exactly when both track1 and track2 have.
func ConcatRelation() *DFA {
	const alphabet = TrackSymbols * TrackSymbols * TrackSymbols
	// State 0: still copying track1 into track0. State 1: track1 exhausted,
	// now copying track2 into track0. State 2 (accepting, absorbing): both
	// operands exhausted and track0 exhausted too.
	d := New(3, alphabet)
	d.SetAccept(2)
	for sym := uint64(0); sym < alphabet; sym++ {
		parts := UnpackSymbol(sym, 3) // [result, left, right]
		result, left, right := parts[0], parts[1], parts[2]

		// From state 0 (copying left into result):
		switch {
		case left != Lambda && result == left:
			d.SetTrans(0, sym, 0)
		case left == Lambda && result == right:
			d.SetTrans(0, sym, 1)
		case left == Lambda && result == Lambda && right == Lambda:
			d.SetTrans(0, sym, 2)
		}

		// From state 1 (copying right into result, left already exhausted):
		switch {
		case right != Lambda && result == right:
			d.SetTrans(1, sym, 1)
		case right == Lambda && result == Lambda:
			d.SetTrans(1, sym, 2)
		}

		if result == Lambda && left == Lambda && right == Lambda {
			d.SetTrans(2, sym, 2)
		}
	}
	return Minimize(d)
}

// DropTrack projects a k-track automaton down to k-1 tracks by existentially
// quantifying the track at index `drop` (projecting a track out,
// used once a string variable has been fully solved and its witness no
// longer needs to ride along in the joint automaton).
func DropTrack(d *DFA, k, drop int) *DFA {
	newAlphabet := AlphabetSizeForTracks(k - 1)
	return Project(d, newAlphabet, func(old uint64) uint64 {
		parts := UnpackSymbol(old, k)
		kept := make([]int, 0, k-1)
		for i, p := range parts {
			if i != drop {
				kept = append(kept, p)
			}
		}
		return PackSymbol(kept)
	})
}

// ExtractTrack reconstructs the string value carried by one track of a
// witness symbol sequence produced by Witness, stopping at the first
// Lambda (the witness decoding step).
func ExtractTrack(symbols []uint64, k, track int) string {
	var out []byte
	for _, sym := range symbols {
		parts := UnpackSymbol(sym, k)
		v := parts[track]
		if v == Lambda {
			break
		}
		out = append(out, byte(v))
	}
	return string(out)
}
