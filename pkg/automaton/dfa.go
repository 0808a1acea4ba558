// Package automaton implements the automaton kernel: a
// deterministic finite acceptor over fixed-width symbol vectors, with
// product/complement/project/concat/pre-image/reachability/witness
// operations shared by all four automaton flavors (string, binary integer,
// unary integer, multi-track string).
//
// BDD-encoded transitions over boolean variables are
// realized here as a contiguous integer symbol space (every flavor's
// alphabet is a dense range [0, AlphabetSize)) plus a characteristic
// bitset per state recording which states are reachable/accepting —
// grounded on the bits-and-blooms/bitset-based dataflow bitsets in the
// pack (godoctor's extras/cfg/df.go GEN/KILL sets), since the pack carries
// no executable BDD package for the core to call into (this module names the
// BDD/DFA library as an external collaborator with a narrow interface:
// construct-from-exception-list, minimize, product, projection,
// reachability, state enumeration — exactly what this package exposes).
package automaton

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// StateID indexes into a DFA's state list.
type StateID int

// noSink (-1) is the sink id recorded while no sink state has been
// materialized (see HasSink).
const noSink = StateID(-1)

// DFA is a deterministic finite acceptor over a dense integer alphabet
// [0, AlphabetSize). A transition absent from Trans[state] is implicit:
// it leads to a non-accepting sink that self-loops on every symbol. This
// matches the requirement that the kernel exposes HasSink() and normalizes both
// shapes [explicit or absent] to 'explicit sink is state s with no
// reachable accepting successor'" without forcing every construction to
// pay for a materialized sink row.
type DFA struct {
	NumStates    int
	Start        StateID
	Accept       *bitset.BitSet
	Trans        []map[uint64]StateID // Trans[s][symbol] = next state
	AlphabetSize uint64
	SymBits      int // informational: boolean variables needed to encode one symbol
	sink         StateID
}

// New creates an empty DFA with the given number of states (states are
// allocated but have no transitions yet) over an alphabet of the given
// size, with state 0 as the start state.
func New(numStates int, alphabetSize uint64) *DFA {
	d := &DFA{
		NumStates:    numStates,
		Start:        0,
		Accept:       bitset.New(uint(numStates)),
		Trans:        make([]map[uint64]StateID, numStates),
		AlphabetSize: alphabetSize,
		SymBits:      bitsFor(alphabetSize),
		sink:         noSink,
	}
	for i := range d.Trans {
		d.Trans[i] = make(map[uint64]StateID)
	}
	return d
}

func bitsFor(n uint64) int {
	bits := 0
	for (uint64(1) << bits) < n {
		bits++
	}
	return bits
}

// SetAccept marks s as an accepting state.
func (d *DFA) SetAccept(s StateID) { d.Accept.Set(uint(s)) }

// IsAccept reports whether s is accepting.
func (d *DFA) IsAccept(s StateID) bool { return d.Accept.Test(uint(s)) }

// SetTrans records a transition from 'from' on 'symbol' to 'to'.
func (d *DFA) SetTrans(from StateID, symbol uint64, to StateID) {
	d.Trans[from][symbol] = to
}

// Step returns the successor of 'from' on 'symbol', and whether an
// explicit transition existed (false means "implicit sink").
func (d *DFA) Step(from StateID, symbol uint64) (StateID, bool) {
	to, ok := d.Trans[int(from)][symbol]
	return to, ok
}

// HasSink reports whether this DFA has a materialized sink state (see
// Totalize).
func (d *DFA) HasSink() bool { return d.sink != noSink }

// SinkState returns the materialized sink state id, or -1 if none.
func (d *DFA) SinkState() StateID { return d.sink }

// Totalize materializes an explicit, non-accepting, self-looping sink
// state and fills in every missing transition for every state so Trans
// becomes total over [0, AlphabetSize). Required before Complement:
// complementing swaps accepting/non-accepting states, which is only
// correct once every state has a defined transition for every symbol.
func (d *DFA) Totalize() {
	if d.HasSink() {
		return
	}
	sink := StateID(d.NumStates)
	d.NumStates++
	d.Trans = append(d.Trans, make(map[uint64]StateID))
	newAccept := bitset.New(uint(d.NumStates))
	for i := uint(0); i < d.Accept.Len(); i++ {
		if d.Accept.Test(i) {
			newAccept.Set(i)
		}
	}
	d.Accept = newAccept
	d.sink = sink
	for sym := uint64(0); sym < d.AlphabetSize; sym++ {
		d.Trans[sink][sym] = sink
	}
	for s := 0; s < int(sink); s++ {
		for sym := uint64(0); sym < d.AlphabetSize; sym++ {
			if _, ok := d.Trans[s][sym]; !ok {
				d.Trans[s][sym] = sink
			}
		}
	}
}

// ErrIncompatibleTracks is returned when two automata with different
// alphabets (track counts/widths) are combined.
type ErrIncompatibleTracks struct {
	A, B uint64
}

func (e *ErrIncompatibleTracks) Error() string {
	return fmt.Sprintf("automaton: incompatible tracks (alphabet %d vs %d)", e.A, e.B)
}

// Clone returns a deep copy of d.
func (d *DFA) Clone() *DFA {
	out := &DFA{
		NumStates:    d.NumStates,
		Start:        d.Start,
		Accept:       d.Accept.Clone(),
		Trans:        make([]map[uint64]StateID, d.NumStates),
		AlphabetSize: d.AlphabetSize,
		SymBits:      d.SymBits,
		sink:         d.sink,
	}
	for i, row := range d.Trans {
		cp := make(map[uint64]StateID, len(row))
		for k, v := range row {
			cp[k] = v
		}
		out.Trans[i] = cp
	}
	return out
}

// Phi returns the empty-language automaton over the given alphabet: a
// single non-accepting start state that self-loops on every symbol.
func Phi(alphabetSize uint64) *DFA {
	d := New(1, alphabetSize)
	d.sink = 0 // the start state already is its own sink
	return d
}

// Reachable returns the set of states reachable from the start state.
func (d *DFA) Reachable() *bitset.BitSet {
	seen := bitset.New(uint(d.NumStates))
	stack := []StateID{d.Start}
	seen.Set(uint(d.Start))
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, to := range d.Trans[s] {
			if !seen.Test(uint(to)) {
				seen.Set(uint(to))
				stack = append(stack, to)
			}
		}
	}
	return seen
}

// IsEmpty reports whether the language accepted by d is empty: no
// accepting state is reachable from the start.
func (d *DFA) IsEmpty() bool {
	reachable := d.Reachable()
	return reachable.IntersectionCardinality(d.Accept) == 0
}
