// Package count implements the model counter: given a constraint automaton
// and a length bound, it counts accepted words via transfer-matrix
// exponentiation over math/big.Int (word counts routinely exceed 64 bits
// well before the bit-width bounds this solver targets), plus a
// closed-form path for automata whose semilinear length-set is already
// known (the single-variable unary/binary bridge in pkg/automaton) and a
// per-variable marginal counting entry point built on the same machinery.
package count

import (
	"math/big"

	"github.com/rs/zerolog"

	"github.com/gitrdm/straut/internal/config"
	"github.com/gitrdm/straut/internal/errs"
	"github.com/gitrdm/straut/pkg/automaton"
)

// Counter counts the words a DFA accepts up to a length bound. It carries
// no solver-specific state beyond the injected config/logger — counting is
// purely a function of the automaton and the bound.
type Counter struct {
	cfg *config.Config
	log zerolog.Logger
}

// New returns a Counter holding cfg and log. Count takes its counting mode
// as an argument on every call.
func New(cfg *config.Config, log zerolog.Logger) *Counter {
	return &Counter{cfg: cfg, log: log}
}

// transferMatrix is the automaton's symbol-counting adjacency matrix:
// M[i][j] is the number of alphabet symbols carrying state i to state j in
// one step. Entries fit in a native int (bounded by AlphabetSize) but the
// matrix is stored as big.Int from the start since Count immediately
// exponentiates it.
type transferMatrix [][]*big.Int

func buildTransferMatrix(d *automaton.DFA) transferMatrix {
	n := d.NumStates
	m := make(transferMatrix, n)
	for i := range m {
		m[i] = make([]*big.Int, n)
		for j := range m[i] {
			m[i][j] = big.NewInt(0)
		}
	}
	for s := 0; s < n; s++ {
		for _, to := range d.Trans[s] {
			m[s][to].Add(m[s][to], big.NewInt(1))
		}
		// Every symbol absent from Trans[s] implicitly steps to the sink
		// (materialized by Totalize, or the sink-is-self-loop convention
		// for an already-total automaton with no missing entries).
		missing := int64(d.AlphabetSize) - int64(len(d.Trans[s]))
		if missing > 0 {
			sink := d.SinkState()
			if sink < 0 {
				// No materialized sink: an automaton with missing
				// transitions and no sink is malformed for counting
				// purposes, since "implicit sink" has nowhere to add its
				// mass. Callers must Totalize first; see Count.
				continue
			}
			m[s][sink].Add(m[s][sink], big.NewInt(missing))
		}
	}
	return m
}

func identity(n int) transferMatrix {
	m := make(transferMatrix, n)
	for i := range m {
		m[i] = make([]*big.Int, n)
		for j := range m[i] {
			if i == j {
				m[i][j] = big.NewInt(1)
			} else {
				m[i][j] = big.NewInt(0)
			}
		}
	}
	return m
}

func (a transferMatrix) mul(b transferMatrix) transferMatrix {
	n := len(a)
	out := make(transferMatrix, n)
	for i := 0; i < n; i++ {
		out[i] = make([]*big.Int, n)
		for j := 0; j < n; j++ {
			sum := big.NewInt(0)
			for k := 0; k < n; k++ {
				if a[i][k].Sign() == 0 || b[k][j].Sign() == 0 {
					continue
				}
				sum.Add(sum, new(big.Int).Mul(a[i][k], b[k][j]))
			}
			out[i][j] = sum
		}
	}
	return out
}

// pow raises m to the exponent-th power by repeated squaring, so counting
// to a bound of bit-width B costs O(log B) matrix multiplications instead
// of O(B).
func (m transferMatrix) pow(exponent uint64) transferMatrix {
	n := len(m)
	result := identity(n)
	base := m
	for exponent > 0 {
		if exponent&1 == 1 {
			result = result.mul(base)
		}
		base = base.mul(base)
		exponent >>= 1
	}
	return result
}

// Count returns the number of distinct symbol-sequences d accepts of
// length <= bound (AtMost) or == bound (Exactly). d is cloned and
// totalized internally; the caller's automaton is left untouched.
func (c *Counter) Count(d *automaton.DFA, bound uint64, mode config.CountMode) (*big.Int, error) {
	if d == nil {
		return nil, errs.Newf(errs.KindInternal, "count.Count", "nil automaton")
	}
	work := d.Clone()
	work.Totalize()
	m := buildTransferMatrix(work)

	if mode == config.Exactly {
		return countExactly(work, m, bound), nil
	}
	total := big.NewInt(0)
	for l := uint64(0); l <= bound; l++ {
		total.Add(total, countExactly(work, m, l))
	}
	return total, nil
}

func countExactly(d *automaton.DFA, m transferMatrix, length uint64) *big.Int {
	powered := m.pow(length)
	total := big.NewInt(0)
	for s := 0; s < d.NumStates; s++ {
		if d.IsAccept(automaton.StateID(s)) {
			total.Add(total, powered[int(d.Start)][s])
		}
	}
	return total
}

// CountSemilinear evaluates a count directly from a unary automaton's
// extracted semilinear set, without materializing a transfer matrix — the
// closed-form path for the unary integer automaton flavor, where AtMost(n)
// and Exactly(n) reduce to counting how many of sl's linear-set terms (and
// how many periods within an unbounded term) fall at or under n.
func CountSemilinear(sl automaton.Semilinear, bound uint64, mode config.CountMode) *big.Int {
	total := big.NewInt(0)
	n := int64(bound)
	for _, term := range sl.Sets {
		base := int64(term.Base)
		if mode == config.Exactly {
			if term.Period == 0 {
				if base == n {
					total.Add(total, big.NewInt(1))
				}
				continue
			}
			if n >= base && (n-base)%int64(term.Period) == 0 {
				total.Add(total, big.NewInt(1))
			}
			continue
		}
		// AtMost: count every k >= 0 with base + k*period <= n.
		if base > n {
			continue
		}
		if term.Period == 0 {
			total.Add(total, big.NewInt(1))
			continue
		}
		steps := (n - base) / int64(term.Period)
		total.Add(total, big.NewInt(steps+1))
	}
	return total
}

// CountVariable projects a multi-variable arithmetic automaton down to a
// single variable's bit track (existentially quantifying every other
// variable in order) and counts that projection, giving the marginal count
// for varName alone rather than the joint count over every variable order
// encodes. The count is of values that fit in bound bits, not of encodings.
func CountVariable(d *automaton.DFA, order []string, varName string, bound uint64, mode config.CountMode) (*big.Int, error) {
	idx := -1
	for i, n := range order {
		if n == varName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, errs.Newf(errs.KindUnsupported, "count.CountVariable", "variable %q not in automaton's order", varName)
	}
	projected := automaton.Project(d, uint64(1)<<1, func(old uint64) uint64 {
		return (old >> uint(idx)) & 1
	})
	// A value that fits in fewer than bound bits is also encoded by its
	// zero-padded (signed: sign-extended) word of exactly bound bits, so
	// AtMost counts the words of length bound: one per value, where summing
	// over every shorter length would count each padded encoding again.
	if mode == config.AtMost {
		mode = config.Exactly
	}
	c := &Counter{cfg: config.Default()}
	return c.Count(projected, bound, mode)
}
