// Package config holds the solver's run-time configuration as a plain value
// threaded through constructors, never as a package-level singleton. This
// mirrors the way a constraint model commonly threads a
// SolverConfig through Model/Solver rather than relying on globals.
package config

import (
	"time"

	"github.com/gitrdm/straut/pkg/automaton"
)

// IntMode selects how the arithmetic automata interpret integer variables.
type IntMode int

const (
	// Natural restricts integer variables to non-negative values.
	Natural IntMode = iota
	// Signed represents integers in two's complement with a sign-extension
	// sentinel bit, per the original ABC-style binary automaton.
	Signed
)

func (m IntMode) String() string {
	if m == Signed {
		return "signed"
	}
	return "natural"
}

// CountMode selects whether Count reports an exact-length or bounded count.
type CountMode int

const (
	// AtMost counts accepted words of length <= the bound.
	AtMost CountMode = iota
	// Exactly counts accepted words of length == the bound.
	Exactly
)

// Config is the single configuration value threaded through the pipeline:
// symbol table, preprocessing, slicing, solving and counting all receive it
// explicitly rather than reading module-level state.
type Config struct {
	// LogLevel controls the verbosity of the injected zerolog.Logger.
	// One of "debug", "info", "warn", "error", "disabled".
	LogLevel string

	// IntMode selects natural vs. signed integer automaton construction.
	IntMode IntMode

	// DefaultBound is a fallback counting bound that WithDefaults fills in.
	// pipeline.Run takes its bound as an argument and the CLI falls back to
	// a scenario's own bound, so neither reads this field.
	DefaultBound uint64

	// DefaultCountMode selects AtMost vs Exactly when unspecified.
	DefaultCountMode CountMode

	// AbortAfter is the wall-clock budget for a single solve; zero disables
	// the watcher. The solver checks a cooperative abort flag between AST
	// nodes and before automaton operations; this field sets the
	// timer that flips that flag.
	AbortAfter time.Duration

	// CacheDir names a directory for an automaton cache. No package in this
	// module reads it: no automaton cache is implemented.
	CacheDir string

	// EmitDot records that a dot trace was requested (the CLI sets it from
	// --dot). pipeline.Run installs the solver's debug hook from its dotHook
	// argument and does not read this field.
	EmitDot bool
}

// AutomatonIntMode is m translated to the value pkg/automaton's
// constructors take.
func (m IntMode) AutomatonIntMode() automaton.IntMode {
	if m == Signed {
		return automaton.ModeSigned
	}
	return automaton.ModeNatural
}

// Default returns the configuration used when the caller supplies none.
func Default() *Config {
	return &Config{
		LogLevel:         "info",
		IntMode:          Natural,
		DefaultBound:     32,
		DefaultCountMode: AtMost,
		AbortAfter:       0,
		CacheDir:         "",
		EmitDot:          false,
	}
}

// WithDefaults fills zero-valued fields of a partially constructed Config
// with the defaults, returning a new value. pipeline.Run and logging.New
// pass every Config they receive through this, so a hand-built Config need
// not repeat Default's field list.
func WithDefaults(c *Config) *Config {
	if c == nil {
		return Default()
	}
	d := Default()
	out := *c
	if out.LogLevel == "" {
		out.LogLevel = d.LogLevel
	}
	if out.DefaultBound == 0 {
		out.DefaultBound = d.DefaultBound
	}
	return &out
}
