// Package errs defines the solver's error kinds. Unsatisfiable is
// deliberately absent here: it is represented by the empty-language
// automaton and surfaced as a normal "unsat" answer, never thrown.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies one of the error categories the solver can report.
type Kind int

const (
	// KindParse marks an error surfaced by the (external) parser.
	KindParse Kind = iota
	// KindUnsupported marks an atom outside the supported theory fragment.
	KindUnsupported
	// KindIncompatibleTracks marks a fatal track-alignment mismatch.
	KindIncompatibleTracks
	// KindAborted marks cooperative cancellation (timeout or caller abort).
	KindAborted
	// KindInternal marks an invariant violation in the kernel.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "ParseError"
	case KindUnsupported:
		return "UnsupportedConstruct"
	case KindIncompatibleTracks:
		return "IncompatibleTracks"
	case KindAborted:
		return "Aborted"
	case KindInternal:
		return "Internal"
	default:
		return "Unknown"
	}
}

// SolverError is the concrete error type returned by every public entry
// point in this module. Location and Detail carry the diagnostic context
// diagnostics need for Internal errors (automaton state count, variable
// ordering, AST node path) without forcing every caller to type-assert a
// different struct per Kind.
type SolverError struct {
	Kind     Kind
	Location string // AST node path or source position, when known
	Detail   map[string]any
	cause    error
}

func (e *SolverError) Error() string {
	if e.Location != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Location, e.message())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.message())
}

func (e *SolverError) message() string {
	if e.cause != nil {
		return e.cause.Error()
	}
	return "no further detail"
}

// Unwrap exposes the wrapped cause so callers can use errors.Is/As across
// the preprocess -> slicer -> solve package boundary.
func (e *SolverError) Unwrap() error { return e.cause }

// New constructs a SolverError of the given kind, wrapping cause with a
// stack-carrying github.com/pkg/errors annotation so Internal diagnostics
// can be printed with a trace without hand-rolling one.
func New(kind Kind, location string, cause error) *SolverError {
	return &SolverError{
		Kind:     kind,
		Location: location,
		Detail:   map[string]any{},
		cause:    errors.WithStack(cause),
	}
}

// Newf is New with a formatted cause message.
func Newf(kind Kind, location, format string, args ...any) *SolverError {
	return New(kind, location, fmt.Errorf(format, args...))
}

// WithDetail attaches a diagnostic field (e.g. "states", "ordering") and
// returns the same error for chaining.
func (e *SolverError) WithDetail(key string, value any) *SolverError {
	e.Detail[key] = value
	return e
}

// Is reports whether err is a SolverError of the given kind.
func Is(err error, kind Kind) bool {
	se, ok := err.(*SolverError)
	if !ok {
		return false
	}
	return se.Kind == kind
}
