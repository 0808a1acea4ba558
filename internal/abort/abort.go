// Package abort implements cooperative cancellation: a single flag checked
// before each automaton operation and between AST nodes, settable by a
// wall-clock watcher goroutine for timeouts. This is deliberately not a
// worker pool or scheduler — the solving model is single-threaded — just
// the minimal context.Context-driven watcher a deadlock detector would use
// to arm a timeout, trimmed to the one thing this solver needs.
package abort

import (
	"context"
	"sync/atomic"
	"time"
)

// Flag is a cooperative cancellation flag. The zero value is usable and
// starts clear.
type Flag struct {
	tripped atomic.Bool
}

// Trip sets the flag. Safe to call from any goroutine, any number of times.
func (f *Flag) Trip() { f.tripped.Store(true) }

// Tripped reports whether the flag has been set.
func (f *Flag) Tripped() bool { return f.tripped.Load() }

// WatchContext arms the flag when ctx is cancelled (deadline exceeded or
// explicit cancel) and returns a stop function that must be called once the
// watched operation completes, to release the watcher goroutine.
func WatchContext(ctx context.Context, f *Flag) (stop func()) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			f.Trip()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// WatchTimeout arms the flag after d elapses. A non-positive d disables the
// watcher and returns a no-op stop function, matching Config.AbortAfter's
// "zero disables the watcher" contract.
func WatchTimeout(d time.Duration, f *Flag) (stop func()) {
	if d <= 0 {
		return func() {}
	}
	ctx, cancel := context.WithTimeout(context.Background(), d)
	stopWatch := WatchContext(ctx, f)
	return func() {
		stopWatch()
		cancel()
	}
}
