// File: session.go
// Title: Command Session Access
// Description: The view of a CLI instance that command handlers get through
//              their context: output, redirect control, nested dispatch and
//              multi-tick jobs.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-07
// Modified: 2026-10-07

package session

import (
	"context"
	"io"

	"github.com/msto63/gecli/foundation/cli/executor"
)

// Job is a command that needs more than one tick. Step does one bounded
// unit of work and reports whether more work remains.
type Job interface {
	Step(ctx context.Context) (busy bool)
}

// JobFunc adapts a function to the Job interface
type JobFunc func(ctx context.Context) bool

// Step calls f(ctx)
func (f JobFunc) Step(ctx context.Context) bool { return f(ctx) }

// Session is implemented by the CLI instance running a command
type Session interface {
	// ID identifies the instance in logs
	ID() string
	// Output is the session's character sink
	Output() io.Writer
	// Printf writes formatted text to the output
	Printf(format string, args ...any)

	SetRedirect(fn executor.RedirectFunc, user any)
	ClearRedirect()
	Redirected() bool

	// HandleInput dispatches a line as if it had been typed
	HandleInput(ctx context.Context, line string) error
	// StartJob schedules a multi-tick job. Under threaded scheduling the
	// job runs to completion before StartJob returns.
	StartJob(ctx context.Context, job Job)
	// Cooperative reports whether the instance is driven by Tick
	Cooperative() bool
}

type contextKey struct{}

// NewContext returns a context carrying s
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}

// Output returns the session output of ctx, or io.Discard outside a session
func Output(ctx context.Context) io.Writer {
	if s, ok := FromContext(ctx); ok {
		return s.Output()
	}
	return io.Discard
}
