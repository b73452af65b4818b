// File: executor.go
// Title: CLI Command Executor
// Description: Runs one completed input line through the dispatch pipeline:
//              tokenize, redirect, resolve, convert and invoke. Reports
//              failures as coded errors and never writes to the session
//              output.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-24
// Modified: 2026-10-05
//
// Change History:
// - 2026-09-24 v0.1.0: Initial pipeline
// - 2026-10-05 v0.2.0: Redirect hook for definition mode, status messages

package executor

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/msto63/gecli/foundation/cli/argument"
	"github.com/msto63/gecli/foundation/cli/registry"
	"github.com/msto63/gecli/foundation/cli/tokenizer"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

// DefaultMaxArguments is the token limit when Options.MaxArguments is unset
const DefaultMaxArguments = 10

// ResultKind tells what Execute did with a line
type ResultKind int

const (
	// ResultEmpty means the line held no tokens
	ResultEmpty ResultKind = iota
	// ResultDispatched means a command handler ran
	ResultDispatched
	// ResultHelp means the line asked for a help listing or topic
	ResultHelp
	// ResultRedirected means the line went to the installed redirect
	ResultRedirected
)

func (k ResultKind) String() string {
	switch k {
	case ResultEmpty:
		return "empty"
	case ResultDispatched:
		return "dispatched"
	case ResultHelp:
		return "help"
	case ResultRedirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// Result describes a successfully processed line
type Result struct {
	Kind   ResultKind
	Tokens []string
	// Match is set for dispatched and help results
	Match *registry.Match
	// Args holds the converted arguments of a dispatched command
	Args *argument.Arguments
}

// RedirectFunc receives completed lines while a redirect is installed.
// user is the value given to SetRedirect.
type RedirectFunc func(ctx context.Context, line string, user any)

// Options configures an Executor
type Options struct {
	// MaxArguments limits the number of tokens in one line, command path
	// included
	MaxArguments int
	Logger       *gclog.Logger
}

// Executor dispatches lines against a registry. The redirect may be
// installed and removed by handlers while they run.
type Executor struct {
	registry     *registry.Registry
	maxArguments int
	logger       *gclog.Logger

	mutex        sync.Mutex
	redirect     RedirectFunc
	redirectUser any
}

// New creates an executor for reg
func New(reg *registry.Registry, opts Options) *Executor {
	if opts.MaxArguments <= 0 {
		opts.MaxArguments = DefaultMaxArguments
	}
	if opts.Logger == nil {
		opts.Logger = gclog.GetDefault()
	}
	return &Executor{
		registry:     reg,
		maxArguments: opts.MaxArguments,
		logger:       opts.Logger.WithField("component", "cli-executor"),
	}
}

// Registry returns the registry commands are resolved against
func (e *Executor) Registry() *registry.Registry { return e.registry }

// MaxArguments returns the token limit
func (e *Executor) MaxArguments() int { return e.maxArguments }

// SetRedirect diverts all following non-empty lines to fn
func (e *Executor) SetRedirect(fn RedirectFunc, user any) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.redirect = fn
	e.redirectUser = user
}

// ClearRedirect restores normal dispatch
func (e *Executor) ClearRedirect() {
	e.SetRedirect(nil, nil)
}

// Redirected reports whether a redirect is installed
func (e *Executor) Redirected() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.redirect != nil
}

func (e *Executor) currentRedirect() (RedirectFunc, any) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.redirect, e.redirectUser
}

// Execute processes one completed line. Tokenizer, resolution and
// argument errors are returned before any handler runs; once a handler is
// invoked the line counts as dispatched.
func (e *Executor) Execute(ctx context.Context, line string) (*Result, error) {
	tokens, err := tokenizer.Tokenize(line, e.maxArguments)
	if err != nil {
		e.logger.Debug("Line rejected by tokenizer", gclog.Fields{"error": err.Error()})
		return nil, err
	}
	if len(tokens) == 0 {
		return &Result{Kind: ResultEmpty}, nil
	}

	if fn, user := e.currentRedirect(); fn != nil {
		fn(ctx, strings.TrimSpace(line), user)
		return &Result{Kind: ResultRedirected, Tokens: tokens}, nil
	}

	match, err := e.registry.Find(tokens)
	if err != nil {
		e.logger.Debug("Command not found", gclog.Fields{"command": tokens[0]})
		return nil, err
	}
	if match.Help {
		return &Result{Kind: ResultHelp, Tokens: tokens, Match: match}, nil
	}

	args, err := argument.ConvertAll(match.Descriptor.Types, tokens, match.CommandStringCount())
	if err != nil {
		e.logger.Debug("Argument conversion failed", gclog.Fields{
			"command": strings.Join(match.Path, " "),
			"error":   err.Error(),
		})
		return nil, err
	}

	timer := e.logger.StartTimer("command").
		WithLevel(gclog.LevelTrace).
		WithField("command", args.CommandPath())
	match.Descriptor.Handler.Invoke(ctx, args)
	timer.Stop()

	return &Result{Kind: ResultDispatched, Tokens: tokens, Match: match, Args: args}, nil
}

// StatusMessage maps an Execute error to the status line shown to the
// user. It returns an empty string for nil.
func StatusMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tokenizer.ErrParse):
		return "Command syntax error"
	case errors.Is(err, tokenizer.ErrOverflow):
		return "Too many arguments"
	case errors.Is(err, registry.ErrNotFound):
		return "Command not recognized"
	case errors.Is(err, argument.ErrCount):
		return "Wrong number of arguments"
	case errors.Is(err, argument.ErrType):
		return "Invalid argument format"
	default:
		return err.Error()
	}
}
