// File: instance.go
// Title: CLI Instance
// Description: Per-session state of a command line interface: line editor,
//              registry, executor, redirect and pending jobs. Driven either
//              cooperatively through Tick or by a blocking Run loop.
// Author: msto63
// Version: v0.3.0
// Created: 2026-09-25
// Modified: 2026-10-09
//
// Change History:
// - 2026-09-25 v0.1.0: Instance with cooperative Tick
// - 2026-10-03 v0.2.0: Threaded Run, IsOkToSleep, busy callback
// - 2026-10-09 v0.3.0: Session context for handlers, job stack

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/msto63/gecli/foundation/cli/executor"
	"github.com/msto63/gecli/foundation/cli/input"
	"github.com/msto63/gecli/foundation/cli/registry"
	"github.com/msto63/gecli/foundation/cli/session"
	gcerror "github.com/msto63/gecli/foundation/core/error"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

// Mode selects how an instance is scheduled
type Mode int

const (
	// ModeCooperative processes input in Tick calls and runs jobs one step
	// per tick
	ModeCooperative Mode = iota
	// ModeThreaded blocks on input and runs jobs to completion inline
	ModeThreaded
)

func (m Mode) String() string {
	if m == ModeThreaded {
		return "threaded"
	}
	return "cooperative"
}

// ParseMode accepts "cooperative" and "threaded"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "cooperative", "":
		return ModeCooperative, nil
	case "threaded":
		return ModeThreaded, nil
	}
	return ModeCooperative, gcerror.Newf("unknown scheduling mode %q", s).
		WithCode(gcerror.CodeInvalidConfig).
		WithOperation("cli.ParseMode")
}

// Input is the character source of an instance
type Input interface {
	// TryReadByte returns ok=false when no byte is pending. It never blocks.
	TryReadByte() (b byte, ok bool, err error)
	// ReadByteContext blocks until a byte arrives or ctx is done
	ReadByteContext(ctx context.Context) (byte, error)
}

// HelpWriter renders a help match
type HelpWriter func(w io.Writer, m *registry.Match) error

// Options configures an Instance
type Options struct {
	Name         string
	Prompt       string
	BufferSize   int
	HistorySize  int
	MaxArguments int
	Echo         bool
	Enhanced     bool
	// CaseSensitive selects case sensitive command names
	CaseSensitive bool
	Mode          Mode
	// TickInterval is the idle sleep of the cooperative Run loop
	TickInterval time.Duration
	// Version is printed by the version command
	Version string

	Input  Input
	Output io.Writer
	Logger *gclog.Logger

	// Groups are registered after the built-in commands
	Groups []*registry.Group
	// DisableBuiltins skips the echo, history and version commands
	DisableBuiltins bool
	// HelpWriter renders help listings; defaults to registry.WriteHelp
	HelpWriter HelpWriter
	// OnBusyChange is called when pending jobs start or all finish
	OnBusyChange func(busy bool)
}

// DefaultOptions returns the defaults of a cooperative instance
func DefaultOptions() Options {
	editor := input.DefaultOptions()
	return Options{
		Name:         "cli",
		Prompt:       editor.Prompt,
		BufferSize:   editor.BufferSize,
		HistorySize:  editor.HistorySize,
		MaxArguments: executor.DefaultMaxArguments,
		Echo:         true,
		Mode:         ModeCooperative,
		TickInterval: 10 * time.Millisecond,
		Version:      "dev",
	}
}

// Instance is one CLI session. Several instances can run side by side;
// they share nothing but the command groups registered on both.
type Instance struct {
	id       string
	name     string
	mode     Mode
	interval time.Duration
	version  string

	in     Input
	out    *lockedWriter
	editor *input.Editor
	reg    *registry.Registry
	exec   *executor.Executor
	help   HelpWriter
	logger *gclog.Logger

	onBusyChange func(bool)

	mu       sync.Mutex
	jobs     []session.Job
	busy     bool
	started  bool
	inputErr error
}

// New builds an instance and registers its command groups
func New(opts Options) (*Instance, error) {
	if opts.Logger == nil {
		opts.Logger = gclog.GetDefault()
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.HelpWriter == nil {
		opts.HelpWriter = registry.WriteHelp
	}
	if opts.OnBusyChange == nil {
		opts.OnBusyChange = func(bool) {}
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = DefaultOptions().TickInterval
	}
	if opts.Version == "" {
		opts.Version = DefaultOptions().Version
	}

	id := uuid.NewString()
	logger := opts.Logger.WithFields(gclog.Fields{"component": "cli", "instance": opts.Name}).WithSessionID(id)
	out := &lockedWriter{w: opts.Output}

	i := &Instance{
		id:           id,
		name:         opts.Name,
		mode:         opts.Mode,
		interval:     opts.TickInterval,
		version:      opts.Version,
		in:           opts.Input,
		out:          out,
		help:         opts.HelpWriter,
		logger:       logger,
		onBusyChange: opts.OnBusyChange,
	}

	i.reg = registry.New(registry.Options{CaseSensitive: opts.CaseSensitive, Logger: logger})
	i.exec = executor.New(i.reg, executor.Options{MaxArguments: opts.MaxArguments, Logger: logger})
	i.editor = input.NewEditor(input.Options{
		Prompt:      opts.Prompt,
		BufferSize:  opts.BufferSize,
		HistorySize: opts.HistorySize,
		Echo:        opts.Echo,
		Enhanced:    opts.Enhanced,
		Completer:   input.CompleterFunc(i.reg.Complete),
		Output:      out,
	})

	if !opts.DisableBuiltins {
		if err := i.reg.Add(i.builtins()); err != nil {
			return nil, err
		}
	}
	for _, g := range opts.Groups {
		if err := i.reg.Add(g); err != nil {
			return nil, err
		}
	}

	logger.Info("CLI instance created", gclog.Fields{
		"mode":     opts.Mode.String(),
		"enhanced": opts.Enhanced,
		"groups":   len(i.reg.Groups()),
	})
	return i, nil
}

// ID returns the unique instance identifier
func (i *Instance) ID() string { return i.id }

// Name returns the configured instance name
func (i *Instance) Name() string { return i.name }

// Mode returns the scheduling mode
func (i *Instance) Mode() Mode { return i.mode }

// Cooperative reports whether the instance is driven by Tick
func (i *Instance) Cooperative() bool { return i.mode == ModeCooperative }

// Registry returns the command registry
func (i *Instance) Registry() *registry.Registry { return i.reg }

// Editor returns the line editor
func (i *Instance) Editor() *input.Editor { return i.editor }

// Logger returns the instance logger
func (i *Instance) Logger() *gclog.Logger { return i.logger }

// Output returns the session output
func (i *Instance) Output() io.Writer { return i.out }

// Printf writes formatted text to the output
func (i *Instance) Printf(format string, args ...any) {
	fmt.Fprintf(i.out, format, args...)
}

// AddGroup registers a command group
func (i *Instance) AddGroup(g *registry.Group) error { return i.reg.Add(g) }

// RemoveGroup unregisters a command group
func (i *Instance) RemoveGroup(g *registry.Group) bool { return i.reg.Remove(g) }

// SetRedirect diverts completed lines to fn until ClearRedirect
func (i *Instance) SetRedirect(fn executor.RedirectFunc, user any) {
	i.exec.SetRedirect(fn, user)
}

// ClearRedirect restores normal dispatch
func (i *Instance) ClearRedirect() { i.exec.ClearRedirect() }

// Redirected reports whether a redirect is installed
func (i *Instance) Redirected() bool { return i.exec.Redirected() }

// Err returns the error that ended input, such as io.EOF
func (i *Instance) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.inputErr
}

// PrintPrompt writes the prompt and any partially typed line
func (i *Instance) PrintPrompt() { i.editor.PrintPrompt() }

// HandleInput dispatches one line and prints its status. The returned
// error is the dispatch failure already reported to the user.
func (i *Instance) HandleInput(ctx context.Context, line string) error {
	res, err := i.exec.Execute(session.NewContext(ctx, i), line)
	if err != nil {
		i.Printf("%s\r\n", executor.StatusMessage(err))
		return err
	}
	if res.Kind == executor.ResultHelp {
		if err := i.help(i.out, res.Match); err != nil {
			i.logger.WarnWithErr("Help output failed", err)
		}
	}
	return nil
}

// StartJob schedules a multi-tick job. In cooperative mode the newest job
// runs first, so a job started by another job's step finishes before the
// outer job continues. In threaded mode the job runs to completion here.
func (i *Instance) StartJob(ctx context.Context, job session.Job) {
	if i.mode == ModeThreaded {
		for job.Step(ctx) {
			if ctx.Err() != nil {
				return
			}
		}
		return
	}

	i.mu.Lock()
	i.jobs = append(i.jobs, job)
	i.mu.Unlock()
	i.updateBusy()
}

// Busy reports whether jobs are pending
func (i *Instance) Busy() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.jobs) > 0
}

// IsOkToSleep reports whether the surrounding loop may enter a low power
// state: no job is pending, no line is partially typed and the input has
// nothing buffered.
func (i *Instance) IsOkToSleep() bool {
	if i.Busy() || i.editor.Pending() {
		return false
	}
	if p, ok := i.in.(interface{ Pending() bool }); ok && p.Pending() {
		return false
	}
	return true
}

// Tick reads every byte currently available, dispatches completed lines
// and advances the top job by one step. It reports whether jobs remain.
func (i *Instance) Tick(ctx context.Context) bool {
	i.start()

	if i.in != nil && i.Err() == nil {
		for {
			b, ok, err := i.in.TryReadByte()
			if err != nil {
				i.setInputErr(err)
				break
			}
			if !ok {
				break
			}
			i.feed(ctx, b)
		}
	}

	return i.stepJob(ctx)
}

// Run drives the instance until ctx is done or input ends. A threaded
// instance blocks on input; a cooperative instance ticks and sleeps for
// the tick interval whenever it is ok to sleep. Run returns nil when ctx
// is cancelled or input reaches EOF.
func (i *Instance) Run(ctx context.Context) error {
	if i.in == nil {
		return gcerror.New("instance has no input").
			WithCode(gcerror.CodeInvalidInput).
			WithOperation("cli.Run")
	}

	var err error
	if i.mode == ModeThreaded {
		err = i.runThreaded(ctx)
	} else {
		err = i.runCooperative(ctx)
	}

	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
		i.logger.Debug("CLI instance stopped")
		return nil
	}
	return err
}

func (i *Instance) runThreaded(ctx context.Context) error {
	i.start()
	for {
		b, err := i.in.ReadByteContext(ctx)
		if err != nil {
			i.setInputErr(err)
			return err
		}
		i.feed(ctx, b)
	}
}

func (i *Instance) runCooperative(ctx context.Context) error {
	timer := time.NewTimer(i.interval)
	defer timer.Stop()

	for {
		i.Tick(ctx)
		if err := i.Err(); err != nil {
			return err
		}

		// Pending work is polled quickly; an idle instance sleeps a full interval
		wait := i.interval
		if !i.IsOkToSleep() {
			wait = min(i.interval, time.Millisecond)
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// start prints the first prompt
func (i *Instance) start() {
	i.mu.Lock()
	started := i.started
	i.started = true
	i.mu.Unlock()

	if !started {
		i.editor.PrintPrompt()
	}
}

// feed passes one byte to the editor and dispatches a completed line
// before the next byte is accepted
func (i *Instance) feed(ctx context.Context, b byte) {
	if !i.editor.Feed(b) {
		return
	}
	line := i.editor.Line()
	_ = i.HandleInput(ctx, line)
	i.editor.Clear()
	i.editor.PrintPrompt()
}

func (i *Instance) stepJob(ctx context.Context) bool {
	i.mu.Lock()
	if len(i.jobs) == 0 {
		i.mu.Unlock()
		return false
	}
	index := len(i.jobs) - 1
	job := i.jobs[index]
	i.mu.Unlock()

	more := job.Step(ctx)

	i.mu.Lock()
	if !more && index < len(i.jobs) && i.jobs[index] == job {
		i.jobs = append(i.jobs[:index], i.jobs[index+1:]...)
	}
	remaining := len(i.jobs) > 0
	i.mu.Unlock()

	i.updateBusy()
	return remaining
}

func (i *Instance) updateBusy() {
	i.mu.Lock()
	busy := len(i.jobs) > 0
	changed := busy != i.busy
	i.busy = busy
	i.mu.Unlock()

	if changed {
		i.onBusyChange(busy)
	}
}

func (i *Instance) setInputErr(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.inputErr == nil {
		i.inputErr = err
		if !errors.Is(err, io.EOF) && !errors.Is(err, context.Canceled) {
			i.logger.ErrorWithErr("Input failed", err)
		}
	}
}

// lockedWriter serialises writes from the editor and command output
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
