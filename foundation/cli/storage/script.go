// File: script.go
// Title: Stored Command Scripts
// Description: Definition mode capture of command lines into a Store and
//              replay of the stored lines through normal dispatch, either
//              one line per tick or all at once.
// Author: msto63
// Version: v0.2.1
// Created: 2026-09-29
// Modified: 2026-10-15
//
// Change History:
// - 2026-09-29 v0.1.0: Define, clear, list and threaded replay
// - 2026-10-08 v0.2.0: Cooperative replay as a session job
// - 2026-10-15 v0.2.1: Replay bounded to the lines stored at start; cursor
//                      after the highest stored index

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/msto63/gecli/foundation/cli/session"
	gcerror "github.com/msto63/gecli/foundation/core/error"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

// DefaultEndString ends definition mode
const DefaultEndString = "end"

// ErrBusy reports an execute request while the script is already replaying
var ErrBusy = errors.New("script is already executing")

// ScriptOptions configures a Script
type ScriptOptions struct {
	Name string
	// EndString is the line that leaves definition mode
	EndString string
	// MaxEntries limits the number of stored lines; 0 means unlimited
	MaxEntries int
	// MaxLineLength limits a stored line; 0 means unlimited
	MaxLineLength int
	Logger        *gclog.Logger
}

// Script stores command lines in a Store and replays them
type Script struct {
	store     Store
	name      string
	endString string
	maxLines  int
	maxLength int
	logger    *gclog.Logger

	mu        sync.Mutex
	cursor    int
	executing bool
}

// NewScript binds a script to store. The write cursor starts after the
// highest index already in the store, so a store with gaps keeps all of
// its entries reachable.
func NewScript(ctx context.Context, store Store, opts ScriptOptions) (*Script, error) {
	if opts.EndString == "" {
		opts.EndString = DefaultEndString
	}
	if opts.Logger == nil {
		opts.Logger = gclog.GetDefault()
	}

	cursor, err := nextIndex(ctx, store)
	if err != nil {
		return nil, err
	}

	return &Script{
		store:     store,
		name:      opts.Name,
		endString: opts.EndString,
		maxLines:  opts.MaxEntries,
		maxLength: opts.MaxLineLength,
		logger:    opts.Logger.WithFields(gclog.Fields{"component": "cli-storage", "script": opts.Name}),
		cursor:    cursor,
	}, nil
}

// nextIndex returns one past the highest stored index. Stores that cannot
// report their highest index are taken to be contiguous from 0.
func nextIndex(ctx context.Context, store Store) (int, error) {
	if b, ok := store.(LastIndexer); ok {
		last, found, err := b.LastIndex(ctx)
		if err != nil || !found {
			return 0, err
		}
		return last + 1, nil
	}
	return store.CountEntries(ctx)
}

// Name returns the script name
func (s *Script) Name() string { return s.name }

// EndString returns the line that ends definition mode
func (s *Script) EndString() string { return s.endString }

// Store returns the backing store
func (s *Script) Store() Store { return s.store }

// Len returns the write cursor, one past the last stored line
func (s *Script) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Define puts the session into definition mode. Every following line is
// appended until the end string arrives. Lines that do not fit are
// rejected with a message on the session output.
func (s *Script) Define(sess session.Session) {
	sess.SetRedirect(s.capture, sess)
	s.logger.Debug("Definition mode started")
}

func (s *Script) capture(ctx context.Context, line string, user any) {
	sess, _ := user.(session.Session)

	if line == s.endString {
		if sess != nil {
			sess.ClearRedirect()
		}
		s.logger.Debug("Definition mode ended", gclog.Fields{"entries": s.Len()})
		return
	}

	if err := s.Append(ctx, line); err != nil {
		s.logger.LogError(err)
		if sess != nil {
			if gcerror.HasCode(err, gcerror.CodeStorageFull) {
				sess.Printf("Storage full, line dropped\r\n")
			} else {
				sess.Printf("Storage error: %v\r\n", err)
			}
		}
	}
}

// Append stores line at the write cursor
func (s *Script) Append(ctx context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if (s.maxLines > 0 && s.cursor >= s.maxLines) || (s.maxLength > 0 && len(line) > s.maxLength) {
		return fullError("storage.Script.Append", s.cursor, len(line))
	}
	if err := s.store.WriteEntry(ctx, s.cursor, []byte(line)); err != nil {
		return err
	}
	s.cursor++
	return nil
}

// Clear deletes all stored lines and rewinds the write cursor. Clearing an
// empty script does nothing.
func (s *Script) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count, err := s.store.CountEntries(ctx)
	if err != nil {
		return err
	}
	if err := s.store.DeleteRange(ctx, 0, max(count, s.cursor)); err != nil {
		return err
	}
	s.cursor = 0
	s.logger.Debug("Script cleared", gclog.Fields{"entries": count})
	return nil
}

// Lines returns the stored lines in order
func (s *Script) Lines(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	count := s.cursor
	s.mu.Unlock()

	lines := make([]string, 0, count)
	for i := 0; i < count; i++ {
		data, ok, err := s.store.ReadEntry(ctx, i)
		if err != nil {
			return nil, err
		}
		if ok {
			lines = append(lines, string(data))
		}
	}
	return lines, nil
}

// List writes the stored lines, one per line
func (s *Script) List(ctx context.Context, w io.Writer) error {
	lines, err := s.Lines(ctx)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s\r\n", line); err != nil {
			return err
		}
	}
	return nil
}

// Execute replays the stored lines through sess. A cooperative session
// gets a job running one line per tick; otherwise the lines run before
// Execute returns.
func (s *Script) Execute(ctx context.Context, sess session.Session) error {
	replay, err := s.Replay(sess)
	if err != nil {
		return err
	}
	sess.StartJob(ctx, replay)
	return nil
}

// Replay returns a job that dispatches the stored lines one per step. It
// fails with ErrBusy while another replay of this script is running.
func (s *Script) Replay(sess session.Session) (*Replay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.executing {
		return nil, gcerror.Wrap(ErrBusy, "replay refused").
			WithCode(gcerror.CodeCLIRedirect).
			WithOperation("storage.Script.Replay").
			WithDetail("script", s.name)
	}
	s.executing = true
	return &Replay{script: s, session: sess, count: s.cursor}, nil
}

func (s *Script) finish() {
	s.mu.Lock()
	s.executing = false
	s.mu.Unlock()
}

// Replay steps through a script. It implements session.Job.
type Replay struct {
	script  *Script
	session session.Session
	// count is the write cursor when the replay started; lines appended
	// while it runs are not replayed
	count int
	next  int
	done  bool
}

// Step dispatches the next stored line and reports whether lines remain.
// Failed lines are reported by the session and do not stop the replay.
func (r *Replay) Step(ctx context.Context) bool {
	if r.done {
		return false
	}

	count := r.count
	for r.next < count {
		index := r.next
		r.next++

		data, ok, err := r.script.store.ReadEntry(ctx, index)
		if err != nil {
			r.script.logger.LogError(err)
			break
		}
		if !ok {
			continue
		}

		if err := r.session.HandleInput(ctx, string(data)); err != nil {
			r.script.logger.Debug("Stored line failed", gclog.Fields{"index": index, "error": err.Error()})
		}
		if r.next < count {
			return true
		}
		break
	}

	r.done = true
	r.script.finish()
	return false
}

// Done reports whether the replay has finished
func (r *Replay) Done() bool { return r.done }
