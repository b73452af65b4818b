package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/gecli/foundation/cli/argument"
	"github.com/msto63/gecli/foundation/cli/executor"
	"github.com/msto63/gecli/foundation/cli/registry"
	"github.com/msto63/gecli/foundation/cli/session"
	gcerror "github.com/msto63/gecli/foundation/core/error"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

// fakeSession dispatches through a real executor and records what ran
type fakeSession struct {
	out         bytes.Buffer
	exec        *executor.Executor
	cooperative bool
	jobs        []session.Job
	ran         []string
}

func (f *fakeSession) ID() string                        { return "test" }
func (f *fakeSession) Output() io.Writer                 { return &f.out }
func (f *fakeSession) Printf(format string, args ...any) { fmt.Fprintf(&f.out, format, args...) }
func (f *fakeSession) Cooperative() bool                 { return f.cooperative }
func (f *fakeSession) Redirected() bool                  { return f.exec.Redirected() }
func (f *fakeSession) ClearRedirect()                    { f.exec.ClearRedirect() }

func (f *fakeSession) SetRedirect(fn executor.RedirectFunc, user any) {
	f.exec.SetRedirect(fn, user)
}

func (f *fakeSession) HandleInput(ctx context.Context, line string) error {
	_, err := f.exec.Execute(session.NewContext(ctx, f), line)
	return err
}

func (f *fakeSession) StartJob(ctx context.Context, job session.Job) {
	if f.cooperative {
		f.jobs = append(f.jobs, job)
		return
	}
	for job.Step(ctx) {
	}
}

func newFixture(t *testing.T, store Store, opts ScriptOptions) (*fakeSession, *Script) {
	t.Helper()
	ctx := context.Background()
	opts.Logger = gclog.NewNop()
	script, err := NewScript(ctx, store, opts)
	require.NoError(t, err)

	sess := &fakeSession{}
	reg := registry.New(registry.Options{CaseSensitive: true, Logger: gclog.NewNop()})
	require.NoError(t, reg.Add(Commands(script, "ram")))
	require.NoError(t, reg.Add(&registry.Group{Name: "app", Table: registry.Table{
		{Name: "say", Descriptor: registry.MustCommand(registry.HandlerFunc(
			func(ctx context.Context, args *argument.Arguments) {
				sess.ran = append(sess.ran, args.String(0))
			}), "", []argument.Type{argument.String})},
	}}))
	sess.exec = executor.New(reg, executor.Options{Logger: gclog.NewNop()})
	return sess, script
}

func TestRAMStore(t *testing.T) {
	ctx := context.Background()
	s := NewRAMStore(RAMOptions{MaxEntries: 3, MaxEntrySize: 4})

	require.NoError(t, s.WriteEntry(ctx, 0, []byte("a")))
	require.NoError(t, s.WriteEntry(ctx, 2, []byte("c")))

	data, ok, err := s.ReadEntry(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("c"), data)

	_, ok, err = s.ReadEntry(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	err = s.WriteEntry(ctx, 3, []byte("d"))
	assert.True(t, gcerror.HasCode(err, gcerror.CodeStorageFull))
	err = s.WriteEntry(ctx, 1, []byte("toolong"))
	assert.True(t, gcerror.HasCode(err, gcerror.CodeStorageFull))

	require.NoError(t, s.DeleteRange(ctx, 1, 2))
	n, _ := s.CountEntries(ctx)
	assert.Equal(t, 1, n)
}

func TestRAMStoreCopiesData(t *testing.T) {
	ctx := context.Background()
	s := NewRAMStore(RAMOptions{})
	buf := []byte("abc")
	require.NoError(t, s.WriteEntry(ctx, 0, buf))
	buf[0] = 'X'

	data, _, _ := s.ReadEntry(ctx, 0)
	assert.Equal(t, "abc", string(data))
	data[1] = 'Y'
	again, _, _ := s.ReadEntry(ctx, 0)
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nvm3.db")

	s, err := NewSQLiteStore(SQLiteConfig{Path: path, Namespace: "a"})
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED") {
		t.Skip("sqlite3 requires cgo")
	}
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.WriteEntry(ctx, 0, []byte("first")))
	require.NoError(t, s.WriteEntry(ctx, 1, []byte("second")))
	require.NoError(t, s.WriteEntry(ctx, 1, []byte("replaced")))

	data, ok, err := s.ReadEntry(ctx, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "replaced", string(data))

	// a second namespace in the same file is independent
	other, err := NewSQLiteStore(SQLiteConfig{Path: path, Namespace: "b"})
	require.NoError(t, err)
	defer other.Close()
	n, err := other.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, s.DeleteRange(ctx, 0, 1))
	n, err = s.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, ok, err = s.ReadEntry(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ok)

	last, found, err := s.LastIndex(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, last)

	_, found, err = other.LastIndex(ctx)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSQLiteScriptSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nvm3.db")

	s, err := NewSQLiteStore(SQLiteConfig{Path: path})
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED") {
		t.Skip("sqlite3 requires cgo")
	}
	require.NoError(t, err)
	script, err := NewScript(ctx, s, ScriptOptions{Name: "nvm3", Logger: gclog.NewNop()})
	require.NoError(t, err)
	require.NoError(t, script.Append(ctx, "say one"))
	require.NoError(t, script.Append(ctx, "say two"))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(SQLiteConfig{Path: path})
	require.NoError(t, err)
	defer s.Close()
	script, err = NewScript(ctx, s, ScriptOptions{Name: "nvm3", Logger: gclog.NewNop()})
	require.NoError(t, err)

	assert.Equal(t, 2, script.Len())
	lines, err := script.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"say one", "say two"}, lines)

	// a gap left in the namespace keeps the later entries reachable
	require.NoError(t, s.DeleteRange(ctx, 0, 1))
	script, err = NewScript(ctx, s, ScriptOptions{Name: "nvm3", Logger: gclog.NewNop()})
	require.NoError(t, err)
	assert.Equal(t, 2, script.Len())
	lines, err = script.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"say two"}, lines)
}

func TestClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewRAMStore(RAMOptions{})
	_, script := newFixture(t, store, ScriptOptions{Name: "ram"})

	require.NoError(t, script.Clear(ctx))
	require.NoError(t, script.Clear(ctx))
	n, err := store.CountEntries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, script.Append(ctx, "say x"))
	require.NoError(t, script.Clear(ctx))
	n, _ = store.CountEntries(ctx)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, script.Len())
}

func TestRedirectRoundTrip(t *testing.T) {
	ctx := context.Background()
	sess, script := newFixture(t, NewRAMStore(RAMOptions{}), ScriptOptions{Name: "ram"})

	require.NoError(t, sess.HandleInput(ctx, "ram_define"))
	assert.True(t, sess.Redirected())

	lines := []string{"say a", `say "b c"`, "unknown command", "say {zz}"}
	for _, line := range lines {
		require.NoError(t, sess.HandleInput(ctx, line))
	}
	assert.Empty(t, sess.ran, "nothing runs in definition mode")

	require.NoError(t, sess.HandleInput(ctx, "end"))
	assert.False(t, sess.Redirected())

	stored, err := script.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, lines, stored)

	require.NoError(t, sess.HandleInput(ctx, "say live"))
	assert.Equal(t, []string{"live"}, sess.ran)
}

func TestDefineAppendsAndRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	sess, script := newFixture(t, NewRAMStore(RAMOptions{}), ScriptOptions{
		Name:          "ram",
		EndString:     "done",
		MaxEntries:    2,
		MaxLineLength: 8,
	})

	require.NoError(t, sess.HandleInput(ctx, "ram_define"))
	require.NoError(t, sess.HandleInput(ctx, "say a"))
	require.NoError(t, sess.HandleInput(ctx, "say a very long line"))
	require.NoError(t, sess.HandleInput(ctx, "say b"))
	require.NoError(t, sess.HandleInput(ctx, "say c"))
	require.NoError(t, sess.HandleInput(ctx, "end"))
	assert.True(t, sess.Redirected(), "only the configured end string leaves definition mode")
	require.NoError(t, sess.HandleInput(ctx, "done"))
	assert.False(t, sess.Redirected())

	assert.Equal(t, 2, script.Len())
	assert.Contains(t, sess.out.String(), "Storage full")
}

func TestThreadedExecute(t *testing.T) {
	ctx := context.Background()
	sess, script := newFixture(t, NewRAMStore(RAMOptions{}), ScriptOptions{Name: "ram"})
	for _, line := range []string{"say 1", "bogus", "say 2"} {
		require.NoError(t, script.Append(ctx, line))
	}

	require.NoError(t, sess.HandleInput(ctx, "ram_execute"))
	assert.Equal(t, []string{"1", "2"}, sess.ran, "failed lines do not stop the replay")

	require.NoError(t, sess.HandleInput(ctx, "ram_execute"))
	assert.Len(t, sess.ran, 4, "a finished replay can run again")
}

func TestCooperativeExecuteRunsOneLinePerStep(t *testing.T) {
	ctx := context.Background()
	sess, script := newFixture(t, NewRAMStore(RAMOptions{}), ScriptOptions{Name: "ram"})
	sess.cooperative = true
	for _, line := range []string{"say 1", "say 2", "say 3"} {
		require.NoError(t, script.Append(ctx, line))
	}

	require.NoError(t, sess.HandleInput(ctx, "ram_execute"))
	require.Len(t, sess.jobs, 1)
	job := sess.jobs[0]
	assert.Empty(t, sess.ran)

	assert.True(t, job.Step(ctx))
	assert.Equal(t, []string{"1"}, sess.ran)
	assert.True(t, job.Step(ctx))
	assert.Equal(t, []string{"1", "2"}, sess.ran)
	assert.False(t, job.Step(ctx))
	assert.Equal(t, []string{"1", "2", "3"}, sess.ran)
	assert.False(t, job.Step(ctx))
}

func TestExecuteRefusesNestedReplay(t *testing.T) {
	ctx := context.Background()
	sess, script := newFixture(t, NewRAMStore(RAMOptions{}), ScriptOptions{Name: "ram"})
	require.NoError(t, script.Append(ctx, "say 1"))
	require.NoError(t, script.Append(ctx, "ram_execute"))

	require.NoError(t, sess.HandleInput(ctx, "ram_execute"))
	assert.Equal(t, []string{"1"}, sess.ran)
	assert.Contains(t, sess.out.String(), "already executing")
}

func TestReplayIgnoresLinesStoredWhileRunning(t *testing.T) {
	ctx := context.Background()
	sess, script := newFixture(t, NewRAMStore(RAMOptions{}), ScriptOptions{Name: "ram"})
	for _, line := range []string{"ram_define", "say a", "say b"} {
		require.NoError(t, script.Append(ctx, line))
	}

	replay, err := script.Replay(sess)
	require.NoError(t, err)
	steps := 1
	for replay.Step(ctx) {
		steps++
		require.Less(t, steps, 10, "replay does not end")
	}
	assert.Equal(t, 3, steps)
	assert.True(t, replay.Done())

	// the stored define re-entered definition mode and captured the rest
	assert.Empty(t, sess.ran)
	assert.True(t, sess.Redirected())
	lines, err := script.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ram_define", "say a", "say b", "say a", "say b"}, lines)
}

func TestThreadedExecuteOfSelfDefiningScriptEnds(t *testing.T) {
	ctx := context.Background()
	sess, script := newFixture(t, NewRAMStore(RAMOptions{}), ScriptOptions{Name: "ram"})
	require.NoError(t, script.Append(ctx, "ram_define"))
	require.NoError(t, script.Append(ctx, "say a"))

	require.NoError(t, sess.HandleInput(ctx, "ram_execute"))
	assert.Equal(t, 3, script.Len())
	require.NoError(t, sess.HandleInput(ctx, "end"))
	assert.False(t, sess.Redirected())
}

// countOnly hides the LastIndex method of the wrapped store
type countOnly struct{ Store }

func TestScriptCursorStartsAfterHighestIndex(t *testing.T) {
	ctx := context.Background()
	store := NewRAMStore(RAMOptions{})
	require.NoError(t, store.WriteEntry(ctx, 0, []byte("say a")))
	require.NoError(t, store.WriteEntry(ctx, 2, []byte("say c")))

	last, found, err := store.LastIndex(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 2, last)

	sess, script := newFixture(t, store, ScriptOptions{Name: "ram"})
	assert.Equal(t, 3, script.Len())
	lines, err := script.Lines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"say a", "say c"}, lines)

	require.NoError(t, sess.HandleInput(ctx, "ram_execute"))
	assert.Equal(t, []string{"a", "c"}, sess.ran)

	require.NoError(t, script.Append(ctx, "say d"))
	data, ok, err := store.ReadEntry(ctx, 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "say d", string(data))

	require.NoError(t, script.Clear(ctx))
	n, _ := store.CountEntries(ctx)
	assert.Zero(t, n)
	_, found, _ = store.LastIndex(ctx)
	assert.False(t, found)

	// without LastIndex the store is taken to be contiguous
	plain := NewRAMStore(RAMOptions{})
	require.NoError(t, plain.WriteEntry(ctx, 0, []byte("say a")))
	require.NoError(t, plain.WriteEntry(ctx, 1, []byte("say b")))
	_, script = newFixture(t, countOnly{plain}, ScriptOptions{Name: "ram"})
	assert.Equal(t, 2, script.Len())
}

func TestEmptyReplayFinishesImmediately(t *testing.T) {
	_, script := newFixture(t, NewRAMStore(RAMOptions{}), ScriptOptions{Name: "ram"})
	replay, err := script.Replay(&fakeSession{})
	require.NoError(t, err)
	assert.False(t, replay.Step(context.Background()))
	assert.True(t, replay.Done())
}

func TestListCommand(t *testing.T) {
	ctx := context.Background()
	sess, script := newFixture(t, NewRAMStore(RAMOptions{}), ScriptOptions{Name: "ram"})
	require.NoError(t, script.Append(ctx, "say 1"))
	require.NoError(t, script.Append(ctx, "say 2"))

	require.NoError(t, sess.HandleInput(ctx, "ram_list"))
	assert.Equal(t, "say 1\r\nsay 2\r\n", sess.out.String())
}
