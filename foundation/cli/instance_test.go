package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/gecli/foundation/cli/argument"
	"github.com/msto63/gecli/foundation/cli/registry"
	"github.com/msto63/gecli/foundation/cli/session"
	"github.com/msto63/gecli/foundation/cli/storage"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

// scriptedInput hands out queued bytes; once closed an empty queue reports EOF
type scriptedInput struct {
	mu     sync.Mutex
	data   []byte
	closed bool
}

func (s *scriptedInput) push(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append(s.data, text...)
}

func (s *scriptedInput) TryReadByte() (byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.data) == 0 {
		if s.closed {
			return 0, false, io.EOF
		}
		return 0, false, nil
	}
	b := s.data[0]
	s.data = s.data[1:]
	return b, true, nil
}

func (s *scriptedInput) ReadByteContext(ctx context.Context) (byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b, ok, err := s.TryReadByte()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, io.EOF
	}
	return b, nil
}

type fixture struct {
	inst  *Instance
	in    *scriptedInput
	out   *bytes.Buffer
	calls []string
	busy  []bool
}

func newFixture(t *testing.T, mutate func(*Options)) *fixture {
	t.Helper()
	f := &fixture{in: &scriptedInput{}, out: &bytes.Buffer{}}

	record := func(ctx context.Context, args *argument.Arguments) {
		f.calls = append(f.calls, strings.TrimSpace(args.CommandPath()+" "+strings.Join(args.Strings(0), " ")))
	}
	countdown := func(ctx context.Context, args *argument.Arguments) {
		sess, _ := session.FromContext(ctx)
		n := int(args.Uint8(0))
		sess.StartJob(ctx, session.JobFunc(func(context.Context) bool {
			n--
			f.calls = append(f.calls, "step")
			return n > 0
		}))
	}

	opts := DefaultOptions()
	opts.Name = "test"
	opts.Prompt = "> "
	opts.Version = "1.2.3"
	opts.Input = f.in
	opts.Output = f.out
	opts.Logger = gclog.NewNop()
	opts.OnBusyChange = func(busy bool) { f.busy = append(f.busy, busy) }
	opts.Groups = []*registry.Group{{Name: "app", Table: registry.Table{
		{Name: "set", Descriptor: registry.MustCommand(registry.HandlerFunc(record), "Set a value",
			[]argument.Type{argument.Uint8, argument.StringOpt})},
		{Name: "countdown", Descriptor: registry.MustCommand(registry.HandlerFunc(countdown), "Count down",
			[]argument.Type{argument.Uint8})},
	}}}
	if mutate != nil {
		mutate(&opts)
	}

	inst, err := New(opts)
	require.NoError(t, err)
	f.inst = inst
	return f
}

func TestTickDispatchesCompletedLine(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.in.push("set 7 x")
	assert.False(t, f.inst.Tick(ctx))
	assert.Empty(t, f.calls, "no dispatch before end of line")
	assert.False(t, f.inst.IsOkToSleep(), "partial line pending")

	f.in.push("\r\n")
	f.inst.Tick(ctx)
	assert.Equal(t, []string{"set 7 x"}, f.calls)
	assert.Equal(t, "> set 7 x\r\n> ", f.out.String())
	assert.True(t, f.inst.IsOkToSleep())
}

func TestTickReportsStatus(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.in.push("blink\rset 300\rset\rset \"a\r")
	f.inst.Tick(ctx)

	out := f.out.String()
	assert.Contains(t, out, "Command not recognized\r\n")
	assert.Contains(t, out, "Invalid argument format\r\n")
	assert.Contains(t, out, "Wrong number of arguments\r\n")
	assert.Contains(t, out, "Command syntax error\r\n")
	assert.Empty(t, f.calls)
}

func TestTooManyArguments(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.MaxArguments = 3 })
	f.in.push("set 1 a b\r")
	f.inst.Tick(context.Background())
	assert.Contains(t, f.out.String(), "Too many arguments\r\n")
}

func TestCooperativeJobAdvancesOneStepPerTick(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.in.push("countdown 3\r")
	assert.True(t, f.inst.Tick(ctx), "first step runs in the dispatching tick")
	assert.Equal(t, []string{"step"}, f.calls)
	assert.False(t, f.inst.IsOkToSleep())

	assert.True(t, f.inst.Tick(ctx))
	assert.False(t, f.inst.Tick(ctx))
	assert.Equal(t, []string{"step", "step", "step"}, f.calls)
	assert.True(t, f.inst.IsOkToSleep())
	assert.Equal(t, []bool{true, false}, f.busy)

	assert.False(t, f.inst.Tick(ctx))
}

func TestNestedJobFinishesFirst(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	var order []string
	outer := 0
	f.inst.StartJob(ctx, session.JobFunc(func(ctx context.Context) bool {
		outer++
		order = append(order, "outer")
		if outer == 1 {
			inner := 0
			f.inst.StartJob(ctx, session.JobFunc(func(context.Context) bool {
				inner++
				order = append(order, "inner")
				return inner < 2
			}))
		}
		return outer < 2
	}))

	for f.inst.Tick(ctx) {
	}
	assert.Equal(t, []string{"outer", "inner", "inner", "outer"}, order)
}

func TestThreadedRunRunsJobsInline(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Mode = ModeThreaded })
	f.in.push("countdown 2\rset 1\r")
	f.in.closed = true

	require.NoError(t, f.inst.Run(context.Background()))
	assert.Equal(t, []string{"step", "step", "set 1"}, f.calls)
	assert.ErrorIs(t, f.inst.Err(), io.EOF)
	assert.Empty(t, f.busy, "threaded jobs never show as pending")
}

func TestCooperativeRunStopsAtEOF(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.TickInterval = time.Millisecond })
	f.in.push("countdown 2\r")
	f.in.closed = true

	require.NoError(t, f.inst.Run(context.Background()))
	assert.Equal(t, []string{"step"}, f.calls, "the first step runs in the tick that hits EOF")
}

func TestRunStopsOnCancel(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.TickInterval = time.Millisecond })
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.inst.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunWithoutInput(t *testing.T) {
	inst, err := New(Options{Logger: gclog.NewNop()})
	require.NoError(t, err)
	assert.Error(t, inst.Run(context.Background()))
	assert.False(t, inst.Tick(context.Background()))
}

func TestInstancesAreIsolated(t *testing.T) {
	a := newFixture(t, nil)
	b := newFixture(t, nil)
	ctx := context.Background()

	assert.NotEqual(t, a.inst.ID(), b.inst.ID())

	a.in.push("echo off\r")
	a.inst.Tick(ctx)
	assert.False(t, a.inst.Editor().Echo())
	assert.True(t, b.inst.Editor().Echo())

	a.inst.SetRedirect(func(context.Context, string, any) {}, nil)
	assert.True(t, a.inst.Redirected())
	assert.False(t, b.inst.Redirected())
}

func TestBuiltins(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	f.in.push("echo\r")
	f.inst.Tick(ctx)
	assert.Contains(t, f.out.String(), "echo on\r\n")

	f.in.push("echo off\rset 1\rversion\r")
	f.inst.Tick(ctx)
	out := f.out.String()
	assert.NotContains(t, out, "set 1", "typed characters are not echoed")
	assert.Contains(t, out, "test 1.2.3\r\n")

	f.in.push("echo on\rhistory\r")
	f.inst.Tick(ctx)
	assert.Contains(t, f.out.String(), "  1  echo\r\n")
	assert.Contains(t, f.out.String(), "  3  set 1\r\n")

	f.in.push("echo maybe\r")
	f.inst.Tick(ctx)
	assert.Contains(t, f.out.String(), "usage: echo [on|off]")
}

func TestHelpListing(t *testing.T) {
	f := newFixture(t, nil)
	f.in.push("help\r")
	f.inst.Tick(context.Background())

	out := f.out.String()
	assert.Contains(t, out, "  echo ")
	assert.Contains(t, out, "  countdown  Count down\r\n")
	assert.NotContains(t, out, "Command not recognized")
}

func TestCustomHelpWriter(t *testing.T) {
	var got *registry.Match
	f := newFixture(t, func(o *Options) {
		o.HelpWriter = func(w io.Writer, m *registry.Match) error {
			got = m
			return nil
		}
	})
	f.in.push("help set\r")
	f.inst.Tick(context.Background())
	require.NotNil(t, got)
	assert.Equal(t, []string{"set"}, got.TopicPath)
}

func TestScriptThroughInstance(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	script, err := storage.NewScript(ctx, storage.NewRAMStore(storage.RAMOptions{}), storage.ScriptOptions{
		Name:   "ram",
		Logger: gclog.NewNop(),
	})
	require.NoError(t, err)
	require.NoError(t, f.inst.AddGroup(storage.Commands(script, "ram")))

	f.in.push("ram_define\rset 1\rset 2 two\rend\r")
	f.inst.Tick(ctx)
	assert.Empty(t, f.calls)
	assert.False(t, f.inst.Redirected())
	assert.Equal(t, 2, script.Len())

	f.in.push("ram_execute\r")
	assert.True(t, f.inst.Tick(ctx))
	assert.Equal(t, []string{"set 1"}, f.calls)
	assert.False(t, f.inst.Tick(ctx))
	assert.Equal(t, []string{"set 1", "set 2 two"}, f.calls)
}
