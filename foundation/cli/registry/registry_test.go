package registry

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/gecli/foundation/cli/argument"
	gcerror "github.com/msto63/gecli/foundation/core/error"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

func nop(context.Context, *argument.Arguments) {}

func testGroup() *Group {
	rgb := Table{
		{Name: "set", Descriptor: MustCommand(HandlerFunc(nop), "Set the colour",
			[]argument.Type{argument.Uint8, argument.Uint8, argument.Uint8}, "red", "green", "blue")},
		{Name: "get", Descriptor: MustCommand(HandlerFunc(nop), "Show the colour", nil)},
	}
	return &Group{Name: "demo", Table: Table{
		{Name: "echo", Descriptor: MustCommand(HandlerFunc(nop), "Echo arguments",
			[]argument.Type{argument.Wildcard})},
		{Name: "rgb", Descriptor: NewGroup("RGB LED", rgb)},
		{Name: "reset", Descriptor: MustCommand(HandlerFunc(nop), "Reset", nil)},
		{Name: "?", Descriptor: MustCommand(HandlerFunc(nop), "Info", nil), Shortcut: true},
	}}
}

func newRegistry(t *testing.T, caseSensitive bool) *Registry {
	t.Helper()
	r := New(Options{CaseSensitive: caseSensitive, Logger: gclog.NewNop()})
	require.NoError(t, r.Add(testGroup()))
	return r
}

func TestNewCommandValidatesTypes(t *testing.T) {
	_, err := NewCommand(HandlerFunc(nop), "bad", []argument.Type{argument.StringOpt, argument.Uint8})
	require.Error(t, err)
	assert.ErrorIs(t, err, argument.ErrBadTypes)

	_, err = NewCommand(nil, "nil", nil)
	assert.True(t, gcerror.HasCode(err, gcerror.CodeCLIBadTable))

	assert.Panics(t, func() {
		MustCommand(HandlerFunc(nop), "bad", []argument.Type{argument.Additional})
	})
}

func TestAddRejectsInvalidTables(t *testing.T) {
	r := New(Options{Logger: gclog.NewNop()})

	tests := []struct {
		name  string
		table Table
	}{
		{"blank name", Table{{Name: " ", Descriptor: NewGroup("", Table{})}}},
		{"name with space", Table{{Name: "a b", Descriptor: MustCommand(HandlerFunc(nop), "", nil)}}},
		{"reserved help", Table{{Name: "help", Descriptor: MustCommand(HandlerFunc(nop), "", nil)}}},
		{"reserved help in nested group", Table{{Name: "g", Descriptor: NewGroup("", Table{
			{Name: "HELP", Descriptor: MustCommand(HandlerFunc(nop), "", nil)},
		})}}},
		{"missing descriptor", Table{{Name: "x"}}},
		{"leaf without handler", Table{{Name: "x", Descriptor: &Descriptor{}}}},
		{"nested bad types", Table{{Name: "g", Descriptor: NewGroup("", Table{
			{Name: "x", Descriptor: &Descriptor{Handler: HandlerFunc(nop), Types: []argument.Type{argument.Wildcard, argument.Uint8}}},
		})}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Add(&Group{Name: tt.name, Table: tt.table})
			require.Error(t, err)
			assert.True(t, gcerror.HasCode(err, gcerror.CodeCLIBadTable))
		})
	}
	assert.Empty(t, r.Groups())
}

func TestTableStopsAtUnnamedEntry(t *testing.T) {
	table := Table{
		{Name: "a", Descriptor: MustCommand(HandlerFunc(nop), "", nil)},
		{},
		{Name: "hidden"},
	}
	assert.Len(t, table.Entries(), 1)

	r := New(Options{Logger: gclog.NewNop()})
	require.NoError(t, r.Add(&Group{Name: "sentinel", Table: table}))
	_, err := r.Find([]string{"hidden"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddRemove(t *testing.T) {
	r := New(Options{Logger: gclog.NewNop()})
	g := testGroup()

	require.NoError(t, r.Add(g))
	err := r.Add(g)
	assert.ErrorIs(t, err, ErrDuplicateGroup)
	assert.Len(t, r.Groups(), 1)

	assert.True(t, r.Remove(g))
	assert.False(t, r.Remove(g))
	_, err = r.Find([]string{"echo"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindLeaf(t *testing.T) {
	r := newRegistry(t, true)

	m, err := r.Find([]string{"echo", "a", "b"})
	require.NoError(t, err)
	assert.False(t, m.Help)
	assert.Equal(t, []string{"echo"}, m.Path)
	assert.Equal(t, []string{"a", "b"}, m.Args())

	m, err = r.Find([]string{"rgb", "set", "1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, 2, m.CommandStringCount())
	assert.Equal(t, "Set the colour", m.Descriptor.Help)

	m, err = r.Find([]string{"?"})
	require.NoError(t, err, "shortcuts are dispatchable")
	assert.Equal(t, "Info", m.Descriptor.Help)
}

func TestFindNotFound(t *testing.T) {
	r := newRegistry(t, true)

	_, err := r.Find([]string{"rgb", "blink"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, gcerror.HasCode(err, gcerror.CodeCLINotFound))

	var gcErr *gcerror.Error
	require.True(t, errors.As(err, &gcErr))
	pos, _ := gcErr.Detail("position")
	assert.Equal(t, 1, pos)

	_, err = r.Find(nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindCaseSensitivity(t *testing.T) {
	_, err := newRegistry(t, true).Find([]string{"ECHO"})
	assert.ErrorIs(t, err, ErrNotFound)

	m, err := newRegistry(t, false).Find([]string{"RGB", "Get"})
	require.NoError(t, err)
	assert.Equal(t, "Show the colour", m.Descriptor.Help)
}

func TestFindHelp(t *testing.T) {
	r := newRegistry(t, true)

	m, err := r.Find([]string{"help"})
	require.NoError(t, err)
	assert.True(t, m.Help)
	assert.Nil(t, m.Topic)
	assert.Len(t, m.Listing, 4)

	// help inside a group lists that group
	m, err = r.Find([]string{"rgb", "help"})
	require.NoError(t, err)
	assert.True(t, m.Help)
	assert.Len(t, m.Listing, 2)

	// help <path> describes one command
	m, err = r.Find([]string{"help", "rgb", "set"})
	require.NoError(t, err)
	require.NotNil(t, m.Topic)
	assert.Equal(t, []string{"rgb", "set"}, m.TopicPath)

	// a path ending on a group lists it
	m, err = r.Find([]string{"rgb"})
	require.NoError(t, err)
	assert.True(t, m.Help)
	assert.Len(t, m.Listing, 2)

	_, err = r.Find([]string{"help", "nothing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComplete(t *testing.T) {
	r := newRegistry(t, true)

	assert.Equal(t, []string{"rgb", "reset"}, r.Complete([]string{"r"}))
	assert.Equal(t, []string{"help"}, r.Complete([]string{"he"}))
	assert.Equal(t, []string{"set"}, r.Complete([]string{"rgb", "s"}))
	assert.Equal(t, []string{"set", "get"}, r.Complete([]string{"rgb", ""}))
	assert.Equal(t, []string{"rgb", "reset"}, r.Complete([]string{"help", "r"}))
	assert.Empty(t, r.Complete([]string{"?"}), "shortcuts are not completed")
	assert.Empty(t, r.Complete([]string{"echo", "x"}), "leaf commands have no children")
	assert.Empty(t, r.Complete(nil))

	folded := newRegistry(t, false)
	assert.Equal(t, []string{"echo"}, folded.Complete([]string{"EC"}))
}

func TestUsage(t *testing.T) {
	tests := []struct {
		types []argument.Type
		want  string
	}{
		{nil, ""},
		{[]argument.Type{argument.Uint8, argument.StringOpt}, "<uint8> [string]"},
		{[]argument.Type{argument.Uint32, argument.Additional}, "<uint32> [uint32...]"},
		{[]argument.Type{argument.Hex, argument.Wildcard, argument.End}, "<hex> [...]"},
	}
	for _, tt := range tests {
		d := MustCommand(HandlerFunc(nop), "", tt.types)
		assert.Equal(t, tt.want, d.Usage())
	}
}

func TestWriteHelp(t *testing.T) {
	r := newRegistry(t, true)

	m, err := r.Find([]string{"help"})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteHelp(&buf, m))
	assert.Equal(t,
		"  echo   Echo arguments\r\n"+
			"  rgb    RGB LED\r\n"+
			"  reset  Reset\r\n",
		buf.String())

	m, err = r.Find([]string{"help", "rgb", "set"})
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, WriteHelp(&buf, m))
	assert.Equal(t,
		"rgb set <uint8> <uint8> <uint8>\r\n"+
			"  Set the colour\r\n"+
			"    uint8  red\r\n"+
			"    uint8  green\r\n"+
			"    uint8  blue\r\n",
		buf.String())
}

func TestHandlerFuncInvoke(t *testing.T) {
	called := false
	var cmd Command = HandlerFunc(func(_ context.Context, args *argument.Arguments) {
		called = args.CommandPath() == "x"
	})
	cmd.Invoke(context.Background(), argument.NewArguments([]string{"x"}))
	assert.True(t, called)
}
