package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/gecli/foundation/cli/registry"
	gclog "github.com/msto63/gecli/foundation/core/log"
	"github.com/msto63/gecli/internal/demo"
)

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New(registry.Options{Logger: gclog.NewNop()})
	require.NoError(t, reg.Add(demo.New("demo", gclog.NewNop()).Commands()))
	return reg
}

func TestHelpListingPlain(t *testing.T) {
	var out bytes.Buffer
	styles := NewStyles(&out)
	reg := newRegistry(t)

	m, err := reg.Find([]string{"rgb", "help"})
	require.NoError(t, err)
	require.NoError(t, HelpWriter(styles)(&out, m))

	want := "" +
		"  set <uint8> <uint8> <uint8>  Set the LED colour\r\n" +
		"  get                          Show the LED colour\r\n" +
		"  wheel <uint16>               Set the LED to a colour wheel angle\r\n"
	assert.Equal(t, want, out.String())
}

func TestHelpListingMarksGroups(t *testing.T) {
	var out bytes.Buffer
	reg := newRegistry(t)

	m, err := reg.Find([]string{"help"})
	require.NoError(t, err)
	require.NoError(t, HelpWriter(NewStyles(&out))(&out, m))

	assert.Contains(t, out.String(), "  rgb/ ")
	assert.Contains(t, out.String(), "  sum <uint32> [uint32...] ")
	assert.NotContains(t, out.String(), "  ?")
}

func TestHelpTopicPlain(t *testing.T) {
	var out bytes.Buffer
	reg := newRegistry(t)

	m, err := reg.Find([]string{"help", "rgb", "set"})
	require.NoError(t, err)
	require.NoError(t, HelpWriter(NewStyles(&out))(&out, m))

	want := "" +
		"rgb set <uint8> <uint8> <uint8>\r\n" +
		"  Set the LED colour\r\n" +
		"    uint8  red\r\n" +
		"    uint8  green\r\n" +
		"    uint8  blue\r\n"
	assert.Equal(t, want, out.String())
}

func TestBannerAndFailure(t *testing.T) {
	styles := NewStyles(&bytes.Buffer{})
	banner := Banner(styles, "gecli", "0.3.0")
	assert.True(t, strings.HasPrefix(banner, "gecli 0.3.0\r\n"))
	assert.Contains(t, banner, "type help")

	assert.Equal(t, "error: port busy\r\n", Failure(styles, errors.New("port busy")))
}
