package transport

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msto63/gecli/foundation/cli"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

// readAll drains a pump through the blocking interface
func readAll(t *testing.T, p *Pump) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	var sb strings.Builder
	for {
		b, err := p.ReadByteContext(ctx)
		if err != nil {
			return sb.String(), err
		}
		sb.WriteByte(b)
	}
}

func TestPumpDeliversBytesThenError(t *testing.T) {
	p := NewPump(strings.NewReader("help\r"), 2)
	got, err := readAll(t, p)
	assert.Equal(t, "help\r", got)
	assert.ErrorIs(t, err, io.EOF)
	assert.ErrorIs(t, p.Err(), io.EOF)
}

func TestPumpTryReadByte(t *testing.T) {
	p := newPump(8)
	b, ok, err := p.TryReadByte()
	assert.False(t, ok)
	assert.NoError(t, err)
	assert.Zero(t, b)
	assert.False(t, p.Pending())

	require.True(t, p.push([]byte("ab")))
	assert.True(t, p.Pending())

	b, ok, err = p.TryReadByte()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)

	p.finish(io.ErrUnexpectedEOF)
	b, ok, _ = p.TryReadByte()
	require.True(t, ok, "buffered bytes survive the error")
	assert.Equal(t, byte('b'), b)

	_, ok, err = p.TryReadByte()
	assert.False(t, ok)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestPumpContextCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	p := NewPump(r, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.ReadByteContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPumpClose(t *testing.T) {
	r, w := io.Pipe()
	p := NewPump(r, 1)
	require.NoError(t, p.Close())

	// The goroutine is blocked handing over the second byte and gives up
	go func() { _, _ = w.Write([]byte("xyz")) }()

	_, err := readAll(t, p)
	assert.ErrorIs(t, err, ErrClosed)
	_ = w.Close()
}

func TestPipe(t *testing.T) {
	p := NewPipe()
	require.NoError(t, p.Send("ok"))
	p.CloseInput()
	assert.ErrorIs(t, p.Send("late"), ErrClosed)

	got, err := readAll(t, p.Pump)
	assert.Equal(t, "ok", got)
	assert.ErrorIs(t, err, io.EOF)

	_, _ = p.Write([]byte("out"))
	assert.Equal(t, "out", p.Output())
	p.Reset()
	assert.Empty(t, p.Output())
}

func TestInterruptReader(t *testing.T) {
	r := &interruptReader{r: strings.NewReader("ls\x03rest")}
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "ls", string(data))

	n, err := r.Read(make([]byte, 4))
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)
}

type emptyReader struct{ reads int }

func (e *emptyReader) Read([]byte) (int, error) {
	e.reads++
	return 0, io.EOF
}

func TestTimeoutReader(t *testing.T) {
	var closed atomic.Bool
	src := &emptyReader{}
	r := &timeoutReader{r: src, closed: &closed}

	n, err := r.Read(make([]byte, 1))
	assert.Zero(t, n)
	assert.NoError(t, err, "a timeout is not the end of input")

	closed.Store(true)
	_, err = r.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpenSerialRequiresDevice(t *testing.T) {
	_, err := OpenSerial(SerialConfig{})
	assert.Error(t, err)
}

func TestWebSocketSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewWebSocketServer(ctx, func(ctx context.Context, ws *WebSocket) {
		inst, err := cli.New(cli.Options{
			Name:    "remote",
			Prompt:  "$ ",
			Version: "9.9",
			Mode:    cli.ModeThreaded,
			Input:   ws,
			Output:  ws,
			Logger:  gclog.NewNop(),
		})
		if err != nil {
			return
		}
		_ = inst.Run(ctx)
	}, gclog.NewNop())

	httpSrv := httptest.NewServer(srv)
	defer httpSrv.Close()

	client, err := DialWebSocket(ctx, "ws"+strings.TrimPrefix(httpSrv.URL, "http"))
	require.NoError(t, err)

	_, err = client.Write([]byte("version\r"))
	require.NoError(t, err)

	readCtx, readCancel := context.WithTimeout(ctx, 2*time.Second)
	defer readCancel()
	var sb strings.Builder
	for !strings.Contains(sb.String(), "remote 9.9\r\n$ ") {
		b, err := client.ReadByteContext(readCtx)
		require.NoError(t, err, "received so far: %q", sb.String())
		sb.WriteByte(b)
	}

	assert.Equal(t, 1, srv.Sessions())

	require.NoError(t, client.Close())
	waitDone := make(chan struct{})
	go func() {
		srv.Wait()
		close(waitDone)
	}()
	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		t.Fatal("session did not end after the client closed")
	}
	assert.Zero(t, srv.Sessions())
}

func TestDialWebSocketFails(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := DialWebSocket(ctx, "ws://127.0.0.1:1/")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrClosed))
}
