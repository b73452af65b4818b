package integration

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/msto63/gecli/foundation/cli"
	"github.com/msto63/gecli/foundation/cli/registry"
	"github.com/msto63/gecli/foundation/cli/storage"
	gclog "github.com/msto63/gecli/foundation/core/log"
	"github.com/msto63/gecli/internal/demo"
	"github.com/msto63/gecli/pkg/core/health"
	"github.com/msto63/gecli/pkg/core/transport"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// skipIfServiceUnavailable skips the test if the server is not reachable
func skipIfServiceUnavailable(t *testing.T, addr string) {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	if err != nil {
		t.Skipf("Skipping: gecli server not available at %s", addr)
	}
	conn.Close()
}

// server is an in-process gecli server with SQLite script storage
type server struct {
	url      string
	health   string
	script   *storage.Script
	led      *demo.LED
	sessions *transport.WebSocketServer
}

func startServer(t *testing.T, mode cli.Mode) *server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	logger := gclog.NewNop()
	settings := cli.StorageSettings{
		Type:       "sqlite",
		Path:       filepath.Join(t.TempDir(), "nvm3.db"),
		MaxEntries: 16,
		MaxLine:    128,
		EndString:  "end",
	}
	script, closeStore, err := cli.OpenScript(ctx, settings, logger)
	if err != nil && strings.Contains(err.Error(), "CGO_ENABLED") {
		t.Skip("sqlite driver needs cgo")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	app := demo.New("gecli", logger)
	sessions := transport.NewWebSocketServer(ctx, func(ctx context.Context, ws *transport.WebSocket) {
		inst, err := cli.New(cli.Options{
			Name:         "remote",
			Prompt:       "> ",
			Echo:         true,
			Mode:         mode,
			TickInterval: time.Millisecond,
			Input:        ws,
			Output:       ws,
			Logger:       logger,
			Groups: []*registry.Group{
				app.Commands(),
				storage.Commands(script, settings.Prefix()),
			},
		})
		if err != nil {
			return
		}
		_ = inst.Run(ctx)
	}, logger)

	checks := health.NewRegistry("gecli", "test")
	checks.Register(health.SessionCheck("sessions", sessions.Sessions, 2))
	checks.Register(health.StoreCheck("script", script.Store()))

	mux := http.NewServeMux()
	mux.Handle("/cli", sessions)
	mux.Handle("/healthz", checks.Handler(time.Second))

	httpSrv := httptest.NewServer(mux)
	t.Cleanup(httpSrv.Close)

	return &server{
		url:      "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/cli",
		health:   httpSrv.URL + "/healthz",
		script:   script,
		led:      app.LED(),
		sessions: sessions,
	}
}

// client is one connected session
type client struct {
	t  *testing.T
	ws *transport.WebSocket
}

func dial(t *testing.T, url string) *client {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ws, err := transport.DialWebSocket(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	c := &client{t: t, ws: ws}
	c.expect("> ")
	return c
}

// run sends a line and returns the output up to the next prompt
func (c *client) run(line string) string {
	c.t.Helper()
	_, err := c.ws.Write([]byte(line + "\r"))
	require.NoError(c.t, err)
	out := c.expect("\r\n> ")
	out = strings.TrimPrefix(out, line+"\r\n")
	return strings.TrimSuffix(out, "> ")
}

// expect reads until the output ends with suffix
func (c *client) expect(suffix string) string {
	c.t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sb strings.Builder
	for !strings.HasSuffix(sb.String(), suffix) {
		b, err := c.ws.ReadByteContext(ctx)
		require.NoError(c.t, err, "output so far: %q", sb.String())
		sb.WriteByte(b)
	}
	return sb.String()
}
