// ============================================================================
// gecli - Embedded-style command line framework
// ============================================================================
//
// Package:     transport
// Description: WebSocket transport and server for remote CLI sessions
// Author:      msto63
// Created:     2026-10-11
// License:     MIT
// ============================================================================

package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	gcerror "github.com/msto63/gecli/foundation/core/error"
	gclog "github.com/msto63/gecli/foundation/core/log"
)

const writeWait = 5 * time.Second

// WebSocket carries a CLI session over a WebSocket connection. Incoming
// text and binary messages are treated as a byte stream; each Write is sent
// as one text message.
type WebSocket struct {
	*Pump

	conn *websocket.Conn
	wmu  sync.Mutex
	once sync.Once
}

// NewWebSocket starts reading conn
func NewWebSocket(conn *websocket.Conn) *WebSocket {
	ws := &WebSocket{conn: conn}
	ws.Pump = NewPump(&messageReader{conn: conn}, DefaultBufferSize)
	return ws
}

// DialWebSocket connects to a gecli server
func DialWebSocket(ctx context.Context, url string) (*WebSocket, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, gcerror.Wrap(err, "failed to connect").
			WithCode(gcerror.CodeTransportError).
			WithOperation("transport.DialWebSocket").
			WithDetail("url", url)
	}
	return NewWebSocket(conn), nil
}

// RemoteAddr returns the address of the peer
func (w *WebSocket) RemoteAddr() string { return w.conn.RemoteAddr().String() }

// Write sends p as one text message
func (w *WebSocket) Write(p []byte) (int, error) {
	w.wmu.Lock()
	defer w.wmu.Unlock()
	_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := w.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close sends a close frame and closes the connection
func (w *WebSocket) Close() error {
	var err error
	w.once.Do(func() {
		_ = w.Pump.Close()
		w.wmu.Lock()
		_ = w.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		w.wmu.Unlock()
		err = w.conn.Close()
	})
	return err
}

// messageReader concatenates the payloads of incoming messages. A normal
// close from the peer ends the stream with io.EOF.
type messageReader struct {
	conn *websocket.Conn
	cur  io.Reader
}

func (m *messageReader) Read(p []byte) (int, error) {
	for {
		if m.cur == nil {
			_, r, err := m.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			m.cur = r
		}

		n, err := m.cur.Read(p)
		if errors.Is(err, io.EOF) {
			m.cur = nil
			if n == 0 {
				continue
			}
			return n, nil
		}
		return n, err
	}
}

// SessionHandler serves one connected client. The connection is closed
// when the handler returns.
type SessionHandler func(ctx context.Context, ws *WebSocket)

// WebSocketServer upgrades HTTP requests and runs a handler per client
type WebSocketServer struct {
	ctx      context.Context
	upgrader websocket.Upgrader
	handler  SessionHandler
	logger   *gclog.Logger
	wg       sync.WaitGroup
	open     atomic.Int64
}

// NewWebSocketServer creates a server whose sessions end when ctx is done
func NewWebSocketServer(ctx context.Context, handler SessionHandler, logger *gclog.Logger) *WebSocketServer {
	if logger == nil {
		logger = gclog.GetDefault()
	}
	return &WebSocketServer{
		ctx: ctx,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Sessions are opened by local tools, not browsers on foreign origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		handler: handler,
		logger:  logger.WithField("component", "cli-websocket"),
	}
}

// ServeHTTP upgrades the request and serves the session
func (s *WebSocketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.WarnWithErr("WebSocket upgrade failed", err)
		return
	}

	s.wg.Add(1)
	defer s.wg.Done()
	s.open.Add(1)
	defer s.open.Add(-1)

	ws := NewWebSocket(conn)
	defer ws.Close()

	remote := ws.RemoteAddr()
	s.logger.Info("Session connected", gclog.Fields{"remote": remote})

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	s.handler(ctx, ws)

	s.logger.Info("Session closed", gclog.Fields{"remote": remote})
}

// Sessions returns the number of connected clients
func (s *WebSocketServer) Sessions() int { return int(s.open.Load()) }

// Wait blocks until every session handler has returned
func (s *WebSocketServer) Wait() { s.wg.Wait() }
