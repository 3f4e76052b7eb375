// internal/conn/transport.go
package conn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/coder/websocket"
)

// ErrNormalClosure reports that the peer closed the connection with a
// normal closure status: a deliberate goodbye, not a drop.
var ErrNormalClosure = errors.New("peer closed connection normally")

// Conn is one live realtime connection. Implementations must unblock any
// pending Read when the connection is closed.
type Conn interface {
	// Read blocks until the next frame arrives or the connection dies.
	Read(ctx context.Context) ([]byte, error)
	// Write transmits one frame.
	Write(ctx context.Context, data []byte) error
	// Close shuts the connection down. normal marks a deliberate client
	// closure, as opposed to tearing down a connection we gave up on.
	Close(normal bool, reason string) error
}

// Transport dials realtime connections. It is injectable so tests can
// exercise the connection state machine without a network.
type Transport interface {
	Dial(ctx context.Context, target string) (Conn, error)
}

// wsTransport is the production Transport, backed by coder/websocket.
type wsTransport struct{}

// NewWebSocketTransport returns the default websocket-backed transport.
func NewWebSocketTransport() Transport {
	return wsTransport{}
}

func (wsTransport) Dial(ctx context.Context, target string) (Conn, error) {
	c, _, err := websocket.Dial(ctx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", target, err)
	}
	return &wsConn{c: c}, nil
}

type wsConn struct {
	c *websocket.Conn
}

func (w *wsConn) Read(ctx context.Context) ([]byte, error) {
	_, data, err := w.c.Read(ctx)
	if err != nil && websocket.CloseStatus(err) == websocket.StatusNormalClosure {
		return nil, ErrNormalClosure
	}
	return data, err
}

func (w *wsConn) Write(ctx context.Context, data []byte) error {
	return w.c.Write(ctx, websocket.MessageText, data)
}

func (w *wsConn) Close(normal bool, reason string) error {
	code := websocket.StatusGoingAway
	if normal {
		code = websocket.StatusNormalClosure
	}
	return w.c.Close(code, reason)
}

// RoomURL builds the per-room connection target from a base URL, e.g.
// RoomURL("wss://example.com")("ABC123") -> "wss://example.com/api/ws/ABC123".
func RoomURL(base string) func(roomCode string) string {
	base = strings.TrimRight(base, "/")
	return func(roomCode string) string {
		return base + "/api/ws/" + roomCode
	}
}
