package relay

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/coder/websocket"
)

const defaultDialTimeout = 30 * time.Second

// ErrPeerClosed signals that the remote endpoint closed the connection
// normally. It ends the inbound loop without being treated as a failure.
var ErrPeerClosed = errors.New("peer closed connection")

// ReceiveError wraps a per-frame receive failure that does not take down
// the connection. The inbound loop discards these and keeps reading.
type ReceiveError struct {
	Err error
}

func (e *ReceiveError) Error() string { return "receive frame: " + e.Err.Error() }
func (e *ReceiveError) Unwrap() error { return e.Err }

// Sink is the send half of a duplex connection. A Sink is driven by
// exactly one goroutine.
type Sink interface {
	Send(ctx context.Context, msg Message) error
}

// Source is the receive half of a duplex connection, a lazy sequence of
// inbound messages. Next returns ErrPeerClosed when the peer closes the
// connection normally, a *ReceiveError for a discardable per-frame
// failure, and any other error when the transport has failed fatally.
// A Source is driven by exactly one goroutine.
type Source interface {
	Next(ctx context.Context) (Message, error)
}

// Conn is a single duplex WebSocket connection to the remote endpoint.
// It is established once at startup and never re-established.
type Conn struct {
	ws *websocket.Conn
}

// Dial validates addr and establishes the WebSocket connection. There is
// no retry: a failure here is fatal to the caller.
func Dial(ctx context.Context, addr string) (*Conn, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", addr, err)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("endpoint %q: scheme must be ws or wss", addr)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint %q: missing host", addr)
	}

	dialCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()
	ws, _, err := websocket.Dial(dialCtx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.Host, err)
	}
	return &Conn{ws: ws}, nil
}

// Split returns the two halves of the connection. Each half must be used
// from a single goroutine; the halves themselves are independent and may
// be driven concurrently.
func (c *Conn) Split() (Sink, Source) {
	return &wsSink{ws: c.ws}, &wsSource{ws: c.ws}
}

// Close tears the connection down immediately, without a close handshake.
// The relay never initiates a graceful close; shutdown of the connection
// is peer-initiated, and Close only releases resources at process exit.
func (c *Conn) Close() error {
	return c.ws.CloseNow()
}

type wsSink struct {
	ws *websocket.Conn
}

func (s *wsSink) Send(ctx context.Context, msg Message) error {
	return s.ws.Write(ctx, msg.Type, msg.Payload)
}

type wsSource struct {
	ws *websocket.Conn
}

func (s *wsSource) Next(ctx context.Context) (Message, error) {
	typ, data, err := s.ws.Read(ctx)
	if err != nil {
		var closeErr websocket.CloseError
		if errors.As(err, &closeErr) {
			switch closeErr.Code {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return Message{}, ErrPeerClosed
			}
		}
		return Message{}, err
	}
	return Message{Type: typ, Payload: data}, nil
}
