//go:build e2e

package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
)

// startEchoServer starts a WebSocket server that echoes count messages
// and then closes normally. The relay never closes the connection, so
// termination has to come from this side.
func startEchoServer(t *testing.T, count int) string {
	t.Helper()
	return startServer(t, func(ctx context.Context, ws *websocket.Conn) {
		for i := 0; i < count; i++ {
			typ, data, err := ws.Read(ctx)
			if err != nil {
				return
			}
			if err := ws.Write(ctx, typ, data); err != nil {
				return
			}
		}
		_ = ws.Close(websocket.StatusNormalClosure, "")
	})
}

// startPushServer starts a WebSocket server that sends the given text
// messages with a delay between each, then closes normally.
func startPushServer(t *testing.T, messages []string, delay time.Duration) string {
	t.Helper()
	return startServer(t, func(ctx context.Context, ws *websocket.Conn) {
		for _, msg := range messages {
			time.Sleep(delay)
			if err := ws.Write(ctx, websocket.MessageText, []byte(msg)); err != nil {
				return
			}
		}
		_ = ws.Close(websocket.StatusNormalClosure, "")
	})
}

func startServer(t *testing.T, handler func(ctx context.Context, ws *websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer ws.CloseNow()
		handler(r.Context(), ws)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}
