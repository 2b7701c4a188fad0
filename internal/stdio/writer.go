package stdio

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/wsline/wsline/internal/relay"
)

// Flusher is implemented by buffered output writers. The message writer
// flushes after every message so each one becomes visible before the
// next is awaited.
type Flusher interface {
	Flush() error
}

// MessageWriter drains the inbound queue and writes each text message's
// raw payload to the local output stream. Non-text messages are silently
// dropped.
type MessageWriter struct {
	Out    io.Writer
	Diag   io.Writer // diagnostic trace; nil disables
	Logger *slog.Logger
}

// Run consumes messages until the queue is closed and drained. A write
// or flush failure stops output permanently, but the loop keeps draining
// the queue so the inbound forwarding loop never blocks on a dead
// consumer; the first failure is returned once the queue closes.
func (w *MessageWriter) Run(in <-chan relay.Message) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var writeErr error
	for msg := range in {
		if !msg.IsText() {
			continue
		}
		if writeErr != nil {
			continue
		}
		trace(w.Diag, "incoming", string(msg.Payload))
		if _, err := w.Out.Write(msg.Payload); err != nil {
			writeErr = fmt.Errorf("write output: %w", err)
			logger.Error("output write failed, discarding further inbound messages", "error", err)
			continue
		}
		if f, ok := w.Out.(Flusher); ok {
			if err := f.Flush(); err != nil {
				writeErr = fmt.Errorf("flush output: %w", err)
				logger.Error("output flush failed, discarding further inbound messages", "error", err)
			}
		}
	}
	return writeErr
}
