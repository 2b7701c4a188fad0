// Package stdio implements the local stream tasks of the relay: a line
// reader producing onto the outbound queue and a message writer draining
// the inbound queue. Each task owns exactly one end of its queue.
package stdio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/wsline/wsline/internal/relay"
)

// LineReader reads the local input stream line by line and turns each
// line into an outbound text message.
type LineReader struct {
	In     io.Reader
	Diag   io.Writer // diagnostic trace; nil disables
	Logger *slog.Logger
}

// Run reads until end of input or a read error, enqueueing one message
// per line with its terminator preserved. A full queue suspends the
// reader; lines are never dropped. Run closes out on return so the
// consumer knows to drain and stop. End of input is a normal terminal
// condition, not a failure.
func (r *LineReader) Run(out chan<- relay.Message) {
	defer close(out)
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	br := bufio.NewReader(r.In)
	for {
		line, err := br.ReadString('\n')
		// A final unterminated line still arrives here with err set.
		if len(line) > 0 {
			trace(r.Diag, "outgoing", line)
			out <- relay.Text(line)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				logger.Debug("input stream ended", "error", err)
			}
			return
		}
	}
}

// trace writes one best-effort diagnostic line of the form
// "<direction>: <payload>", with the payload's line terminator stripped.
func trace(w io.Writer, direction, payload string) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "%s: %s\n", direction, strings.TrimRight(payload, "\r\n"))
}
