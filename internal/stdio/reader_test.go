package stdio

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/wsline/wsline/internal/relay"
)

func TestLineReader_PreservesLinesAndTerminators(t *testing.T) {
	in := strings.NewReader("first\nsecond\r\nunterminated")
	out := make(chan relay.Message, 8)

	r := &LineReader{In: in}
	r.Run(out)

	want := []string{"first\n", "second\r\n", "unterminated"}
	var got []string
	for msg := range out {
		if !msg.IsText() {
			t.Errorf("reader produced non-text message %v", msg.Type)
		}
		got = append(got, string(msg.Payload))
	}

	if len(got) != len(want) {
		t.Fatalf("got %d messages %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLineReader_ClosesQueueOnEOF(t *testing.T) {
	out := make(chan relay.Message, 1)
	r := &LineReader{In: strings.NewReader("")}
	r.Run(out)

	if _, ok := <-out; ok {
		t.Error("expected no messages and a closed queue for empty input")
	}
}

func TestLineReader_SendsPartialLineBeforeReadError(t *testing.T) {
	boom := errors.New("boom")
	in := io.MultiReader(strings.NewReader("partial"), errReader{boom})
	out := make(chan relay.Message, 2)

	r := &LineReader{In: in}
	r.Run(out)

	msg, ok := <-out
	if !ok || string(msg.Payload) != "partial" {
		t.Fatalf("got %q (ok=%v), want the partial line before the error", msg.Payload, ok)
	}
	if _, ok := <-out; ok {
		t.Error("queue should be closed after a read error")
	}
}

func TestLineReader_DiagTrace(t *testing.T) {
	var diag bytes.Buffer
	out := make(chan relay.Message, 4)

	r := &LineReader{In: strings.NewReader("hello\nworld\n"), Diag: &diag}
	r.Run(out)

	want := "outgoing: hello\noutgoing: world\n"
	if diag.String() != want {
		t.Errorf("diag = %q, want %q", diag.String(), want)
	}
}

func TestLineReader_SuspendsOnFullQueue(t *testing.T) {
	const lines = 20
	var input strings.Builder
	for i := 0; i < lines; i++ {
		input.WriteString("x\n")
	}

	out := make(chan relay.Message, 1) // force backpressure
	r := &LineReader{In: strings.NewReader(input.String())}

	done := make(chan struct{})
	go func() {
		defer close(done)
		r.Run(out)
	}()

	// Slow consumer; every line must still arrive, in order.
	var got int
	for range out {
		got++
		time.Sleep(time.Millisecond)
	}
	<-done

	if got != lines {
		t.Errorf("received %d lines, want %d (producer must suspend, not drop)", got, lines)
	}
}

type errReader struct {
	err error
}

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
