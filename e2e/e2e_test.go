//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wsline/wsline/internal/metrics"
	"github.com/wsline/wsline/internal/session"
)

func TestRelay_EchoSession(t *testing.T) {
	const lines = 500
	url := startEchoServer(t, lines)
	var input, want strings.Builder
	for i := 0; i < lines; i++ {
		line := fmt.Sprintf("payload %04d\n", i)
		input.WriteString(line)
		want.WriteString(line)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	m := metrics.New()
	var out bytes.Buffer
	err := session.Run(ctx, session.Config{
		URL:     url,
		Stdin:   strings.NewReader(input.String()),
		Stdout:  &out,
		Metrics: m,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if out.String() != want.String() {
		t.Fatalf("output mismatch: got %d bytes, want %d", out.Len(), want.Len())
	}

	fams, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var outboundMessages float64
	for _, f := range fams {
		if f.GetName() != "wsline_messages_total" {
			continue
		}
		for _, mt := range f.GetMetric() {
			for _, l := range mt.GetLabel() {
				if l.GetName() == "direction" && l.GetValue() == "outbound" {
					outboundMessages = mt.GetCounter().GetValue()
				}
			}
		}
	}
	if outboundMessages != lines {
		t.Errorf("wsline_messages_total{direction=outbound} = %v, want %d", outboundMessages, lines)
	}
}

func TestRelay_ServerPushAfterInputEOF(t *testing.T) {
	url := startPushServer(t, []string{"a\n", "b\n", "c\n"}, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var out bytes.Buffer
	err := session.Run(ctx, session.Config{
		URL:    url,
		Stdin:  strings.NewReader(""),
		Stdout: &out,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if out.String() != "a\nb\nc\n" {
		t.Errorf("output = %q, want all pushed messages", out.String())
	}
}
