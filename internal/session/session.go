// Package session wires the relay together: one duplex WebSocket
// connection, two bounded queues, and the four tasks that move lines
// between the local streams and the remote endpoint.
package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/wsline/wsline/internal/metrics"
	"github.com/wsline/wsline/internal/relay"
	"github.com/wsline/wsline/internal/stdio"
)

// Config holds configuration for one relay session.
type Config struct {
	URL     string    // WebSocket endpoint (ws:// or wss://)
	Stdin   io.Reader // local input stream
	Stdout  io.Writer // local output stream
	Diag    io.Writer // diagnostic trace stream; nil disables
	Logger  *slog.Logger
	Metrics *metrics.Metrics // optional; nil disables metrics
}

// Run establishes the connection and relays until both directions reach
// a terminal state: local input exhausted and its queue drained, and the
// peer's side closed. A failed dial is fatal and returns before any task
// starts; after that, a failure in one direction never tears down the
// other.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	conn, err := relay.Dial(ctx, cfg.URL)
	cfg.Metrics.ObserveDialDuration(time.Since(start).Seconds())
	if err != nil {
		cfg.Metrics.RelayError(metrics.DirectionOutbound, metrics.DialReason(err))
		return err
	}
	defer func() { _ = conn.Close() }()
	cfg.Metrics.SetConnectionUp(true)
	defer cfg.Metrics.SetConnectionUp(false)
	logger.Debug("connected", "endpoint", cfg.URL)

	sink, source := conn.Split()
	outbound := make(chan relay.Message, relay.QueueCapacity)
	inbound := make(chan relay.Message, relay.QueueCapacity)

	reader := &stdio.LineReader{In: cfg.Stdin, Diag: cfg.Diag, Logger: logger}
	go reader.Run(outbound)

	writer := &stdio.MessageWriter{Out: cfg.Stdout, Diag: cfg.Diag, Logger: logger}
	writerDone := make(chan error, 1)
	go func() {
		writerDone <- writer.Run(inbound)
	}()

	stats, pumpErr := cfg.Metrics.TrackedPump(ctx, sink, source, outbound, inbound, logger)
	writerErr := <-writerDone
	if writerErr != nil {
		cfg.Metrics.RelayError(metrics.DirectionInbound, metrics.ReasonOutputFailed)
	}

	logger.Debug("relay finished",
		"outbound_messages", stats.OutboundMessages,
		"inbound_messages", stats.InboundMessages,
		"discarded_frames", stats.DiscardedFrames)

	return errors.Join(pumpErr, writerErr)
}
