package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Stats holds message counters for a completed pump.
type Stats struct {
	OutboundMessages int64 // messages forwarded from the outbound queue to the Sink
	OutboundBytes    int64
	InboundMessages  int64 // messages forwarded from the Source to the inbound queue
	InboundBytes     int64
	DiscardedFrames  int64 // per-frame receive errors dropped by the inbound loop
}

// Pump runs the two forwarding loops until both reach a terminal state.
//
// The outbound loop drains the outbound queue into the Sink in FIFO order;
// a send failure ends that loop only. The inbound loop forwards every
// message the Source yields onto the inbound queue; per-frame receive
// errors are discarded, and the loop ends when the peer closes the
// connection or the transport fails. Pump closes the inbound queue when
// the inbound loop exits, and returns only after BOTH loops have finished.
// Neither loop cancels the other.
func Pump(ctx context.Context, sink Sink, source Source, outbound <-chan Message, inbound chan<- Message, logger *slog.Logger) (Stats, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var outMsgs, outBytes, inMsgs, inBytes, discarded atomic.Int64
	outDone := make(chan error, 1)
	inDone := make(chan error, 1)

	// Outbound queue → Sink.
	go func() {
		outDone <- pumpOutbound(ctx, sink, outbound, &outMsgs, &outBytes, logger)
	}()

	// Source → inbound queue.
	go func() {
		defer close(inbound)
		inDone <- pumpInbound(ctx, source, inbound, &inMsgs, &inBytes, &discarded, logger)
	}()

	// A join, not a race: one direction finishing (or failing) must not
	// truncate the other.
	outErr := <-outDone
	inErr := <-inDone

	stats := Stats{
		OutboundMessages: outMsgs.Load(),
		OutboundBytes:    outBytes.Load(),
		InboundMessages:  inMsgs.Load(),
		InboundBytes:     inBytes.Load(),
		DiscardedFrames:  discarded.Load(),
	}
	return stats, errors.Join(outErr, inErr)
}

func pumpOutbound(ctx context.Context, sink Sink, outbound <-chan Message, msgs, bytes *atomic.Int64, logger *slog.Logger) error {
	for msg := range outbound {
		if err := sink.Send(ctx, msg); err != nil {
			return fmt.Errorf("send: %w", err)
		}
		msgs.Add(1)
		bytes.Add(int64(len(msg.Payload)))
	}
	// Local input is exhausted and the queue is drained. No close frame is
	// sent; the connection stays open for the inbound direction until the
	// peer closes it.
	logger.Debug("outbound queue drained")
	return nil
}

func pumpInbound(ctx context.Context, source Source, inbound chan<- Message, msgs, bytes, discarded *atomic.Int64, logger *slog.Logger) error {
	for {
		msg, err := source.Next(ctx)
		if err != nil {
			if errors.Is(err, ErrPeerClosed) {
				return nil
			}
			var recvErr *ReceiveError
			if errors.As(err, &recvErr) {
				discarded.Add(1)
				logger.Warn("discarding inbound frame", "error", recvErr.Err)
				continue
			}
			return fmt.Errorf("receive: %w", err)
		}
		inbound <- msg
		msgs.Add(1)
		bytes.Add(int64(len(msg.Payload)))
	}
}
