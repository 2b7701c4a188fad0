// Package metrics provides Prometheus metrics for wsline.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/wsline/wsline/internal/relay"
)

const namespace = "wsline"

// Relay directions, used as the direction label.
const (
	DirectionOutbound = "outbound" // local input → remote endpoint
	DirectionInbound  = "inbound"  // remote endpoint → local output
)

const (
	ReasonDialFailed     = "dial_failed"
	ReasonDialTimeout    = "dial_timeout"
	ReasonFrameDiscarded = "frame_discarded"
	ReasonOutputFailed   = "output_failed"
)

// Metrics holds all Prometheus metrics for wsline. All recording methods
// are safe to call on a nil receiver, so metrics stay optional.
type Metrics struct {
	Registry *prometheus.Registry

	messagesTotal *prometheus.CounterVec
	bytesTotal    *prometheus.CounterVec
	relayErrors   *prometheus.CounterVec
	connectionUp  prometheus.Gauge
	dialDuration  prometheus.Histogram
}

// New creates a new Metrics instance with a custom Prometheus registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total messages relayed, by direction.",
		}, []string{"direction"}),

		bytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_total",
			Help:      "Total payload bytes relayed, by direction.",
		}, []string{"direction"}),

		relayErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_errors_total",
			Help:      "Total relay errors, by direction and reason.",
		}, []string{"direction", "reason"}),

		connectionUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connection_up",
			Help:      "Whether the WebSocket connection is established (1) or not (0).",
		}),

		dialDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dial_duration_seconds",
			Help:      "Time spent establishing the WebSocket connection, in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	reg.MustRegister(
		m.messagesTotal,
		m.bytesTotal,
		m.relayErrors,
		m.connectionUp,
		m.dialDuration,
	)

	return m
}

// RelayError records a relay failure by direction and reason.
func (m *Metrics) RelayError(direction, reason string) {
	if m == nil {
		return
	}
	m.relayErrors.WithLabelValues(direction, reason).Inc()
}

// DialReason returns "dial_timeout" if err is a timeout, otherwise
// "dial_failed".
func DialReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonDialTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ReasonDialTimeout
	}
	return ReasonDialFailed
}

// ObserveDialDuration records how long the endpoint dial took.
func (m *Metrics) ObserveDialDuration(seconds float64) {
	if m == nil {
		return
	}
	m.dialDuration.Observe(seconds)
}

// SetConnectionUp sets the connection gauge.
func (m *Metrics) SetConnectionUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.connectionUp.Set(1)
	} else {
		m.connectionUp.Set(0)
	}
}

// RecordPump adds a completed pump's counters to the registry.
func (m *Metrics) RecordPump(stats relay.Stats) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(DirectionOutbound).Add(float64(stats.OutboundMessages))
	m.messagesTotal.WithLabelValues(DirectionInbound).Add(float64(stats.InboundMessages))
	m.bytesTotal.WithLabelValues(DirectionOutbound).Add(float64(stats.OutboundBytes))
	m.bytesTotal.WithLabelValues(DirectionInbound).Add(float64(stats.InboundBytes))
	if stats.DiscardedFrames > 0 {
		m.relayErrors.WithLabelValues(DirectionInbound, ReasonFrameDiscarded).Add(float64(stats.DiscardedFrames))
	}
}

// TrackedPump wraps relay.Pump with metrics recording. Safe to call on a
// nil receiver.
func (m *Metrics) TrackedPump(ctx context.Context, sink relay.Sink, source relay.Source, outbound <-chan relay.Message, inbound chan<- relay.Message, logger *slog.Logger) (relay.Stats, error) {
	stats, err := relay.Pump(ctx, sink, source, outbound, inbound, logger)
	m.RecordPump(stats)
	return stats, err
}
