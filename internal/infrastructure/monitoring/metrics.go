package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outbound request outcomes
const (
	OutcomeOK      = "ok"
	OutcomeStatus  = "status"
	OutcomeNetwork = "network"
	OutcomeAborted = "aborted"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// Console HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Outbound request metrics
	OutboundTotal    *prometheus.CounterVec
	OutboundDuration *prometheus.HistogramVec

	// Event bus metrics
	EventsEmitted   *prometheus.CounterVec
	EventsDelivered *prometheus.CounterVec
	Ticks           prometheus.Counter

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current metric values for the JSON API
type Snapshot struct {
	ConsoleRequests   int64   `json:"console_requests"`
	ConsoleErrors     int64   `json:"console_errors"`
	OutboundRequests  int64   `json:"outbound_requests"`
	OutboundFailures  int64   `json:"outbound_failures"`
	EventsEmitted     int64   `json:"events_emitted"`
	Ticks             int64   `json:"ticks"`
	ActiveConnections int64   `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miniapp_console_requests_total",
				Help: "Total number of console HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "miniapp_console_request_duration_seconds",
				Help:    "Console HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "miniapp_console_response_size_bytes",
				Help:    "Console HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000},
			},
			[]string{"method", "path"},
		),

		OutboundTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miniapp_outbound_requests_total",
				Help: "Total number of requests submitted through the request wrapper",
			},
			[]string{"method", "outcome"},
		),
		OutboundDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "miniapp_outbound_request_duration_seconds",
				Help:    "Outbound request duration in seconds",
				Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2, 5, 10},
			},
			[]string{"method"},
		),

		EventsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miniapp_events_emitted_total",
				Help: "Total number of events emitted on the bus",
			},
			[]string{"event"},
		),
		EventsDelivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miniapp_events_delivered_total",
				Help: "Total number of handler invocations",
			},
			[]string{"event"},
		),
		Ticks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "miniapp_heartbeat_ticks_total",
				Help: "Total number of heartbeat ticks",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "miniapp_ws_connections",
				Help: "Number of active event stream connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "miniapp_ws_messages_total",
				Help: "Total number of event stream messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "miniapp_uptime_seconds",
			Help: "Shell uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records a console HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.ConsoleRequests++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.ConsoleErrors++
	}
	m.mu.Unlock()
}

// RecordOutbound records one settled outbound request
func (m *Metrics) RecordOutbound(method, outcome string, duration time.Duration) {
	m.OutboundTotal.WithLabelValues(method, outcome).Inc()
	m.OutboundDuration.WithLabelValues(method).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.OutboundRequests++
	if outcome != OutcomeOK {
		m.snapshot.OutboundFailures++
	}
	m.mu.Unlock()
}

// RecordEmit records one bus emission and how many handlers it reached
func (m *Metrics) RecordEmit(event string, delivered int) {
	m.EventsEmitted.WithLabelValues(event).Inc()
	m.EventsDelivered.WithLabelValues(event).Add(float64(delivered))

	m.mu.Lock()
	m.snapshot.EventsEmitted++
	m.mu.Unlock()
}

// IncTicks records one heartbeat tick
func (m *Metrics) IncTicks() {
	m.Ticks.Inc()

	m.mu.Lock()
	m.snapshot.Ticks++
	m.mu.Unlock()
}

// RecordWSMessage records an event stream message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments event stream connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements event stream connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// GetSnapshot returns current values for the JSON API
func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
