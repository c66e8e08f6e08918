// Package metrics provides Prometheus metrics for the scheduling engine
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the engine
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Booking metrics
	BookingsTotal *prometheus.CounterVec
	PaymentsTotal prometheus.Counter

	// Assistant metrics
	AssistantTurnsTotal   *prometheus.CounterVec
	AssistantTurnDuration prometheus.Histogram
	AutoBookingsTotal     *prometheus.CounterVec

	// Feed metrics
	FeedObservers        prometheus.Gauge
	FeedDroppedObservers prometheus.Counter

	// Persistence metrics
	StoreWritesTotal *prometheus.CounterVec
}

var (
	defaultMetrics *Metrics
	once           sync.Once
)

// Default returns the process-wide metrics, registering them on first use.
func Default() *Metrics {
	once.Do(func() {
		defaultMetrics = newMetrics()
	})
	return defaultMetrics
}

func newMetrics() *Metrics {
	m := &Metrics{}

	// HTTP request metrics
	m.HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agendapro_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	m.HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agendapro_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// Booking metrics
	m.BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agendapro_bookings_total",
			Help: "Booking attempts by outcome",
		},
		[]string{"result"},
	)

	m.PaymentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agendapro_payments_total",
			Help: "Appointments marked as paid",
		},
	)

	// Assistant metrics
	m.AssistantTurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agendapro_assistant_turns_total",
			Help: "Assistant turns by mode and outcome",
		},
		[]string{"mode", "result"},
	)

	m.AssistantTurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "agendapro_assistant_turn_duration_seconds",
			Help:    "Duration of assistant turns in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30},
		},
	)

	m.AutoBookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agendapro_assistant_auto_bookings_total",
			Help: "Bookings attempted from confirmed chat intents, by outcome",
		},
		[]string{"result"},
	)

	// Feed metrics
	m.FeedObservers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "agendapro_feed_observers",
			Help: "Currently connected appointment feed observers",
		},
	)

	m.FeedDroppedObservers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "agendapro_feed_dropped_observers_total",
			Help: "Observers removed after a failed write",
		},
	)

	// Persistence metrics
	m.StoreWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agendapro_store_writes_total",
			Help: "Record store writes by collection and status",
		},
		[]string{"collection", "status"},
	)

	return m
}

// RecordHTTPRequest records an HTTP request with its status
func (m *Metrics) RecordHTTPRequest(route string, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordAssistantTurn records a finished assistant turn
func (m *Metrics) RecordAssistantTurn(mode string, result string, duration time.Duration) {
	m.AssistantTurnsTotal.WithLabelValues(mode, result).Inc()
	m.AssistantTurnDuration.Observe(duration.Seconds())
}
