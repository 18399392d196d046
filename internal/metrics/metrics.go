// Package metrics holds the Prometheus collectors of the streaming server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cloudstreamer"

const (
	routeLabel  = "route"
	methodLabel = "method"
	codeLabel   = "code"
	kindLabel   = "kind"
)

// Metrics is a set of collectors bound to one registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	bytesSent     *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	activeStreams prometheus.Gauge
}

// New creates the collectors and registers them with a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry creates the collectors and registers them with reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of handled HTTP requests",
		}, []string{routeLabel, methodLabel, codeLabel}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Time spent handling HTTP requests, body streaming included",
			Buckets:   prometheus.DefBuckets,
		}, []string{routeLabel}),
		bytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "bytes_sent_total",
			Help:      "Body bytes written to clients",
		}, []string{codeLabel}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "failures_total",
			Help:      "Stream requests that failed, by error kind",
		}, []string{kindLabel}),
		activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "active",
			Help:      "Streams currently being written",
		}),
	}

	reg.MustRegister(
		m.requests,
		m.duration,
		m.bytesSent,
		m.fetchFailures,
		m.activeStreams,
	)
	return m
}

// ObserveRequest records a finished request.
func (m *Metrics) ObserveRequest(route, method string, code int, elapsed time.Duration) {
	m.requests.With(prometheus.Labels{
		routeLabel:  route,
		methodLabel: method,
		codeLabel:   strconv.Itoa(code),
	}).Inc()
	m.duration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// AddBytes records n body bytes sent with the given status.
func (m *Metrics) AddBytes(code int, n int64) {
	if n > 0 {
		m.bytesSent.WithLabelValues(strconv.Itoa(code)).Add(float64(n))
	}
}

// StreamFailed counts a failed stream request by error kind.
func (m *Metrics) StreamFailed(kind string) {
	m.fetchFailures.WithLabelValues(kind).Inc()
}

// StreamStarted marks a stream as active and returns the func that ends it.
func (m *Metrics) StreamStarted() (done func()) {
	m.activeStreams.Inc()
	return m.activeStreams.Dec
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
