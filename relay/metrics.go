package relay

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the relay's prometheus registry; nothing is registered
// globally so tests and embedding processes stay isolated.
type Metrics struct {
	registry *prometheus.Registry

	publishTotal    *prometheus.CounterVec
	publishDuration *prometheus.HistogramVec

	consumeTotal  *prometheus.CounterVec
	handlerErrors *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		publishTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_publish_total",
				Help: "Total number of publish operations",
			},
			[]string{"destination", "status"}, // status: success, error
		),

		publishDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "relay_publish_duration_seconds",
				Help:    "Time spent publishing, including scoped connection setup",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"destination"},
		),

		consumeTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_consume_total",
				Help: "Total number of messages delivered to handlers",
			},
			[]string{"source"},
		),

		handlerErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_handler_errors_total",
				Help: "Handler errors and panics; under auto-ack these messages are lost",
			},
			[]string{"source"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.publishTotal,
		m.publishDuration,
		m.consumeTotal,
		m.handlerErrors,
	)

	return m
}

func (m *Metrics) ObservePublish(destination string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	m.publishTotal.WithLabelValues(destination, status).Inc()
	m.publishDuration.WithLabelValues(destination).Observe(elapsed.Seconds())
}

func (m *Metrics) IncConsumed(source string) {
	if m == nil {
		return
	}
	m.consumeTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) IncHandlerError(source string) {
	if m == nil {
		return
	}
	m.handlerErrors.WithLabelValues(source).Inc()
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
