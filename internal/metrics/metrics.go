// Package metrics exposes Prometheus metrics for component invocations.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the invocation metrics for the host.
type Metrics struct {
	CallCount   *prometheus.CounterVec
	CallLatency *prometheus.HistogramVec
	ErrorCount  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New initializes Prometheus metrics on a private registry.
func New() *Metrics {
	m := &Metrics{
		CallCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calchost_call_count",
				Help: "Number of component function invocations",
			},
			[]string{"component", "function"},
		),
		CallLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calchost_call_latency_seconds",
				Help:    "Latency of component function invocations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"component", "function"},
		),
		ErrorCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calchost_call_error_count",
				Help: "Number of failed component function invocations",
			},
			[]string{"component", "function"},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(m.CallCount, m.CallLatency, m.ErrorCount)
	return m
}

// ObserveCall records one invocation.
func (m *Metrics) ObserveCall(component, function string, duration time.Duration, err error) {
	m.CallCount.WithLabelValues(component, function).Inc()
	m.CallLatency.WithLabelValues(component, function).Observe(duration.Seconds())
	if err != nil {
		m.ErrorCount.WithLabelValues(component, function).Inc()
	}
}

// Handler returns the scrape endpoint handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server builds an HTTP server serving /metrics on the given port. The
// caller owns its lifecycle.
func (m *Metrics) Server(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
}
