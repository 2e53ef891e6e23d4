// Package metrics defines the Prometheus collectors exported by benchd.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP groups the request instrumentation collectors.
type HTTP struct {
	// RequestsTotal counts finished requests by method, handler and status code.
	RequestsTotal *prometheus.CounterVec
	// RequestDuration tracks request latency in seconds.
	RequestDuration *prometheus.HistogramVec
	// RequestsInProgress tracks requests currently being served.
	RequestsInProgress *prometheus.GaugeVec
}

// NewHTTP creates the request collectors and registers them with reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	factory := promauto.With(reg)
	return &HTTP{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests by method, handler and status",
			},
			[]string{"method", "handler", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "handler"},
		),
		RequestsInProgress: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "http_requests_inprogress",
				Help: "HTTP requests currently in progress",
			},
			[]string{"method", "handler"},
		),
	}
}

// NewRegistry returns a registry with the Go runtime and process collectors
// already registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns an HTTP handler exposing the metrics gathered by reg in the
// Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
