package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	batches    *prometheus.CounterVec
	bundles    prometheus.Counter
	motionJobs *prometheus.CounterVec
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		batches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logonova",
			Name:      "batches_total",
			Help:      "Synthesis batches by outcome (success or error code).",
		}, []string{"outcome"}),
		bundles: f.NewCounter(prometheus.CounterOpts{
			Namespace: "logonova",
			Name:      "bundles_generated_total",
			Help:      "Bundles added to the gallery.",
		}),
		motionJobs: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logonova",
			Name:      "motion_jobs_total",
			Help:      "Motion synthesis jobs by outcome.",
		}, []string{"outcome"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logonova",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "logonova",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120},
		}, []string{"route"}),
	}
}
