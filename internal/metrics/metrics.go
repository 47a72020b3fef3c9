// Package metrics defines the Prometheus collectors for the bill service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups all collectors. Pass nil to New to use the default
// registerer.
type Metrics struct {
	// ComputeTotal counts totals computations by outcome ("ok" or "error").
	ComputeTotal *prometheus.CounterVec

	// ComputeDuration observes how long one totals computation takes.
	ComputeDuration prometheus.Histogram

	// CentsMoved observes how many cents each reconciliation pass
	// redistributed. A drifting distribution here means upstream rounding
	// behavior changed.
	CentsMoved prometheus.Histogram

	// HTTPRequests and HTTPDuration cover the API surface.
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New registers and returns the service collectors.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		ComputeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabby",
			Name:      "compute_total",
			Help:      "Total number of bill totals computations.",
		}, []string{"outcome"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tabby",
			Name:      "compute_duration_seconds",
			Help:      "Latency of one bill totals computation.",
			Buckets:   prometheus.DefBuckets,
		}),
		CentsMoved: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tabby",
			Name:      "reconciliation_cents_moved",
			Help:      "Absolute cents redistributed by penny reconciliation per computation.",
			Buckets:   []float64{0, 1, 2, 3, 5, 10, 25, 100},
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tabby",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tabby",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(m.ComputeTotal, m.ComputeDuration, m.CentsMoved,
		m.HTTPRequests, m.HTTPDuration)
	return m
}
