package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the transport-level Prometheus metrics.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	GateDenied      prometheus.Counter
	RateLimited     prometheus.Counter
}

// New creates and registers the transport metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pathway_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
		GateDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pathway_gate_denied_total",
			Help: "Requests rejected by the completeness gate",
		}),
		RateLimited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pathway_rate_limited_total",
			Help: "Requests rejected by the mutation rate limiter",
		}),
	}
}
