package probe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	outcomeHealthy = "healthy"
	outcomeBroken  = "broken"
	outcomeError   = "error"
	outcomeInvalid = "invalid"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidsweep_probe_requests_total",
			Help: "Reachability probes issued, by HTTP method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidsweep_probe_duration_seconds",
			Help:    "Latency of reachability probes in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)
