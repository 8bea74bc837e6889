package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidsweep_scan_runs_total",
			Help: "Scan invocations by mode (full or batch).",
		},
		[]string{"mode"},
	)

	recordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidsweep_scan_records_total",
			Help: "Media records processed, by final state.",
		},
		[]string{"state"},
	)

	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vidsweep_scan_errors_total",
			Help: "Per-record errors recorded during scans, by kind.",
		},
		[]string{"kind"},
	)

	runDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vidsweep_scan_duration_seconds",
			Help:    "Wall-clock duration of scan invocations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
		[]string{"mode"},
	)
)
