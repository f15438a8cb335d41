package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// CyclesTotal counts completed worker cycles per asset.
	CyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbbot_worker_cycles_total",
			Help: "Total number of worker cycles run",
		},
		[]string{"asset"},
	)

	// CycleDurationSeconds tracks how long a full cycle takes.
	CycleDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "arbbot_worker_cycle_duration_seconds",
			Help:    "Duration of a full worker cycle",
			Buckets: prometheus.DefBuckets,
		},
	)
)
