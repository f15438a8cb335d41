package scanner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// OpportunitiesDetectedTotal counts opportunities surfaced by scans.
	OpportunitiesDetectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbbot_scanner_opportunities_detected_total",
			Help: "Total number of spread opportunities detected",
		},
		[]string{"asset"},
	)

	// OpportunitiesRejectedTotal counts candidate spreads rejected by reason.
	OpportunitiesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbbot_scanner_opportunities_rejected_total",
			Help: "Total number of candidate spreads rejected",
		},
		[]string{"asset", "reason"},
	)

	// OpportunityProfitPerLot observes detected profit margins.
	OpportunityProfitPerLot = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbbot_scanner_profit_per_lot",
		Help:    "Expected profit per lot of detected opportunities",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 25},
	})

	// ScanDurationSeconds tracks scan latency.
	ScanDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbbot_scanner_scan_duration_seconds",
		Help:    "Duration of spread scans",
		Buckets: prometheus.DefBuckets,
	})
)
