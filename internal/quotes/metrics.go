package quotes

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// FetchesTotal counts ticker fetch attempts by result.
	FetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbbot_quotes_fetches_total",
			Help: "Total number of ticker fetch attempts",
		},
		[]string{"asset", "result"},
	)

	// MalformedDroppedTotal counts quotes dropped for unparseable symbols or prices.
	MalformedDroppedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbbot_quotes_malformed_dropped_total",
			Help: "Total number of quotes dropped as malformed",
		},
		[]string{"asset"},
	)

	// QuotesTracked gauges the size of the active snapshot.
	QuotesTracked = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "arbbot_quotes_tracked",
			Help: "Number of quotes in the active snapshot",
		},
		[]string{"asset"},
	)

	// RefreshDurationSeconds tracks successful refresh latency.
	RefreshDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arbbot_quotes_refresh_duration_seconds",
		Help:    "Duration of quote snapshot refreshes",
		Buckets: prometheus.DefBuckets,
	})
)
