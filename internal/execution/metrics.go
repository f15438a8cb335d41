package execution

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// TradesTotal counts trades by terminal status.
	TradesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbbot_execution_trades_total",
			Help: "Total number of trades by terminal status",
		},
		[]string{"asset", "status"},
	)

	// ProfitTotal accumulates realized profit of executed trades.
	// Leg prices are clamped so per-lot profit is never negative.
	ProfitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbbot_execution_profit_total",
			Help: "Cumulative realized profit (simulated in paper mode)",
		},
		[]string{"asset"},
	)

	// SellTimeoutsTotal counts sell legs that expired unfilled.
	SellTimeoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbbot_execution_sell_timeouts_total",
		Help: "Total number of sell legs cancelled on timeout",
	})

	// BuyAbandonsTotal counts buy legs abandoned after all price tiers.
	BuyAbandonsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arbbot_execution_buy_abandons_total",
		Help: "Total number of buy legs abandoned after exhausting price tiers",
	})

	// LegDurationSeconds tracks per-leg execution latency.
	LegDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "arbbot_execution_leg_duration_seconds",
			Help:    "Duration of individual leg executions",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"leg"},
	)
)
