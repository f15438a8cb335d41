package expiry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics
var (
	// RolloversTotal counts active-expiry changes by reason.
	RolloversTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "arbbot_expiry_rollovers_total",
			Help: "Total number of active expiry changes",
		},
		[]string{"asset", "reason"},
	)
)
