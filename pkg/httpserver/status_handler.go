package httpserver

import (
	"net/http"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// StatusSnapshot is the read-only operational view of the bot.
type StatusSnapshot struct {
	Status                 string            `json:"status"`
	Mode                   string            `json:"mode"`
	PollingIntervalSeconds float64           `json:"polling_interval_seconds"`
	MinProfitByAsset       map[string]string `json:"min_profit_by_asset"`
	ActiveExpiryByAsset    map[string]string `json:"active_expiry_by_asset"`
	CyclesByAsset          map[string]uint64 `json:"cycles_by_asset"`
	Uptime                 string            `json:"uptime"`
}

// StatusFunc produces the current status snapshot.
type StatusFunc func() StatusSnapshot

// StatusHandler serves the bot status endpoint.
type StatusHandler struct {
	statusFunc StatusFunc
	logger     *zap.Logger
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(fn StatusFunc, logger *zap.Logger) *StatusHandler {
	return &StatusHandler{
		statusFunc: fn,
		logger:     logger,
	}
}

// HandleStatus writes the current status snapshot as JSON.
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	snapshot := h.statusFunc()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	err := json.NewEncoder(w).Encode(snapshot)
	if err != nil {
		h.logger.Error("status-encode-failed", zap.Error(err))
	}
}
