package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier delivers free-text alerts for trade events and lifecycle
// milestones. Delivery failure is logged by callers, never fatal to
// trading logic.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// LogNotifier writes alerts to the application log. Used when no
// external channel is configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the alert text.
func (n *LogNotifier) Send(ctx context.Context, text string) error {
	n.logger.Info("notification", zap.String("text", text))
	return nil
}
