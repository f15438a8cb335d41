package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/vk82313/crypto-arbitrage-bot/internal/execution"
	"github.com/vk82313/crypto-arbitrage-bot/internal/expiry"
	"github.com/vk82313/crypto-arbitrage-bot/internal/notify"
	"github.com/vk82313/crypto-arbitrage-bot/internal/quotes"
	"github.com/vk82313/crypto-arbitrage-bot/internal/scanner"
	"github.com/vk82313/crypto-arbitrage-bot/internal/storage"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/config"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
	"go.uber.org/zap"
)

// Worker is the per-asset control loop: refresh quotes, scan for spreads,
// execute the best one, pace to the target cycle interval. Workers share
// no mutable state with each other; each owns its quote store, expiry
// oracle and trade counters.
type Worker struct {
	asset         string
	params        config.AssetParams
	quotes        *quotes.Store
	oracle        *expiry.Oracle
	expiryFetch   expiry.FetchFunc
	scanner       *scanner.Scanner
	coordinator   *execution.Coordinator
	storage       storage.Storage
	notifier      notify.Notifier
	cycleInterval time.Duration
	logger        *zap.Logger

	cycles atomic.Uint64
}

// Config holds asset worker configuration.
type Config struct {
	Asset         string
	Params        config.AssetParams
	Quotes        *quotes.Store
	Oracle        *expiry.Oracle
	ExpiryFetch   expiry.FetchFunc
	Scanner       *scanner.Scanner
	Coordinator   *execution.Coordinator
	Storage       storage.Storage
	Notifier      notify.Notifier
	CycleInterval time.Duration
	Logger        *zap.Logger
}

// New creates an asset worker.
func New(cfg *Config) *Worker {
	return &Worker{
		asset:         cfg.Asset,
		params:        cfg.Params,
		quotes:        cfg.Quotes,
		oracle:        cfg.Oracle,
		expiryFetch:   cfg.ExpiryFetch,
		scanner:       cfg.Scanner,
		coordinator:   cfg.Coordinator,
		storage:       cfg.Storage,
		notifier:      cfg.Notifier,
		cycleInterval: cfg.CycleInterval,
		logger:        cfg.Logger.With(zap.String("asset", cfg.Asset)),
	}
}

// Asset returns the worker's underlying asset symbol.
func (w *Worker) Asset() string {
	return w.asset
}

// Cycles returns the number of cycles run so far.
func (w *Worker) Cycles() uint64 {
	return w.cycles.Load()
}

// ActiveExpiry returns the worker's currently active expiry code.
func (w *Worker) ActiveExpiry() string {
	return w.oracle.Active()
}

// Run executes the control loop until the context is cancelled or a
// non-recoverable error escapes a cycle. Cancellation is cooperative:
// the flag is checked at the top of each cycle, there is no mid-cycle
// preemption. Returns nil only on context cancellation.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("asset-worker-starting",
		zap.Duration("cycle-interval", w.cycleInterval),
		zap.String("active-expiry", w.oracle.Active()))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("asset-worker-stopping")
			return nil
		default:
		}

		start := time.Now()

		err := w.runCycle(ctx)
		if err != nil {
			// Routine fetch/fill issues are recovered inside the cycle;
			// anything escaping here stops this asset's loop.
			w.logger.Error("asset-worker-failed", zap.Error(err))
			return err
		}

		elapsed := time.Since(start)
		CycleDurationSeconds.Observe(elapsed.Seconds())

		// Pace to the target interval; never sleep if the cycle overran.
		if remaining := w.cycleInterval - elapsed; remaining > 0 {
			timer := time.NewTimer(remaining)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) error {
	w.cycles.Add(1)
	CyclesTotal.WithLabelValues(w.asset).Inc()

	// The oracle paces itself; most cycles this is a no-op.
	w.oracle.CheckAndUpdate(ctx, w.expiryFetch)

	snapshot, err := w.quotes.Refresh(ctx)
	if err != nil {
		if types.IsCritical(err) {
			return err
		}
		// Transient: keep trading off the cached snapshot.
		w.logger.Warn("quote-refresh-failed-serving-cache", zap.Error(err))
	}

	if len(snapshot) == 0 {
		return nil
	}

	opportunities := w.scanner.Scan(w.asset, snapshot, scanner.Params{
		MaxPremium: w.params.MaxPremium,
		MinProfit:  w.params.MinProfit,
	})
	if len(opportunities) == 0 {
		return nil
	}

	res := w.coordinator.ExecuteOpportunity(ctx, opportunities[0], w.params.PriceIncrement)
	if res.Status == types.StatusNoQuantity {
		return nil
	}

	err = w.storage.StoreTradeResult(ctx, res)
	if err != nil {
		w.logger.Error("trade-store-failed",
			zap.String("trade-id", res.ID),
			zap.Error(err))
	}

	err = w.notifier.Send(ctx, notify.FormatTradeResult(res))
	if err != nil {
		w.logger.Warn("trade-alert-failed",
			zap.String("trade-id", res.ID),
			zap.Error(err))
	}

	return nil
}
