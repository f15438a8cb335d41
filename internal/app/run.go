package app

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vk82313/crypto-arbitrage-bot/internal/notify"
	"github.com/vk82313/crypto-arbitrage-bot/internal/worker"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/types"
	"go.uber.org/zap"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.String("mode", a.cfg.Mode()),
		zap.Strings("assets", a.cfg.Assets),
		zap.String("log-level", a.cfg.LogLevel))

	a.startComponents()

	// Mark as ready
	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort),
		zap.Int("workers", len(a.workers)))

	a.sendStartupAlert()

	// Wait for shutdown signal or a critical worker failure
	return a.waitForShutdown()
}

func (a *App) startComponents() {
	// Start HTTP server
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	// Start asset workers
	for _, w := range a.workers {
		a.wg.Add(1)
		go a.runWorker(w)
	}
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

func (a *App) runWorker(w *worker.Worker) {
	defer a.wg.Done()
	err := w.Run(a.ctx)
	if err == nil {
		return
	}

	if types.IsCritical(err) {
		// Critical failures halt everything; recoverable ones only
		// this asset's loop.
		a.errCh <- err
		return
	}

	a.logger.Error("asset-worker-stopped",
		zap.String("asset", w.Asset()),
		zap.Error(err))
}

func (a *App) sendStartupAlert() {
	minProfit := make(map[string]string, len(a.cfg.Assets))
	for _, asset := range a.cfg.Assets {
		minProfit[asset] = a.cfg.AssetParams[asset].MinProfit.String()
	}

	err := a.notifier.Send(a.ctx, notify.FormatStartup(a.cfg.Mode(), a.cfg.Assets, minProfit))
	if err != nil {
		a.logger.Warn("startup-alert-failed", zap.Error(err))
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case err := <-a.errCh:
		a.logger.Error("critical-worker-failure", zap.Error(err))
		a.sendCriticalAlert(err)
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}

func (a *App) sendCriticalAlert(err error) {
	alertErr := a.notifier.Send(a.ctx, notify.FormatCritical("halting all workers", err))
	if alertErr != nil {
		a.logger.Warn("critical-alert-failed", zap.Error(alertErr))
	}
}
