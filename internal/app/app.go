package app

import (
	"context"
	"sync"

	"github.com/vk82313/crypto-arbitrage-bot/internal/notify"
	"github.com/vk82313/crypto-arbitrage-bot/internal/storage"
	"github.com/vk82313/crypto-arbitrage-bot/internal/worker"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/cache"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/config"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/healthprobe"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/httpserver"
	"go.uber.org/zap"
)

// App is the main application orchestrator. It owns one worker per
// configured asset plus the shared services they depend on.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	notifier      notify.Notifier
	storage       storage.Storage
	parseCache    cache.Cache
	workers       []*worker.Worker
	errCh         chan error
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	FillSeed int64 // For debugging: fixed RNG seed for the simulated fill oracle
}
