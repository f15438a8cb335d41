package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vk82313/crypto-arbitrage-bot/internal/execution"
	"github.com/vk82313/crypto-arbitrage-bot/internal/expiry"
	"github.com/vk82313/crypto-arbitrage-bot/internal/marketdata"
	"github.com/vk82313/crypto-arbitrage-bot/internal/notify"
	"github.com/vk82313/crypto-arbitrage-bot/internal/quotes"
	"github.com/vk82313/crypto-arbitrage-bot/internal/scanner"
	"github.com/vk82313/crypto-arbitrage-bot/internal/storage"
	"github.com/vk82313/crypto-arbitrage-bot/internal/worker"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/cache"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/config"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/healthprobe"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/httpserver"
	"go.uber.org/zap"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()
	notifier := setupNotifier(cfg, logger)

	tradeStorage, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	parseCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	mdClient := marketdata.NewClient(cfg.MarketDataURL, logger)

	workers := make([]*worker.Worker, 0, len(cfg.Assets))
	for _, asset := range cfg.Assets {
		workers = append(workers, setupWorker(
			cfg, logger, asset, mdClient, parseCache, tradeStorage, notifier, opts,
		))
	}

	app := &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		notifier:      notifier,
		storage:       tradeStorage,
		parseCache:    parseCache,
		workers:       workers,
		errCh:         make(chan error, len(workers)),
		ctx:           ctx,
		cancel:        cancel,
	}
	app.httpServer = setupHTTPServer(cfg, logger, healthChecker, app.statusSnapshot)

	return app, nil
}

func setupNotifier(cfg *config.Config, logger *zap.Logger) notify.Notifier {
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		tg, err := notify.NewTelegram(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err == nil {
			logger.Info("telegram-notifier-enabled")
			return tg
		}
		logger.Warn("telegram-notifier-disabled", zap.Error(err))
	}
	return notify.NewLogNotifier(logger)
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, error) {
	if cfg.StorageMode == "postgres" {
		pgStorage, err := storage.NewPostgresStorage(&storage.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres storage: %w", err)
		}
		return pgStorage, nil
	}

	return storage.NewConsoleStorage(logger), nil
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 100000, // 10x expected max items (~10k option symbols)
		MaxCost:     10000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	statusFn httpserver.StatusFunc,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		StatusFunc:    statusFn,
	})
}

func setupWorker(
	cfg *config.Config,
	logger *zap.Logger,
	asset string,
	mdClient *marketdata.Client,
	parseCache cache.Cache,
	tradeStorage storage.Storage,
	notifier notify.Notifier,
	opts *Options,
) *worker.Worker {
	oracle := expiry.New(&expiry.Config{
		Asset:         asset,
		CheckInterval: cfg.ExpiryCheckInterval,
		Logger:        logger,
		Notifier:      notifier,
	})

	store := quotes.New(&quotes.Config{
		Asset:        asset,
		Fetcher:      mdClient,
		Expiries:     oracle,
		PollInterval: cfg.PollInterval,
		ParseCache:   parseCache,
		Logger:       logger,
	})

	spreadScanner := scanner.New(&scanner.Config{
		TopOpportunities: cfg.TopOpportunities,
		Logger:           logger,
	})

	seed := opts.FillSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	simulator := execution.NewSimulator(&execution.SimulatorConfig{
		Oracle:           execution.NewSimulatedOracle(seed),
		SellFillTimeout:  cfg.SellFillTimeout,
		SellPollInterval: cfg.SellPollInterval,
		BuyTierWait:      cfg.BuyTierWait,
		Logger:           logger,
	})

	coordinator := execution.NewCoordinator(&execution.CoordinatorConfig{
		Simulator:   simulator,
		PerTradeCap: cfg.MaxLotsPerTrade,
		PerCycleCap: cfg.MaxLotsPerCycle,
		Notifier:    notifier,
		Logger:      logger,
	})

	return worker.New(&worker.Config{
		Asset:  asset,
		Params: cfg.AssetParams[asset],
		Quotes: store,
		Oracle: oracle,
		ExpiryFetch: func(ctx context.Context) ([]string, error) {
			return mdClient.FetchExpiryCodes(ctx, asset)
		},
		Scanner:       spreadScanner,
		Coordinator:   coordinator,
		Storage:       tradeStorage,
		Notifier:      notifier,
		CycleInterval: cfg.CycleInterval,
		Logger:        logger,
	})
}

func (a *App) statusSnapshot() httpserver.StatusSnapshot {
	minProfit := make(map[string]string, len(a.cfg.Assets))
	for _, asset := range a.cfg.Assets {
		minProfit[asset] = a.cfg.AssetParams[asset].MinProfit.String()
	}

	activeExpiry := make(map[string]string, len(a.workers))
	cycles := make(map[string]uint64, len(a.workers))
	for _, w := range a.workers {
		activeExpiry[w.Asset()] = w.ActiveExpiry()
		cycles[w.Asset()] = w.Cycles()
	}

	return httpserver.StatusSnapshot{
		Status:                 "running",
		Mode:                   a.cfg.Mode(),
		PollingIntervalSeconds: a.cfg.PollInterval.Seconds(),
		MinProfitByAsset:       minProfit,
		ActiveExpiryByAsset:    activeExpiry,
		CyclesByAsset:          cycles,
		Uptime:                 a.healthChecker.Uptime().Round(time.Second).String(),
	}
}
