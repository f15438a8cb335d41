package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vk82313/crypto-arbitrage-bot/internal/expiry"
	"github.com/vk82313/crypto-arbitrage-bot/internal/marketdata"
	"github.com/vk82313/crypto-arbitrage-bot/internal/notify"
	"github.com/vk82313/crypto-arbitrage-bot/internal/quotes"
	"github.com/vk82313/crypto-arbitrage-bot/internal/scanner"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/cache"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan cycle and print opportunities",
	Long: `Fetches the current option chain for each configured asset, scans
adjacent strike pairs for spread inversions and prints the results
without executing anything. Useful for checking thresholds.`,
	RunE: runScan,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	parseCache, err := cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 100000,
		MaxCost:     10000,
		BufferItems: 64,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("create cache: %w", err)
	}
	defer parseCache.Close()

	mdClient := marketdata.NewClient(cfg.MarketDataURL, logger)
	spreadScanner := scanner.New(&scanner.Config{
		TopOpportunities: cfg.TopOpportunities,
		Logger:           logger,
	})

	for _, asset := range cfg.Assets {
		oracle := expiry.New(&expiry.Config{
			Asset:         asset,
			CheckInterval: cfg.ExpiryCheckInterval,
			Logger:        logger,
			Notifier:      notify.NewLogNotifier(logger),
		})
		oracle.CheckAndUpdate(ctx, func(ctx context.Context) ([]string, error) {
			return mdClient.FetchExpiryCodes(ctx, asset)
		})

		store := quotes.New(&quotes.Config{
			Asset:        asset,
			Fetcher:      mdClient,
			Expiries:     oracle,
			PollInterval: cfg.PollInterval,
			ParseCache:   parseCache,
			Logger:       logger,
		})

		snapshot, err := store.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("fetch quotes for %s: %w", asset, err)
		}

		params := cfg.AssetParams[asset]
		opportunities := spreadScanner.Scan(asset, snapshot, scanner.Params{
			MaxPremium: params.MaxPremium,
			MinProfit:  params.MinProfit,
		})

		fmt.Printf("\n=== %s (expiry %s, %d quotes) ===\n", asset, oracle.Active(), len(snapshot))
		if len(opportunities) == 0 {
			fmt.Println("no opportunities above threshold")
			continue
		}
		for i, opp := range opportunities {
			fmt.Printf("%d. %s\n", i+1, opp.String())
		}
	}

	return nil
}
