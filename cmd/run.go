package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vk82313/crypto-arbitrage-bot/internal/app"
	"github.com/vk82313/crypto-arbitrage-bot/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the arbitrage bot",
	Long: `Starts the spread arbitrage bot, which will:
1. Track the active daily expiry per asset (17:30 IST rollover)
2. Poll the exchange ticker feed for option quotes
3. Scan adjacent strike pairs for CALL and PUT spread inversions
4. Execute the best opportunity through the fill simulator

Use --fill-seed to make the simulated fills reproducible.`,
	RunE: runBot,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Int64("fill-seed", 0, "Fixed RNG seed for the fill simulator (0 = time-based)")
}

func runBot(cmd *cobra.Command, args []string) error {
	// Optional .env file; real env vars win
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

	fillSeed, _ := cmd.Flags().GetInt64("fill-seed")

	application, err := app.New(cfg, logger, &app.Options{
		FillSeed: fillSeed,
	})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
