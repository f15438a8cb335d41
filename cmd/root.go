package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "crypto-arbitrage-bot",
	Short: "Crypto options spread arbitrage bot",
	Long: `Crypto options spread arbitrage bot that scans same-expiry option
chains for adjacent-strike pricing inversions and trades them in
paper trading mode.

For each configured underlying asset the bot polls the exchange ticker
feed, keeps quotes for the active daily expiry, and flags any adjacent
strike pair where the spread can be sold for more than it costs to buy.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
