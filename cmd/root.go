package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "edge-exchange",
	Short: "Negotiate fixed-rate cross-chain swaps through ChangeNow",
	Long: `edge-exchange negotiates binding fixed-rate swap quotes with the
ChangeNow exchange: it transcribes chain identifiers, enforces the exchange's
tradeable-amount limits, binds a quote, and prints the deposit instructions.

Examples:
  edge-exchange quote 0.5 bitcoin:BTC to ethereum:ETH --payout 0x... --refund bc1...
  edge-exchange currencies`,
	Version: "0.1.0",
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

// newLogger builds the CLI logger. Verbose mode prints debug-level protocol
// steps; otherwise logging is off.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}
