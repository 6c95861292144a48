package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devexolix/edge-exchange-plugins/pkg/transcribe"
)

var currenciesCmd = &cobra.Command{
	Use:     "currencies",
	Aliases: []string{"ls"},
	Short:   "List supported chains and their exchange network codes",
	Long: `List the wallet chain identifiers the ChangeNow integration can
transcribe, the exchange network code for each, and the assets the exchange
is known not to support.

Examples:
  edge-exchange currencies
  edge-exchange currencies --json`,
	Run: runCurrencies,
}

func init() {
	rootCmd.AddCommand(currenciesCmd)
}

func runCurrencies(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	table := transcribe.ChangeNow()
	chains := table.Chains()
	blacklisted := table.BlacklistedAssets()

	if jsonOutput {
		networks := make(map[string]string, len(chains))
		for _, chain := range chains {
			code, _ := table.Transcribe(chain)
			networks[chain] = code
		}
		excluded := make([]string, 0, len(blacklisted))
		for _, asset := range blacklisted {
			excluded = append(excluded, asset.String())
		}
		output := map[string]interface{}{
			"networks":  networks,
			"excluded":  excluded,
			"memo_note": "deposits to memo chains require the order's extra identifier",
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                  SUPPORTED CHAINS")
	fmt.Println(strings.Repeat("=", 60))

	for _, chain := range chains {
		code, _ := table.Transcribe(chain)
		fmt.Printf("  %-20s -> %s\n", chain, color.YellowString(code))
	}

	if len(blacklisted) > 0 {
		color.Cyan("\nNot supported by the exchange:")
		for _, asset := range blacklisted {
			fmt.Printf("  %s\n", asset)
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Printf("\nTotal: %d chains\n\n", len(chains))
}
