package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devexolix/edge-exchange-plugins/config"
	"github.com/devexolix/edge-exchange-plugins/pkg/client"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <order-id>",
	Short: "Check the status of a bound order",
	Long: `Check the exchange-side status of a previously bound order by its
order identifier.

Examples:
  edge-exchange status abc123def456
  edge-exchange status abc123def456 --watch
  edge-exchange status abc123def456 --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Watch status updates continuously")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 15, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) {
	orderID := args[0]
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	apiClient := client.NewChangeNowClient(cfg.APIKey, cfg.BaseURL, newLogger(verbose))

	if watchStatus {
		watchOrderStatus(apiClient, orderID, jsonOutput)
	} else {
		checkOrderStatus(apiClient, orderID, jsonOutput)
	}
}

func checkOrderStatus(apiClient *client.ChangeNowClient, orderID string, jsonOutput bool) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking order status..."
		s.Start()
	}

	status, err := apiClient.GetOrderStatus(context.Background(), orderID)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
	} else {
		displayStatus(status)
	}
}

func watchOrderStatus(apiClient *client.ChangeNowClient, orderID string, jsonOutput bool) {
	if jsonOutput {
		fmt.Println(`{"error": "watch mode not supported with JSON output"}`)
		os.Exit(1)
	}

	fmt.Printf("\nWatching order %s\n", color.CyanString(orderID))
	fmt.Printf("Checking every %d seconds. Press Ctrl+C to stop.\n\n", watchInterval)

	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	checkAndDisplayStatus(apiClient, orderID)

	for range ticker.C {
		checkAndDisplayStatus(apiClient, orderID)
	}
}

func checkAndDisplayStatus(apiClient *client.ChangeNowClient, orderID string) {
	status, err := apiClient.GetOrderStatus(context.Background(), orderID)
	if err != nil {
		color.Red("Error: %v", err)
		return
	}

	displayStatus(status)
}

func displayStatus(status *client.OrderStatus) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        ORDER STATUS")
	fmt.Println(strings.Repeat("=", 70))

	fmt.Printf("\n  Order ID:        %s\n", color.CyanString(status.ID))
	fmt.Printf("  Status:          %s\n", getColoredStatus(status.Status))

	if status.PayinHash != "" {
		fmt.Printf("  Deposit Tx:      %s\n", color.HiBlackString(status.PayinHash))
	}
	if status.PayoutHash != "" {
		fmt.Printf("  Payout Tx:       %s\n", color.HiBlackString(status.PayoutHash))
	}
	if status.Input > 0 {
		fmt.Printf("  Amount In:       %v\n", status.Input)
	}
	if status.Output > 0 {
		fmt.Printf("  Amount Out:      %v\n", status.Output)
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}

func getColoredStatus(status string) string {
	switch strings.ToLower(status) {
	case "finished":
		return color.GreenString(status)
	case "new", "waiting", "confirming", "exchanging", "sending":
		return color.YellowString(status)
	case "failed", "refunded", "expired":
		return color.RedString(status)
	default:
		return status
	}
}
