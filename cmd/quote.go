package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/devexolix/edge-exchange-plugins/config"
	"github.com/devexolix/edge-exchange-plugins/pkg/client"
	"github.com/devexolix/edge-exchange-plugins/pkg/negotiate"
	"github.com/devexolix/edge-exchange-plugins/pkg/parser"
	"github.com/devexolix/edge-exchange-plugins/pkg/transcribe"
	"github.com/devexolix/edge-exchange-plugins/pkg/types"
	"github.com/devexolix/edge-exchange-plugins/pkg/wallet"
)

var (
	payoutAddr string
	refundAddr string
	direction  string
)

// assetDecimals covers the assets the demo CLI knows how to denominate.
var assetDecimals = map[string]int{
	"ADA":   6,
	"ATOM":  6,
	"AVAX":  18,
	"BCH":   8,
	"BNB":   18,
	"BTC":   8,
	"DOGE":  8,
	"DOT":   10,
	"ETH":   18,
	"LTC":   8,
	"MATIC": 18,
	"SOL":   9,
	"TRX":   6,
	"USDC":  6,
	"USDT":  6,
	"XLM":   7,
	"XMR":   12,
	"XRP":   6,
}

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <chain>:<SYMBOL> to <chain>:<SYMBOL>",
	Short: "Negotiate a binding fixed-rate swap quote",
	Long: `Negotiate a fixed-rate quote with ChangeNow and print the deposit
instructions for the resulting order.

IMPORTANT:
  - You MUST specify --payout (where you'll receive tokens)
  - You SHOULD specify --refund (where funds return if the swap fails);
    it defaults to the payout address, which is usually wrong cross-chain

Examples:
  # Quote by input amount (how much you send)
  edge-exchange quote 0.5 bitcoin:BTC to ethereum:ETH --payout 0x123... --refund bc1...

  # Quote by output amount (how much you want to receive)
  edge-exchange quote 1 ethereum:ETH to ripple:XRP --direction to --payout r123... --refund 0x123...`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVar(&payoutAddr, "payout", "", "Payout address (REQUIRED - where you'll receive tokens)")
	quoteCmd.Flags().StringVar(&refundAddr, "refund", "", "Refund address on source chain")
	quoteCmd.Flags().StringVar(&direction, "direction", "from", "Which amount the request specifies: 'from' (input) or 'to' (output)")
}

func runQuote(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	parsed, err := parser.ParseQuoteCommand(strings.Join(args, " "))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	quoteDir := types.QuoteDirection(direction)
	if quoteDir != types.DirectionFrom && quoteDir != types.DirectionTo {
		printError(fmt.Errorf("--direction must be 'from' or 'to'"))
		os.Exit(1)
	}

	if payoutAddr == "" {
		printError(fmt.Errorf("payout address is required. Use --payout to specify where you want to receive the tokens"))
		os.Exit(1)
	}
	if refundAddr == "" {
		refundAddr = payoutAddr
	}

	if err := wallet.ValidateAddress(parsed.ToAsset.ChainID, payoutAddr); err != nil {
		printError(err)
		os.Exit(1)
	}
	if err := wallet.ValidateAddress(parsed.FromAsset.ChainID, refundAddr); err != nil {
		printError(err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	fromWallet := wallet.NewStatic(parsed.FromAsset.ChainID, refundAddr, assetDecimals)
	toWallet := wallet.NewStatic(parsed.ToAsset.ChainID, payoutAddr, assetDecimals)

	req := &types.SwapRequest{
		FromAsset:  parsed.FromAsset,
		ToAsset:    parsed.ToAsset,
		Direction:  quoteDir,
		FromWallet: fromWallet,
		ToWallet:   toWallet,
	}

	// The CLI takes a human decimal amount; the protocol runs on native
	// integer units of the quoted-direction asset.
	quotedWallet := fromWallet
	if quoteDir == types.DirectionTo {
		quotedWallet = toWallet
	}
	req.NativeAmount, err = quotedWallet.DecimalToNative(parsed.DecimalAmount, req.QuotedAsset().Symbol)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	log := newLogger(verbose)
	defer log.Sync()

	apiClient := client.NewChangeNowClient(cfg.APIKey, cfg.BaseURL, log)
	negotiator := negotiate.New(transcribe.ChangeNow(), apiClient, negotiate.WithLogger(log))

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Negotiating fixed-rate quote..."
		s.Start()
	}

	order, err := negotiator.Negotiate(context.Background(), req)
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printNegotiationError(err, req)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"order_id":        order.Provider.OrderID,
			"deposit_address": order.Plan.DestinationAddress,
			"from_native":     order.FromNativeAmount,
			"to_native":       order.ToNativeAmount,
			"fee_level":       order.Plan.FeeLevel,
			"tracking_url":    order.Provider.TrackingURL,
			"expires_at":      order.Expiration.Format(time.RFC3339),
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayOrder(order)
}

func printNegotiationError(err error, req *types.SwapRequest) {
	var belowLimit *types.BelowLimitError
	var unsupported *types.CurrencyUnsupportedError
	var provider *types.ProviderError

	switch {
	case errors.As(err, &belowLimit):
		color.Yellow("\nAmount too small for this pair.")
		fmt.Printf("The exchange's %s-side minimum is %s native units of %s.\n",
			belowLimit.Direction, belowLimit.NativeMin, req.QuotedAsset())
	case errors.As(err, &unsupported):
		color.Yellow("\nPair not supported by ChangeNow.")
		fmt.Printf("%v\n", err)
		fmt.Println("Run 'edge-exchange currencies' to list supported chains.")
	case errors.As(err, &provider):
		printError(err)
	default:
		printError(err)
	}
}

func displayOrder(order *types.NormalizedSwapOrder) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                  FIXED-RATE SWAP ORDER")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  Order ID:          %s\n", color.CyanString(order.Provider.OrderID))
	fmt.Printf("  Send:              %s native units of %s\n", order.FromNativeAmount, color.YellowString(order.Provider.FromAsset.String()))
	fmt.Printf("  Receive:           %s native units of %s\n", order.ToNativeAmount, color.YellowString(order.Provider.ToAsset.String()))
	fmt.Printf("  Fee level:         %s\n", order.Plan.FeeLevel)
	fmt.Printf("  Tracking:          %s\n", order.Provider.TrackingURL)
	fmt.Printf("  Valid until:       %s\n", order.Expiration.Format(time.RFC3339))

	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Yellow("                 DEPOSIT INSTRUCTIONS")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("\nSend exactly %s native units of %s to:\n\n", order.FromNativeAmount, order.Provider.FromAsset.Symbol)
	color.Cyan("  %s\n", order.Plan.DestinationAddress)

	for _, memo := range order.Plan.Memos {
		fmt.Printf("\nMemo (REQUIRED, type %s): %s\n", memo.Type, color.MagentaString(memo.Value))
	}

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}
