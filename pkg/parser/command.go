package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/devexolix/edge-exchange-plugins/pkg/types"
)

// QuoteCommand is a parsed CLI quote request before wallets are attached.
type QuoteCommand struct {
	DecimalAmount string
	FromAsset     types.Asset
	ToAsset       types.Asset
}

// Pattern: <amount> <chain>:<SYMBOL> to <chain>:<SYMBOL>
var quotePattern = regexp.MustCompile(`^(\d+\.?\d*)\s+([a-z0-9]+):([A-Z0-9.]+)\s+TO\s+([a-z0-9]+):([A-Z0-9.]+)$`)

// ParseQuoteCommand parses a natural language quote command.
// Examples:
//   - "0.5 bitcoin:BTC to ethereum:ETH"
//   - "quote 100 ethereum:USDT to litecoin:LTC"
func ParseQuoteCommand(command string) (*QuoteCommand, error) {
	command = strings.TrimSpace(command)
	command = strings.TrimPrefix(command, "quote ")

	// Chain identifiers are lowercase, symbols uppercase, the keyword
	// case-insensitive.
	fields := strings.Fields(command)
	for i, f := range fields {
		switch {
		case strings.EqualFold(f, "to") && i == 2:
			fields[i] = "TO"
		case strings.Contains(f, ":"):
			parts := strings.SplitN(f, ":", 2)
			fields[i] = strings.ToLower(parts[0]) + ":" + strings.ToUpper(parts[1])
		}
	}
	command = strings.Join(fields, " ")

	matches := quotePattern.FindStringSubmatch(command)
	if matches == nil {
		return nil, fmt.Errorf("invalid quote command format. Expected: '<amount> <chain>:<SYMBOL> to <chain>:<SYMBOL>' (e.g. '0.5 bitcoin:BTC to ethereum:ETH')")
	}

	return &QuoteCommand{
		DecimalAmount: matches[1],
		FromAsset:     types.Asset{ChainID: matches[2], Symbol: matches[3]},
		ToAsset:       types.Asset{ChainID: matches[4], Symbol: matches[5]},
	}, nil
}
