package wallet

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"
)

// evmChains are the chain identifiers whose addresses are 0x hex accounts.
var evmChains = map[string]bool{
	"arbitrum":          true,
	"avalanche":         true,
	"base":              true,
	"binancesmartchain": true,
	"ethereum":          true,
	"ethereumclassic":   true,
	"fantom":            true,
	"optimism":          true,
	"polygon":           true,
}

// ValidateAddress sanity-checks an address for the given chain before it is
// sent to the exchange. Chains without a specific rule only need a non-empty
// address.
func ValidateAddress(chainID, address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return fmt.Errorf("address for chain %s is empty", chainID)
	}

	switch {
	case evmChains[chainID]:
		if !common.IsHexAddress(address) {
			return fmt.Errorf("invalid address for chain %s: %s", chainID, address)
		}
	case chainID == "solana":
		if _, err := solana.PublicKeyFromBase58(address); err != nil {
			return fmt.Errorf("invalid address for chain %s: %w", chainID, err)
		}
	}
	return nil
}
