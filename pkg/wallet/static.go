// Package wallet provides a self-contained Wallet implementation and
// per-chain address validation. Production hosts plug in their own wallet
// collaborators; Static exists for the CLI and for tests.
package wallet

import (
	"context"
	"fmt"
	"math/big"
	"strings"
)

// Static is a Wallet with a fixed receive address and decimals-based unit
// conversion.
type Static struct {
	chainID  string
	address  string
	decimals map[string]int
}

// NewStatic creates a Static wallet for one chain. decimals maps asset
// symbols to their native decimal count (e.g. BTC → 8, ETH → 18).
func NewStatic(chainID, address string, decimals map[string]int) *Static {
	normalized := make(map[string]int, len(decimals))
	for symbol, d := range decimals {
		normalized[strings.ToUpper(symbol)] = d
	}
	return &Static{
		chainID:  chainID,
		address:  address,
		decimals: normalized,
	}
}

// ChainID returns the wallet's chain identifier.
func (w *Static) ChainID() string {
	return w.chainID
}

// ResolveDepositAddress returns the configured receive address.
func (w *Static) ResolveDepositAddress(ctx context.Context) (string, error) {
	if w.address == "" {
		return "", fmt.Errorf("no address configured for chain %s", w.chainID)
	}
	return w.address, nil
}

// NativeToDecimal converts a native integer amount to its decimal
// representation.
func (w *Static) NativeToDecimal(nativeAmount, assetCode string) (string, error) {
	d, err := w.assetDecimals(assetCode)
	if err != nil {
		return "", err
	}
	n, ok := new(big.Int).SetString(nativeAmount, 10)
	if !ok {
		return "", fmt.Errorf("invalid native amount %q", nativeAmount)
	}
	r := new(big.Rat).SetFrac(n, pow10(d))
	return trimDecimal(r.FloatString(d)), nil
}

// DecimalToNative converts a decimal amount to native integer units,
// truncating any fraction below one native unit.
func (w *Static) DecimalToNative(decimalAmount, assetCode string) (string, error) {
	d, err := w.assetDecimals(assetCode)
	if err != nil {
		return "", err
	}
	r, ok := new(big.Rat).SetString(decimalAmount)
	if !ok {
		return "", fmt.Errorf("invalid decimal amount %q", decimalAmount)
	}
	r.Mul(r, new(big.Rat).SetInt(pow10(d)))
	return new(big.Int).Quo(r.Num(), r.Denom()).String(), nil
}

func (w *Static) assetDecimals(assetCode string) (int, error) {
	d, ok := w.decimals[strings.ToUpper(assetCode)]
	if !ok {
		return 0, fmt.Errorf("unknown asset %q on chain %s", assetCode, w.chainID)
	}
	return d, nil
}

func pow10(d int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d)), nil)
}

func trimDecimal(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
