package types

import "context"

// Wallet is the collaborator contract the negotiator consumes. Implementations
// are provided by the host wallet; all three operations may fail with a
// wallet-defined error, and such failures propagate unchanged.
type Wallet interface {
	// ResolveDepositAddress returns the wallet's receive address. May block
	// on wallet I/O.
	ResolveDepositAddress(ctx context.Context) (string, error)

	// NativeToDecimal converts a native integer amount to the human-readable
	// decimal representation of the given asset.
	NativeToDecimal(nativeAmount, assetCode string) (string, error)

	// DecimalToNative converts a human-readable decimal amount to the native
	// integer representation of the given asset.
	DecimalToNative(decimalAmount, assetCode string) (string, error)
}
