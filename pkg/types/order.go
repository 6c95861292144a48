package types

import "time"

// FeeLevel is a fee-aggressiveness hint for the wallet's transaction builder.
type FeeLevel string

const (
	FeeLevelStandard FeeLevel = "standard"
	FeeLevelHigh     FeeLevel = "high"
)

// Memo is an auxiliary routing tag required by certain chains to credit a
// deposit to the correct account.
type Memo struct {
	Type  string
	Value string
}

// SpendPlan describes the single on-chain spend the wallet must make to fund
// a bound order.
type SpendPlan struct {
	DestinationAddress string
	NativeAmount       string
	FeeLevel           FeeLevel
	Memos              []Memo
}

// ProviderInfo records provenance for a negotiated order, kept for support
// and audit purposes.
type ProviderInfo struct {
	Name        string
	OrderID     string
	TrackingURL string
	FromAsset   Asset
	ToAsset     Asset
	FromAddress string
	ToAddress   string
}

// NormalizedSwapOrder is the negotiation's final output. The caller owns it
// after return; the core never retains it. The order must not be honored
// after Expiration.
type NormalizedSwapOrder struct {
	Request          *SwapRequest
	Plan             SpendPlan
	Provider         ProviderInfo
	FromNativeAmount string
	ToNativeAmount   string
	Expiration       time.Time
}
