package types

// QuoteDirection states whether the request amount denotes the input or the
// output asset of the exchange.
type QuoteDirection string

const (
	DirectionFrom QuoteDirection = "from" // amount is how much goes in
	DirectionTo   QuoteDirection = "to"   // amount is how much must come out
)

// Asset identifies a tradeable asset by its wallet-internal chain identifier
// and ticker symbol.
type Asset struct {
	ChainID string
	Symbol  string
}

// String returns the asset in "chain:SYMBOL" form.
func (a Asset) String() string {
	return a.ChainID + ":" + a.Symbol
}

// SwapRequest represents a user's request to exchange one asset for another.
// NativeAmount is an integer string in the native units of the
// quoted-direction asset. The request is immutable once handed to the
// negotiator.
type SwapRequest struct {
	FromAsset    Asset
	ToAsset      Asset
	Direction    QuoteDirection
	NativeAmount string
	FromWallet   Wallet
	ToWallet     Wallet
}

// QuotedWallet returns the wallet that owns the quoted-direction asset.
func (r *SwapRequest) QuotedWallet() Wallet {
	if r.Direction == DirectionTo {
		return r.ToWallet
	}
	return r.FromWallet
}

// QuotedAsset returns the asset the request amount is denominated in.
func (r *SwapRequest) QuotedAsset() Asset {
	if r.Direction == DirectionTo {
		return r.ToAsset
	}
	return r.FromAsset
}
