package negotiate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devexolix/edge-exchange-plugins/pkg/client"
	"github.com/devexolix/edge-exchange-plugins/pkg/transcribe"
	"github.com/devexolix/edge-exchange-plugins/pkg/types"
	"github.com/devexolix/edge-exchange-plugins/pkg/wallet"
)

// fakeSource records calls and replays canned results.
type fakeSource struct {
	rateResult  *client.RateResult
	rateErr     error
	orderResult *client.BoundOrder
	orderErr    error

	rateCalls  []client.RateRequest
	orderCalls []client.OrderRequest
}

func (f *fakeSource) GetRate(ctx context.Context, req client.RateRequest) (*client.RateResult, error) {
	f.rateCalls = append(f.rateCalls, req)
	if f.rateErr != nil {
		return nil, f.rateErr
	}
	return f.rateResult, nil
}

func (f *fakeSource) CreateOrder(ctx context.Context, req client.OrderRequest) (*client.BoundOrder, error) {
	f.orderCalls = append(f.orderCalls, req)
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.orderResult, nil
}

// errWallet fails every operation with the same error.
type errWallet struct{ err error }

func (w errWallet) ResolveDepositAddress(ctx context.Context) (string, error) { return "", w.err }
func (w errWallet) NativeToDecimal(amount, assetCode string) (string, error)  { return "", w.err }
func (w errWallet) DecimalToNative(amount, assetCode string) (string, error)  { return "", w.err }

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func btcWallet() types.Wallet {
	return wallet.NewStatic("bitcoin", "bc1refund", map[string]int{"BTC": 8})
}

func ethWallet() types.Wallet {
	return wallet.NewStatic("ethereum", "0xpayout", map[string]int{"ETH": 18})
}

func xrpWallet() types.Wallet {
	return wallet.NewStatic("ripple", "rPayout", map[string]int{"XRP": 6})
}

func newNegotiator(source RateSource) *Negotiator {
	return New(transcribe.ChangeNow(), source, WithClock(func() time.Time { return fixedNow }))
}

func btcToEthRequest(nativeAmount string) *types.SwapRequest {
	return &types.SwapRequest{
		FromAsset:    types.Asset{ChainID: "bitcoin", Symbol: "BTC"},
		ToAsset:      types.Asset{ChainID: "ethereum", Symbol: "ETH"},
		Direction:    types.DirectionFrom,
		NativeAmount: nativeAmount,
		FromWallet:   btcWallet(),
		ToWallet:     ethWallet(),
	}
}

func TestNegotiateSuccess(t *testing.T) {
	source := &fakeSource{
		rateResult: &client.RateResult{
			Quote: client.RateQuote{MinInput: 0.1, Input: 0.5, Output: 8.2},
		},
		orderResult: &client.BoundOrder{
			ID:             "ord-1",
			Input:          0.5,
			Output:         8.19,
			DepositAddress: "bc1qdeposit",
		},
	}
	n := newNegotiator(source)

	// 0.5 BTC in satoshi
	order, err := n.Negotiate(context.Background(), btcToEthRequest("50000000"))
	require.NoError(t, err)

	require.Len(t, source.rateCalls, 1)
	rate := source.rateCalls[0]
	assert.Equal(t, "btc", rate.FromCode)
	assert.Equal(t, "eth", rate.ToCode)
	assert.Equal(t, "btc", rate.FromNetwork)
	assert.Equal(t, "eth", rate.ToNetwork)
	assert.Equal(t, types.DirectionFrom, rate.Direction)
	assert.Equal(t, 0.5, rate.Amount)

	require.Len(t, source.orderCalls, 1)
	bind := source.orderCalls[0]
	assert.Equal(t, "0xpayout", bind.PayoutAddress)
	assert.Equal(t, "bc1refund", bind.RefundAddress)

	assert.Equal(t, "50000000", order.FromNativeAmount)
	assert.Equal(t, "8190000000000000000", order.ToNativeAmount)
	assert.Equal(t, "bc1qdeposit", order.Plan.DestinationAddress)
	assert.Equal(t, "50000000", order.Plan.NativeAmount)
	assert.Equal(t, types.FeeLevelHigh, order.Plan.FeeLevel)
	assert.Empty(t, order.Plan.Memos)
	assert.Equal(t, ProviderName, order.Provider.Name)
	assert.Equal(t, "ord-1", order.Provider.OrderID)
	assert.Equal(t, "https://changenow.io/exchange/txs/ord-1", order.Provider.TrackingURL)
	assert.Equal(t, "bc1refund", order.Provider.FromAddress)
	assert.Equal(t, "0xpayout", order.Provider.ToAddress)
	assert.Equal(t, fixedNow.Add(OrderValidity), order.Expiration)
}

func TestNegotiateUnsupportedChainMakesNoNetworkCalls(t *testing.T) {
	source := &fakeSource{}
	n := newNegotiator(source)

	req := btcToEthRequest("50000000")
	req.ToAsset = types.Asset{ChainID: "fakechain", Symbol: "FAKE"}
	req.ToWallet = wallet.NewStatic("fakechain", "addr", map[string]int{"FAKE": 8})

	_, err := n.Negotiate(context.Background(), req)
	var unsupported *types.CurrencyUnsupportedError
	require.True(t, errors.As(err, &unsupported))
	assert.Empty(t, source.rateCalls)
	assert.Empty(t, source.orderCalls)
}

func TestNegotiateBlacklistedAssetMakesNoNetworkCalls(t *testing.T) {
	source := &fakeSource{}
	n := newNegotiator(source)

	req := &types.SwapRequest{
		FromAsset:    types.Asset{ChainID: "avalanche", Symbol: "USDT.E"},
		ToAsset:      types.Asset{ChainID: "bitcoin", Symbol: "BTC"},
		Direction:    types.DirectionFrom,
		NativeAmount: "1000000",
		FromWallet:   wallet.NewStatic("avalanche", "0xrefund", map[string]int{"USDT.E": 6}),
		ToWallet:     btcWallet(),
	}

	_, err := n.Negotiate(context.Background(), req)
	var unsupported *types.CurrencyUnsupportedError
	require.True(t, errors.As(err, &unsupported))
	assert.Empty(t, source.rateCalls)
}

func TestNegotiateBelowInputMinimum(t *testing.T) {
	source := &fakeSource{
		rateResult: &client.RateResult{
			Quote: client.RateQuote{MinInput: 10, Input: 0, Output: 0, Message: "deposit too small"},
			// error-status body that still validated as a rate shape
			BelowMinimum: true,
		},
	}
	n := newNegotiator(source)

	// 5 BTC requested, 10 BTC minimum
	_, err := n.Negotiate(context.Background(), btcToEthRequest("500000000"))

	var belowLimit *types.BelowLimitError
	require.True(t, errors.As(err, &belowLimit))
	assert.Equal(t, types.DirectionFrom, belowLimit.Direction)
	assert.Equal(t, "1000000000", belowLimit.NativeMin)

	// no binding commitment for a request known to violate limits
	assert.Empty(t, source.orderCalls)
}

func TestNegotiateBelowOutputMinimum(t *testing.T) {
	source := &fakeSource{
		rateResult: &client.RateResult{
			Quote:        client.RateQuote{MinInput: 0.001, MinOutput: 10, Input: 0, Output: 0, Message: "out of range"},
			BelowMinimum: true,
		},
	}
	n := newNegotiator(source)

	req := &types.SwapRequest{
		FromAsset:    types.Asset{ChainID: "bitcoin", Symbol: "BTC"},
		ToAsset:      types.Asset{ChainID: "ripple", Symbol: "XRP"},
		Direction:    types.DirectionTo,
		NativeAmount: "8200000", // 8.2 XRP requested, 10 XRP minimum
		FromWallet:   btcWallet(),
		ToWallet:     xrpWallet(),
	}

	_, err := n.Negotiate(context.Background(), req)

	var belowLimit *types.BelowLimitError
	require.True(t, errors.As(err, &belowLimit))
	assert.Equal(t, types.DirectionTo, belowLimit.Direction)
	assert.Equal(t, "10000000", belowLimit.NativeMin)
	assert.Empty(t, source.orderCalls)

	// the to-direction amount travels as a withdrawal amount
	require.Len(t, source.rateCalls, 1)
	assert.Equal(t, types.DirectionTo, source.rateCalls[0].Direction)
	assert.Equal(t, 8.2, source.rateCalls[0].Amount)
}

func TestNegotiateMissingOutputMinimumDefaultsToZero(t *testing.T) {
	source := &fakeSource{
		rateResult: &client.RateResult{
			// remote omitted withdrawMin; MinOutput stays zero
			Quote: client.RateQuote{MinInput: 0.001, Input: 0.5, Output: 8.2},
		},
		orderResult: &client.BoundOrder{
			ID:             "ord-2",
			Input:          0.5,
			Output:         8.2,
			DepositAddress: "bc1qdeposit",
		},
	}
	n := newNegotiator(source)

	req := &types.SwapRequest{
		FromAsset:    types.Asset{ChainID: "bitcoin", Symbol: "BTC"},
		ToAsset:      types.Asset{ChainID: "ripple", Symbol: "XRP"},
		Direction:    types.DirectionTo,
		NativeAmount: "8200000",
		FromWallet:   btcWallet(),
		ToWallet:     xrpWallet(),
	}

	_, err := n.Negotiate(context.Background(), req)
	assert.NoError(t, err)
	assert.Len(t, source.orderCalls, 1)
}

func TestNegotiateMemoFromDepositExtraID(t *testing.T) {
	source := &fakeSource{
		rateResult: &client.RateResult{
			Quote: client.RateQuote{MinInput: 0.001, Input: 0.5, Output: 1200},
		},
		orderResult: &client.BoundOrder{
			ID:             "ord-3",
			Input:          0.5,
			Output:         1199.5,
			DepositAddress: "rExchangeDeposit",
			DepositExtraID: "739212",
		},
	}
	n := newNegotiator(source)

	req := &types.SwapRequest{
		FromAsset:    types.Asset{ChainID: "bitcoin", Symbol: "BTC"},
		ToAsset:      types.Asset{ChainID: "ripple", Symbol: "XRP"},
		Direction:    types.DirectionFrom,
		NativeAmount: "50000000",
		FromWallet:   btcWallet(),
		ToWallet:     xrpWallet(),
	}

	order, err := n.Negotiate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, order.Plan.Memos, 1)
	assert.Equal(t, "739212", order.Plan.Memos[0].Value)
	// tagged with the destination chain's memo format
	assert.Equal(t, "number", order.Plan.Memos[0].Type)
}

func TestNegotiateFeeLevelStandardForNonBTC(t *testing.T) {
	source := &fakeSource{
		rateResult: &client.RateResult{
			Quote: client.RateQuote{MinInput: 0.01, Input: 1, Output: 0.05},
		},
		orderResult: &client.BoundOrder{
			ID:             "ord-4",
			Input:          1,
			Output:         0.05,
			DepositAddress: "0xdeposit",
		},
	}
	n := newNegotiator(source)

	req := &types.SwapRequest{
		FromAsset:    types.Asset{ChainID: "ethereum", Symbol: "ETH"},
		ToAsset:      types.Asset{ChainID: "bitcoin", Symbol: "BTC"},
		Direction:    types.DirectionFrom,
		NativeAmount: "1000000000000000000",
		FromWallet:   ethWallet(),
		ToWallet:     btcWallet(),
	}

	order, err := n.Negotiate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, types.FeeLevelStandard, order.Plan.FeeLevel)
}

func TestNegotiateWalletErrorPropagatesUnchanged(t *testing.T) {
	source := &fakeSource{}
	n := newNegotiator(source)

	walletErr := errors.New("keychain locked")
	req := btcToEthRequest("50000000")
	req.FromWallet = errWallet{err: walletErr}

	_, err := n.Negotiate(context.Background(), req)
	require.ErrorIs(t, err, walletErr)
	assert.Empty(t, source.rateCalls)
}

func TestNegotiateProviderErrorPropagates(t *testing.T) {
	source := &fakeSource{rateErr: &types.ProviderError{StatusCode: 502}}
	n := newNegotiator(source)

	_, err := n.Negotiate(context.Background(), btcToEthRequest("50000000"))

	var provider *types.ProviderError
	require.True(t, errors.As(err, &provider))
	assert.Equal(t, 502, provider.StatusCode)
	assert.Empty(t, source.orderCalls)
}

func TestFeeLevel(t *testing.T) {
	assert.Equal(t, types.FeeLevelHigh, feeLevel(types.Asset{ChainID: "bitcoin", Symbol: "btc"}))
	assert.Equal(t, types.FeeLevelStandard, feeLevel(types.Asset{ChainID: "litecoin", Symbol: "LTC"}))
}

func TestNativeLess(t *testing.T) {
	for _, tc := range []struct {
		a, b string
		want bool
	}{
		{"5", "10", true},
		{"10", "10", false},
		{"11", "10", false},
		// beyond float64 integer precision
		{"999999999999999999999999998", "999999999999999999999999999", true},
	} {
		got, err := nativeLess(tc.a, tc.b)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, "%s < %s", tc.a, tc.b)
	}

	_, err := nativeLess("not-a-number", "10")
	assert.Error(t, err)
}
