package negotiate

import (
	"fmt"
	"strings"
	"time"

	"github.com/devexolix/edge-exchange-plugins/pkg/client"
	"github.com/devexolix/edge-exchange-plugins/pkg/types"
)

const (
	// ProviderName identifies the exchange in provenance metadata.
	ProviderName = "changenow"

	trackingURLFormat = "https://changenow.io/exchange/txs/%s"

	// OrderValidity is how long a bound order may be honored after assembly.
	// The exchange holds fixed-rate quotes for at least this long.
	OrderValidity = 60 * time.Second

	// Confirmation times for this asset are unpredictable enough that its
	// deposits should pay aggressive fees.
	highFeeSymbol = "BTC"
)

// assemble builds the normalized order from a bound commitment: a single
// spend target at the deposit address, an optional memo when the order
// carries a deposit extra-identifier, and provenance for support/audit.
func (n *Negotiator) assemble(req *types.SwapRequest, order *client.BoundOrder, refundAddress, payoutAddress, fromNative, toNative string) *types.NormalizedSwapOrder {
	plan := types.SpendPlan{
		DestinationAddress: order.DepositAddress,
		NativeAmount:       fromNative,
		FeeLevel:           feeLevel(req.FromAsset),
	}
	if order.DepositExtraID != "" {
		plan.Memos = []types.Memo{{
			Type:  n.table.MemoType(req.ToAsset.ChainID),
			Value: order.DepositExtraID,
		}}
	}

	return &types.NormalizedSwapOrder{
		Request: req,
		Plan:    plan,
		Provider: types.ProviderInfo{
			Name:        ProviderName,
			OrderID:     order.ID,
			TrackingURL: fmt.Sprintf(trackingURLFormat, order.ID),
			FromAsset:   req.FromAsset,
			ToAsset:     req.ToAsset,
			FromAddress: refundAddress,
			ToAddress:   payoutAddress,
		},
		FromNativeAmount: fromNative,
		ToNativeAmount:   toNative,
		Expiration:       n.now().Add(OrderValidity),
	}
}

func feeLevel(from types.Asset) types.FeeLevel {
	if strings.ToUpper(from.Symbol) == highFeeSymbol {
		return types.FeeLevelHigh
	}
	return types.FeeLevelStandard
}
