// Package negotiate implements the fixed-rate quote negotiation protocol:
// transcribe wallet chain identifiers, obtain a fixed quote, enforce the
// exchange's minimum in the correct direction, bind the quote, and assemble
// a normalized order the wallet can spend against.
package negotiate

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/devexolix/edge-exchange-plugins/pkg/client"
	"github.com/devexolix/edge-exchange-plugins/pkg/transcribe"
	"github.com/devexolix/edge-exchange-plugins/pkg/types"
)

// RateSource is the remote exchange surface the negotiator consumes.
type RateSource interface {
	GetRate(ctx context.Context, req client.RateRequest) (*client.RateResult, error)
	CreateOrder(ctx context.Context, req client.OrderRequest) (*client.BoundOrder, error)
}

// Negotiator orchestrates one fixed-rate negotiation per call. It holds no
// per-request state; a single Negotiator is safe for concurrent use.
type Negotiator struct {
	table  *transcribe.Table
	source RateSource
	log    *zap.Logger
	now    func() time.Time
}

// Option configures a Negotiator.
type Option func(*Negotiator)

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(n *Negotiator) {
		if log != nil {
			n.log = log
		}
	}
}

// WithClock overrides the time source used to stamp order expirations.
func WithClock(now func() time.Time) Option {
	return func(n *Negotiator) {
		if now != nil {
			n.now = now
		}
	}
}

// New creates a Negotiator over the given transcription table and remote
// source.
func New(table *transcribe.Table, source RateSource, opts ...Option) *Negotiator {
	n := &Negotiator{
		table:  table,
		source: source,
		log:    zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Negotiate runs the protocol for one request and returns the normalized
// order, or one of CurrencyUnsupportedError, BelowLimitError, ProviderError,
// or a wallet error propagated unchanged. It issues at most one binding
// createTransaction call, and only after the minimum check has passed.
func (n *Negotiator) Negotiate(ctx context.Context, req *types.SwapRequest) (*types.NormalizedSwapOrder, error) {
	// Both legs must transcribe and clear the blacklist before anything is
	// sent to the exchange.
	if err := n.table.Validate(req.FromAsset, req.ToAsset); err != nil {
		return nil, err
	}
	fromNetwork, _ := n.table.Transcribe(req.FromAsset.ChainID)
	toNetwork, _ := n.table.Transcribe(req.ToAsset.ChainID)

	log := n.log.With(
		zap.String("negotiation_id", uuid.NewString()),
		zap.String("from", req.FromAsset.String()),
		zap.String("to", req.ToAsset.String()),
		zap.String("direction", string(req.Direction)))
	log.Debug("negotiating fixed-rate quote", zap.String("native_amount", req.NativeAmount))

	// The two wallets' address lookups are independent work.
	var refundAddress, payoutAddress string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr, err := req.FromWallet.ResolveDepositAddress(gctx)
		refundAddress = addr
		return err
	})
	g.Go(func() error {
		addr, err := req.ToWallet.ResolveDepositAddress(gctx)
		payoutAddress = addr
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	quotedAsset := req.QuotedAsset()
	quotedWallet := req.QuotedWallet()

	decimalStr, err := quotedWallet.NativeToDecimal(req.NativeAmount, quotedAsset.Symbol)
	if err != nil {
		return nil, err
	}
	decimalAmount, err := strconv.ParseFloat(decimalStr, 64)
	if err != nil {
		return nil, fmt.Errorf("wallet returned unparseable decimal amount %q: %w", decimalStr, err)
	}

	rate, err := n.source.GetRate(ctx, client.RateRequest{
		FromCode:    exchangeCode(req.FromAsset),
		ToCode:      exchangeCode(req.ToAsset),
		FromNetwork: fromNetwork,
		ToNetwork:   toNetwork,
		Direction:   req.Direction,
		Amount:      decimalAmount,
	})
	if err != nil {
		return nil, err
	}
	if rate.BelowMinimum {
		log.Debug("exchange signaled below-minimum quote", zap.String("message", rate.Quote.Message))
	}

	if err := n.checkMinimum(req, quotedWallet, quotedAsset, &rate.Quote); err != nil {
		return nil, err
	}

	order, err := n.source.CreateOrder(ctx, client.OrderRequest{
		FromCode:      exchangeCode(req.FromAsset),
		ToCode:        exchangeCode(req.ToAsset),
		FromNetwork:   fromNetwork,
		ToNetwork:     toNetwork,
		Direction:     req.Direction,
		Amount:        decimalAmount,
		PayoutAddress: payoutAddress,
		RefundAddress: refundAddress,
	})
	if err != nil {
		return nil, err
	}

	fromNative, err := req.FromWallet.DecimalToNative(formatDecimal(order.Input), req.FromAsset.Symbol)
	if err != nil {
		return nil, err
	}
	toNative, err := req.ToWallet.DecimalToNative(formatDecimal(order.Output), req.ToAsset.Symbol)
	if err != nil {
		return nil, err
	}

	log.Debug("order bound",
		zap.String("order_id", order.ID),
		zap.String("from_native", fromNative),
		zap.String("to_native", toNative))

	return n.assemble(req, order, refundAddress, payoutAddress, fromNative, toNative), nil
}

// checkMinimum enforces the direction-correct minimum: input-side for
// "from"-direction requests, output-side for "to"-direction requests. The
// minimum is converted to native units via the quoted-direction wallet and
// compared against the original native request amount.
func (n *Negotiator) checkMinimum(req *types.SwapRequest, wallet types.Wallet, asset types.Asset, quote *client.RateQuote) error {
	min := quote.MinInput
	if req.Direction == types.DirectionTo {
		// The remote sometimes omits its output-side minimum; a zero floor
		// then lets any amount through.
		min = quote.MinOutput
	}

	nativeMin, err := wallet.DecimalToNative(formatDecimal(min), asset.Symbol)
	if err != nil {
		return err
	}
	below, err := nativeLess(req.NativeAmount, nativeMin)
	if err != nil {
		return err
	}
	if below {
		return &types.BelowLimitError{Direction: req.Direction, NativeMin: nativeMin}
	}
	return nil
}

// nativeLess compares two native integer amount strings.
func nativeLess(a, b string) (bool, error) {
	x, ok := new(big.Int).SetString(a, 10)
	if !ok {
		return false, fmt.Errorf("invalid native amount %q", a)
	}
	y, ok := new(big.Int).SetString(b, 10)
	if !ok {
		return false, fmt.Errorf("invalid native amount %q", b)
	}
	return x.Cmp(y) < 0, nil
}

// exchangeCode returns the ticker spelling the exchange expects.
func exchangeCode(a types.Asset) string {
	return strings.ToLower(a.Symbol)
}

// formatDecimal renders a decimal amount for a wallet conversion call.
func formatDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
