// Package client talks to the ChangeNow fixed-rate exchange API. It performs
// the two remote operations the negotiation protocol needs, rate and
// createTransaction, and normalizes transport failures and the exchange's
// inconsistent error signaling into uniform results.
//
// All amounts on the wire are exchange-native decimal values. Conversion
// between native integer units and decimal units is the negotiator's job,
// never the client's.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/devexolix/edge-exchange-plugins/pkg/types"
)

const (
	// DefaultBaseURL is the production ChangeNow API endpoint.
	DefaultBaseURL = "https://api.changenow.io"

	apiKeyHeader  = "x-changenow-api-key"
	rateTypeFixed = "fixed"

	ratePath         = "/v1/rate"
	createPath       = "/v1/createTransaction"
	transactionsPath = "/v1/transactions/"

	requestTimeout = 30 * time.Second
)

// ChangeNowClient is an authenticated client for the ChangeNow fixed-rate
// API.
type ChangeNowClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// NewChangeNowClient creates a client. An empty baseURL selects the
// production endpoint; a nil logger disables logging.
func NewChangeNowClient(apiKey, baseURL string, log *zap.Logger) *ChangeNowClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ChangeNowClient{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		log:     log,
	}
}

// RateRequest carries the transcribed codes and the quoted-direction decimal
// amount for a rate call.
type RateRequest struct {
	FromCode    string
	ToCode      string
	FromNetwork string
	ToNetwork   string
	Direction   types.QuoteDirection
	Amount      float64
}

// RateQuote is a fixed-rate quote with the exchange's tradeable-amount
// limits. MinOutput is zero when the remote omits its output-side minimum.
type RateQuote struct {
	MinInput  float64
	MinOutput float64
	Input     float64
	Output    float64
	Message   string
}

// RateResult is the tagged outcome of a rate call. BelowMinimum marks the
// remote's legitimate under-minimum signal, which arrives either as an error
// status with a valid rate body or as a success status with an embedded
// message. It is not an error.
type RateResult struct {
	Quote        RateQuote
	BelowMinimum bool
}

// OrderRequest carries everything a binding createTransaction call needs.
type OrderRequest struct {
	FromCode      string
	ToCode        string
	FromNetwork   string
	ToNetwork     string
	Direction     types.QuoteDirection
	Amount        float64
	PayoutAddress string
	RefundAddress string
}

// BoundOrder is a binding commitment from the exchange: a reserved deposit
// address for a locked rate.
type BoundOrder struct {
	ID             string
	Input          float64
	Output         float64
	DepositAddress string
	DepositExtraID string
}

type rateParams struct {
	From             string   `json:"from"`
	To               string   `json:"to"`
	FromNetwork      string   `json:"fromNetwork"`
	ToNetwork        string   `json:"toNetwork"`
	Amount           *float64 `json:"amount,omitempty"`
	WithdrawalAmount *float64 `json:"withdrawalAmount,omitempty"`
	RateType         string   `json:"rateType"`
}

// rateReply uses pointer fields so shape validation can fail closed: a
// missing or mistyped required field leaves the pointer nil.
type rateReply struct {
	MinAmount   *float64 `json:"minAmount"`
	WithdrawMin *float64 `json:"withdrawMin"`
	FromAmount  *float64 `json:"fromAmount"`
	ToAmount    *float64 `json:"toAmount"`
	Message     *string  `json:"message"`
}

func (r *rateReply) validate() error {
	if r.MinAmount == nil {
		return fmt.Errorf("rate reply missing minAmount")
	}
	if r.FromAmount == nil {
		return fmt.Errorf("rate reply missing fromAmount")
	}
	if r.ToAmount == nil {
		return fmt.Errorf("rate reply missing toAmount")
	}
	return nil
}

func (r *rateReply) quote() RateQuote {
	q := RateQuote{
		MinInput: *r.MinAmount,
		Input:    *r.FromAmount,
		Output:   *r.ToAmount,
	}
	if r.WithdrawMin != nil {
		q.MinOutput = *r.WithdrawMin
	}
	if r.Message != nil {
		q.Message = *r.Message
	}
	return q
}

type createParams struct {
	From             string   `json:"from"`
	To               string   `json:"to"`
	FromNetwork      string   `json:"fromNetwork"`
	ToNetwork        string   `json:"toNetwork"`
	Amount           *float64 `json:"amount,omitempty"`
	WithdrawalAmount *float64 `json:"withdrawalAmount,omitempty"`
	Address          string   `json:"address"`
	RefundAddress    string   `json:"refundAddress"`
	ExtraID          string   `json:"extraId"`
	RefundExtraID    string   `json:"refundExtraId"`
	RateType         string   `json:"rateType"`
}

type createReply struct {
	ID             *string  `json:"id"`
	Amount         *float64 `json:"amount"`
	AmountTo       *float64 `json:"amountTo"`
	DepositAddress *string  `json:"depositAddress"`
	DepositExtraID *string  `json:"depositExtraId"`
}

func (r *createReply) validate() error {
	if r.ID == nil || *r.ID == "" {
		return fmt.Errorf("createTransaction reply missing id")
	}
	if r.Amount == nil {
		return fmt.Errorf("createTransaction reply missing amount")
	}
	if r.AmountTo == nil {
		return fmt.Errorf("createTransaction reply missing amountTo")
	}
	if r.DepositAddress == nil || *r.DepositAddress == "" {
		return fmt.Errorf("createTransaction reply missing depositAddress")
	}
	return nil
}

// GetRate obtains a fixed quote and the exchange's limits for the requested
// pair. The remote signals under-minimum "from"-direction amounts with an
// error status whose body is still a valid rate shape; such responses are
// returned as a BelowMinimum result, not a ProviderError.
func (c *ChangeNowClient) GetRate(ctx context.Context, req RateRequest) (*RateResult, error) {
	params := rateParams{
		From:        req.FromCode,
		To:          req.ToCode,
		FromNetwork: req.FromNetwork,
		ToNetwork:   req.ToNetwork,
		RateType:    rateTypeFixed,
	}
	if req.Direction == types.DirectionTo {
		params.WithdrawalAmount = &req.Amount
	} else {
		params.Amount = &req.Amount
	}

	status, body, err := c.post(ctx, ratePath, params)
	if err != nil {
		return nil, &types.ProviderError{Cause: err}
	}

	var reply rateReply
	shapeErr := json.Unmarshal(body, &reply)
	if shapeErr == nil {
		shapeErr = reply.validate()
	}

	if status < 200 || status >= 300 {
		if shapeErr == nil {
			c.log.Debug("rate returned error status with valid quote body, treating as below-minimum",
				zap.Int("status", status))
			return &RateResult{Quote: reply.quote(), BelowMinimum: true}, nil
		}
		return nil, &types.ProviderError{StatusCode: status, Message: http.StatusText(status)}
	}
	if shapeErr != nil {
		return nil, &types.ProviderError{StatusCode: status, Message: "invalid rate response", Cause: shapeErr}
	}

	result := &RateResult{Quote: reply.quote()}
	if result.Quote.Message != "" {
		result.BelowMinimum = true
	}
	c.log.Debug("rate quote received",
		zap.Float64("from_amount", result.Quote.Input),
		zap.Float64("to_amount", result.Quote.Output),
		zap.Bool("below_minimum", result.BelowMinimum))
	return result, nil
}

// CreateOrder binds a quote: the exchange locks the rate and reserves a
// deposit address. The rate type is always fixed and the extra-id fields are
// sent empty unconditionally.
func (c *ChangeNowClient) CreateOrder(ctx context.Context, req OrderRequest) (*BoundOrder, error) {
	params := createParams{
		From:          req.FromCode,
		To:            req.ToCode,
		FromNetwork:   req.FromNetwork,
		ToNetwork:     req.ToNetwork,
		Address:       req.PayoutAddress,
		RefundAddress: req.RefundAddress,
		RateType:      rateTypeFixed,
	}
	if req.Direction == types.DirectionTo {
		params.WithdrawalAmount = &req.Amount
	} else {
		params.Amount = &req.Amount
	}

	status, body, err := c.post(ctx, createPath, params)
	if err != nil {
		return nil, &types.ProviderError{Cause: err}
	}
	if status < 200 || status >= 300 {
		return nil, &types.ProviderError{StatusCode: status, Message: http.StatusText(status)}
	}

	var reply createReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, &types.ProviderError{StatusCode: status, Message: "invalid createTransaction response", Cause: err}
	}
	if err := reply.validate(); err != nil {
		return nil, &types.ProviderError{StatusCode: status, Message: "invalid createTransaction response", Cause: err}
	}

	order := &BoundOrder{
		ID:             *reply.ID,
		Input:          *reply.Amount,
		Output:         *reply.AmountTo,
		DepositAddress: *reply.DepositAddress,
	}
	if reply.DepositExtraID != nil {
		order.DepositExtraID = *reply.DepositExtraID
	}
	c.log.Debug("order bound",
		zap.String("order_id", order.ID),
		zap.String("deposit_address", order.DepositAddress))
	return order, nil
}

// OrderStatus is the exchange's view of a previously bound order.
type OrderStatus struct {
	ID         string
	Status     string
	Input      float64
	Output     float64
	PayinHash  string
	PayoutHash string
}

type statusReply struct {
	ID         *string  `json:"id"`
	Status     *string  `json:"status"`
	Amount     *float64 `json:"amount"`
	AmountTo   *float64 `json:"amountTo"`
	PayinHash  *string  `json:"payinHash"`
	PayoutHash *string  `json:"payoutHash"`
}

func (r *statusReply) validate() error {
	if r.ID == nil || *r.ID == "" {
		return fmt.Errorf("status reply missing id")
	}
	if r.Status == nil || *r.Status == "" {
		return fmt.Errorf("status reply missing status")
	}
	return nil
}

// GetOrderStatus fetches the current state of a bound order. Not part of the
// negotiation protocol; used for tracking after the deposit is sent.
func (c *ChangeNowClient) GetOrderStatus(ctx context.Context, orderID string) (*OrderStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+transactionsPath+orderID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &types.ProviderError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &types.ProviderError{Cause: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.ProviderError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	var reply statusReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return nil, &types.ProviderError{StatusCode: resp.StatusCode, Message: "invalid transaction status response", Cause: err}
	}
	if err := reply.validate(); err != nil {
		return nil, &types.ProviderError{StatusCode: resp.StatusCode, Message: "invalid transaction status response", Cause: err}
	}

	status := &OrderStatus{ID: *reply.ID, Status: *reply.Status}
	if reply.Amount != nil {
		status.Input = *reply.Amount
	}
	if reply.AmountTo != nil {
		status.Output = *reply.AmountTo
	}
	if reply.PayinHash != nil {
		status.PayinHash = *reply.PayinHash
	}
	if reply.PayoutHash != nil {
		status.PayoutHash = *reply.PayoutHash
	}
	return status, nil
}

// post issues an authenticated JSON request and returns the status code and
// raw body. Transport-level failures are returned as errors; non-success
// statuses are not, because callers must inspect the body first.
func (c *ChangeNowClient) post(ctx context.Context, path string, payload interface{}) (int, []byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	return resp.StatusCode, body, nil
}
