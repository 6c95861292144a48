package types

import (
	"fmt"
	"strings"
)

// CurrencyUnsupportedError reports that a chain or asset is outside the
// exchange's transcription table or explicitly blacklisted. Detected before
// any network call; not retryable without changing the request.
type CurrencyUnsupportedError struct {
	Assets []Asset
}

func (e *CurrencyUnsupportedError) Error() string {
	names := make([]string, 0, len(e.Assets))
	for _, a := range e.Assets {
		names = append(names, a.String())
	}
	return fmt.Sprintf("currency not supported by exchange: %s", strings.Join(names, ", "))
}

// BelowLimitError reports that the request amount is under the exchange's
// enforced minimum for the relevant direction. NativeMin is the minimum in
// native integer units of the quoted-direction asset.
type BelowLimitError struct {
	Direction QuoteDirection
	NativeMin string
}

func (e *BelowLimitError) Error() string {
	return fmt.Sprintf("amount below exchange minimum (%s-side minimum is %s native units)", e.Direction, e.NativeMin)
}

// ProviderError reports an unparseable or unexpected response from the remote
// service. StatusCode is the HTTP status when one was received, zero for
// transport-level failures. Treated as opaque and never retried automatically.
type ProviderError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Message != "":
		return fmt.Sprintf("exchange provider error (status %d): %s", e.StatusCode, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("exchange provider error (status %d)", e.StatusCode)
	case e.Cause != nil:
		return fmt.Sprintf("exchange provider error: %v", e.Cause)
	default:
		return "exchange provider error"
	}
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
