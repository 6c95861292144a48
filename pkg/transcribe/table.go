// Package transcribe maps wallet-internal chain identifiers to the network
// vocabulary a specific exchange expects. The tables are static per-exchange
// data, constructed once and never mutated.
package transcribe

import (
	"sort"
	"strings"

	"github.com/devexolix/edge-exchange-plugins/pkg/types"
)

// Table holds one exchange's chain transcription data: the chain→network
// code mapping, the per-chain asset blacklist, and the per-chain memo format.
type Table struct {
	networks  map[string]string
	blacklist map[string]map[string]bool
	memoTypes map[string]string
}

// New builds a Table from the given mappings. The inputs are copied; the
// returned Table is immutable and safe for concurrent use.
func New(networks map[string]string, blacklist map[string][]string, memoTypes map[string]string) *Table {
	t := &Table{
		networks:  make(map[string]string, len(networks)),
		blacklist: make(map[string]map[string]bool, len(blacklist)),
		memoTypes: make(map[string]string, len(memoTypes)),
	}
	for chain, code := range networks {
		t.networks[chain] = code
	}
	for chain, symbols := range blacklist {
		set := make(map[string]bool, len(symbols))
		for _, symbol := range symbols {
			set[strings.ToUpper(symbol)] = true
		}
		t.blacklist[chain] = set
	}
	for chain, memoType := range memoTypes {
		t.memoTypes[chain] = memoType
	}
	return t
}

// Transcribe returns the exchange's network code for a wallet chain
// identifier. The second return value is false when the chain is not in the
// table.
func (t *Table) Transcribe(chainID string) (string, bool) {
	code, ok := t.networks[chainID]
	return code, ok
}

// Blacklisted reports whether the exchange is known not to support the given
// asset even though its chain is generally supported.
func (t *Table) Blacklisted(chainID, symbol string) bool {
	return t.blacklist[chainID][strings.ToUpper(symbol)]
}

// MemoType returns the memo format the given chain expects. Chains without a
// specific entry use free-form text memos.
func (t *Table) MemoType(chainID string) string {
	if memoType, ok := t.memoTypes[chainID]; ok {
		return memoType
	}
	return "text"
}

// Validate checks both legs of a request against the table before any
// network call: a leg whose chain is absent from the mapping, or whose
// (chain, symbol) pair is blacklisted, makes the whole request unsupported.
func (t *Table) Validate(from, to types.Asset) error {
	var bad []types.Asset
	for _, asset := range []types.Asset{from, to} {
		if _, ok := t.networks[asset.ChainID]; !ok {
			bad = append(bad, asset)
			continue
		}
		if t.Blacklisted(asset.ChainID, asset.Symbol) {
			bad = append(bad, asset)
		}
	}
	if len(bad) > 0 {
		return &types.CurrencyUnsupportedError{Assets: bad}
	}
	return nil
}

// Chains returns the supported wallet chain identifiers in sorted order.
func (t *Table) Chains() []string {
	chains := make([]string, 0, len(t.networks))
	for chain := range t.networks {
		chains = append(chains, chain)
	}
	sort.Strings(chains)
	return chains
}

// BlacklistedAssets returns every blacklisted (chain, symbol) pair in sorted
// order.
func (t *Table) BlacklistedAssets() []types.Asset {
	assets := make([]types.Asset, 0)
	for chain, symbols := range t.blacklist {
		for symbol := range symbols {
			assets = append(assets, types.Asset{ChainID: chain, Symbol: symbol})
		}
	}
	sort.Slice(assets, func(i, j int) bool {
		if assets[i].ChainID != assets[j].ChainID {
			return assets[i].ChainID < assets[j].ChainID
		}
		return assets[i].Symbol < assets[j].Symbol
	})
	return assets
}
