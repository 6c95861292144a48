package transcribe

// mainnetCodes maps wallet chain identifiers to ChangeNow network codes.
var mainnetCodes = map[string]string{
	"algorand":          "algo",
	"arbitrum":          "arbitrum",
	"avalanche":         "cchain",
	"base":              "base",
	"binancechain":      "bnb",
	"binancesmartchain": "bsc",
	"bitcoin":           "btc",
	"bitcoincash":       "bch",
	"cardano":           "ada",
	"cosmoshub":         "atom",
	"dash":              "dash",
	"digibyte":          "dgb",
	"dogecoin":          "doge",
	"ethereum":          "eth",
	"ethereumclassic":   "etc",
	"fantom":            "ftm",
	"hedera":            "hbar",
	"litecoin":          "ltc",
	"monero":            "xmr",
	"optimism":          "op",
	"osmosis":           "osmo",
	"polkadot":          "dot",
	"polygon":           "matic",
	"qtum":              "qtum",
	"ripple":            "xrp",
	"solana":            "sol",
	"stellar":           "xlm",
	"tezos":             "xtz",
	"tron":              "trx",
	"zcash":             "zec",
}

// invalidCodes lists assets ChangeNow rejects even though their chain is
// supported.
var invalidCodes = map[string][]string{
	"avalanche": {"USDT.E", "USDC.E"},
	"ethereum":  {"REP"},
	"polygon":   {"USDC.E"},
}

// memoCodes lists the memo format per chain for chains whose deposits need a
// routing tag. Everything else defaults to free-form text.
var memoCodes = map[string]string{
	"binancechain": "text",
	"cosmoshub":    "text",
	"hedera":       "number",
	"ripple":       "number",
	"stellar":      "text",
}

// ChangeNow returns the static transcription table for the ChangeNow
// exchange.
func ChangeNow() *Table {
	return New(mainnetCodes, invalidCodes, memoCodes)
}
