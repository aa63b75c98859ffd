package config

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
)

// ErrUnknownToken is returned when a token key is not in the registry.
var ErrUnknownToken = errors.New("unknown token")

// Token describes a known ICRC-1 token ledger.
type Token struct {
	Key         string // registry key used on the command line
	Symbol      string // display symbol, e.g. "ckBTC"
	Ledger      string // ledger canister ID on the IC mainnet
	Decimals    uint8
	Fee         *big.Int // ledger's configured transfer fee in base units
	CoinGeckoID string   // empty = no public price feed
}

// tokens is the registry of well-known ledgers. Custom ledgers are reached
// with --ledger; this list only saves typing canister IDs.
var tokens = map[string]Token{
	"ckbtc": {
		Key:         "ckbtc",
		Symbol:      "ckBTC",
		Ledger:      "mxzaz-hqaaa-aaaar-qaada-cai",
		Decimals:    8,
		Fee:         big.NewInt(10),
		CoinGeckoID: "bitcoin",
	},
	"cketh": {
		Key:         "cketh",
		Symbol:      "ckETH",
		Ledger:      "ss2fx-dyaaa-aaaar-qacoq-cai",
		Decimals:    18,
		Fee:         big.NewInt(2_000_000_000_000),
		CoinGeckoID: "ethereum",
	},
	"icp": {
		Key:         "icp",
		Symbol:      "ICP",
		Ledger:      "ryjl3-tyaaa-aaaaa-aaaba-cai",
		Decimals:    8,
		Fee:         big.NewInt(10_000),
		CoinGeckoID: "internet-computer",
	},
	"ckusdc": {
		Key:         "ckusdc",
		Symbol:      "ckUSDC",
		Ledger:      "xevnm-gaaaa-aaaar-qafnq-cai",
		Decimals:    6,
		Fee:         big.NewInt(10_000),
		CoinGeckoID: "usd-coin",
	},
	"ckusdt": {
		Key:         "ckusdt",
		Symbol:      "ckUSDT",
		Ledger:      "cngnf-vqaaa-aaaar-qag4q-cai",
		Decimals:    6,
		Fee:         big.NewInt(10_000),
		CoinGeckoID: "tether",
	},
	// Custom token, no CoinGecko listing.
	"realms": {
		Key:      "realms",
		Symbol:   "REALMS",
		Ledger:   "xbkkh-syaaa-aaaah-qq3ya-cai",
		Decimals: 8,
		Fee:      big.NewInt(10_000),
	},
}

// LookupToken finds a token by registry key.
func LookupToken(key string) (Token, error) {
	tok, ok := tokens[key]
	if !ok {
		return Token{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownToken, key, TokenKeys())
	}
	return tok, nil
}

// TokenKeys returns the registry keys in sorted order.
func TokenKeys() []string {
	keys := make([]string, 0, len(tokens))
	for k := range tokens {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Tokens returns all registered tokens keyed by registry key.
func Tokens() map[string]Token {
	out := make(map[string]Token, len(tokens))
	for k, v := range tokens {
		out[k] = v
	}
	return out
}
