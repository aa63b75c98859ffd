package wallet

import (
	"encoding/json"
	"math/big"
)

// BalanceResult is the JSON document produced by a balance query. Balance
// is the exact display-unit decimal; usd and price are omitted when the
// price feed is unavailable.
type BalanceResult struct {
	Token     string      `json:"token"`
	Balance   json.Number `json:"balance"`
	Raw       *big.Int    `json:"raw"`
	USD       *float64    `json:"usd,omitempty"`
	Price     *float64    `json:"price,omitempty"`
	Principal string      `json:"principal"`
}

// TransferResult is the JSON document produced by a transfer.
type TransferResult struct {
	Ok     bool            `json:"ok"`
	Block  *big.Int        `json:"block,omitempty"`
	Token  string          `json:"token,omitempty"`
	Amount json.Number     `json:"amount,omitempty"`
	To     string          `json:"to,omitempty"`
	Memo   string          `json:"memo,omitempty"`
	Err    json.RawMessage `json:"error,omitempty"`
}

// InfoResult is the JSON document produced by an info query.
type InfoResult struct {
	Token     string      `json:"token"`
	Ledger    string      `json:"ledger"`
	Decimals  uint8       `json:"decimals"`
	Fee       *big.Int    `json:"fee"`
	FeeHuman  json.Number `json:"fee_human"`
	PriceUSD  *float64    `json:"price_usd,omitempty"`
	Principal string      `json:"principal"`
	Network   string      `json:"network"`
}

// MintResult is the JSON document produced by a mint on a permissive test
// ledger.
type MintResult struct {
	Ok         bool        `json:"ok"`
	Block      *big.Int    `json:"block,omitempty"`
	Token      string      `json:"token,omitempty"`
	Amount     json.Number `json:"amount,omitempty"`
	To         string      `json:"to,omitempty"`
	NewBalance *big.Int    `json:"new_balance,omitempty"`
	Err        string      `json:"error,omitempty"`
}

// BalanceOptions selects the account for a balance query. An empty
// principal means the active identity.
type BalanceOptions struct {
	Principal  string
	Subaccount string
}

// TransferOptions describes a transfer in user terms. An empty Token
// means the configured default.
type TransferOptions struct {
	Token          string
	Recipient      string
	Amount         string // decimal display units
	Subaccount     string // destination subaccount input
	FromSubaccount string
	Memo           string
}

// MintOptions describes a mint. An empty recipient means the active
// identity.
type MintOptions struct {
	Recipient  string
	Subaccount string
	Amount     string // decimal display units
}
