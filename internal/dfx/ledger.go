package dfx

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/icw-wallet/icw/internal/icrc"
)

// TransferResult is the outcome of an icrc1_transfer call.
type TransferResult struct {
	Ok    bool
	Block *big.Int        // block index on success
	Err   json.RawMessage // ledger's Err variant, verbatim
}

// MintResult is the outcome of the non-standard mint method some test
// ledgers expose.
type MintResult struct {
	Success    bool
	BlockIndex *big.Int
	NewBalance *big.Int
	Err        string
}

// BalanceOf queries icrc1_balance_of and returns the balance in base units.
func (c *Client) BalanceOf(ctx context.Context, ledger string, acct icrc.Account) (*big.Int, error) {
	out, err := c.Call(ctx, ledger, "icrc1_balance_of", icrc.BalanceOfArg(acct))
	if err != nil {
		return nil, err
	}
	bal, err := parseNat(out)
	if err != nil {
		return nil, fmt.Errorf("balance_of %s: %w", ledger, err)
	}
	return bal, nil
}

// Transfer submits an icrc1_transfer with pre-built arguments. The
// arguments were fully validated at construction; nothing partially valid
// reaches this point.
func (c *Client) Transfer(ctx context.Context, ledger string, args icrc.TransferArgs) (TransferResult, error) {
	out, err := c.Call(ctx, ledger, "icrc1_transfer", icrc.TransferArg(args))
	if err != nil {
		return TransferResult{}, err
	}

	var variant map[string]json.RawMessage
	if err := json.Unmarshal(out, &variant); err != nil {
		return TransferResult{}, fmt.Errorf("transfer %s: unexpected output %q", ledger, out)
	}

	if raw, ok := variant["Ok"]; ok {
		block, err := parseNat(raw)
		if err != nil {
			return TransferResult{}, fmt.Errorf("transfer %s: bad block index: %w", ledger, err)
		}
		return TransferResult{Ok: true, Block: block}, nil
	}
	if raw, ok := variant["Err"]; ok {
		return TransferResult{Ok: false, Err: raw}, nil
	}
	return TransferResult{}, fmt.Errorf("transfer %s: neither Ok nor Err in %q", ledger, out)
}

// Mint calls the non-standard mint method on permissive test ledgers.
func (c *Client) Mint(ctx context.Context, ledger string, to icrc.Account, amount *big.Int) (MintResult, error) {
	out, err := c.Call(ctx, ledger, "mint", icrc.MintArg(to, amount))
	if err != nil {
		return MintResult{}, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(out, &fields); err != nil {
		return MintResult{}, fmt.Errorf("mint %s: unexpected output %q", ledger, out)
	}

	var res MintResult
	if raw, ok := fields["success"]; ok {
		_ = json.Unmarshal(raw, &res.Success)
	}
	if raw, ok := fields["block_index"]; ok {
		res.BlockIndex, _ = parseNat(raw)
	}
	if raw, ok := fields["new_balance"]; ok {
		res.NewBalance, _ = parseNat(raw)
	}
	if raw, ok := fields["error"]; ok {
		_ = json.Unmarshal(raw, &res.Err)
	}
	return res, nil
}

// parseNat reads a candid nat from dfx JSON output. dfx renders nats as
// strings with digit-group underscores (e.g. "1_000_000"); plain numbers
// and empty output (treated as zero) are accepted too.
func parseNat(raw []byte) (*big.Int, error) {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return big.NewInt(0), nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("not a nat: %q", raw)
	}
	return n, nil
}
