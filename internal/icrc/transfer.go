package icrc

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// MemoMaxLen is the maximum memo length in bytes. Memos have no ledger
// semantics beyond being carried through for external bookkeeping.
const MemoMaxLen = 32

// ParseMemo converts a memo input into raw bytes. A non-empty even-length
// string of at most 64 hex characters decodes directly; anything else is
// taken as ASCII text of at most MemoMaxLen bytes. An empty input means no
// memo.
func ParseMemo(input string) ([]byte, error) {
	if input == "" {
		return nil, nil
	}

	if len(input)%2 == 0 && len(input) <= 2*MemoMaxLen {
		if raw, err := hex.DecodeString(input); err == nil {
			return raw, nil
		}
	}

	if err := checkASCII(input); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidMemo, input, err)
	}
	if len(input) > MemoMaxLen {
		return nil, fmt.Errorf("%w: %d bytes, max %d", ErrMemoTooLong, len(input), MemoMaxLen)
	}
	return []byte(input), nil
}

// TransferArgs is the canonical argument record for an icrc1_transfer
// call. Built fresh per transfer, never persisted, immutable once built.
// A nil Fee means the ledger applies its configured default; a nil Memo
// means no memo.
type TransferArgs struct {
	From   Account
	To     Account
	Amount *big.Int
	Fee    *big.Int
	Memo   []byte
}

// BuildTransfer resolves both accounts, converts the amount to base units,
// and assembles validated transfer arguments. Conversion and resolution
// errors propagate unchanged so callers can match the original kind.
//
// Zero-amount and self-transfers are deliberately not rejected here: the
// ledger owns that policy and rejects what it does not accept.
func BuildTransfer(fromPrincipal, fromSubaccount, toPrincipal, toSubaccount,
	amount string, decimals uint8, fee *big.Int, memo string) (TransferArgs, error) {

	from, err := ResolveAccount(fromPrincipal, fromSubaccount)
	if err != nil {
		return TransferArgs{}, fmt.Errorf("from account: %w", err)
	}
	to, err := ResolveAccount(toPrincipal, toSubaccount)
	if err != nil {
		return TransferArgs{}, fmt.Errorf("to account: %w", err)
	}

	raw, err := ToBaseUnits(amount, decimals)
	if err != nil {
		return TransferArgs{}, err
	}

	if fee != nil && fee.Sign() < 0 {
		return TransferArgs{}, fmt.Errorf("%w: fee override must be non-negative, got %s", ErrInvalidFee, fee)
	}

	memoBytes, err := ParseMemo(memo)
	if err != nil {
		return TransferArgs{}, err
	}

	return TransferArgs{
		From:   from,
		To:     to,
		Amount: raw,
		Fee:    fee,
		Memo:   memoBytes,
	}, nil
}
