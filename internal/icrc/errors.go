package icrc

import "errors"

// Validation error kinds. All of them are raised while constructing call
// arguments, before anything is sent to a ledger. Callers match with
// errors.Is; the wrapped message names the offending input and the reason.
var (
	// ErrInvalidSubaccount is returned when an input matches none of the
	// three accepted subaccount encodings (index, hex, text).
	ErrInvalidSubaccount = errors.New("invalid subaccount")

	// ErrInvalidPrincipal is returned when a principal string fails the
	// structural sanity check. The full grammar is owned by dfx.
	ErrInvalidPrincipal = errors.New("invalid principal")

	// ErrInvalidAmount is returned when an amount string is not a
	// well-formed non-negative decimal number.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrPrecisionExceeded is returned when an amount carries more
	// fractional digits than the token's decimals allow. Silent rounding
	// would discard user-specified precision, so it is rejected instead.
	ErrPrecisionExceeded = errors.New("precision exceeded")

	// ErrInvalidMemo is returned when a memo is not valid hex or ASCII.
	ErrInvalidMemo = errors.New("invalid memo")

	// ErrMemoTooLong is returned when a memo exceeds MemoMaxLen bytes.
	ErrMemoTooLong = errors.New("memo too long")

	// ErrInvalidFee is returned when a fee override is negative.
	ErrInvalidFee = errors.New("invalid fee")
)
