package icrc

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
)

// SubaccountSize is the length of a subaccount identifier in bytes.
const SubaccountSize = 32

// Subaccount is a fixed 32-byte identifier distinguishing sub-accounts
// under one principal. The zero value is the ledger's default account.
type Subaccount [SubaccountSize]byte

// SubaccountForm identifies which input encoding produced a subaccount.
type SubaccountForm int

const (
	// SubaccountDefault means no input was supplied (all-zero subaccount).
	SubaccountDefault SubaccountForm = iota
	// SubaccountIndex means the input was an integer in [0, 255].
	SubaccountIndex
	// SubaccountHex means the input was a 64-character hex string.
	SubaccountHex
	// SubaccountText means the input was an ASCII string of at most 32 chars.
	SubaccountText
)

// String returns the form name for error messages and logs.
func (f SubaccountForm) String() string {
	switch f {
	case SubaccountDefault:
		return "default"
	case SubaccountIndex:
		return "index"
	case SubaccountHex:
		return "hex"
	case SubaccountText:
		return "text"
	default:
		return "unknown"
	}
}

// IsZero returns true if the subaccount is all zero bytes (the default
// account).
func (s Subaccount) IsZero() bool {
	return s == Subaccount{}
}

// Hex returns the subaccount as a 64-character hex string.
func (s Subaccount) Hex() string {
	return hex.EncodeToString(s[:])
}

// Bytes returns a copy of the subaccount as a byte slice.
func (s Subaccount) Bytes() []byte {
	b := make([]byte, SubaccountSize)
	copy(b, s[:])
	return b
}

// ParseSubaccount normalizes a subaccount input into its canonical 32-byte
// form and reports which encoding matched. The three forms are tried in a
// fixed order, first match wins:
//
//  1. index: an integer in [0, 255], placed in the last byte
//  2. hex:   exactly 64 hex characters, decoded to 32 bytes
//  3. text:  an ASCII string of at most 32 characters, zero-padded
//
// An empty input means the default (all-zero) subaccount. Inputs matching
// no form fail with ErrInvalidSubaccount; the error lists why every
// attempted form was rejected.
func ParseSubaccount(input string) (Subaccount, SubaccountForm, error) {
	var sub Subaccount

	if input == "" {
		return sub, SubaccountDefault, nil
	}

	var attempts *multierror.Error

	// Index form first, so "11" is an index, never two hex nibbles.
	if n, err := strconv.ParseInt(input, 10, 64); err == nil {
		if n >= 0 && n <= 255 {
			sub[SubaccountSize-1] = byte(n)
			return sub, SubaccountIndex, nil
		}
		attempts = multierror.Append(attempts,
			fmt.Errorf("index form: %d out of range [0, 255]", n))
	} else {
		attempts = multierror.Append(attempts,
			fmt.Errorf("index form: not an integer"))
	}

	if len(input) == 2*SubaccountSize {
		raw, err := hex.DecodeString(input)
		if err == nil {
			copy(sub[:], raw)
			return sub, SubaccountHex, nil
		}
		attempts = multierror.Append(attempts,
			fmt.Errorf("hex form: %d characters but not valid hex", len(input)))
	} else {
		attempts = multierror.Append(attempts,
			fmt.Errorf("hex form: %d characters, want %d", len(input), 2*SubaccountSize))
	}

	if err := checkASCII(input); err != nil {
		attempts = multierror.Append(attempts, fmt.Errorf("text form: %w", err))
	} else if len(input) > SubaccountSize {
		attempts = multierror.Append(attempts,
			fmt.Errorf("text form: %d bytes, max %d", len(input), SubaccountSize))
	} else {
		copy(sub[:], input)
		return sub, SubaccountText, nil
	}

	return Subaccount{}, SubaccountDefault,
		fmt.Errorf("%w %q: %v", ErrInvalidSubaccount, input, attempts.ErrorOrNil())
}

// checkASCII rejects strings containing bytes outside printable ASCII.
func checkASCII(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return fmt.Errorf("non-ASCII byte 0x%02x at position %d", s[i], i)
		}
	}
	return nil
}
