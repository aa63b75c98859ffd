package icrc

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ToBaseUnits converts a decimal amount string to an integer amount in the
// token's smallest unit. All arithmetic is exact: the string is split into
// whole and fractional digits and scaled by 10^decimals, never routed
// through binary floating point. ckETH uses 18 decimals, so results
// routinely exceed uint64 range.
func ToBaseUnits(amount string, decimals uint8) (*big.Int, error) {
	s := amount
	if s == "" {
		return nil, fmt.Errorf("%w: empty amount", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("%w %q: negative amount", ErrInvalidAmount, amount)
	}

	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
		if strings.IndexByte(frac, '.') >= 0 {
			return nil, fmt.Errorf("%w %q: multiple decimal points", ErrInvalidAmount, amount)
		}
	}
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("%w %q: no digits", ErrInvalidAmount, amount)
	}
	if whole == "" {
		whole = "0"
	}
	if err := checkDigits(whole); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidAmount, amount, err)
	}
	if frac != "" {
		if err := checkDigits(frac); err != nil {
			return nil, fmt.Errorf("%w %q: %v", ErrInvalidAmount, amount, err)
		}
	}

	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("%w: %q has %d fractional digits, token allows %d",
			ErrPrecisionExceeded, amount, len(frac), decimals)
	}

	// Pad the fraction out to the full scale and parse digits exactly.
	frac += strings.Repeat("0", int(decimals)-len(frac))

	n, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("%w %q: not a decimal number", ErrInvalidAmount, amount)
	}
	return n, nil
}

// ToDisplay converts base units to a human-readable decimal string.
// The conversion is exact; the result round-trips through ToBaseUnits.
func ToDisplay(raw *big.Int, decimals uint8) string {
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(raw, scale, new(big.Int))
	if decimals == 0 {
		return whole.String()
	}
	digits := frac.String()
	return whole.String() + "." + strings.Repeat("0", int(decimals)-len(digits)) + digits
}

// ToFiat multiplies a display amount by a per-token fiat price, rounded to
// cents. Display-only: floating point is acceptable here and the result is
// never used as a ledger argument. Returns false when the value does not
// fit a float64 cleanly.
func ToFiat(display string, price float64) (float64, bool) {
	amount, err := strconv.ParseFloat(display, 64)
	if err != nil {
		return 0, false
	}
	usd := amount * price
	if math.IsInf(usd, 0) || math.IsNaN(usd) {
		return 0, false
	}
	return math.Round(usd*100) / 100, true
}

// checkDigits rejects strings with non-digit characters.
func checkDigits(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return fmt.Errorf("invalid character %q", s[i])
		}
	}
	return nil
}
