package icrc

import (
	"errors"
	"math/big"
	"testing"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		decimals uint8
		want     string
	}{
		{"zero", "0", 8, "0"},
		{"whole", "1", 8, "100000000"},
		{"fraction", "0.001", 8, "100000"},
		{"full precision", "0.00000001", 8, "1"},
		{"trailing zeros", "1.00000000", 8, "100000000"},
		{"no decimals token", "42", 0, "42"},
		{"bare point prefix", ".5", 1, "5"},
		{"trailing point", "1.", 8, "100000000"},
		{"eth scale exceeds uint64", "20", 18, "20000000000000000000"},
		{"large", "2000000", 8, "200000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.input, tt.decimals)
			if err != nil {
				t.Fatalf("ToBaseUnits(%q, %d) error: %v", tt.input, tt.decimals, err)
			}
			if got.String() != tt.want {
				t.Errorf("ToBaseUnits(%q, %d) = %s, want %s", tt.input, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestToBaseUnitsErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		decimals uint8
		kind     error
	}{
		{"empty", "", 8, ErrInvalidAmount},
		{"negative", "-1", 8, ErrInvalidAmount},
		{"not a number", "abc", 8, ErrInvalidAmount},
		{"bad fraction", "1.abc", 8, ErrInvalidAmount},
		{"two points", "1.2.3", 8, ErrInvalidAmount},
		{"lone point", ".", 8, ErrInvalidAmount},
		{"thousands separator", "1,000", 8, ErrInvalidAmount},
		{"too many decimals", "1.001", 2, ErrPrecisionExceeded},
		{"one digit over", "0.000000001", 8, ErrPrecisionExceeded},
		{"any fraction at zero decimals", "1.5", 0, ErrPrecisionExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToBaseUnits(tt.input, tt.decimals)
			if !errors.Is(err, tt.kind) {
				t.Errorf("ToBaseUnits(%q, %d) = %v, want %v", tt.input, tt.decimals, err, tt.kind)
			}
		})
	}
}

func TestToDisplay(t *testing.T) {
	tests := []struct {
		name     string
		raw      int64
		decimals uint8
		want     string
	}{
		{"zero", 0, 8, "0.00000000"},
		{"one base unit", 1, 8, "0.00000001"},
		{"balance scenario", 100000, 8, "0.00100000"},
		{"whole", 100000000, 8, "1.00000000"},
		{"no decimals", 42, 0, "42"},
		{"six decimals", 1234567, 6, "1.234567"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDisplay(big.NewInt(tt.raw), tt.decimals)
			if got != tt.want {
				t.Errorf("ToDisplay(%d, %d) = %q, want %q", tt.raw, tt.decimals, got, tt.want)
			}
		})
	}
}

// Display and base-unit conversion are exact inverses.
func TestBaseUnitsDisplayRoundTrip(t *testing.T) {
	values := []string{"0", "1", "99", "100000", "123456789", "20000000000000000001"}
	for _, d := range []uint8{0, 2, 6, 8, 18} {
		for _, v := range values {
			n, ok := new(big.Int).SetString(v, 10)
			if !ok {
				t.Fatalf("bad test value %q", v)
			}
			back, err := ToBaseUnits(ToDisplay(n, d), d)
			if err != nil {
				t.Fatalf("round trip %s decimals %d: %v", v, d, err)
			}
			if back.Cmp(n) != 0 {
				t.Errorf("round trip %s decimals %d = %s", v, d, back)
			}
		}
	}
}

func TestToFiat(t *testing.T) {
	tests := []struct {
		name    string
		display string
		price   float64
		want    float64
	}{
		{"balance scenario", "0.00100000", 97000.0, 97.0},
		{"zero balance", "0.00000000", 97000.0, 0},
		{"rounds to cents", "2", 1.004, 2.01},
		{"stable price", "12.5", 1.0, 12.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ToFiat(tt.display, tt.price)
			if !ok {
				t.Fatalf("ToFiat(%q, %v) not ok", tt.display, tt.price)
			}
			if got != tt.want {
				t.Errorf("ToFiat(%q, %v) = %v, want %v", tt.display, tt.price, got, tt.want)
			}
		})
	}
}
