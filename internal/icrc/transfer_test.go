package icrc

import (
	"bytes"
	"errors"
	"math/big"
	"strings"
	"testing"
)

func TestParseMemo(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{"empty means none", "", nil},
		{"text", "invoice-42", []byte("invoice-42")},
		{"hex decodes", "deadbeef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"odd length hex chars are text", "abc", []byte("abc")},
		{"max text", strings.Repeat("m", 32), bytes.Repeat([]byte{'m'}, 32)},
		{"max hex", strings.Repeat("ff", 32), bytes.Repeat([]byte{0xff}, 32)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMemo(tt.input)
			if err != nil {
				t.Fatalf("ParseMemo(%q) error: %v", tt.input, err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("ParseMemo(%q) = %x, want %x", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMemoErrors(t *testing.T) {
	if _, err := ParseMemo(strings.Repeat("m", 33)); !errors.Is(err, ErrMemoTooLong) {
		t.Errorf("33 bytes = %v, want ErrMemoTooLong", err)
	}
	if _, err := ParseMemo("memo\x00"); !errors.Is(err, ErrInvalidMemo) {
		t.Errorf("control byte = %v, want ErrInvalidMemo", err)
	}
}

func TestBuildTransfer(t *testing.T) {
	args, err := BuildTransfer("abc-xyz", "savings", "recipient-id", "1", "0.001", 8, nil, "")
	if err != nil {
		t.Fatalf("BuildTransfer error: %v", err)
	}

	if args.Amount.Cmp(big.NewInt(100000)) != 0 {
		t.Errorf("amount = %s, want 100000", args.Amount)
	}

	var wantTo Subaccount
	wantTo[SubaccountSize-1] = 0x01
	if args.To.Subaccount != wantTo {
		t.Errorf("to subaccount = %x", args.To.Subaccount)
	}

	var wantFrom Subaccount
	copy(wantFrom[:], "savings")
	if args.From.Subaccount != wantFrom {
		t.Errorf("from subaccount = %x", args.From.Subaccount)
	}

	if args.Fee != nil {
		t.Errorf("fee = %v, want nil (ledger default)", args.Fee)
	}
	if args.Memo != nil {
		t.Errorf("memo = %v, want nil", args.Memo)
	}
}

// Errors from account resolution and amount conversion keep their original
// kind so callers can tell which input was bad.
func TestBuildTransferErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		call func() error
		kind error
	}{
		{"bad from principal", func() error {
			_, err := BuildTransfer("", "", "recipient-id", "", "1", 8, nil, "")
			return err
		}, ErrInvalidPrincipal},
		{"bad to subaccount", func() error {
			_, err := BuildTransfer("abc-xyz", "", "recipient-id", strings.Repeat("x", 40), "1", 8, nil, "")
			return err
		}, ErrInvalidSubaccount},
		{"bad amount", func() error {
			_, err := BuildTransfer("abc-xyz", "", "recipient-id", "", "nope", 8, nil, "")
			return err
		}, ErrInvalidAmount},
		{"precision", func() error {
			_, err := BuildTransfer("abc-xyz", "", "recipient-id", "", "1.001", 2, nil, "")
			return err
		}, ErrPrecisionExceeded},
		{"negative fee", func() error {
			_, err := BuildTransfer("abc-xyz", "", "recipient-id", "", "1", 8, big.NewInt(-10), "")
			return err
		}, ErrInvalidFee},
		{"memo too long", func() error {
			_, err := BuildTransfer("abc-xyz", "", "recipient-id", "", "1", 8, nil, strings.Repeat("m", 33))
			return err
		}, ErrMemoTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.kind) {
				t.Errorf("error = %v, want %v", err, tt.kind)
			}
		})
	}
}

func TestBuildTransferMemoBoundary(t *testing.T) {
	args, err := BuildTransfer("abc-xyz", "", "recipient-id", "", "1", 8, nil, strings.Repeat("m", 32))
	if err != nil {
		t.Fatalf("32-byte memo rejected: %v", err)
	}
	if len(args.Memo) != 32 {
		t.Errorf("memo length = %d", len(args.Memo))
	}
}

// Zero-amount and self-transfers are allowed through: whether they are
// meaningful is the ledger's call, not ours.
func TestBuildTransferNoClientPolicy(t *testing.T) {
	zero, err := BuildTransfer("abc-xyz", "", "recipient-id", "", "0", 8, nil, "")
	if err != nil {
		t.Fatalf("zero amount rejected: %v", err)
	}
	if zero.Amount.Sign() != 0 {
		t.Errorf("amount = %s", zero.Amount)
	}

	self, err := BuildTransfer("abc-xyz", "1", "abc-xyz", "1", "1", 8, nil, "")
	if err != nil {
		t.Fatalf("self transfer rejected: %v", err)
	}
	if !self.From.Equal(self.To) {
		t.Error("expected identical accounts")
	}
}

func TestBuildTransferFeeOverride(t *testing.T) {
	args, err := BuildTransfer("abc-xyz", "", "recipient-id", "", "1", 8, big.NewInt(10), "")
	if err != nil {
		t.Fatalf("BuildTransfer error: %v", err)
	}
	if args.Fee.Cmp(big.NewInt(10)) != 0 {
		t.Errorf("fee = %s, want 10", args.Fee)
	}
}
