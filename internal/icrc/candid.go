package icrc

import (
	"fmt"
	"math/big"
	"strings"
)

// Candid textual rendering for dfx "canister call" arguments. dfx owns the
// wire encoding; we only produce the textual argument it parses.

// candidBlob renders bytes as a candid blob literal with \xx hex escapes.
func candidBlob(b []byte) string {
	var sb strings.Builder
	sb.WriteString(`blob "`)
	for _, c := range b {
		fmt.Fprintf(&sb, `\%02x`, c)
	}
	sb.WriteString(`"`)
	return sb.String()
}

// candidSubaccount renders a subaccount as an optional blob. The default
// (all-zero) subaccount is canonically omitted and renders as null.
func candidSubaccount(s Subaccount) string {
	if s.IsZero() {
		return "null"
	}
	return "opt " + candidBlob(s[:])
}

// Candid renders the account as an ICRC-1 account record.
func (a Account) Candid() string {
	return fmt.Sprintf(`record { owner = principal "%s"; subaccount = %s; }`,
		a.Owner, candidSubaccount(a.Subaccount))
}

// BalanceOfArg renders the argument for an icrc1_balance_of call.
func BalanceOfArg(a Account) string {
	return "(" + a.Candid() + ")"
}

// TransferArg renders the argument for an icrc1_transfer call. The from
// account's owner is implied by the caller identity; only its subaccount
// is carried.
func TransferArg(t TransferArgs) string {
	fee := "null"
	if t.Fee != nil {
		fee = "opt " + t.Fee.String()
	}
	memo := "null"
	if t.Memo != nil {
		memo = "opt " + candidBlob(t.Memo)
	}
	return fmt.Sprintf(
		"(record { to = %s; amount = %s; fee = %s; memo = %s; created_at_time = null; from_subaccount = %s; })",
		t.To.Candid(), t.Amount.String(), fee, memo, candidSubaccount(t.From.Subaccount))
}

// MintArg renders the argument for the non-standard mint method exposed by
// permissive test ledgers.
func MintArg(to Account, amount *big.Int) string {
	return fmt.Sprintf("(record { to = %s; amount = %s : nat })", to.Candid(), amount.String())
}
