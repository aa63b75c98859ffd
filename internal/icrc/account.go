package icrc

import (
	"fmt"
	"strings"
)

// principalMaxLen bounds the textual form: a 29-byte principal encodes to
// 63 characters including group separators.
const principalMaxLen = 63

// Principal is the platform-issued opaque identifier of an account owner.
// Principals are never constructed client-side; parsing only performs a
// structural sanity check, the full grammar belongs to the identity tool.
type Principal string

// String returns the principal's textual form.
func (p Principal) String() string {
	return string(p)
}

// ParsePrincipal validates the structural shape of a principal string:
// non-empty lowercase alphanumeric groups joined by single dashes. The
// exact base32/CRC grammar is checked by dfx when the call is made.
func ParsePrincipal(s string) (Principal, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty string", ErrInvalidPrincipal)
	}
	if len(s) > principalMaxLen {
		return "", fmt.Errorf("%w %q: %d characters, max %d", ErrInvalidPrincipal, s, len(s), principalMaxLen)
	}

	for _, g := range strings.Split(s, "-") {
		if g == "" {
			return "", fmt.Errorf("%w %q: empty group between dashes", ErrInvalidPrincipal, s)
		}
		for j := 0; j < len(g); j++ {
			c := g[j]
			if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
				return "", fmt.Errorf("%w %q: invalid character %q", ErrInvalidPrincipal, s, c)
			}
		}
	}

	return Principal(s), nil
}

// Account identifies a (principal, subaccount) pair on an ICRC-1 ledger.
// Two accounts are equal iff both fields are equal. The canonical wire
// form omits the subaccount when it is all-zero, matching the ledger's
// optional-field convention.
type Account struct {
	Owner      Principal
	Subaccount Subaccount
}

// ResolveAccount validates a principal string, normalizes the subaccount
// input, and pairs them into a canonical account.
func ResolveAccount(principal, subaccountInput string) (Account, error) {
	owner, err := ParsePrincipal(principal)
	if err != nil {
		return Account{}, err
	}
	sub, _, err := ParseSubaccount(subaccountInput)
	if err != nil {
		return Account{}, err
	}
	return Account{Owner: owner, Subaccount: sub}, nil
}

// Equal reports whether two accounts identify the same ledger account.
func (a Account) Equal(b Account) bool {
	return a.Owner == b.Owner && a.Subaccount == b.Subaccount
}
