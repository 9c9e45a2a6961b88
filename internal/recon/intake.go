package recon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountPattern accepts digits with an optional fraction. Commas are only
// allowed as thousands separators in the integer part.
var amountPattern = regexp.MustCompile(`^(\d{1,3}(,\d{3})+|\d*)(\.\d+)?$`)

// ParseAmount parses a user-entered amount such as "150", "-12.50",
// "$1,234.56" or "(12.00)". Anything else is ErrMalformedAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	raw := s
	s = strings.TrimSpace(s)

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, "-") {
		if neg {
			return decimal.Decimal{}, fmt.Errorf("%q: %w", raw, ErrMalformedAmount)
		}
		neg = true
		s = s[1:]
	}
	s = strings.TrimPrefix(s, "$")

	if s == "" || !amountPattern.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("%q: %w", raw, ErrMalformedAmount)
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%q: %w", raw, ErrMalformedAmount)
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// TargetAdjustment returns the anchor the running difference is measured
// against: the previously reconciled balance minus the statement's ending
// balance.
func TargetAdjustment(previousReconciled, ending decimal.Decimal) decimal.Decimal {
	return previousReconciled.Sub(ending)
}

// Start parses the statement's ending balance and opens a session for acct.
func Start(acct AccountView, endingBalance string) (*Session, error) {
	ending, err := ParseAmount(endingBalance)
	if err != nil {
		return nil, fmt.Errorf("ending balance: %w", err)
	}
	return NewSession(acct, TargetAdjustment(acct.ReconciledBalance(), ending)), nil
}
