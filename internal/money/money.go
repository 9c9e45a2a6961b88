// Package money computes what a split contributes to an account balance.
//
// Stock and mutual fund accounts are kept in shares; every other account is
// kept in currency, where a split's contribution is its amount times its
// share price (1 for plain currency splits).
package money

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/model"
)

// Unit is the measure an account balance is expressed in.
type Unit int

const (
	Currency Unit = iota
	Shares
)

func (u Unit) String() string {
	if u == Shares {
		return "shares"
	}
	return "currency"
}

// UnitOf returns the unit balances of accountType are kept in.
func UnitOf(accountType model.AccountType) Unit {
	if accountType.IsShares() {
		return Shares
	}
	return Currency
}

// Contribution returns the signed amount s adds to the balance of an account
// of the given type.
func Contribution(accountType model.AccountType, s model.Split) decimal.Decimal {
	if UnitOf(accountType) == Shares {
		return s.Amount
	}
	return s.Value()
}

// Sum adds the contributions of splits.
func Sum(accountType model.AccountType, splits []model.Split) decimal.Decimal {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(Contribution(accountType, s))
	}
	return total
}

// Magnitude is the non-negative size of a contribution, as shown in the
// debit and credit columns.
func Magnitude(d decimal.Decimal) decimal.Decimal {
	return d.Abs()
}

// HasCents reports whether d has no more than two decimal places.
func HasCents(d decimal.Decimal) bool {
	hundred := decimal.NewFromInt(100)
	scaled := d.Mul(hundred)
	return scaled.Equal(scaled.Floor())
}
