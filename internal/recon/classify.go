package recon

import (
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/money"
)

// Side names one of the two buckets.
type Side int

const (
	Debit Side = iota
	Credit
)

func (s Side) String() string {
	if s == Credit {
		return "credit"
	}
	return "debit"
}

// ParseSide accepts "d"/"debit" and "c"/"credit".
func ParseSide(s string) (Side, bool) {
	switch s {
	case "d", "debit", "D":
		return Debit, true
	case "c", "credit", "C":
		return Credit, true
	}
	return Debit, false
}

// Row is one line of a bucket: a snapshot of the split, the signed amount it
// contributes in the account's unit, and whether it is selected in this
// session.
type Row struct {
	Split        model.Split
	Contribution decimal.Decimal
	Magnitude    decimal.Decimal
	Selected     bool
}

// AccountView exposes the parts of an account a reconciliation reads.
type AccountView interface {
	AccountID() int
	AccountType() model.AccountType
	// Splits returns the account's splits in register order.
	Splits() []model.Split
	ReconciledBalance() decimal.Decimal
}

// Classify sorts the account's unreconciled splits into the debit bucket
// (negative contribution) and the credit bucket (zero or positive), keeping
// register order within each.
func Classify(acct AccountView) (debit, credit []Row) {
	typ := acct.AccountType()
	for _, s := range acct.Splits() {
		if s.IsReconciled() {
			continue
		}
		c := money.Contribution(typ, s)
		row := Row{Split: s, Contribution: c, Magnitude: money.Magnitude(c)}
		if c.IsNegative() {
			debit = append(debit, row)
		} else {
			credit = append(credit, row)
		}
	}
	return debit, credit
}
