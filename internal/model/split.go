package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReconcileState is the persisted reconciled flag of a split.
type ReconcileState string

const (
	StateNotReconciled ReconcileState = "n"
	StateCleared       ReconcileState = "c"
	StateReconciled    ReconcileState = "y"
)

// Valid reports whether s is one of the known states.
func (s ReconcileState) Valid() bool {
	return s == StateNotReconciled || s == StateCleared || s == StateReconciled
}

// Split is a single row in splits.csv (one leg of a transaction).
type Split struct {
	ID            string          // "YYYY-MM-NNNx" where x = a,b,c...
	TransactionID string          // "YYYY-MM-NNN"
	Num           string          // check or reference number
	Date          time.Time       //nolint:revive // plain field name is clearest
	Description   string          //nolint:revive
	AccountID     int             //nolint:revive
	Amount        decimal.Decimal // signed; shares for stock/mutual accounts
	SharePrice    decimal.Decimal // 1 for currency splits
	Reconciled    ReconcileState
}

// Value returns the currency value of the split (amount × share price).
func (s Split) Value() decimal.Decimal {
	return s.Amount.Mul(s.SharePrice)
}

// IsReconciled reports whether the split has already been matched against a
// statement.
func (s Split) IsReconciled() bool {
	return s.Reconciled == StateReconciled
}
