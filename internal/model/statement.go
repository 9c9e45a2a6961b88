package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine represents a parsed row of a bank statement export.
type StatementLine struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = money out, positive = money in
	Balance     decimal.Decimal // running balance after this line
	HasBalance  bool
	Reference   string
	Type        string // bank transaction type (ACH_DEBIT, etc.)
	CheckNumber string
}
