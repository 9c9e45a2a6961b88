package money

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders d for display. Currency values use the grapheme and
// separators of the ISO 4217 code; share quantities print as plain decimals
// suffixed with "sh".
func Format(d decimal.Decimal, unit Unit, currency string) string {
	if unit == Shares {
		return d.String() + " sh"
	}
	return FormatCurrency(d, currency)
}

// FormatCurrency renders d in the given currency, rounding to its minor unit.
// Unknown codes fall back to two fixed decimals followed by the code.
func FormatCurrency(d decimal.Decimal, currency string) string {
	cur := gomoney.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2) + " " + currency
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return gomoney.New(minor.IntPart(), cur.Code).Display()
}
