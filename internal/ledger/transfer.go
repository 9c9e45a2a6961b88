package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/id"
	"github.com/cleared-dev/reconcile/internal/model"
)

// TransferParams holds parameters for a two-split transaction moving Amount
// from one account to another.
type TransferParams struct {
	Date        time.Time
	Num         string
	Description string
	From        int
	To          int
	Amount      decimal.Decimal // currency value, positive
	// Shares is the quantity moved when one side is a stock or mutual fund
	// account. The share price is Amount / Shares.
	Shares     decimal.Decimal
	Reconciled model.ReconcileState
}

// AddTransfer validates and adds a balanced transaction, returning its ID.
// The month is marked for saving.
func (b *Book) AddTransfer(p TransferParams) (string, error) {
	if !p.Amount.IsPositive() {
		return "", fmt.Errorf("transfer amount must be positive, got %s", p.Amount)
	}
	state := p.Reconciled
	if state == "" {
		state = model.StateNotReconciled
	}

	year, month := p.Date.Year(), int(p.Date.Month())
	txnID := id.FormatTransactionID(year, month, b.nextSeq(year, month))

	from, err := b.side(p, p.From, p.Amount.Neg())
	if err != nil {
		return "", err
	}
	to, err := b.side(p, p.To, p.Amount)
	if err != nil {
		return "", err
	}

	newSplits := []model.Split{from, to}
	for i := range newSplits {
		newSplits[i].ID = id.FormatSplitID(txnID, i)
		newSplits[i].TransactionID = txnID
		newSplits[i].Num = p.Num
		newSplits[i].Date = p.Date
		newSplits[i].Description = p.Description
		newSplits[i].Reconciled = state
	}

	// Validate ALL splits of the month together.
	all := append(b.month(year, month), newSplits...)
	if verrs := ValidateSplits(all, b.accounts, year, month); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return "", fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	for _, s := range newSplits {
		b.index[s.ID] = len(b.splits)
		b.splits = append(b.splits, s)
	}
	b.touch(year, month)
	return txnID, nil
}

// side builds the split for one account of a transfer carrying value.
func (b *Book) side(p TransferParams, accountID int, value decimal.Decimal) (model.Split, error) {
	s := model.Split{AccountID: accountID, Amount: value, SharePrice: decimal.NewFromInt(1)}

	acct, ok := b.accounts.Get(accountID)
	if !ok || !acct.Type.IsShares() {
		// Unknown accounts are reported by validation.
		return s, nil
	}
	if !p.Shares.IsPositive() {
		return model.Split{}, fmt.Errorf("account %d is kept in shares: share quantity required", accountID)
	}
	s.Amount = p.Shares
	if value.IsNegative() {
		s.Amount = p.Shares.Neg()
	}
	s.SharePrice = p.Amount.Div(p.Shares)
	return s, nil
}
