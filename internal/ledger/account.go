package ledger

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/money"
)

// AccountBook is a live view of one account's splits in a Book.
type AccountBook struct {
	book    *Book
	account model.Account
}

// Account returns the view for an account in the chart of accounts.
func (b *Book) Account(accountID int) (*AccountBook, error) {
	acct, ok := b.accounts.Get(accountID)
	if !ok {
		return nil, fmt.Errorf("unknown account %d", accountID)
	}
	return &AccountBook{book: b, account: acct}, nil
}

// Account returns the chart-of-accounts entry.
func (a *AccountBook) Account() model.Account { return a.account }

// AccountID returns the account's ID.
func (a *AccountBook) AccountID() int { return a.account.ID }

// AccountType returns the account's type.
func (a *AccountBook) AccountType() model.AccountType { return a.account.Type }

// Splits returns the account's splits in register order: by date, then by
// split ID.
func (a *AccountBook) Splits() []model.Split {
	var out []model.Split
	for _, s := range a.book.splits {
		if s.AccountID == a.account.ID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Balance returns the sum of every split's contribution.
func (a *AccountBook) Balance() decimal.Decimal {
	return money.Sum(a.account.Type, a.Splits())
}

// ReconciledBalance returns the balance of the splits already reconciled.
func (a *AccountBook) ReconciledBalance() decimal.Decimal {
	return a.sumWhere(func(s model.Split) bool { return s.IsReconciled() })
}

// ClearedBalance returns the balance of reconciled and cleared splits.
func (a *AccountBook) ClearedBalance() decimal.Decimal {
	return a.sumWhere(func(s model.Split) bool { return s.Reconciled != model.StateNotReconciled })
}

func (a *AccountBook) sumWhere(keep func(model.Split) bool) decimal.Decimal {
	total := decimal.Zero
	for _, s := range a.Splits() {
		if keep(s) {
			total = total.Add(money.Contribution(a.account.Type, s))
		}
	}
	return total
}
