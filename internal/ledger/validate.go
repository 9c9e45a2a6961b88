package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/id"
	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/money"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	SplitID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.SplitID, e.Description)
}

// AccountLookup resolves account IDs against the chart of accounts.
type AccountLookup interface {
	Get(id int) (model.Account, bool)
}

// ValidateSplits enforces the ledger invariants on the splits of one month.
func ValidateSplits(splits []model.Split, accounts AccountLookup, year, month int) []ValidationError {
	var errs []ValidationError

	// Group splits by transaction.
	groups := make(map[string][]model.Split)
	var order []string
	for _, s := range splits {
		if _, seen := groups[s.TransactionID]; !seen {
			order = append(order, s.TransactionID)
		}
		groups[s.TransactionID] = append(groups[s.TransactionID], s)
	}

	// Invariant 1: Transactions balance in currency value.
	for _, txn := range order {
		total := decimal.Zero
		for _, s := range groups[txn] {
			total = total.Add(s.Value())
		}
		if !total.Round(2).IsZero() {
			errs = append(errs, ValidationError{
				Invariant:   1,
				SplitID:     txn,
				Description: fmt.Sprintf("splits sum to %s, want 0", total.StringFixed(2)),
			})
		}
		if len(groups[txn]) < 2 {
			errs = append(errs, ValidationError{
				Invariant:   1,
				SplitID:     txn,
				Description: "transaction needs at least two splits",
			})
		}
	}

	seen := make(map[string]bool)
	for _, s := range splits {
		// Invariant 2: Split IDs are well formed, unique, and belong to their transaction.
		if _, _, _, err := id.ParseTransactionID(s.ID); err != nil || id.SplitIndex(s.ID) < 0 {
			errs = append(errs, ValidationError{
				Invariant:   2,
				SplitID:     s.ID,
				Description: "malformed split ID",
			})
		} else if id.TransactionOf(s.ID) != s.TransactionID {
			errs = append(errs, ValidationError{
				Invariant:   2,
				SplitID:     s.ID,
				Description: fmt.Sprintf("split does not belong to transaction %s", s.TransactionID),
			})
		}
		if seen[s.ID] {
			errs = append(errs, ValidationError{
				Invariant:   2,
				SplitID:     s.ID,
				Description: "duplicate split ID",
			})
		}
		seen[s.ID] = true

		// Invariant 3: Valid account references.
		acct, ok := accounts.Get(s.AccountID)
		if !ok {
			errs = append(errs, ValidationError{
				Invariant:   3,
				SplitID:     s.ID,
				Description: fmt.Sprintf("unknown account %d", s.AccountID),
			})
		}

		// Invariant 4: Date within month.
		if s.Date.Year() != year || int(s.Date.Month()) != month {
			errs = append(errs, ValidationError{
				Invariant:   4,
				SplitID:     s.ID,
				Description: fmt.Sprintf("date %s not in %04d-%02d", s.Date.Format(dateFormat), year, month),
			})
		}

		// Invariant 5: Currency amounts have no more than 2 decimal places.
		if ok && !acct.Type.IsShares() && !money.HasCents(s.Value()) {
			errs = append(errs, ValidationError{
				Invariant:   5,
				SplitID:     s.ID,
				Description: fmt.Sprintf("value %s has more than 2 decimal places", s.Value()),
			})
		}

		// Invariant 6: Known reconciled flag.
		if !s.Reconciled.Valid() {
			errs = append(errs, ValidationError{
				Invariant:   6,
				SplitID:     s.ID,
				Description: fmt.Sprintf("invalid reconciled flag %q", s.Reconciled),
			})
		}
	}

	return errs
}
