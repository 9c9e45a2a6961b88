// Package recon matches an account's recorded splits against a statement.
//
// A Session holds the target adjustment and two buckets of unreconciled
// splits. The caller toggles rows as they are matched, reads Totals to see
// how far the selection is from the statement, and finally commits the
// selection to the ledger.
package recon

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/money"
)

// State is the lifecycle state of a Session.
type State int

const (
	StateOpen State = iota
	StateCommitted
)

func (s State) String() string {
	if s == StateCommitted {
		return "committed"
	}
	return "open"
}

// Totals are the figures derived from the current selection.
type Totals struct {
	TotalDebit  decimal.Decimal // magnitude of selected debits
	TotalCredit decimal.Decimal
	Difference  decimal.Decimal // target + credits + signed debits
	Unit        money.Unit
}

// Session is one reconciliation pass over an account.
type Session struct {
	id          string
	accountID   int
	accountType model.AccountType
	target      decimal.Decimal
	debit       []Row
	credit      []Row
	state       State
}

// NewSession classifies the account's splits and returns an open session
// measured against target.
func NewSession(acct AccountView, target decimal.Decimal) *Session {
	s := &Session{
		id:          uuid.NewString(),
		accountID:   acct.AccountID(),
		accountType: acct.AccountType(),
		target:      target,
	}
	s.debit, s.credit = Classify(acct)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// AccountID returns the account being reconciled.
func (s *Session) AccountID() int { return s.accountID }

// Target returns the target adjustment fixed at session start.
func (s *Session) Target() decimal.Decimal { return s.target }

// Unit returns the unit the session's amounts are expressed in.
func (s *Session) Unit() money.Unit { return money.UnitOf(s.accountType) }

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Rows returns a copy of the rows in the given bucket.
func (s *Session) Rows(side Side) []Row {
	b := s.bucket(side)
	out := make([]Row, len(b))
	copy(out, b)
	return out
}

// Len returns the number of rows in the given bucket.
func (s *Session) Len(side Side) int {
	return len(s.bucket(side))
}

// Selected returns the IDs of the selected splits, debits first.
func (s *Session) Selected() []string {
	var ids []string
	for _, b := range [][]Row{s.debit, s.credit} {
		for _, r := range b {
			if r.Selected {
				ids = append(ids, r.Split.ID)
			}
		}
	}
	return ids
}

// Find returns the bucket and row index of a split.
func (s *Session) Find(splitID string) (Side, int, bool) {
	for i, r := range s.debit {
		if r.Split.ID == splitID {
			return Debit, i, true
		}
	}
	for i, r := range s.credit {
		if r.Split.ID == splitID {
			return Credit, i, true
		}
	}
	return Debit, -1, false
}

// Toggle flips the selection of one row. It changes nothing in the ledger.
func (s *Session) Toggle(side Side, row int) error {
	if s.state != StateOpen {
		return ErrInvalidState
	}
	b := s.bucket(side)
	if row < 0 || row >= len(b) {
		return fmt.Errorf("toggling %s row %d of %d: %w", side, row, len(b), ErrOutOfRange)
	}
	b[row].Selected = !b[row].Selected
	return nil
}

// Totals recomputes the selected totals and the remaining difference.
func (s *Session) Totals() (Totals, error) {
	if s.state != StateOpen {
		return Totals{}, ErrInvalidState
	}

	debit := decimal.Zero
	for _, r := range s.debit {
		if r.Selected {
			debit = debit.Add(r.Contribution)
		}
	}
	credit := decimal.Zero
	for _, r := range s.credit {
		if r.Selected {
			credit = credit.Add(r.Contribution)
		}
	}

	return Totals{
		TotalDebit:  money.Magnitude(debit),
		TotalCredit: credit,
		Difference:  s.target.Add(credit).Add(debit),
		Unit:        s.Unit(),
	}, nil
}

// Refresh rebuilds both buckets from the account's current splits. Any
// selection made so far is discarded.
func (s *Session) Refresh(acct AccountView) error {
	if s.state != StateOpen {
		return ErrInvalidState
	}
	if acct.AccountID() != s.accountID {
		return fmt.Errorf("refreshing session for account %d with account %d", s.accountID, acct.AccountID())
	}
	s.accountType = acct.AccountType()
	s.debit, s.credit = Classify(acct)
	return nil
}

func (s *Session) bucket(side Side) []Row {
	if side == Credit {
		return s.credit
	}
	return s.debit
}
