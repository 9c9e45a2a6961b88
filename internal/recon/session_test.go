package recon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/money"
)

func TestSession_CheckingExample(t *testing.T) {
	s, err := Start(checkingAccount(), "150.00")
	require.NoError(t, err)
	assert.Equal(t, "-50.00", s.Target().StringFixed(2))

	totals, err := s.Totals()
	require.NoError(t, err)
	assert.Equal(t, "-50.00", totals.Difference.StringFixed(2))
	assert.True(t, totals.TotalDebit.IsZero())
	assert.True(t, totals.TotalCredit.IsZero())
	assert.Equal(t, money.Currency, totals.Unit)

	// Both debits only.
	require.NoError(t, s.Toggle(Debit, 0))
	require.NoError(t, s.Toggle(Debit, 1))
	totals, err = s.Totals()
	require.NoError(t, err)
	assert.Equal(t, "50.00", totals.TotalDebit.StringFixed(2))
	assert.Equal(t, "0.00", totals.TotalCredit.StringFixed(2))
	assert.Equal(t, "-100.00", totals.Difference.StringFixed(2))

	// Plus the credit.
	require.NoError(t, s.Toggle(Credit, 0))
	totals, err = s.Totals()
	require.NoError(t, err)
	assert.Equal(t, "50.00", totals.TotalDebit.StringFixed(2))
	assert.Equal(t, "10.00", totals.TotalCredit.StringFixed(2))
	assert.Equal(t, "-90.00", totals.Difference.StringFixed(2))
}

func TestSession_StockExample(t *testing.T) {
	s := NewSession(brokerageAccount(), dec("-2"))
	assert.Equal(t, money.Shares, s.Unit())
	require.Equal(t, 1, s.Len(Debit))
	require.Equal(t, 1, s.Len(Credit))

	require.NoError(t, s.Toggle(Debit, 0))
	require.NoError(t, s.Toggle(Credit, 0))
	totals, err := s.Totals()
	require.NoError(t, err)
	assert.True(t, totals.TotalDebit.Equal(dec("3")))
	assert.True(t, totals.TotalCredit.Equal(dec("5")))
	assert.True(t, totals.Difference.Equal(dec("0")), "got %s", totals.Difference)
	assert.Equal(t, money.Shares, totals.Unit)
}

func TestSession_ToggleOutOfRange(t *testing.T) {
	s := NewSession(checkingAccount(), dec("-50"))
	before, err := s.Totals()
	require.NoError(t, err)

	for _, tc := range []struct {
		side Side
		row  int
	}{
		{Debit, 2},
		{Credit, 1},
		{Debit, -1},
	} {
		err := s.Toggle(tc.side, tc.row)
		assert.ErrorIs(t, err, ErrOutOfRange, "%s row %d", tc.side, tc.row)
	}

	after, err := s.Totals()
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Empty(t, s.Selected())
}

func TestSession_DoubleToggle(t *testing.T) {
	s := NewSession(checkingAccount(), dec("-50"))
	require.NoError(t, s.Toggle(Credit, 0))
	before, err := s.Totals()
	require.NoError(t, err)

	require.NoError(t, s.Toggle(Debit, 1))
	require.NoError(t, s.Toggle(Debit, 1))

	after, err := s.Totals()
	require.NoError(t, err)
	assert.True(t, before.Difference.Equal(after.Difference))
	assert.True(t, before.TotalDebit.Equal(after.TotalDebit))
	assert.True(t, before.TotalCredit.Equal(after.TotalCredit))
	assert.False(t, s.Rows(Debit)[1].Selected)
	assert.True(t, s.Rows(Credit)[0].Selected)
}

func TestSession_TotalsArePure(t *testing.T) {
	s := NewSession(checkingAccount(), dec("-50"))
	require.NoError(t, s.Toggle(Debit, 0))
	rows := s.Rows(Debit)

	first, err := s.Totals()
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		got, err := s.Totals()
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
	assert.Equal(t, rows, s.Rows(Debit))
}

func TestSession_RowsReturnsCopy(t *testing.T) {
	s := NewSession(checkingAccount(), dec("0"))
	rows := s.Rows(Debit)
	rows[0].Selected = true

	assert.False(t, s.Rows(Debit)[0].Selected)
}

func TestSession_SelectedAndFind(t *testing.T) {
	s := NewSession(checkingAccount(), dec("0"))
	require.NoError(t, s.Toggle(Credit, 0))
	require.NoError(t, s.Toggle(Debit, 1))

	assert.Equal(t, []string{"2025-01-003a", "2025-01-004a"}, s.Selected())

	side, row, ok := s.Find("2025-01-004a")
	assert.True(t, ok)
	assert.Equal(t, Credit, side)
	assert.Equal(t, 0, row)

	_, _, ok = s.Find("2025-01-001a")
	assert.False(t, ok, "reconciled split is not in a bucket")
}

func TestSession_RefreshRebuilds(t *testing.T) {
	acct := checkingAccount()
	s := NewSession(acct, dec("-50"))
	require.NoError(t, s.Toggle(Debit, 0))

	// A split added behind the session's back is not seen until refresh.
	acct.splits = append(acct.splits, split("2025-01-005a", "-7.25", "1", model.StateNotReconciled))
	assert.Equal(t, 2, s.Len(Debit))

	require.NoError(t, s.Refresh(acct))
	assert.Equal(t, 3, s.Len(Debit))
	assert.Empty(t, s.Selected(), "refresh discards selection")
	assert.Equal(t, "-50.00", s.Target().StringFixed(2), "target is fixed for the session")
}

func TestSession_RefreshWrongAccount(t *testing.T) {
	s := NewSession(checkingAccount(), dec("0"))
	err := s.Refresh(brokerageAccount())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account 1010")
}

func TestSession_TargetFixedAfterBalanceChange(t *testing.T) {
	acct := checkingAccount()
	s, err := Start(acct, "150.00")
	require.NoError(t, err)

	acct.balance = dec("500.00")
	require.NoError(t, s.Refresh(acct))
	assert.Equal(t, "-50.00", s.Target().StringFixed(2))
}

func TestSession_IDsAreUnique(t *testing.T) {
	a := NewSession(checkingAccount(), dec("0"))
	b := NewSession(checkingAccount(), dec("0"))
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
	assert.Equal(t, 1010, a.AccountID())
	assert.Equal(t, StateOpen, a.State())
}

func TestStart_MalformedBalance(t *testing.T) {
	for _, in := range []string{"", "abc", "12.3.4", "1e5", "--5", "(-5)"} {
		_, err := Start(checkingAccount(), in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, ErrMalformedAmount), "input %q: %v", in, err)
	}
}
