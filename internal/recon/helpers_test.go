package recon

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/cleared-dev/reconcile/internal/model"
)

// fakeAccount implements AccountView for testing.
type fakeAccount struct {
	id      int
	typ     model.AccountType
	splits  []model.Split
	balance decimal.Decimal
}

func (a *fakeAccount) AccountID() int { return a.id }
func (a *fakeAccount) AccountType() model.AccountType { return a.typ }
func (a *fakeAccount) Splits() []model.Split { return a.splits }
func (a *fakeAccount) ReconciledBalance() decimal.Decimal { return a.balance }

// mockLedger implements Ledger for testing.
type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) SetReconciledState(splitID string, state model.ReconcileState) error {
	args := m.Called(splitID, state)
	return args.Error(0)
}

func (m *mockLedger) MarkDirty() {
	m.Called()
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func split(id, amount, price string, state model.ReconcileState) model.Split {
	return model.Split{
		ID:            id,
		TransactionID: id[:len(id)-1],
		Date:          time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		AccountID:     1010,
		Amount:        dec(amount),
		SharePrice:    dec(price),
		Reconciled:    state,
	}
}

// checkingAccount is the worked example: previously reconciled at 100.00,
// three open splits of -20.00, -30.00 and +10.00.
func checkingAccount() *fakeAccount {
	return &fakeAccount{
		id:  1010,
		typ: model.AccountTypeAsset,
		splits: []model.Split{
			split("2025-01-001a", "100.00", "1", model.StateReconciled),
			split("2025-01-002a", "-20.00", "1", model.StateNotReconciled),
			split("2025-01-003a", "-30.00", "1", model.StateNotReconciled),
			split("2025-01-004a", "10.00", "1", model.StateCleared),
		},
		balance: dec("100.00"),
	}
}

func brokerageAccount() *fakeAccount {
	return &fakeAccount{
		id:  1500,
		typ: model.AccountTypeStock,
		splits: []model.Split{
			split("2025-02-001a", "5", "20.00", model.StateNotReconciled),
			split("2025-02-002a", "-3", "25.00", model.StateNotReconciled),
		},
	}
}
