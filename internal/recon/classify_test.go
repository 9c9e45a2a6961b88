package recon

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/reconcile/internal/model"
	"github.com/cleared-dev/reconcile/internal/money"
)

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Split.ID
	}
	return out
}

func TestClassify_Checking(t *testing.T) {
	debit, credit := Classify(checkingAccount())

	assert.Equal(t, []string{"2025-01-002a", "2025-01-003a"}, ids(debit))
	assert.Equal(t, []string{"2025-01-004a"}, ids(credit))

	assert.Equal(t, "-20.00", debit[0].Contribution.StringFixed(2))
	assert.Equal(t, "20.00", debit[0].Magnitude.StringFixed(2))
	assert.Equal(t, "10.00", credit[0].Magnitude.StringFixed(2))
	for _, r := range append(debit, credit...) {
		assert.False(t, r.Selected)
	}
}

func TestClassify_StockUsesShares(t *testing.T) {
	debit, credit := Classify(brokerageAccount())

	require.Len(t, debit, 1)
	require.Len(t, credit, 1)
	assert.True(t, debit[0].Contribution.Equal(dec("-3")), "got %s", debit[0].Contribution)
	assert.True(t, credit[0].Contribution.Equal(dec("5")), "got %s", credit[0].Contribution)
}

func TestClassify_ZeroIsCredit(t *testing.T) {
	acct := &fakeAccount{
		id:     1010,
		typ:    model.AccountTypeAsset,
		splits: []model.Split{split("2025-01-001a", "0.00", "1", model.StateNotReconciled)},
	}
	debit, credit := Classify(acct)
	assert.Empty(t, debit)
	assert.Len(t, credit, 1)
}

func TestClassify_PriceSignFlipsCurrencyMode(t *testing.T) {
	// A positive quantity at a negative price contributes a negative value in
	// currency mode but a positive one in shares mode.
	s := split("2025-01-001a", "2", "-1.50", model.StateNotReconciled)

	debit, _ := Classify(&fakeAccount{typ: model.AccountTypeAsset, splits: []model.Split{s}})
	assert.Len(t, debit, 1)

	debit, credit := Classify(&fakeAccount{typ: model.AccountTypeMutual, splits: []model.Split{s}})
	assert.Empty(t, debit)
	assert.Len(t, credit, 1)
}

func TestClassify_DoesNotMutate(t *testing.T) {
	acct := checkingAccount()
	before := make([]model.Split, len(acct.splits))
	copy(before, acct.splits)

	Classify(acct)
	assert.Equal(t, before, acct.splits)
}

func randomAccount(r *rand.Rand, typ model.AccountType, n int) *fakeAccount {
	states := []model.ReconcileState{model.StateNotReconciled, model.StateCleared, model.StateReconciled}
	acct := &fakeAccount{id: 1, typ: typ}
	for i := 0; i < n; i++ {
		amount := fmt.Sprintf("%d.%02d", r.Intn(2001)-1000, r.Intn(100))
		price := fmt.Sprintf("%d.%02d", r.Intn(5)-1, r.Intn(100))
		id := fmt.Sprintf("2025-01-%03da", i+1)
		acct.splits = append(acct.splits, split(id, amount, price, states[r.Intn(len(states))]))
	}
	return acct
}

func TestClassify_PartitionAndSign(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, typ := range []model.AccountType{model.AccountTypeAsset, model.AccountTypeLiability, model.AccountTypeStock, model.AccountTypeMutual} {
		for trial := 0; trial < 20; trial++ {
			acct := randomAccount(r, typ, 40)
			debit, credit := Classify(acct)

			seen := make(map[string]int)
			for _, row := range debit {
				seen[row.Split.ID]++
				assert.True(t, money.Contribution(typ, row.Split).IsNegative(), "%s debit row %s", typ, row.Split.ID)
			}
			for _, row := range credit {
				seen[row.Split.ID]++
				assert.False(t, money.Contribution(typ, row.Split).IsNegative(), "%s credit row %s", typ, row.Split.ID)
			}

			for _, s := range acct.splits {
				if s.IsReconciled() {
					assert.Zero(t, seen[s.ID], "reconciled split %s must be excluded", s.ID)
				} else {
					assert.Equal(t, 1, seen[s.ID], "split %s must be in exactly one bucket", s.ID)
				}
			}

			// Register order is preserved within each bucket.
			pos := make(map[string]int)
			for i, s := range acct.splits {
				pos[s.ID] = i
			}
			for _, b := range [][]Row{debit, credit} {
				for i := 1; i < len(b); i++ {
					assert.Less(t, pos[b[i-1].Split.ID], pos[b[i].Split.ID])
				}
			}
		}
	}
}

func TestParseSide(t *testing.T) {
	side, ok := ParseSide("d")
	assert.True(t, ok)
	assert.Equal(t, Debit, side)

	side, ok = ParseSide("credit")
	assert.True(t, ok)
	assert.Equal(t, Credit, side)

	_, ok = ParseSide("x")
	assert.False(t, ok)
}
