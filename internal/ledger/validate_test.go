package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cleared-dev/reconcile/internal/accounts"
	"github.com/cleared-dev/reconcile/internal/model"
)

var chart = accounts.NewService(accounts.DefaultChart("llc_single_member"))

func pair(txn string, from, to int, amount string) []model.Split {
	d := dec(amount)
	return []model.Split{
		{ID: txn + "a", TransactionID: txn, Date: date(2025, 1, 15), AccountID: from, Amount: d.Neg(), SharePrice: dec("1"), Reconciled: model.StateNotReconciled},
		{ID: txn + "b", TransactionID: txn, Date: date(2025, 1, 15), AccountID: to, Amount: d, SharePrice: dec("1"), Reconciled: model.StateNotReconciled},
	}
}

func invariants(errs []ValidationError) []int {
	var out []int
	for _, e := range errs {
		out = append(out, e.Invariant)
	}
	return out
}

func TestValidate_Balanced(t *testing.T) {
	errs := ValidateSplits(pair("2025-01-001", 1010, 5020, "100.00"), chart, 2025, 1)
	assert.Empty(t, errs)
}

func TestValidate_Unbalanced(t *testing.T) {
	splits := pair("2025-01-001", 1010, 5020, "100.00")
	splits[1].Amount = dec("99.99")
	errs := ValidateSplits(splits, chart, 2025, 1)
	assert.Equal(t, []int{1}, invariants(errs))
	assert.Contains(t, errs[0].Error(), "splits sum to -0.01")
}

func TestValidate_SingleSplit(t *testing.T) {
	splits := pair("2025-01-001", 1010, 5020, "0")[:1]
	errs := ValidateSplits(splits, chart, 2025, 1)
	assert.Contains(t, invariants(errs), 1)
}

func TestValidate_SharesBalanceByValue(t *testing.T) {
	splits := pair("2025-01-001", 1010, 1500, "751.50")
	splits[1].Amount = dec("3")
	splits[1].SharePrice = dec("250.50")
	assert.Empty(t, ValidateSplits(splits, chart, 2025, 1))
}

func TestValidate_BadIDs(t *testing.T) {
	splits := pair("2025-01-001", 1010, 5020, "5.00")
	splits[1].ID = "2025-01-001a"
	errs := ValidateSplits(splits, chart, 2025, 1)
	assert.Equal(t, []int{2}, invariants(errs))

	splits = pair("2025-01-001", 1010, 5020, "5.00")
	splits[1].ID = "2025-01-002b"
	errs = ValidateSplits(splits, chart, 2025, 1)
	assert.Equal(t, []int{2}, invariants(errs))
}

func TestValidate_UnknownAccount(t *testing.T) {
	errs := ValidateSplits(pair("2025-01-001", 1010, 9999, "5.00"), chart, 2025, 1)
	assert.Equal(t, []int{3}, invariants(errs))
	assert.Contains(t, errs[0].Description, "unknown account 9999")
}

func TestValidate_WrongMonth(t *testing.T) {
	errs := ValidateSplits(pair("2025-01-001", 1010, 5020, "5.00"), chart, 2025, 2)
	assert.Equal(t, []int{4, 4}, invariants(errs))
}

func TestValidate_SubCentCurrency(t *testing.T) {
	errs := ValidateSplits(pair("2025-01-001", 1010, 5020, "5.005"), chart, 2025, 1)
	assert.Equal(t, []int{5, 5}, invariants(errs))
}

func TestValidate_BadState(t *testing.T) {
	splits := pair("2025-01-001", 1010, 5020, "5.00")
	splits[0].Reconciled = "?"
	errs := ValidateSplits(splits, chart, 2025, 1)
	assert.Equal(t, []int{6}, invariants(errs))
}
