package accounts

import "github.com/cleared-dev/reconcile/internal/model"

// DefaultChart returns the default chart of accounts for an entity type.
func DefaultChart(entityType string) []model.Account {
	switch entityType {
	case "household":
		return householdChart()
	default:
		return smallBusinessChart()
	}
}

func smallBusinessChart() []model.Account {
	return []model.Account{
		{ID: 1010, Name: "Business Checking", Type: model.AccountTypeAsset, Description: "Primary checking account"},
		{ID: 1020, Name: "Business Savings", Type: model.AccountTypeAsset, Description: "Savings account"},
		{ID: 1500, Name: "Brokerage", Type: model.AccountTypeStock, Description: "Equity holdings, in shares"},
		{ID: 1510, Name: "Index Fund", Type: model.AccountTypeMutual, ParentID: 1500, Description: "Mutual fund holdings, in shares"},
		{ID: 2010, Name: "Credit Card", Type: model.AccountTypeLiability, Description: "Business credit card"},
		{ID: 3010, Name: "Owner's Equity", Type: model.AccountTypeEquity, Description: "Owner's equity"},
		{ID: 4010, Name: "Service Revenue", Type: model.AccountTypeRevenue},
		{ID: 4020, Name: "Product Revenue", Type: model.AccountTypeRevenue},
		{ID: 5010, Name: "Advertising & Marketing", Type: model.AccountTypeExpense, Description: "Advertising costs"},
		{ID: 5020, Name: "Software & SaaS", Type: model.AccountTypeExpense, Description: "Software subscriptions"},
		{ID: 5030, Name: "Office Supplies", Type: model.AccountTypeExpense, Description: "Office supplies and expenses"},
		{ID: 5040, Name: "Professional Services", Type: model.AccountTypeExpense, Description: "Legal, accounting, consulting"},
		{ID: 5050, Name: "Shipping & Postage", Type: model.AccountTypeExpense, Description: "Postage and shipping costs"},
	}
}

func householdChart() []model.Account {
	return []model.Account{
		{ID: 1010, Name: "Checking", Type: model.AccountTypeAsset},
		{ID: 1020, Name: "Savings", Type: model.AccountTypeAsset},
		{ID: 1500, Name: "Brokerage", Type: model.AccountTypeStock},
		{ID: 2010, Name: "Credit Card", Type: model.AccountTypeLiability},
		{ID: 3010, Name: "Opening Balances", Type: model.AccountTypeEquity},
		{ID: 4010, Name: "Salary", Type: model.AccountTypeRevenue},
		{ID: 5010, Name: "Groceries", Type: model.AccountTypeExpense},
		{ID: 5020, Name: "Utilities", Type: model.AccountTypeExpense},
	}
}
