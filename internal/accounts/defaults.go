package accounts

// DefaultChart returns the starter chart of accounts for a kind of book.
// Unknown kinds get the personal chart.
func DefaultChart(kind string) []Row {
	switch kind {
	case "business":
		return businessChart()
	default:
		return personalChart()
	}
}

func personalChart() []Row {
	return []Row{
		{FullName: "Assets", Type: "ASSET", Placeholder: true},
		{FullName: "Assets:Current Assets", Type: "ASSET", Placeholder: true},
		{FullName: "Assets:Current Assets:Checking Account", Type: "BANK"},
		{FullName: "Assets:Current Assets:Savings Account", Type: "BANK"},
		{FullName: "Assets:Current Assets:Cash in Wallet", Type: "CASH"},
		{FullName: "Liabilities", Type: "LIABILITY", Placeholder: true},
		{FullName: "Liabilities:Credit Card", Type: "CREDIT"},
		{FullName: "Equity", Type: "EQUITY", Placeholder: true},
		{FullName: "Equity:Opening Balances", Type: "EQUITY"},
		{FullName: "Income", Type: "INCOME", Placeholder: true},
		{FullName: "Income:Salary", Type: "INCOME"},
		{FullName: "Income:Interest Income", Type: "INCOME"},
		{FullName: "Expenses", Type: "EXPENSE", Placeholder: true},
		{FullName: "Expenses:Groceries", Type: "EXPENSE"},
		{FullName: "Expenses:Utilities", Type: "EXPENSE"},
		{FullName: "Expenses:Bank Service Charge", Type: "EXPENSE"},
		{FullName: "Expenses:Taxes", Type: "EXPENSE"},
	}
}

func businessChart() []Row {
	return []Row{
		{FullName: "Assets", Type: "ASSET", Placeholder: true},
		{FullName: "Assets:Business Checking", Type: "BANK", Code: "1010", Description: "Primary checking account"},
		{FullName: "Assets:Business Savings", Type: "BANK", Code: "1020"},
		{FullName: "Assets:Accounts Receivable", Type: "RECEIVABLE", Code: "1200"},
		{FullName: "Liabilities", Type: "LIABILITY", Placeholder: true},
		{FullName: "Liabilities:Credit Card", Type: "CREDIT", Code: "2010"},
		{FullName: "Liabilities:Accounts Payable", Type: "PAYABLE", Code: "2100"},
		{FullName: "Equity", Type: "EQUITY", Placeholder: true},
		{FullName: "Equity:Owner's Equity", Type: "EQUITY", Code: "3010"},
		{FullName: "Income", Type: "INCOME", Placeholder: true},
		{FullName: "Income:Service Revenue", Type: "INCOME", Code: "4010"},
		{FullName: "Income:Product Revenue", Type: "INCOME", Code: "4020"},
		{FullName: "Expenses", Type: "EXPENSE", Placeholder: true},
		{FullName: "Expenses:Advertising & Marketing", Type: "EXPENSE", Code: "5010"},
		{FullName: "Expenses:Software & SaaS", Type: "EXPENSE", Code: "5020"},
		{FullName: "Expenses:Office Supplies", Type: "EXPENSE", Code: "5030"},
		{FullName: "Expenses:Professional Services", Type: "EXPENSE", Code: "5040", Description: "Legal, accounting, consulting"},
		{FullName: "Expenses:Shipping & Postage", Type: "EXPENSE", Code: "5050"},
	}
}
