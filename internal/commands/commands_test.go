package commands_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/cashbook/internal/accounts"
	"github.com/cleared-dev/cashbook/internal/book"
	"github.com/cleared-dev/cashbook/internal/commands"
	"github.com/cleared-dev/cashbook/internal/model"
	"github.com/cleared-dev/cashbook/internal/numeric"
)

func runCashbook(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := commands.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// newProject initializes a personal book in a fresh directory.
func newProject(t *testing.T) string {
	t.Helper()
	t.Setenv("CASHBOOK_LOG_LEVEL", "error")
	dir := t.TempDir()
	_, err := runCashbook(t, "init", dir, "--name", "Home")
	require.NoError(t, err)
	return dir
}

func TestInit_CreatesProject(t *testing.T) {
	dir := t.TempDir()
	out, err := runCashbook(t, "init", dir, "--name", "Home", "--currency", "chf")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized cashbook at "+dir)
	assert.Contains(t, out, "17 accounts, CHF")

	data, err := os.ReadFile(filepath.Join(dir, "cashbook.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: Home")
	assert.Contains(t, string(data), "default_currency: CHF")

	_, err = os.Stat(filepath.Join(dir, "book.sqlite"))
	require.NoError(t, err)
}

func TestInit_BusinessChart(t *testing.T) {
	dir := t.TempDir()
	_, err := runCashbook(t, "init", dir, "--chart", "business")
	require.NoError(t, err)

	out, err := runCashbook(t, "account", "list", "-C", dir, "--type", "PAYABLE")
	require.NoError(t, err)
	assert.Contains(t, out, "Liabilities:Accounts Payable")
	assert.Contains(t, out, "2100")
	assert.NotContains(t, out, "Credit Card")
}

func TestInit_RefusesExistingProject(t *testing.T) {
	dir := newProject(t)
	_, err := runCashbook(t, "init", dir)
	assert.ErrorContains(t, err, "already exists")
}

func TestInit_UnknownCurrency(t *testing.T) {
	dir := t.TempDir()
	_, err := runCashbook(t, "init", dir, "--currency", "XYZ")
	require.ErrorIs(t, err, book.ErrUnknownCurrency)

	_, err = os.Stat(filepath.Join(dir, "cashbook.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNotInitialized(t *testing.T) {
	_, err := runCashbook(t, "account", "list", "-C", t.TempDir())
	assert.ErrorIs(t, err, commands.ErrNotInitialized)
}

func TestAccountAddAndList(t *testing.T) {
	dir := newProject(t)

	out, err := runCashbook(t, "account", "add", "Expenses:Rent", "-C", dir, "--type", "expense", "--code", "5100")
	require.NoError(t, err)
	assert.Contains(t, out, "Created Account<Expenses:Rent[EUR]>")

	_, err = runCashbook(t, "account", "add", "Expenses:Old Stuff", "-C", dir, "--type", "EXPENSE", "--hidden")
	require.NoError(t, err)

	out, err = runCashbook(t, "account", "list", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Expenses:Rent")
	assert.Contains(t, out, "5100")
	assert.NotContains(t, out, "Old Stuff")

	out, err = runCashbook(t, "account", "list", "-C", dir, "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Expenses:Old Stuff")
}

func TestAccountAdd_Rejected(t *testing.T) {
	dir := newProject(t)

	tests := []struct {
		name string
		args []string
	}{
		{"incompatible type", []string{"Income:Refund", "--type", "EXPENSE"}},
		{"duplicate sibling", []string{"Expenses:Groceries", "--type", "EXPENSE"}},
		{"unknown type", []string{"Expenses:Misc", "--type", "SPENDING"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"account", "add", "-C", dir}, tt.args...)
			_, err := runCashbook(t, args...)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}

	_, err := runCashbook(t, "account", "add", "Nowhere:Misc", "-C", dir, "--type", "EXPENSE")
	assert.Error(t, err)
}

func TestSplitsAndBalance(t *testing.T) {
	dir := newProject(t)

	for _, amount := range []string{"12.34", "0.5"} {
		_, err := runCashbook(t, "split", "add", "Expenses:Groceries", amount, "-C", dir, "-m", "market")
		require.NoError(t, err)
	}
	_, err := runCashbook(t, "split", "add", "Income:Salary", "-2500.00", "-C", dir)
	require.NoError(t, err)

	out, err := runCashbook(t, "account", "balance", "Expenses:Groceries", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "12.84 EUR\n", out)

	// income carries a credit balance, shown positive
	out, err = runCashbook(t, "account", "balance", "Income:Salary", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "2500 EUR\n", out)

	out, err = runCashbook(t, "account", "list", "-C", dir, "--totals", "--type", "EXPENSE")
	require.NoError(t, err)
	assert.Contains(t, out, "12.84")
}

func TestSplitAdd_Rejected(t *testing.T) {
	dir := newProject(t)

	_, err := runCashbook(t, "split", "add", "Expenses", "10", "-C", dir)
	assert.ErrorIs(t, err, model.ErrPlaceholder)

	_, err = runCashbook(t, "split", "add", "Expenses:Groceries", "ten", "-C", dir)
	assert.ErrorIs(t, err, numeric.ErrSyntax)

	_, err = runCashbook(t, "split", "add", "Expenses:Groceries", "99999999999999999999", "-C", dir)
	assert.ErrorIs(t, err, numeric.ErrOutOfRange)
}

func TestAccountRenameMoveDelete(t *testing.T) {
	dir := newProject(t)

	out, err := runCashbook(t, "account", "rename", "Expenses:Utilities", "Energy", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed to Expenses:Energy")

	_, err = runCashbook(t, "account", "rename", "Expenses:Energy", "Taxes", "-C", dir)
	assert.ErrorIs(t, err, model.ErrValidation)

	out, err = runCashbook(t, "account", "move", "Expenses:Energy", "", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Moved to Energy")

	// a parent cannot move under its own child
	_, err = runCashbook(t, "account", "move", "Assets:Current Assets", "Assets:Current Assets:Checking Account", "-C", dir)
	assert.ErrorIs(t, err, model.ErrValidation)

	out, err = runCashbook(t, "account", "delete", "Assets", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted 5 account(s)")

	out, err = runCashbook(t, "account", "list", "-C", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "Checking Account")
	assert.Contains(t, out, "Energy")
}

func TestAccountByGUID(t *testing.T) {
	dir := newProject(t)

	out, err := runCashbook(t, "account", "add", "Expenses:Rent", "-C", dir, "--type", "EXPENSE")
	require.NoError(t, err)
	fields := strings.Fields(out)
	require.NotEmpty(t, fields)
	guid := fields[len(fields)-1]
	require.Len(t, guid, 32)

	_, err = runCashbook(t, "split", "add", guid, "950", "-C", dir)
	require.NoError(t, err)

	dashed := guid[:8] + "-" + guid[8:12] + "-" + guid[12:16] + "-" + guid[16:20] + "-" + guid[20:]
	out, err = runCashbook(t, "account", "balance", dashed, "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "950 EUR\n", out)

	out, err = runCashbook(t, "account", "rename", guid, "Housing", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Renamed to Expenses:Housing")
}

func TestAccountRename_RejectsSeparator(t *testing.T) {
	dir := newProject(t)

	_, err := runCashbook(t, "account", "rename", "Expenses:Groceries", "Food:Fresh", "-C", dir)
	assert.ErrorIs(t, err, model.ErrValidation)

	out, err := runCashbook(t, "account", "list", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Expenses:Groceries")
	assert.NotContains(t, out, "Food:Fresh")
}

func TestCommodities(t *testing.T) {
	dir := newProject(t)

	out, err := runCashbook(t, "commodity", "add", "usd", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Added Commodity<CURRENCY:USD>")

	_, err = runCashbook(t, "commodity", "add", "EUR", "-C", dir)
	assert.ErrorIs(t, err, book.ErrDuplicateCommodity)

	_, err = runCashbook(t, "commodity", "add", "AAPL", "-C", dir, "--namespace", "NASDAQ", "--fullname", "Apple Inc.", "--fraction", "1")
	require.NoError(t, err)

	_, err = runCashbook(t, "account", "add", "Assets:Current Assets:Apple", "-C", dir, "--type", "STOCK", "--commodity", "NASDAQ:AAPL")
	require.NoError(t, err)

	out, err = runCashbook(t, "commodity", "list", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Apple Inc.")
	assert.Contains(t, out, "US Dollar")

	_, err = runCashbook(t, "commodity", "delete", "nasdaq:aapl", "-C", dir)
	assert.ErrorContains(t, err, "--force")

	_, err = runCashbook(t, "commodity", "delete", "NASDAQ:AAPL", "-C", dir, "--force")
	require.NoError(t, err)

	out, err = runCashbook(t, "account", "list", "-C", dir, "--all")
	require.NoError(t, err)
	assert.NotContains(t, out, "Apple")

	_, err = runCashbook(t, "commodity", "delete", "EUR", "-C", dir, "--force")
	assert.ErrorIs(t, err, book.ErrRootAccount)
}

func TestExportImport(t *testing.T) {
	dir := newProject(t)

	exported := filepath.Join(t.TempDir(), "chart.csv")
	out, err := runCashbook(t, "export", exported, "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 17 accounts")

	f, err := os.Open(exported)
	require.NoError(t, err)
	rows, err := accounts.ReadChart(f)
	f.Close()
	require.NoError(t, err)
	require.Len(t, rows, 17)
	assert.Equal(t, "Assets", rows[0].FullName)
	assert.True(t, rows[0].Placeholder)
	assert.Equal(t, "EUR", rows[0].Commodity)

	additions := filepath.Join(t.TempDir(), "additions.csv")
	writeChart(t, additions, []accounts.Row{
		{FullName: "Expenses:Travel", Type: "EXPENSE", Placeholder: true},
		{FullName: "Expenses:Travel:Flights", Type: "EXPENSE", Commodity: "USD"},
	})
	out, err = runCashbook(t, "import", additions, "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 accounts")

	out, err = runCashbook(t, "account", "list", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Expenses:Travel:Flights")
	assert.Contains(t, out, "USD")
}

func TestImport_FailureSavesNothing(t *testing.T) {
	dir := newProject(t)

	path := filepath.Join(t.TempDir(), "bad.csv")
	writeChart(t, path, []accounts.Row{
		{FullName: "Expenses:Hobbies", Type: "EXPENSE"},
		{FullName: "Expenses:Hobbies:Salary", Type: "INCOME"},
	})
	_, err := runCashbook(t, "import", path, "-C", dir)
	require.ErrorIs(t, err, model.ErrValidation)

	out, err := runCashbook(t, "account", "list", "-C", dir)
	require.NoError(t, err)
	assert.NotContains(t, out, "Hobbies")
}

func writeChart(t *testing.T, path string, rows []accounts.Row) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, accounts.WriteChart(f, rows))
}

func TestSplitImport(t *testing.T) {
	dir := newProject(t)

	statement := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(statement, []byte("date,description,amount\n2025-02-01,Paycheck,1800.00\n2025-02-02,Supermarket,-62.10\n"), 0o644))

	out, err := runCashbook(t, "split", "import", "Assets:Current Assets:Checking Account", statement, "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Posted 2 splits")

	out, err = runCashbook(t, "account", "balance", "Assets:Current Assets:Checking Account", "-C", dir)
	require.NoError(t, err)
	assert.Equal(t, "1737.9 EUR\n", out)

	_, err = runCashbook(t, "split", "import", "Assets", statement, "-C", dir)
	assert.ErrorIs(t, err, model.ErrPlaceholder)

	_, err = runCashbook(t, "split", "import", "Assets", statement, "-C", dir, "--format", "ofx")
	assert.ErrorContains(t, err, "unknown format")
}
