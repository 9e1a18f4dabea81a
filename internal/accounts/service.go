package accounts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/cashbook/internal/book"
	"github.com/cleared-dev/cashbook/internal/lookup"
	"github.com/cleared-dev/cashbook/internal/model"
)

// Service moves a book's chart of accounts to and from CSV.
type Service struct {
	book *book.Book
}

// NewService creates a Service over b.
func NewService(b *book.Book) *Service {
	return &Service{book: b}
}

// Export returns one row per account except the root, parents first.
func (s *Service) Export() []Row {
	accts := s.book.Accounts()
	rows := make([]Row, 0, len(accts))
	for _, acc := range accts {
		row := Row{
			GUID:        acc.GUID(),
			FullName:    acc.FullName(),
			Type:        string(acc.Type()),
			Commodity:   commodityRef(acc.Commodity()),
			Code:        acc.Code(),
			Description: acc.Description(),
			Hidden:      acc.Hidden(),
			Placeholder: acc.Placeholder(),
		}
		if acc.NonStdSCU() {
			row.SCU = acc.CommoditySCU()
		}
		rows = append(rows, row)
	}
	return rows
}

// Import creates an account for each row. Parents must come before their
// children. Rows without a commodity use the book's default currency.
// Import stops at the first failing row; accounts created before it stay.
func (s *Service) Import(rows []Row) ([]*model.Account, error) {
	created := make([]*model.Account, 0, len(rows))
	for i, row := range rows {
		acc, err := s.importRow(row)
		if err != nil {
			return created, fmt.Errorf("row %d (%s): %w", i+2, row.FullName, err)
		}
		created = append(created, acc)
	}
	return created, nil
}

func (s *Service) importRow(row Row) (*model.Account, error) {
	typ, err := model.ParseAccountType(row.Type)
	if err != nil {
		return nil, err
	}
	commodity, err := s.resolveCommodity(row.Commodity)
	if err != nil {
		return nil, err
	}

	opts := []model.AccountOption{
		model.WithCode(row.Code),
		model.WithDescription(row.Description),
		model.WithHidden(row.Hidden),
		model.WithPlaceholder(row.Placeholder),
	}
	if row.GUID != "" {
		opts = append(opts, model.WithGUID(row.GUID))
	}
	if row.SCU != 0 {
		opts = append(opts, model.WithCommoditySCU(row.SCU))
	}
	return s.book.CreateAccount(row.FullName, typ, commodity, opts...)
}

func (s *Service) resolveCommodity(ref string) (*model.Commodity, error) {
	if ref == "" {
		return s.book.DefaultCurrency(), nil
	}
	ns, mnemonic, ok := strings.Cut(ref, ":")
	if !ok {
		return s.book.Currency(ref)
	}
	return s.book.Commodities().Find(lookup.Criteria{"namespace": ns, "mnemonic": mnemonic})
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []*model.Account {
	var result []*model.Account
	for _, a := range s.book.Accounts() {
		if a.Type() == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Load imports the chart at path.
func (s *Service) Load(path string) ([]*model.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	rows, err := ReadChart(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return s.Import(rows)
}

// Save writes the chart of accounts to path.
func (s *Service) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteChart(f, s.Export()); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

func commodityRef(c *model.Commodity) string {
	switch {
	case c == nil:
		return ""
	case c.Namespace == model.NamespaceCurrency:
		return c.Mnemonic
	default:
		return c.Namespace + ":" + c.Mnemonic
	}
}
