// Package book holds an account tree together with the commodities it uses.
package book

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cleared-dev/cashbook/internal/id"
	"github.com/cleared-dev/cashbook/internal/lookup"
	"github.com/cleared-dev/cashbook/internal/model"
)

// RootName is the name given to the root account of a new book.
const RootName = "Root Account"

var (
	// ErrRootAccount is returned for operations not allowed on the root account.
	ErrRootAccount = errors.New("operation not allowed on the root account")
	// ErrDuplicateCommodity is returned when a commodity is added twice.
	ErrDuplicateCommodity = errors.New("commodity already exists")
	// ErrUnknownCurrency is returned when a currency is neither in the book nor in the ISO table.
	ErrUnknownCurrency = errors.New("unknown currency")
)

// Book owns the root account and the commodity table.
type Book struct {
	root        *model.Account
	commodities lookup.List[*model.Commodity]
}

// New creates a book whose root account is denominated in currency.
func New(currency *model.Commodity) (*Book, error) {
	b := &Book{}
	b.commodities.Fallback = b.currencyFallback
	if currency != nil {
		if err := b.AddCommodity(currency); err != nil {
			return nil, err
		}
	}
	root, err := model.NewAccount(RootName, model.AccountTypeRoot, currency)
	if err != nil {
		return nil, fmt.Errorf("creating root account: %w", err)
	}
	b.root = root
	return b, nil
}

// Assemble wraps an existing root account and commodity table, as loaded from storage.
func Assemble(root *model.Account, commodities []*model.Commodity) (*Book, error) {
	if root == nil || root.Type() != model.AccountTypeRoot {
		return nil, fmt.Errorf("assembling book: %w", ErrRootAccount)
	}
	if root.Parent() != nil {
		return nil, fmt.Errorf("assembling book: root %s has a parent: %w", root, ErrRootAccount)
	}
	b := &Book{root: root}
	b.commodities.Fallback = b.currencyFallback
	for _, c := range commodities {
		if err := b.AddCommodity(c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Root returns the root account.
func (b *Book) Root() *model.Account {
	return b.root
}

// DefaultCurrency returns the root account's commodity.
func (b *Book) DefaultCurrency() *model.Commodity {
	return b.root.Commodity()
}

// Commodities returns the commodity table. Finding a currency that is
// missing adds it from the ISO table when possible.
func (b *Book) Commodities() *lookup.List[*model.Commodity] {
	return &b.commodities
}

// AddCommodity adds c after validating it.
func (b *Book) AddCommodity(c *model.Commodity) error {
	if err := c.Validate(); err != nil {
		return err
	}
	for other := range b.commodities.All() {
		if other.Namespace == c.Namespace && other.Mnemonic == c.Mnemonic {
			return fmt.Errorf("%w: %s", ErrDuplicateCommodity, c)
		}
		if other.GUID == c.GUID {
			return fmt.Errorf("%w: guid %s", ErrDuplicateCommodity, c.GUID)
		}
	}
	b.commodities.Append(c)
	return nil
}

// Currency returns the currency with the given mnemonic.
func (b *Book) Currency(mnemonic string) (*model.Commodity, error) {
	return b.commodities.Find(lookup.Criteria{
		"namespace": model.NamespaceCurrency,
		"mnemonic":  strings.ToUpper(mnemonic),
	})
}

func (b *Book) currencyFallback(c lookup.Criteria) (*model.Commodity, error) {
	ns, _ := c["namespace"].(string)
	mnemonic, _ := c["mnemonic"].(string)
	if ns != model.NamespaceCurrency || len(c) != 2 {
		return nil, &lookup.NotFoundError{Criteria: c, Collection: b.commodities.String()}
	}
	cur, ok := ISOCurrency(mnemonic)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCurrency, mnemonic)
	}
	if err := b.AddCommodity(cur); err != nil {
		return nil, err
	}
	return cur, nil
}

// DeleteCommodity removes c and every account denominated in it, along
// with those accounts' descendants.
func (b *Book) DeleteCommodity(c *model.Commodity) error {
	if b.root.Commodity() == c {
		return fmt.Errorf("deleting %s: %w", c, ErrRootAccount)
	}
	if !b.commodities.Contains(c) {
		return fmt.Errorf("deleting %s: %w", c, lookup.ErrNotFound)
	}
	for _, acc := range c.Accounts().Slice() {
		acc.Delete()
	}
	b.commodities.Remove(c)
	return nil
}

// Accounts returns every account except the root, depth first.
func (b *Book) Accounts() []*model.Account {
	return b.root.Descendants()
}

// Account resolves a full name such as "Assets:Bank:Checking".
func (b *Book) Account(fullname string) (*model.Account, error) {
	if fullname == "" {
		return nil, fmt.Errorf("empty account name: %w", lookup.ErrNotFound)
	}
	acc := b.root
	for _, name := range strings.Split(fullname, model.FullNameSeparator) {
		child, err := acc.Children().Find(lookup.Criteria{"name": name})
		if err != nil {
			return nil, fmt.Errorf("account %s: %w", fullname, err)
		}
		acc = child
	}
	return acc, nil
}

// AccountByGUID finds an account anywhere in the tree.
func (b *Book) AccountByGUID(guid string) (*model.Account, error) {
	if b.root.GUID() == guid {
		return b.root, nil
	}
	for _, acc := range b.Accounts() {
		if acc.GUID() == guid {
			return acc, nil
		}
	}
	return nil, fmt.Errorf("account guid %s: %w", guid, lookup.ErrNotFound)
}

// FindAccount resolves ref as a full name and, failing that, as a GUID in
// either the 32-character or the dashed UUID form.
func (b *Book) FindAccount(ref string) (*model.Account, error) {
	acc, err := b.Account(ref)
	if err == nil {
		return acc, nil
	}
	if guid, ok := id.Normalize(ref); ok {
		if acc, gerr := b.AccountByGUID(guid); gerr == nil {
			return acc, nil
		}
	}
	return nil, err
}

// CreateAccount creates an account at fullname. Its parent must already
// exist; a name without separators lands directly under the root.
func (b *Book) CreateAccount(fullname string, typ model.AccountType, commodity *model.Commodity, opts ...model.AccountOption) (*model.Account, error) {
	parent := b.root
	name := fullname
	if i := strings.LastIndex(fullname, model.FullNameSeparator); i >= 0 {
		p, err := b.Account(fullname[:i])
		if err != nil {
			return nil, fmt.Errorf("parent of %s: %w", fullname, err)
		}
		parent, name = p, fullname[i+1:]
	}
	opts = append(opts, model.WithParent(parent))
	acc, err := model.NewAccount(name, typ, commodity, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", fullname, err)
	}
	return acc, nil
}

// DeleteAccount removes acc and its descendants from the book.
func (b *Book) DeleteAccount(acc *model.Account) error {
	if acc == b.root {
		return ErrRootAccount
	}
	acc.Delete()
	return nil
}
