package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cleared-dev/cashbook/internal/book"
	"github.com/cleared-dev/cashbook/internal/model"
	"github.com/cleared-dev/cashbook/internal/numeric"
)

var (
	// ErrNoBook is returned by LoadBook when nothing has been saved yet.
	ErrNoBook = errors.New("no book in database")
	// ErrCorrupt is returned when stored rows do not form a valid tree.
	ErrCorrupt = errors.New("corrupt book")
	// ErrUnsetAmount is returned when saving a split without value or quantity.
	ErrUnsetAmount = errors.New("split amount not set")
)

type accountRow struct {
	guid          string
	name          string
	accountType   string
	commodityGUID sql.NullString
	commoditySCU  int64
	nonStdSCU     bool
	parentGUID    sql.NullString
	code          string
	description   string
	hidden        bool
}

// SaveBook replaces the stored book with b in one transaction.
func (s *Store) SaveBook(ctx context.Context, b *book.Book) error {
	root := b.Root()
	accts := append([]*model.Account{root}, b.Accounts()...)

	err := s.Transaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"splits", "slots", "accounts", "commodities"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clearing %s: %w", table, err)
			}
		}

		for c := range b.Commodities().All() {
			if err := insertCommodity(ctx, tx, c); err != nil {
				return err
			}
		}
		// parents precede children in accts
		for _, acc := range accts {
			if err := insertAccount(ctx, tx, acc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving book: %w", err)
	}

	s.log.Info("book saved",
		zap.Int("commodities", b.Commodities().Len()),
		zap.Int("accounts", len(accts)),
	)
	return nil
}

func insertCommodity(ctx context.Context, tx *sql.Tx, c *model.Commodity) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO commodities (guid, namespace, mnemonic, fullname, cusip, fraction, quote_flag, quote_source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.GUID, c.Namespace, c.Mnemonic, c.Fullname, c.CUSIP, c.Fraction, c.QuoteFlag, c.QuoteSource,
	)
	if err != nil {
		return fmt.Errorf("inserting %s: %w", c, err)
	}
	return nil
}

func insertAccount(ctx context.Context, tx *sql.Tx, acc *model.Account) error {
	var commodityGUID, parentGUID sql.NullString
	if c := acc.Commodity(); c != nil {
		commodityGUID = sql.NullString{String: c.GUID, Valid: true}
	}
	if p := acc.Parent(); p != nil {
		parentGUID = sql.NullString{String: p.GUID(), Valid: true}
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (guid, name, account_type, commodity_guid, commodity_scu, non_std_scu,
			parent_guid, code, description, hidden, placeholder)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		acc.GUID(), acc.Name(), string(acc.Type()), commodityGUID, acc.CommoditySCU(), acc.NonStdSCU(),
		parentGUID, acc.Code(), acc.Description(), acc.Hidden(), acc.Placeholder(),
	)
	if err != nil {
		return fmt.Errorf("inserting %s: %w", acc, err)
	}

	for key, value := range acc.Slots() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO slots (obj_guid, name, string_val) VALUES (?, ?, ?)`,
			acc.GUID(), key, value,
		); err != nil {
			return fmt.Errorf("inserting slot %s of %s: %w", key, acc, err)
		}
	}

	for _, sp := range acc.Splits() {
		if !sp.Value.IsSet() || !sp.Quantity.IsSet() {
			return fmt.Errorf("split %s of %s: %w", sp.GUID, acc, ErrUnsetAmount)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO splits (guid, tx_guid, account_guid, memo, value_num, value_denom, quantity_num, quantity_denom)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sp.GUID, sp.TxGUID, acc.GUID(), sp.Memo,
			sp.Value.Num, sp.Value.Denom, sp.Quantity.Num, sp.Quantity.Denom,
		); err != nil {
			return fmt.Errorf("inserting split %s: %w", sp.GUID, err)
		}
	}
	return nil
}

// LoadBook rebuilds the book. Every account goes through the model's
// validating constructor, so a stored tree that breaks an invariant is rejected.
func (s *Store) LoadBook(ctx context.Context) (*book.Book, error) {
	commodities, err := s.loadCommodities(ctx)
	if err != nil {
		return nil, err
	}
	byGUID := make(map[string]*model.Commodity, len(commodities))
	for _, c := range commodities {
		byGUID[c.GUID] = c
	}

	rows, err := s.loadAccountRows(ctx)
	if err != nil {
		return nil, err
	}
	slots, err := s.loadSlots(ctx)
	if err != nil {
		return nil, err
	}

	var roots []accountRow
	children := make(map[string][]accountRow)
	for _, r := range rows {
		if !r.parentGUID.Valid {
			roots = append(roots, r)
			continue
		}
		children[r.parentGUID.String] = append(children[r.parentGUID.String], r)
	}
	switch {
	case len(rows) == 0:
		return nil, ErrNoBook
	case len(roots) != 1:
		return nil, fmt.Errorf("%w: %d top-level accounts, want one root", ErrCorrupt, len(roots))
	}

	accounts := make(map[string]*model.Account, len(rows))
	var build func(r accountRow, parent *model.Account) error
	build = func(r accountRow, parent *model.Account) error {
		acc, err := newAccountFromRow(r, parent, byGUID)
		if err != nil {
			return err
		}
		for key, value := range slots[r.guid] {
			acc.SetSlot(key, value)
		}
		accounts[r.guid] = acc
		for _, child := range children[r.guid] {
			if err := build(child, acc); err != nil {
				return err
			}
		}
		return nil
	}
	if err := build(roots[0], nil); err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	if len(accounts) != len(rows) {
		return nil, fmt.Errorf("%w: %d accounts unreachable from the root", ErrCorrupt, len(rows)-len(accounts))
	}

	if err := s.loadSplits(ctx, accounts); err != nil {
		return nil, err
	}

	b, err := book.Assemble(accounts[roots[0].guid], commodities)
	if err != nil {
		return nil, fmt.Errorf("loading book: %w", err)
	}
	s.log.Info("book loaded",
		zap.Int("commodities", len(commodities)),
		zap.Int("accounts", len(accounts)),
	)
	return b, nil
}

func newAccountFromRow(r accountRow, parent *model.Account, commodities map[string]*model.Commodity) (*model.Account, error) {
	var commodity *model.Commodity
	if r.commodityGUID.Valid {
		c, ok := commodities[r.commodityGUID.String]
		if !ok {
			return nil, fmt.Errorf("%w: account %s references missing commodity %s", ErrCorrupt, r.guid, r.commodityGUID.String)
		}
		commodity = c
	}

	opts := []model.AccountOption{
		model.WithGUID(r.guid),
		model.WithParent(parent),
		model.WithCode(r.code),
		model.WithDescription(r.description),
		model.WithHidden(r.hidden),
	}
	if r.nonStdSCU {
		opts = append(opts, model.WithCommoditySCU(r.commoditySCU))
	}
	return model.NewAccount(r.name, model.AccountType(r.accountType), commodity, opts...)
}

func (s *Store) loadCommodities(ctx context.Context) ([]*model.Commodity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, namespace, mnemonic, fullname, cusip, fraction, quote_flag, quote_source
		FROM commodities ORDER BY namespace, mnemonic`)
	if err != nil {
		return nil, fmt.Errorf("querying commodities: %w", err)
	}
	defer rows.Close()

	var out []*model.Commodity
	for rows.Next() {
		c := &model.Commodity{}
		if err := rows.Scan(&c.GUID, &c.Namespace, &c.Mnemonic, &c.Fullname, &c.CUSIP, &c.Fraction, &c.QuoteFlag, &c.QuoteSource); err != nil {
			return nil, fmt.Errorf("scanning commodity: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) loadAccountRows(ctx context.Context) ([]accountRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, name, account_type, commodity_guid, commodity_scu, non_std_scu,
			parent_guid, code, description, hidden
		FROM accounts ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	var out []accountRow
	for rows.Next() {
		var r accountRow
		if err := rows.Scan(&r.guid, &r.name, &r.accountType, &r.commodityGUID, &r.commoditySCU, &r.nonStdSCU,
			&r.parentGUID, &r.code, &r.description, &r.hidden); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) loadSlots(ctx context.Context) (map[string]map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT obj_guid, name, string_val FROM slots`)
	if err != nil {
		return nil, fmt.Errorf("querying slots: %w", err)
	}
	defer rows.Close()

	out := make(map[string]map[string]string)
	for rows.Next() {
		var guid, name, value string
		if err := rows.Scan(&guid, &name, &value); err != nil {
			return nil, fmt.Errorf("scanning slot: %w", err)
		}
		if out[guid] == nil {
			out[guid] = make(map[string]string)
		}
		out[guid][name] = value
	}
	return out, rows.Err()
}

func (s *Store) loadSplits(ctx context.Context, accounts map[string]*model.Account) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, tx_guid, account_guid, memo, value_num, value_denom, quantity_num, quantity_denom
		FROM splits ORDER BY rowid`)
	if err != nil {
		return fmt.Errorf("querying splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		sp := &model.Split{}
		var accountGUID string
		if err := rows.Scan(&sp.GUID, &sp.TxGUID, &accountGUID, &sp.Memo,
			&sp.Value.Num, &sp.Value.Denom, &sp.Quantity.Num, &sp.Quantity.Denom); err != nil {
			return fmt.Errorf("scanning split: %w", err)
		}
		acc, ok := accounts[accountGUID]
		if !ok {
			return fmt.Errorf("%w: split %s references missing account %s", ErrCorrupt, sp.GUID, accountGUID)
		}
		acc.AddSplit(sp)
	}
	return rows.Err()
}

// AccountTotals returns the summed split value per account GUID, computed
// in SQL. The sums go through floating point and are only fit for sorting
// and filtering; use model.Account.Balance for exact figures.
func (s *Store) AccountTotals(ctx context.Context) (map[string]float64, error) {
	query := fmt.Sprintf(`SELECT account_guid, SUM(%s) FROM splits GROUP BY account_guid`,
		numeric.QueryExpr("value_num", "value_denom"))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying account totals: %w", err)
	}
	defer rows.Close()

	out := make(map[string]float64)
	for rows.Next() {
		var guid string
		var total float64
		if err := rows.Scan(&guid, &total); err != nil {
			return nil, fmt.Errorf("scanning account total: %w", err)
		}
		out[guid] = total
	}
	return out, rows.Err()
}
