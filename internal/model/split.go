package model

import (
	"fmt"

	"github.com/cleared-dev/cashbook/internal/id"
	"github.com/cleared-dev/cashbook/internal/numeric"
)

// Split is one leg of a transaction posted to an account. Value is in the
// transaction currency, Quantity in the account's commodity.
type Split struct {
	GUID     string
	TxGUID   string
	Memo     string
	Value    numeric.Numeric
	Quantity numeric.Numeric

	account *Account
}

// NewSplit returns a split with value and quantity both set to amount.
func NewSplit(amount any, memo string) (*Split, error) {
	s := &Split{GUID: id.NewGUID(), Memo: memo}
	if err := s.Value.Set(amount); err != nil {
		return nil, fmt.Errorf("split value: %w", err)
	}
	if err := s.Quantity.Set(amount); err != nil {
		return nil, fmt.Errorf("split quantity: %w", err)
	}
	return s, nil
}

// Account returns the account the split is posted to, or nil.
func (s *Split) Account() *Account {
	return s.account
}

// Attr implements lookup.Attributer.
func (s *Split) Attr(name string) (any, bool) {
	switch name {
	case "guid":
		return s.GUID, true
	case "tx_guid":
		return s.TxGUID, true
	case "memo":
		return s.Memo, true
	case "account":
		return s.account, true
	}
	return nil, false
}

func (s *Split) String() string {
	return fmt.Sprintf("Split<%s %s>", s.Memo, s.Value)
}
