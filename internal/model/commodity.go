package model

import (
	"fmt"

	"github.com/cleared-dev/cashbook/internal/id"
	"github.com/cleared-dev/cashbook/internal/lookup"
)

// NamespaceCurrency is the namespace of ISO 4217 currencies.
const NamespaceCurrency = "CURRENCY"

// Commodity is a currency or tradable unit. Fraction is the number of
// smallest units in one whole unit (100 for EUR).
type Commodity struct {
	GUID        string
	Namespace   string
	Mnemonic    string
	Fullname    string
	CUSIP       string
	Fraction    int64
	QuoteFlag   bool
	QuoteSource string

	accounts lookup.List[*Account]
}

// NewCommodity returns a commodity with a fresh GUID.
func NewCommodity(namespace, mnemonic, fullname string, fraction int64) *Commodity {
	return &Commodity{
		GUID:      id.NewGUID(),
		Namespace: namespace,
		Mnemonic:  mnemonic,
		Fullname:  fullname,
		Fraction:  fraction,
	}
}

// NewCurrency returns an ISO currency commodity.
func NewCurrency(mnemonic, fullname string, fraction int64) *Commodity {
	return NewCommodity(NamespaceCurrency, mnemonic, fullname, fraction)
}

// Validate checks the fields a commodity needs before accounts can use it.
func (c *Commodity) Validate() error {
	if c.Mnemonic == "" {
		return invalid("mnemonic", "commodity mnemonic must not be empty")
	}
	if c.Namespace == "" {
		return invalid("namespace", "commodity %s has no namespace", c.Mnemonic)
	}
	if c.Fraction <= 0 {
		return invalid("fraction", "commodity %s has fraction %d, must be positive", c.Mnemonic, c.Fraction)
	}
	return nil
}

// Accounts lists the accounts denominated in c.
func (c *Commodity) Accounts() *lookup.List[*Account] {
	return &c.accounts
}

// Attr implements lookup.Attributer.
func (c *Commodity) Attr(name string) (any, bool) {
	switch name {
	case "guid":
		return c.GUID, true
	case "namespace":
		return c.Namespace, true
	case "mnemonic":
		return c.Mnemonic, true
	case "fullname":
		return c.Fullname, true
	case "cusip":
		return c.CUSIP, true
	case "fraction":
		return c.Fraction, true
	}
	return nil, false
}

func (c *Commodity) String() string {
	return fmt.Sprintf("Commodity<%s:%s>", c.Namespace, c.Mnemonic)
}
