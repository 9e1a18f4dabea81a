package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/cashbook/internal/id"
	"github.com/cleared-dev/cashbook/internal/lookup"
)

// FullNameSeparator joins account names into a full name.
const FullNameSeparator = ":"

// SlotPlaceholder is the slot key holding the placeholder flag.
const SlotPlaceholder = "placeholder"

// Account is a node in the account tree. All mutation goes through the
// Set* methods, which validate before changing anything.
type Account struct {
	guid        string
	name        string
	typ         AccountType
	code        string
	description string
	hidden      bool

	commodity    *Commodity
	commoditySCU int64
	scuSet       bool
	nonStdSCU    bool

	parent   *Account
	children lookup.List[*Account]
	splits   []*Split
	slots    map[string]string
}

type accountOptions struct {
	guid        string
	parent      *Account
	description string
	code        string
	hidden      bool
	placeholder bool
	scu         *int64
}

// AccountOption configures NewAccount.
type AccountOption func(*accountOptions)

// WithParent places the new account under parent.
func WithParent(parent *Account) AccountOption {
	return func(o *accountOptions) { o.parent = parent }
}

// WithDescription sets the account description.
func WithDescription(description string) AccountOption {
	return func(o *accountOptions) { o.description = description }
}

// WithCode sets the account code.
func WithCode(code string) AccountOption {
	return func(o *accountOptions) { o.code = code }
}

// WithHidden marks the account hidden.
func WithHidden(hidden bool) AccountOption {
	return func(o *accountOptions) { o.hidden = hidden }
}

// WithPlaceholder marks the account as a placeholder.
func WithPlaceholder(placeholder bool) AccountOption {
	return func(o *accountOptions) { o.placeholder = placeholder }
}

// WithCommoditySCU overrides the smallest currency unit taken from the commodity.
func WithCommoditySCU(scu int64) AccountOption {
	return func(o *accountOptions) { o.scu = &scu }
}

// WithGUID reuses an existing identifier, as when loading from storage.
func WithGUID(guid string) AccountOption {
	return func(o *accountOptions) { o.guid = guid }
}

// NewAccount creates an account. When it fails, neither the parent nor the
// commodity has been touched.
func NewAccount(name string, typ AccountType, commodity *Commodity, opts ...AccountOption) (*Account, error) {
	var o accountOptions
	for _, opt := range opts {
		opt(&o)
	}

	a := &Account{guid: o.guid}
	if a.guid == "" {
		a.guid = id.NewGUID()
	} else if !id.ValidGUID(a.guid) {
		return nil, invalid("guid", "%q is not a %d-character identifier", a.guid, id.GUIDLength)
	}

	if err := a.SetName(name); err != nil {
		return nil, err
	}
	if err := a.SetType(typ); err != nil {
		return nil, err
	}
	if err := a.SetParent(o.parent); err != nil {
		return nil, err
	}

	a.SetCommodity(commodity)
	a.SetDescription(o.description)
	a.SetHidden(o.hidden)
	a.SetPlaceholder(o.placeholder)
	a.SetCode(o.code)
	if o.scu != nil {
		a.SetCommoditySCU(*o.scu)
	} else {
		a.ClearCommoditySCU()
	}
	return a, nil
}

// GUID returns the account identifier.
func (a *Account) GUID() string { return a.guid }

// Name returns the account name.
func (a *Account) Name() string { return a.name }

// Type returns the account type.
func (a *Account) Type() AccountType { return a.typ }

// Code returns the account code.
func (a *Account) Code() string { return a.code }

// Description returns the account description.
func (a *Account) Description() string { return a.description }

// Hidden reports whether the account is hidden.
func (a *Account) Hidden() bool { return a.hidden }

// Commodity returns the account commodity, which may be nil.
func (a *Account) Commodity() *Commodity { return a.commodity }

// CommoditySCU returns the smallest currency unit of the account.
func (a *Account) CommoditySCU() int64 { return a.commoditySCU }

// NonStdSCU reports whether the smallest currency unit was set explicitly
// rather than taken from the commodity.
func (a *Account) NonStdSCU() bool { return a.nonStdSCU }

// Parent returns the parent account, or nil.
func (a *Account) Parent() *Account { return a.parent }

// Children returns the child accounts in insertion order.
func (a *Account) Children() *lookup.List[*Account] { return &a.children }

// Splits returns the splits posted to the account.
func (a *Account) Splits() []*Split { return slices.Clone(a.splits) }

// Placeholder reports whether the account only groups other accounts.
func (a *Account) Placeholder() bool {
	return a.slots[SlotPlaceholder] == "true"
}

// SetName renames the account. The name must be non-empty, must not contain
// FullNameSeparator and must not be used by a sibling.
func (a *Account) SetName(name string) error {
	if name == "" {
		return invalid("name", "account name must not be empty")
	}
	if strings.Contains(name, FullNameSeparator) {
		return invalid("name", "account name %q must not contain %q", name, FullNameSeparator)
	}
	if other := a.siblingNamed(a.parent, name); other != nil {
		return invalid("name", "%s has two children with the same name %s: %s and %s", a.parent, name, other, a)
	}
	a.name = name
	return nil
}

// SetType changes the account type. It must be a known type and stay
// compatible with both the parent and the existing children.
func (a *Account) SetType(typ AccountType) error {
	if !typ.Valid() {
		return invalid("type", "account type %q is not one of %v", typ, AccountTypes())
	}
	if a.parent != nil && !Compatible(a.parent.typ, typ) {
		return invalid("type", "child type %s is not consistent with parent type %s", typ, a.parent.typ)
	}
	for child := range a.children.All() {
		if !Compatible(typ, child.typ) {
			return invalid("type", "type %s is not consistent with child %s of type %s", typ, child, child.typ)
		}
	}
	a.typ = typ
	return nil
}

// SetParent moves the account under parent, or detaches it when parent is nil.
func (a *Account) SetParent(parent *Account) error {
	if parent == a.parent {
		return nil
	}
	if parent != nil {
		if parent.typ != "" && a.typ != "" && !Compatible(parent.typ, a.typ) {
			return invalid("parent", "child type %s is not consistent with parent type %s", a.typ, parent.typ)
		}
		for p := parent; p != nil; p = p.parent {
			if p == a {
				return invalid("parent", "%s cannot be moved under its own descendant %s", a, parent)
			}
		}
		if other := a.siblingNamed(parent, a.name); other != nil {
			return invalid("name", "%s has two children with the same name %s: %s and %s", parent, a.name, other, a)
		}
	}

	if a.parent != nil {
		a.parent.children.Remove(a)
	}
	a.parent = parent
	if parent != nil {
		parent.children.Append(a)
	}
	return nil
}

// SetCommodity changes the account commodity. Unless the smallest currency
// unit was overridden, it follows the new commodity's fraction.
func (a *Account) SetCommodity(c *Commodity) {
	if c == a.commodity {
		return
	}
	if c != nil && (!a.scuSet || !a.nonStdSCU) {
		a.commoditySCU = c.Fraction
		a.scuSet = true
		a.nonStdSCU = false
	}
	if a.commodity != nil {
		a.commodity.accounts.Remove(a)
	}
	a.commodity = c
	if c != nil {
		c.accounts.Append(a)
	}
}

// SetCommoditySCU overrides the smallest currency unit.
func (a *Account) SetCommoditySCU(scu int64) {
	a.commoditySCU = scu
	a.scuSet = true
	a.nonStdSCU = true
}

// ClearCommoditySCU drops an override and derives the smallest currency
// unit from the commodity (0 without one).
func (a *Account) ClearCommoditySCU() {
	a.commoditySCU = 0
	if a.commodity != nil {
		a.commoditySCU = a.commodity.Fraction
	}
	a.scuSet = true
	a.nonStdSCU = false
}

// SetCode sets the account code.
func (a *Account) SetCode(code string) { a.code = code }

// SetDescription sets the account description.
func (a *Account) SetDescription(description string) { a.description = description }

// SetHidden sets the hidden flag.
func (a *Account) SetHidden(hidden bool) { a.hidden = hidden }

// SetPlaceholder sets the placeholder flag, stored in the placeholder slot.
func (a *Account) SetPlaceholder(placeholder bool) {
	if placeholder {
		a.SetSlot(SlotPlaceholder, "true")
		return
	}
	a.DeleteSlot(SlotPlaceholder)
}

// Slot returns the value of a key-value slot.
func (a *Account) Slot(key string) (string, bool) {
	v, ok := a.slots[key]
	return v, ok
}

// SetSlot stores a key-value slot.
func (a *Account) SetSlot(key, value string) {
	if a.slots == nil {
		a.slots = make(map[string]string)
	}
	a.slots[key] = value
}

// DeleteSlot removes a key-value slot.
func (a *Account) DeleteSlot(key string) {
	delete(a.slots, key)
}

// Slots returns a copy of all slots.
func (a *Account) Slots() map[string]string {
	return maps.Clone(a.slots)
}

// AddSplit posts s to the account, moving it off any previous account.
func (a *Account) AddSplit(s *Split) {
	if s.account == a {
		return
	}
	if s.account != nil {
		s.account.RemoveSplit(s)
	}
	s.account = a
	a.splits = append(a.splits, s)
}

// RemoveSplit takes s off the account and reports whether it was there.
func (a *Account) RemoveSplit(s *Split) bool {
	i := slices.Index(a.splits, s)
	if i < 0 {
		return false
	}
	a.splits = slices.Delete(a.splits, i, i+1)
	s.account = nil
	return true
}

// FullName joins the names from the top-level account down to a, leaving
// out the root. It is empty when the account has no name.
func (a *Account) FullName() string {
	if a.name == "" {
		return ""
	}
	var names []string
	for acc := a; acc != nil; acc = acc.parent {
		names = append(names, acc.name)
	}
	// drop the outermost segment, the root
	names = names[:len(names)-1]
	slices.Reverse(names)
	return strings.Join(names, FullNameSeparator)
}

// Balance sums the split values, negated for liability, income and equity accounts.
func (a *Account) Balance() decimal.Decimal {
	total := decimal.Zero
	for _, s := range a.splits {
		total = total.Add(s.Value.Decimal())
	}
	if a.typ.Sign() < 0 {
		return total.Neg()
	}
	return total
}

// Descendants returns every account below a, depth first.
func (a *Account) Descendants() []*Account {
	var out []*Account
	for child := range a.children.All() {
		out = append(out, child)
		out = append(out, child.Descendants()...)
	}
	return out
}

// Delete removes the account from its parent and commodity, together with
// all of its descendants.
func (a *Account) Delete() {
	for _, child := range a.children.Slice() {
		child.Delete()
	}
	if a.parent != nil {
		a.parent.children.Remove(a)
		a.parent = nil
	}
	if a.commodity != nil {
		a.commodity.accounts.Remove(a)
		a.commodity = nil
	}
}

// Attr implements lookup.Attributer.
func (a *Account) Attr(name string) (any, bool) {
	switch name {
	case "guid":
		return a.guid, true
	case "name":
		return a.name, true
	case "type":
		return a.typ, true
	case "code":
		return a.code, true
	case "description":
		return a.description, true
	case "hidden":
		return a.hidden, true
	case "placeholder":
		return a.Placeholder(), true
	case "fullname":
		return a.FullName(), true
	case "commodity":
		return a.commodity, true
	case "commodity_scu":
		return a.commoditySCU, true
	case "non_std_scu":
		return a.nonStdSCU, true
	case "parent":
		return a.parent, true
	}
	return nil, false
}

func (a *Account) String() string {
	if a.commodity != nil {
		return fmt.Sprintf("Account<%s[%s]>", a.FullName(), a.commodity.Mnemonic)
	}
	return fmt.Sprintf("Account<%s>", a.FullName())
}

func (a *Account) siblingNamed(parent *Account, name string) *Account {
	if parent == nil {
		return nil
	}
	for sib := range parent.children.All() {
		if sib != a && sib.name == name {
			return sib
		}
	}
	return nil
}
