package model

import (
	"fmt"
	"strings"
)

// AccountType classifies accounts in the book.
type AccountType string

// NoParent stands in for the type of a missing parent account.
const NoParent AccountType = ""

const (
	AccountTypeRoot       AccountType = "ROOT"
	AccountTypeReceivable AccountType = "RECEIVABLE"
	AccountTypeMutual     AccountType = "MUTUAL"
	AccountTypeCash       AccountType = "CASH"
	AccountTypeAsset      AccountType = "ASSET"
	AccountTypeBank       AccountType = "BANK"
	AccountTypeStock      AccountType = "STOCK"
	AccountTypeCredit     AccountType = "CREDIT"
	AccountTypeLiability  AccountType = "LIABILITY"
	AccountTypePayable    AccountType = "PAYABLE"
	AccountTypeIncome     AccountType = "INCOME"
	AccountTypeExpense    AccountType = "EXPENSE"
	AccountTypeTrading    AccountType = "TRADING"
	AccountTypeEquity     AccountType = "EQUITY"
)

type typeSet map[AccountType]bool

func setOf(types ...AccountType) typeSet {
	s := make(typeSet, len(types))
	for _, t := range types {
		s[t] = true
	}
	return s
}

func union(sets ...typeSet) typeSet {
	s := make(typeSet)
	for _, set := range sets {
		for t := range set {
			s[t] = true
		}
	}
	return s
}

var (
	rootTypes      = setOf(AccountTypeRoot)
	assetTypes     = setOf(AccountTypeReceivable, AccountTypeMutual, AccountTypeCash, AccountTypeAsset, AccountTypeBank, AccountTypeStock)
	liabilityTypes = setOf(AccountTypeCredit, AccountTypeLiability, AccountTypePayable)
	incomeTypes    = setOf(AccountTypeIncome)
	expenseTypes   = setOf(AccountTypeExpense)
	tradingTypes   = setOf(AccountTypeTrading)
	equityTypes    = setOf(AccountTypeEquity)

	allTypes = union(rootTypes, assetTypes, liabilityTypes, incomeTypes, expenseTypes, tradingTypes, equityTypes)

	assetLiabTypes = union(assetTypes, liabilityTypes)
	incExpTypes    = union(incomeTypes, expenseTypes)

	// families whose members may nest under one another
	families = []typeSet{assetLiabTypes, equityTypes, incExpTypes, tradingTypes}

	negativeTypes = union(liabilityTypes, incomeTypes, equityTypes)
)

// AccountTypes returns every account type in a stable order.
func AccountTypes() []AccountType {
	return []AccountType{
		AccountTypeRoot,
		AccountTypeReceivable, AccountTypeMutual, AccountTypeCash, AccountTypeAsset, AccountTypeBank, AccountTypeStock,
		AccountTypeCredit, AccountTypeLiability, AccountTypePayable,
		AccountTypeIncome, AccountTypeExpense,
		AccountTypeTrading, AccountTypeEquity,
	}
}

// ParseAccountType parses s case-insensitively.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return NoParent, &ValidationError{Field: "type", Reason: fmt.Sprintf("account type %q is not one of %v", s, AccountTypes())}
	}
	return t, nil
}

// Valid reports whether t belongs to the account type enumeration.
func (t AccountType) Valid() bool {
	return allTypes[t]
}

// Sign is the factor applied to a raw split sum to report a balance:
// -1 for liability, income and equity accounts, +1 otherwise.
func (t AccountType) Sign() int {
	if negativeTypes[t] {
		return -1
	}
	return 1
}

// Compatible reports whether an account of type child may sit under an
// account of type parent. Pass NoParent for a top-level account.
//
//  1. a ROOT parent accepts any non-ROOT child
//  2. a ROOT child accepts no parent at all
//  3. otherwise both must belong to the same family
//     (asset/liability, equity, income/expense, trading)
func Compatible(parent, child AccountType) bool {
	if rootTypes[parent] {
		return child.Valid() && !rootTypes[child]
	}
	if rootTypes[child] {
		return parent == NoParent
	}
	for _, family := range families {
		if family[parent] && family[child] {
			return true
		}
	}
	return false
}
