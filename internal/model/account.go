package model

import (
	"fmt"
	"strings"
)

// AccountType is the top-level class of an account.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// AccountTypes lists every account type in chart order.
var AccountTypes = []AccountType{
	AccountTypeAsset,
	AccountTypeLiability,
	AccountTypeEquity,
	AccountTypeRevenue,
	AccountTypeExpense,
}

// Classification is the finer-grained tag under an AccountType.
type Classification string

const (
	ClassTangibleAsset   Classification = "TANGIBLE_ASSET"
	ClassIntangibleAsset Classification = "INTANGIBLE_ASSET"
	ClassCurrentAsset    Classification = "CURRENT_ASSET"
	ClassSundryDebtor    Classification = "SUNDRY_DEBTOR"
	ClassInvestment      Classification = "INVESTMENT"
	ClassAdvances        Classification = "ADVANCES"

	ClassLoans           Classification = "LOANS"
	ClassSundryCreditor  Classification = "SUNDRY_CREDITOR"
	ClassOutstandingExp  Classification = "OUTSTANDING_EXP"
	ClassSundryLiability Classification = "SUNDRY_LIABILITY"

	ClassOwnerCapital  Classification = "OWNER_CAPITAL"
	ClassOwnerDrawings Classification = "OWNER_DRAWINGS"

	ClassDirectRevenue   Classification = "DIRECT_REVENUE"
	ClassIndirectRevenue Classification = "INDIRECT_REVENUE"

	ClassDirectExpense   Classification = "DIRECT_EXPENSE"
	ClassIndirectExpense Classification = "INDIRECT_EXPENSE"
)

var classifications = map[AccountType][]Classification{
	AccountTypeAsset:     {ClassSundryDebtor, ClassIntangibleAsset, ClassTangibleAsset, ClassCurrentAsset, ClassInvestment, ClassAdvances},
	AccountTypeLiability: {ClassLoans, ClassSundryCreditor, ClassOutstandingExp, ClassSundryLiability},
	AccountTypeEquity:    {ClassOwnerCapital, ClassOwnerDrawings},
	AccountTypeRevenue:   {ClassDirectRevenue, ClassIndirectRevenue},
	AccountTypeExpense:   {ClassDirectExpense, ClassIndirectExpense},
}

// FinalCategory routes revenue and expense accounts to the Trading or P&L account.
type FinalCategory string

const (
	CategoryDirect   FinalCategory = "DIRECT"
	CategoryIndirect FinalCategory = "INDIRECT"
)

// Account is a head in the chart of accounts.
type Account struct {
	ID                   string         `json:"id"`
	Code                 string         `json:"code"`
	Name                 string         `json:"name"`
	Type                 AccountType    `json:"type"`
	Classification       Classification `json:"classification"`
	Description          string         `json:"description,omitempty"`
	FinalAccountCategory FinalCategory  `json:"finalAccountCategory,omitempty"`
}

// IsDirect reports whether the account feeds the Trading account.
func (a Account) IsDirect() bool {
	return a.FinalAccountCategory == CategoryDirect
}

// Valid reports whether t is a known account type.
func (t AccountType) Valid() bool {
	_, ok := classifications[t]
	return ok
}

// Classifications returns the classifications allowed under t.
func (t AccountType) Classifications() []Classification {
	return classifications[t]
}

// DebitNormal reports whether accounts of this type normally carry a debit balance.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// CodePrefix is the leading digit of generated account codes.
func (t AccountType) CodePrefix() string {
	switch t {
	case AccountTypeAsset:
		return "1"
	case AccountTypeLiability, AccountTypeEquity:
		return "2"
	case AccountTypeRevenue:
		return "3"
	case AccountTypeExpense:
		return "4"
	default:
		return "9"
	}
}

// Compatible reports whether c is a valid classification for t.
func Compatible(t AccountType, c Classification) bool {
	for _, allowed := range classifications[t] {
		if allowed == c {
			return true
		}
	}
	return false
}

// ParseAccountType parses a case-insensitive account type name.
func ParseAccountType(s string) (AccountType, error) {
	t := AccountType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown account type %q", s)
	}
	return t, nil
}

// ParseClassification parses a case-insensitive classification name.
func ParseClassification(s string) (Classification, error) {
	c := Classification(strings.ToUpper(strings.TrimSpace(s)))
	for _, list := range classifications {
		for _, allowed := range list {
			if allowed == c {
				return c, nil
			}
		}
	}
	return "", fmt.Errorf("unknown classification %q", s)
}

// ParseFinalCategory parses DIRECT, INDIRECT or the empty string.
func ParseFinalCategory(s string) (FinalCategory, error) {
	switch c := FinalCategory(strings.ToUpper(strings.TrimSpace(s))); c {
	case "", CategoryDirect, CategoryIndirect:
		return c, nil
	default:
		return "", fmt.Errorf("unknown final account category %q", s)
	}
}
