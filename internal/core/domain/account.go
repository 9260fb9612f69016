package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "asset"
	Liability AccountType = "liability"
	Equity    AccountType = "equity"
	Revenue   AccountType = "revenue"
	Expense   AccountType = "expense"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether debits increase the balance of accounts of this type.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// NormalBalanceDelta returns the signed change a debit/credit pair makes to an
// account of type t.
//
//	asset, expense:             debit - credit
//	liability, equity, revenue: credit - debit
func NormalBalanceDelta(t AccountType, debit, credit decimal.Decimal) decimal.Decimal {
	if t.IsDebitNormal() {
		return debit.Sub(credit)
	}
	return credit.Sub(debit)
}

// Account is a node of the chart of accounts.
type Account struct {
	AccountID       string          `json:"accountID"`
	AccountCode     string          `json:"accountCode"`
	Name            string          `json:"name"`
	NameEn          string          `json:"nameEn,omitempty"`
	AccountType     AccountType     `json:"accountType"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	Level           int             `json:"level"`
	OpeningBalance  decimal.Decimal `json:"openingBalance"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// ApplyDelta returns the balance the account would hold after a debit/credit pair.
func (a Account) ApplyDelta(debit, credit decimal.Decimal) decimal.Decimal {
	return a.CurrentBalance.Add(NormalBalanceDelta(a.AccountType, debit, credit))
}

// BalanceDelta is the aggregated debit and credit a posting applies to one account.
type BalanceDelta struct {
	AccountID string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}
