package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountActivity is an account together with the posted debit and credit
// totals of its lines inside a date window.
type AccountActivity struct {
	Account     Account
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// ActivityWindow bounds the entry dates aggregated by a report. A nil From
// means "since the beginning of the books".
type ActivityWindow struct {
	From *time.Time
	To   time.Time
}

// Contains reports whether date falls inside the window (inclusive on both ends).
func (w ActivityWindow) Contains(date time.Time) bool {
	if w.From != nil && date.Before(*w.From) {
		return false
	}
	return !date.After(w.To)
}

// TrialBalanceRow is one account's activity and closing balance for a period.
type TrialBalanceRow struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	IsActive       bool            `json:"isActive"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	TotalDebit     decimal.Decimal `json:"totalDebit"`
	TotalCredit    decimal.Decimal `json:"totalCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// TrialBalance lists active accounts, and inactive ones still carrying activity, with grand totals.
type TrialBalance struct {
	FromDate     time.Time         `json:"fromDate"`
	ToDate       time.Time         `json:"toDate"`
	Rows         []TrialBalanceRow `json:"rows"`
	TotalDebits  decimal.Decimal   `json:"totalDebits"`
	TotalCredits decimal.Decimal   `json:"totalCredits"`
}

// ReportLine is an account and its net amount within a report section.
type ReportLine struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeStatement is net revenue minus net expense for a period.
type IncomeStatement struct {
	FromDate      time.Time       `json:"fromDate"`
	ToDate        time.Time       `json:"toDate"`
	Revenues      []ReportLine    `json:"revenues"`
	Expenses      []ReportLine    `json:"expenses"`
	TotalRevenues decimal.Decimal `json:"totalRevenues"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// BalanceSheet is the position of asset, liability and equity accounts at a date.
type BalanceSheet struct {
	AsOfDate         time.Time       `json:"asOfDate"`
	Assets           []ReportLine    `json:"assets"`
	Liabilities      []ReportLine    `json:"liabilities"`
	Equity           []ReportLine    `json:"equity"`
	TotalAssets      decimal.Decimal `json:"totalAssets"`
	TotalLiabilities decimal.Decimal `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal `json:"totalEquity"`
	// UnclosedEarnings is revenue minus expense through AsOfDate; periods are
	// never closed so it is not folded into any equity account.
	UnclosedEarnings decimal.Decimal `json:"unclosedEarnings"`
}
