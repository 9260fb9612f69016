package dto

import (
	"time"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountCode     string             `json:"accountCode" binding:"required,max=32"`
	Name            string             `json:"name" binding:"required,max=255"`
	NameEn          string             `json:"nameEn" binding:"omitempty,max=255"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=asset liability equity revenue expense"`
	ParentAccountID *string            `json:"parentAccountID"`
	OpeningBalance  decimal.Decimal    `json:"openingBalance"`
}

// ListAccountsParams are the query parameters of the account listing.
type ListAccountsParams struct {
	ActiveOnly bool `form:"activeOnly"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	AccountCode     string             `json:"accountCode"`
	Name            string             `json:"name"`
	NameEn          string             `json:"nameEn,omitempty"`
	AccountType     domain.AccountType `json:"accountType"`
	ParentAccountID string             `json:"parentAccountID,omitempty"`
	Level           int                `json:"level"`
	OpeningBalance  decimal.Decimal    `json:"openingBalance"`
	CurrentBalance  decimal.Decimal    `json:"currentBalance"`
	IsActive        bool               `json:"isActive"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		AccountCode:     acc.AccountCode,
		Name:            acc.Name,
		NameEn:          acc.NameEn,
		AccountType:     acc.AccountType,
		ParentAccountID: acc.ParentAccountID,
		Level:           acc.Level,
		OpeningBalance:  acc.OpeningBalance,
		CurrentBalance:  acc.CurrentBalance,
		IsActive:        acc.IsActive,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to ListAccountsResponse.
func ToListAccountResponse(accounts []domain.Account) ListAccountsResponse {
	list := make([]AccountResponse, len(accounts))
	for i := range accounts {
		list[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: list}
}
