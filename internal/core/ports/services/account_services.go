package services

import (
	"context"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/SscSPs/ledger_backend/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts.
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// ListAccounts retrieves accounts ordered by account code.
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for the chart of accounts.
type AccountWriterSvc interface {
	// CreateAccount creates a new account with current balance equal to its opening balance.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)
	// DeactivateAccount marks an account as inactive. Accounts are never deleted.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}

// AccountBalanceSvc is the balance mutation path reserved for posting.
type AccountBalanceSvc interface {
	// ApplyDeltas applies each delta with the normal-balance rule under per-account
	// locks. It must be called inside a transaction.
	ApplyDeltas(ctx context.Context, deltas []domain.BalanceDelta, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountBalanceSvc
}
