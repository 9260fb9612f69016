package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for the chart of accounts.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique ID.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	// FindAccountByCode retrieves an account by its business code, active or not.
	FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error)
	// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	// ListAccounts lists accounts ordered by account code.
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for the chart of accounts.
type AccountWriter interface {
	// SaveAccount inserts a new account. A code collision returns apperrors.ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) error
	// DeactivateAccount marks an active account inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountBalanceStore is the locked read-modify-write path used by posting.
// Both methods must run inside a transaction.
type AccountBalanceStore interface {
	// FindAccountsByIDsForUpdate locks the given accounts until the transaction
	// ends. Locks are taken in ascending ID order. Missing IDs are absent from the map.
	FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
	// UpdateAccountBalances stores new current balances keyed by account ID.
	UpdateAccountBalances(ctx context.Context, balances map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account storage operations.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceStore
}
