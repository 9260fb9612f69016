package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	return s.write(ctx, func() error {
		if _, taken := s.codes[account.AccountCode]; taken {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.AccountCode)
		}
		if _, taken := s.accounts[account.AccountID]; taken {
			return fmt.Errorf("%w: account id %s", apperrors.ErrDuplicate, account.AccountID)
		}
		s.accounts[account.AccountID] = account
		s.codes[account.AccountCode] = account.AccountID
		return nil
	})
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	var (
		account domain.Account
		ok      bool
	)
	s.read(ctx, func() { account, ok = s.accounts[accountID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("account", accountID)
	}
	return &account, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	var (
		account domain.Account
		ok      bool
	)
	s.read(ctx, func() {
		var id string
		if id, ok = s.codes[accountCode]; ok {
			account = s.accounts[id]
		}
	})
	if !ok {
		return nil, apperrors.NewNotFoundError("account code", accountCode)
	}
	return &account, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(accountIDs))
	s.read(ctx, func() {
		for _, id := range accountIDs {
			if a, ok := s.accounts[id]; ok {
				out[id] = a
			}
		}
	})
	return out, nil
}

func (s *Store) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	var out []domain.Account
	s.read(ctx, func() {
		out = make([]domain.Account, 0, len(s.accounts))
		for _, a := range s.accounts {
			if activeOnly && !a.IsActive {
				continue
			}
			out = append(out, a)
		}
	})
	slices.SortFunc(out, func(a, b domain.Account) int { return strings.Compare(a.AccountCode, b.AccountCode) })
	return out, nil
}

func (s *Store) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	return s.write(ctx, func() error {
		a, ok := s.accounts[accountID]
		if !ok || !a.IsActive {
			return apperrors.NewNotFoundError("active account", accountID)
		}
		a.IsActive = false
		a.LastUpdatedAt = now
		a.LastUpdatedBy = userID
		s.accounts[accountID] = a
		return nil
	})
}

// FindAccountsByIDsForUpdate needs no per-row lock: the caller's transaction
// already holds the store's write lock.
func (s *Store) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if !s.inTx(ctx) {
		return nil, apperrors.NewAppError(500, "FindAccountsByIDsForUpdate requires a transaction", nil)
	}
	return s.FindAccountsByIDs(ctx, accountIDs)
}

func (s *Store) UpdateAccountBalances(ctx context.Context, balances map[string]decimal.Decimal, userID string, now time.Time) error {
	if !s.inTx(ctx) {
		return apperrors.NewAppError(500, "UpdateAccountBalances requires a transaction", nil)
	}
	for id, balance := range balances {
		a, ok := s.accounts[id]
		if !ok {
			return apperrors.NewNotFoundError("account", id)
		}
		a.CurrentBalance = balance
		a.LastUpdatedAt = now
		a.LastUpdatedBy = userID
		s.accounts[id] = a
	}
	return nil
}
