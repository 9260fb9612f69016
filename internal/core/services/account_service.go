package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/ledger_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService owns the chart of accounts and the authoritative balances.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new chart of accounts registry.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	code := strings.TrimSpace(req.AccountCode)
	name := strings.TrimSpace(req.Name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}
	if !req.AccountType.Valid() {
		return nil, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.AccountType)
	}
	if !domain.FitsAmountScale(req.OpeningBalance) {
		return nil, ErrAmountScale
	}

	if _, err := s.accountRepo.FindAccountByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateAccountCode, code)
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code", slog.String("account_code", code))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}

	level := 1
	parentID := ""
	if req.ParentAccountID != nil && strings.TrimSpace(*req.ParentAccountID) != "" {
		parentID = strings.TrimSpace(*req.ParentAccountID)
		parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, parentID)
			}
			return nil, fmt.Errorf("failed to load parent account: %w", err)
		}
		level = parent.Level + 1
	}

	now := s.Now()
	opening := req.OpeningBalance
	account := domain.Account{
		AccountID:       uuid.NewString(),
		AccountCode:     code,
		Name:            name,
		NameEn:          strings.TrimSpace(req.NameEn),
		AccountType:     req.AccountType,
		ParentAccountID: parentID,
		Level:           level,
		OpeningBalance:  opening,
		CurrentBalance:  opening,
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAccountCode, code)
		}
		s.LogError(ctx, err, "Failed to save account", slog.String("account_code", code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.String("account_code", code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, activeOnly)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return fmt.Errorf("%w: %s", ErrAccountInactive, accountID)
	}
	if !account.CurrentBalance.IsZero() {
		return fmt.Errorf("%w: %s has balance %s", ErrAccountHasBalance, account.AccountCode, account.CurrentBalance.StringFixed(2))
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, s.Now()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Lost a race with another deactivation.
			return fmt.Errorf("%w: %s", ErrAccountInactive, accountID)
		}
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	s.LogInfo(ctx, "Account deactivated", slog.String("account_id", accountID))
	return nil
}

// ApplyDeltas locks every touched account, applies the normal-balance rule and
// writes the new balances. A missing account returns apperrors.ErrNotFound.
func (s *accountService) ApplyDeltas(ctx context.Context, deltas []domain.BalanceDelta, userID string) error {
	if len(deltas) == 0 {
		return nil
	}
	ids := make([]string, len(deltas))
	for i, d := range deltas {
		ids[i] = d.AccountID
	}

	accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, uniqueStrings(ids))
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}

	balances := make(map[string]decimal.Decimal, len(deltas))
	for _, d := range deltas {
		account, ok := accounts[d.AccountID]
		if !ok {
			return apperrors.NewNotFoundError("account", d.AccountID)
		}
		if current, seen := balances[d.AccountID]; seen {
			account.CurrentBalance = current
		}
		balances[d.AccountID] = account.ApplyDelta(d.Debit, d.Credit)
	}

	if err := s.accountRepo.UpdateAccountBalances(ctx, balances, userID, s.Now()); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}
