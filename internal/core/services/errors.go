package services

import (
	"fmt"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
)

// Ledger errors. Each wraps an apperrors class so handlers can map by class
// while callers can still match the specific failure with errors.Is.
var (
	ErrEntryEmpty              = fmt.Errorf("%w: journal entry must have at least one line", apperrors.ErrValidation)
	ErrEntryUnbalanced         = fmt.Errorf("%w: journal entry debits and credits differ by more than 0.01", apperrors.ErrValidation)
	ErrNegativeAmount          = fmt.Errorf("%w: line amounts must not be negative", apperrors.ErrValidation)
	ErrAmountScale             = fmt.Errorf("%w: amounts must not have more than %d decimal places", apperrors.ErrValidation, domain.AmountScale)
	ErrInvalidAccountReference = fmt.Errorf("%w: journal line references an account that does not exist", apperrors.ErrValidation)
	ErrDuplicateAccountCode    = fmt.Errorf("%w: account code already exists", apperrors.ErrDuplicate)
	ErrEntryAlreadyPosted      = fmt.Errorf("%w: journal entry is already posted", apperrors.ErrConflict)
	ErrEntryCancelled          = fmt.Errorf("%w: journal entry is cancelled", apperrors.ErrConflict)
	ErrAccountInactive         = fmt.Errorf("%w: account is already inactive", apperrors.ErrConflict)
	ErrAccountHasBalance       = fmt.Errorf("%w: account with a non-zero balance cannot be deactivated", apperrors.ErrConflict)
)
