package services

import (
	"context"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
)

// PostingSvcFacade drives the entry status state machine.
type PostingSvcFacade interface {
	// PostEntry moves a draft entry to posted and applies its balance deltas atomically.
	PostEntry(ctx context.Context, entryID string, actor string) (*domain.JournalEntry, error)
	// CancelEntry moves a draft or posted entry to cancelled. Cancelling a posted
	// entry applies the compensating deltas in the same transaction.
	CancelEntry(ctx context.Context, entryID string, actor string) (*domain.JournalEntry, error)
}
