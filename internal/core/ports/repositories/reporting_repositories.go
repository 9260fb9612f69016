package repositories

import (
	"context"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
)

// ReportingRepositoryFacade defines the read path used by ledger reports.
type ReportingRepositoryFacade interface {
	// AggregateActivity returns every account with the debit and credit totals of
	// its lines on posted entries dated inside window, read from one consistent
	// snapshot. Accounts without activity carry zero totals. Ordered by account code.
	AggregateActivity(ctx context.Context, window domain.ActivityWindow) ([]domain.AccountActivity, error)
}
