package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
)

// ReportingSvcFacade defines read-only aggregations over posted entries.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, fromDate, toDate time.Time) (*domain.TrialBalance, error)
	IncomeStatement(ctx context.Context, fromDate, toDate time.Time) (*domain.IncomeStatement, error)
	BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error)
}
