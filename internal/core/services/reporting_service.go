package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService builds reports from a single AggregateActivity read, so a
// report always reflects one snapshot of the posted entries.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepositoryFacade
}

// NewReportingService creates the ledger reporting engine.
func NewReportingService(reportingRepo portsrepo.ReportingRepositoryFacade) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

func (s *reportingService) activity(ctx context.Context, window domain.ActivityWindow) ([]domain.AccountActivity, error) {
	rows, err := s.reportingRepo.AggregateActivity(ctx, window)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate ledger activity", slog.Time("to", window.To))
		return nil, fmt.Errorf("failed to aggregate ledger activity: %w", err)
	}
	return rows, nil
}

func checkPeriod(from, to time.Time) error {
	if from.After(to) {
		return fmt.Errorf("%w: fromDate must not be after toDate", apperrors.ErrValidation)
	}
	return nil
}

// TrialBalance lists every active account, including those without activity,
// and every inactive account that still has activity or a balance, so debit
// and credit totals agree whatever was deactivated. The closing balance applies
// the period's activity to the opening balance.
func (s *reportingService) TrialBalance(ctx context.Context, fromDate, toDate time.Time) (*domain.TrialBalance, error) {
	if err := checkPeriod(fromDate, toDate); err != nil {
		return nil, err
	}
	rows, err := s.activity(ctx, domain.ActivityWindow{From: &fromDate, To: toDate})
	if err != nil {
		return nil, err
	}

	report := &domain.TrialBalance{
		FromDate:     fromDate,
		ToDate:       toDate,
		Rows:         make([]domain.TrialBalanceRow, 0, len(rows)),
		TotalDebits:  decimal.Zero,
		TotalCredits: decimal.Zero,
	}
	for _, r := range rows {
		closing := r.Account.OpeningBalance.Add(domain.NormalBalanceDelta(r.Account.AccountType, r.TotalDebit, r.TotalCredit))
		if !r.Account.IsActive && r.TotalDebit.IsZero() && r.TotalCredit.IsZero() && closing.IsZero() {
			continue
		}
		report.Rows = append(report.Rows, domain.TrialBalanceRow{
			AccountID:      r.Account.AccountID,
			AccountCode:    r.Account.AccountCode,
			AccountName:    r.Account.Name,
			AccountType:    r.Account.AccountType,
			IsActive:       r.Account.IsActive,
			OpeningBalance: r.Account.OpeningBalance,
			TotalDebit:     r.TotalDebit,
			TotalCredit:    r.TotalCredit,
			ClosingBalance: closing,
		})
		report.TotalDebits = report.TotalDebits.Add(r.TotalDebit)
		report.TotalCredits = report.TotalCredits.Add(r.TotalCredit)
	}

	s.LogDebug(ctx, "Trial balance generated", slog.Int("rows", len(report.Rows)))
	return report, nil
}

// IncomeStatement reports revenue and expense accounts with non-zero net
// activity in the period. Inactive accounts count too: the income was earned
// whether or not the account is still open.
func (s *reportingService) IncomeStatement(ctx context.Context, fromDate, toDate time.Time) (*domain.IncomeStatement, error) {
	if err := checkPeriod(fromDate, toDate); err != nil {
		return nil, err
	}
	rows, err := s.activity(ctx, domain.ActivityWindow{From: &fromDate, To: toDate})
	if err != nil {
		return nil, err
	}

	report := &domain.IncomeStatement{
		FromDate:      fromDate,
		ToDate:        toDate,
		Revenues:      []domain.ReportLine{},
		Expenses:      []domain.ReportLine{},
		TotalRevenues: decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, r := range rows {
		t := r.Account.AccountType
		if t != domain.Revenue && t != domain.Expense {
			continue
		}
		net := domain.NormalBalanceDelta(t, r.TotalDebit, r.TotalCredit)
		if net.IsZero() {
			continue
		}
		line := reportLine(r.Account, net)
		if t == domain.Revenue {
			report.Revenues = append(report.Revenues, line)
			report.TotalRevenues = report.TotalRevenues.Add(net)
		} else {
			report.Expenses = append(report.Expenses, line)
			report.TotalExpenses = report.TotalExpenses.Add(net)
		}
	}
	report.NetIncome = report.TotalRevenues.Sub(report.TotalExpenses)
	return report, nil
}

// BalanceSheet reports asset, liability and equity balances from all posted
// activity up to and including asOf. Zero balances are omitted.
func (s *reportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	rows, err := s.activity(ctx, domain.ActivityWindow{To: asOf})
	if err != nil {
		return nil, err
	}

	report := &domain.BalanceSheet{
		AsOfDate:         asOf,
		Assets:           []domain.ReportLine{},
		Liabilities:      []domain.ReportLine{},
		Equity:           []domain.ReportLine{},
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
		UnclosedEarnings: decimal.Zero,
	}
	for _, r := range rows {
		t := r.Account.AccountType
		delta := domain.NormalBalanceDelta(t, r.TotalDebit, r.TotalCredit)
		switch t {
		case domain.Revenue:
			report.UnclosedEarnings = report.UnclosedEarnings.Add(delta)
			continue
		case domain.Expense:
			report.UnclosedEarnings = report.UnclosedEarnings.Sub(delta)
			continue
		}

		balance := r.Account.OpeningBalance.Add(delta)
		if balance.IsZero() {
			continue
		}
		line := reportLine(r.Account, balance)
		switch t {
		case domain.Asset:
			report.Assets = append(report.Assets, line)
			report.TotalAssets = report.TotalAssets.Add(balance)
		case domain.Liability:
			report.Liabilities = append(report.Liabilities, line)
			report.TotalLiabilities = report.TotalLiabilities.Add(balance)
		case domain.Equity:
			report.Equity = append(report.Equity, line)
			report.TotalEquity = report.TotalEquity.Add(balance)
		}
	}
	return report, nil
}

func reportLine(a domain.Account, amount decimal.Decimal) domain.ReportLine {
	return domain.ReportLine{
		AccountID:   a.AccountID,
		AccountCode: a.AccountCode,
		AccountName: a.Name,
		Amount:      amount,
	}
}
