package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/ledger_backend/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	return m.Called(ctx, accountID, userID).Error(0)
}

func (m *MockAccountService) ApplyDeltas(ctx context.Context, deltas []domain.BalanceDelta, userID string) error {
	return m.Called(ctx, deltas, userID).Error(0)
}

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) GetEntryWithLines(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListJournalEntriesResponse), args.Error(1)
}

func (m *MockJournalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock PostingService ---
type MockPostingService struct {
	mock.Mock
}

var _ portssvc.PostingSvcFacade = (*MockPostingService)(nil)

func (m *MockPostingService) PostEntry(ctx context.Context, entryID string, actor string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockPostingService) CancelEntry(ctx context.Context, entryID string, actor string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingSvcFacade = (*MockReportingService)(nil)

func (m *MockReportingService) TrialBalance(ctx context.Context, fromDate, toDate time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, fromDate, toDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockReportingService) IncomeStatement(ctx context.Context, fromDate, toDate time.Time) (*domain.IncomeStatement, error) {
	args := m.Called(ctx, fromDate, toDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeStatement), args.Error(1)
}

func (m *MockReportingService) BalanceSheet(ctx context.Context, asOf time.Time) (*domain.BalanceSheet, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BalanceSheet), args.Error(1)
}

// --- Mock VoucherService ---
type MockVoucherService struct {
	mock.Mock
}

var _ portssvc.VoucherSvcFacade = (*MockVoucherService)(nil)

func (m *MockVoucherService) CreateVoucher(ctx context.Context, kind domain.VoucherKind, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	args := m.Called(ctx, kind, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) GetVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

func (m *MockVoucherService) PostVoucher(ctx context.Context, voucherID string, actor string) (*domain.Voucher, error) {
	args := m.Called(ctx, voucherID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Voucher), args.Error(1)
}

// --- Mock InvoiceService ---
type MockInvoiceService struct {
	mock.Mock
}

var _ portssvc.InvoiceSvcFacade = (*MockInvoiceService)(nil)

func (m *MockInvoiceService) CreateInvoice(ctx context.Context, kind domain.InvoiceKind, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	args := m.Called(ctx, kind, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListInvoicesResponse), args.Error(1)
}

func (m *MockInvoiceService) PostInvoice(ctx context.Context, invoiceID string, actor string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}
