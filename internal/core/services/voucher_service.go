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

const voucherNumberWidth = 6

type voucherService struct {
	BaseService
	voucherRepo  portsrepo.VoucherRepositoryFacade
	accountRepo  portsrepo.AccountReader
	sequenceRepo portsrepo.SequenceRepositoryFacade
	txManager    portsrepo.TransactionManager
	journal      portssvc.JournalWriterSvc
	posting      portssvc.PostingSvcFacade
}

// NewVoucherService creates the payment/receipt voucher producer. Vouchers
// never touch balances directly; they go through the journal and posting services.
func NewVoucherService(
	voucherRepo portsrepo.VoucherRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	sequenceRepo portsrepo.SequenceRepositoryFacade,
	txManager portsrepo.TransactionManager,
	journal portssvc.JournalWriterSvc,
	posting portssvc.PostingSvcFacade,
) portssvc.VoucherSvcFacade {
	return &voucherService{
		voucherRepo:  voucherRepo,
		accountRepo:  accountRepo,
		sequenceRepo: sequenceRepo,
		txManager:    txManager,
		journal:      journal,
		posting:      posting,
	}
}

var _ portssvc.VoucherSvcFacade = (*voucherService)(nil)

func voucherSequence(kind domain.VoucherKind) string {
	return "voucher_" + string(kind)
}

func (s *voucherService) CreateVoucher(ctx context.Context, kind domain.VoucherKind, req dto.CreateVoucherRequest, creatorUserID string) (*domain.Voucher, error) {
	if kind != domain.PaymentVoucher && kind != domain.ReceiptVoucher {
		return nil, fmt.Errorf("%w: unknown voucher kind %q", apperrors.ErrValidation, kind)
	}
	voucherDate, err := parseDate("voucherDate", req.VoucherDate)
	if err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidation)
	}
	if !domain.FitsAmountScale(req.Amount) {
		return nil, ErrAmountScale
	}
	cashID := strings.TrimSpace(req.CashAccountID)
	counterID := strings.TrimSpace(req.CounterAccountID)
	if cashID == "" || counterID == "" || cashID == counterID {
		return nil, fmt.Errorf("%w: cash and counter accounts must be two different accounts", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{cashID, counterID})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve voucher accounts: %w", err)
	}
	for _, id := range []string{cashID, counterID} {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAccountReference, id)
		}
	}

	debitID, creditID := counterID, cashID
	if kind == domain.ReceiptVoucher {
		debitID, creditID = cashID, counterID
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = fmt.Sprintf("%s voucher: %s", kind, req.Counterparty)
	}

	now := s.Now()
	voucher := domain.Voucher{
		VoucherID:        uuid.NewString(),
		Kind:             kind,
		VoucherDate:      voucherDate,
		Counterparty:     strings.TrimSpace(req.Counterparty),
		Amount:           req.Amount,
		PaymentMethod:    req.PaymentMethod,
		CashAccountID:    cashID,
		CounterAccountID: counterID,
		CheckNumber:      req.CheckNumber,
		Reference:        req.Reference,
		Description:      description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		seq, err := s.sequenceRepo.NextValue(txCtx, voucherSequence(kind))
		if err != nil {
			return fmt.Errorf("failed to allocate voucher number: %w", err)
		}
		voucher.VoucherNumber = domain.FormatSequenceNumber(kind.NumberPrefix(), voucherNumberWidth, seq)

		reference := voucher.VoucherNumber
		entry, err := s.journal.CreateEntry(txCtx, dto.CreateJournalEntryRequest{
			EntryDate:   req.VoucherDate,
			Description: description,
			Reference:   &reference,
			Lines: []dto.CreateJournalLineRequest{
				{AccountID: debitID, DebitAmount: req.Amount, CreditAmount: decimal.Zero, Description: description},
				{AccountID: creditID, DebitAmount: decimal.Zero, CreditAmount: req.Amount, Description: description},
			},
		}, creatorUserID)
		if err != nil {
			return err
		}
		voucher.PostingState = domain.NewPostingState(entry.EntryID, entry.Status)
		return s.voucherRepo.SaveVoucher(txCtx, voucher)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create voucher", slog.String("kind", string(kind)))
		return nil, err
	}

	s.LogInfo(ctx, "Voucher created",
		slog.String("voucher_id", voucher.VoucherID),
		slog.String("voucher_number", voucher.VoucherNumber),
		slog.String("journal_entry_id", voucher.JournalEntryID))
	return &voucher, nil
}

func (s *voucherService) GetVoucher(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get voucher", slog.String("voucher_id", voucherID))
		}
		return nil, err
	}
	return v, nil
}

// PostVoucher posts the voucher's journal entry. The voucher's posting state is
// read from that entry, so posting or cancelling the entry directly shows up here too.
func (s *voucherService) PostVoucher(ctx context.Context, voucherID string, actor string) (*domain.Voucher, error) {
	v, err := s.voucherRepo.FindVoucherByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	if _, err := s.posting.PostEntry(ctx, v.JournalEntryID, actor); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Voucher posted", slog.String("voucher_id", voucherID), slog.String("journal_entry_id", v.JournalEntryID))
	return s.voucherRepo.FindVoucherByID(ctx, voucherID)
}
