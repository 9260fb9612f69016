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

const invoiceNumberWidth = 6

type invoiceService struct {
	BaseService
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	accountRepo  portsrepo.AccountReader
	sequenceRepo portsrepo.SequenceRepositoryFacade
	txManager    portsrepo.TransactionManager
	journal      portssvc.JournalWriterSvc
	posting      portssvc.PostingSvcFacade
}

// NewInvoiceService creates the sales/purchase invoice producer. Like vouchers,
// invoices only reach the balances through the journal and posting services.
func NewInvoiceService(
	invoiceRepo portsrepo.InvoiceRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	sequenceRepo portsrepo.SequenceRepositoryFacade,
	txManager portsrepo.TransactionManager,
	journal portssvc.JournalWriterSvc,
	posting portssvc.PostingSvcFacade,
) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:  invoiceRepo,
		accountRepo:  accountRepo,
		sequenceRepo: sequenceRepo,
		txManager:    txManager,
		journal:      journal,
		posting:      posting,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func invoiceSequence(kind domain.InvoiceKind) string {
	return "invoice_" + string(kind)
}

func (s *invoiceService) CreateInvoice(ctx context.Context, kind domain.InvoiceKind, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown invoice kind %q", apperrors.ErrValidation, kind)
	}
	invoiceDate, err := parseDate("invoiceDate", req.InvoiceDate)
	if err != nil {
		return nil, err
	}
	partyName := strings.TrimSpace(req.PartyName)
	if partyName == "" {
		return nil, fmt.Errorf("%w: partyName is required", apperrors.ErrValidation)
	}

	invoice := domain.Invoice{
		InvoiceID:      uuid.NewString(),
		Kind:           kind,
		InvoiceDate:    invoiceDate,
		PartyName:      partyName,
		PartyAccountID: strings.TrimSpace(req.PartyAccountID),
		ItemsAccountID: strings.TrimSpace(req.ItemsAccountID),
		DiscountAmount: req.DiscountAmount,
		TaxAmount:      req.TaxAmount,
		Notes:          req.Notes,
		Items:          make([]domain.InvoiceItem, len(req.Items)),
	}
	if req.TaxAccountID != nil && strings.TrimSpace(*req.TaxAccountID) != "" {
		taxID := strings.TrimSpace(*req.TaxAccountID)
		invoice.TaxAccountID = &taxID
	}
	for i, it := range req.Items {
		invoice.Items[i] = domain.InvoiceItem{
			Description:    strings.TrimSpace(it.Description),
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			DiscountAmount: it.DiscountAmount,
		}
	}
	if err := validateInvoice(&invoice); err != nil {
		return nil, err
	}
	invoice.ComputeTotals()
	if invoice.DiscountAmount.GreaterThan(invoice.Subtotal) {
		return nil, fmt.Errorf("%w: discountAmount %s exceeds subtotal %s", apperrors.ErrValidation,
			invoice.DiscountAmount.StringFixed(2), invoice.Subtotal.StringFixed(2))
	}
	if !invoice.TotalAmount.IsPositive() {
		return nil, fmt.Errorf("%w: invoice total must be greater than zero", apperrors.ErrValidation)
	}

	accountIDs := []string{invoice.PartyAccountID, invoice.ItemsAccountID}
	if invoice.TaxAccountID != nil {
		accountIDs = append(accountIDs, *invoice.TaxAccountID)
	}
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve invoice accounts: %w", err)
	}
	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidAccountReference, id)
		}
	}

	now := s.Now()
	invoice.AuditFields = domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     creatorUserID,
		LastUpdatedAt: now,
		LastUpdatedBy: creatorUserID,
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		seq, err := s.sequenceRepo.NextValue(txCtx, invoiceSequence(kind))
		if err != nil {
			return fmt.Errorf("failed to allocate invoice number: %w", err)
		}
		invoice.InvoiceNumber = domain.FormatSequenceNumber(kind.NumberPrefix(), invoiceNumberWidth, seq)

		description := fmt.Sprintf("%s invoice %s: %s", kind, invoice.InvoiceNumber, partyName)
		reference := invoice.InvoiceNumber
		entry, err := s.journal.CreateEntry(txCtx, dto.CreateJournalEntryRequest{
			EntryDate:   req.InvoiceDate,
			Description: description,
			Reference:   &reference,
			Lines:       invoiceLines(&invoice, description),
		}, creatorUserID)
		if err != nil {
			return err
		}
		invoice.PostingState = domain.NewPostingState(entry.EntryID, entry.Status)
		return s.invoiceRepo.SaveInvoice(txCtx, invoice)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create invoice", slog.String("kind", string(kind)))
		return nil, err
	}

	s.LogInfo(ctx, "Invoice created",
		slog.String("invoice_id", invoice.InvoiceID),
		slog.String("invoice_number", invoice.InvoiceNumber),
		slog.String("total", invoice.TotalAmount.String()),
		slog.String("journal_entry_id", invoice.JournalEntryID))
	return &invoice, nil
}

func validateInvoice(inv *domain.Invoice) error {
	if inv.PartyAccountID == "" || inv.ItemsAccountID == "" || inv.PartyAccountID == inv.ItemsAccountID {
		return fmt.Errorf("%w: party and items accounts must be two different accounts", apperrors.ErrValidation)
	}
	if inv.DiscountAmount.IsNegative() || inv.TaxAmount.IsNegative() {
		return fmt.Errorf("%w: discountAmount and taxAmount must not be negative", apperrors.ErrValidation)
	}
	if inv.TaxAmount.IsPositive() && inv.TaxAccountID == nil {
		return fmt.Errorf("%w: taxAccountID is required when taxAmount is set", apperrors.ErrValidation)
	}
	if inv.TaxAccountID != nil && (*inv.TaxAccountID == inv.PartyAccountID || *inv.TaxAccountID == inv.ItemsAccountID) {
		return fmt.Errorf("%w: tax account must differ from party and items accounts", apperrors.ErrValidation)
	}
	if !domain.FitsAmountScale(inv.DiscountAmount) || !domain.FitsAmountScale(inv.TaxAmount) {
		return ErrAmountScale
	}
	if len(inv.Items) == 0 {
		return fmt.Errorf("%w: invoice must have at least one item", apperrors.ErrValidation)
	}
	for i, it := range inv.Items {
		if it.Description == "" {
			return fmt.Errorf("%w: item %d is missing a description", apperrors.ErrValidation, i+1)
		}
		if !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() || it.DiscountAmount.IsNegative() {
			return fmt.Errorf("%w: item %d needs a positive quantity and non-negative price and discount", apperrors.ErrValidation, i+1)
		}
		if !domain.FitsAmountScale(it.Quantity) || !domain.FitsAmountScale(it.UnitPrice) || !domain.FitsAmountScale(it.DiscountAmount) {
			return fmt.Errorf("%w (item %d)", ErrAmountScale, i+1)
		}
		if it.DiscountAmount.GreaterThan(it.Quantity.Mul(it.UnitPrice)) {
			return fmt.Errorf("%w: item %d discount exceeds its amount", apperrors.ErrValidation, i+1)
		}
	}
	return nil
}

// invoiceLines builds the balanced entry for the invoice. Zero-amount lines are
// left out, so a fully discounted invoice with tax only books the tax.
func invoiceLines(inv *domain.Invoice, description string) []dto.CreateJournalLineRequest {
	debit := func(accountID string, amount decimal.Decimal) dto.CreateJournalLineRequest {
		return dto.CreateJournalLineRequest{AccountID: accountID, DebitAmount: amount, CreditAmount: decimal.Zero, Description: description}
	}
	credit := func(accountID string, amount decimal.Decimal) dto.CreateJournalLineRequest {
		return dto.CreateJournalLineRequest{AccountID: accountID, DebitAmount: decimal.Zero, CreditAmount: amount, Description: description}
	}
	net := inv.NetAmount()

	var lines []dto.CreateJournalLineRequest
	if inv.Kind == domain.SalesInvoice {
		lines = append(lines, debit(inv.PartyAccountID, inv.TotalAmount))
		if net.IsPositive() {
			lines = append(lines, credit(inv.ItemsAccountID, net))
		}
		if inv.TaxAmount.IsPositive() {
			lines = append(lines, credit(*inv.TaxAccountID, inv.TaxAmount))
		}
		return lines
	}
	if net.IsPositive() {
		lines = append(lines, debit(inv.ItemsAccountID, net))
	}
	if inv.TaxAmount.IsPositive() {
		lines = append(lines, debit(*inv.TaxAccountID, inv.TaxAmount))
	}
	return append(lines, credit(inv.PartyAccountID, inv.TotalAmount))
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get invoice", slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	filter := portsrepo.ListInvoicesFilter{
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if params.Kind != "" {
		kind := domain.InvoiceKind(params.Kind)
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: invalid invoice kind %q", apperrors.ErrValidation, params.Kind)
		}
		filter.Kind = &kind
	}

	invoices, next, err := s.invoiceRepo.ListInvoices(ctx, filter)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to list invoices")
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return dto.ToListInvoicesResponse(invoices, next), nil
}

// PostInvoice posts the invoice's journal entry; the invoice's posting state
// follows from the entry.
func (s *invoiceService) PostInvoice(ctx context.Context, invoiceID string, actor string) (*domain.Invoice, error) {
	inv, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.posting.PostEntry(ctx, inv.JournalEntryID, actor); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Invoice posted", slog.String("invoice_id", invoiceID), slog.String("journal_entry_id", inv.JournalEntryID))
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}
