package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/ledger_backend/internal/dto"
	"github.com/SscSPs/ledger_backend/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalEntrySequence is the counter backing journal entry numbers.
const JournalEntrySequence = "journal_entry"

const (
	defaultEntryPrefix = "JE-"
	defaultEntryWidth  = 6
	defaultListLimit   = 20
)

type journalService struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountReader
	sequenceRepo portsrepo.SequenceRepositoryFacade
	txManager    portsrepo.TransactionManager
	metrics      *metrics.LedgerMetrics
	prefix       string
	width        int
}

// JournalServiceOption configures the journal service.
type JournalServiceOption func(*journalService)

// WithEntryNumberFormat sets the entry number prefix and zero-padded width.
func WithEntryNumberFormat(prefix string, width int) JournalServiceOption {
	return func(s *journalService) {
		if prefix != "" {
			s.prefix = prefix
		}
		if width > 0 {
			s.width = width
		}
	}
}

// WithJournalMetrics records created entries on m.
func WithJournalMetrics(m *metrics.LedgerMetrics) JournalServiceOption {
	return func(s *journalService) {
		s.metrics = m
	}
}

// NewJournalService creates the journal entry manager.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	sequenceRepo portsrepo.SequenceRepositoryFacade,
	txManager portsrepo.TransactionManager,
	opts ...JournalServiceOption,
) portssvc.JournalSvcFacade {
	s := &journalService{
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
		sequenceRepo: sequenceRepo,
		txManager:    txManager,
		prefix:       defaultEntryPrefix,
		width:        defaultEntryWidth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// parseDate parses a YYYY-MM-DD calendar date.
func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(domain.DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", apperrors.ErrValidation, field)
	}
	return t, nil
}

// CreateEntry validates the lines, then writes the entry number, header and
// lines in one transaction. Nothing is written when validation fails.
func (s *journalService) CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	entryDate, err := parseDate("entryDate", req.EntryDate)
	if err != nil {
		return nil, err
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if len(req.Lines) == 0 {
		return nil, ErrEntryEmpty
	}

	totalDebit, totalCredit := decimal.Zero, decimal.Zero
	accountIDs := make([]string, 0, len(req.Lines))
	for i, l := range req.Lines {
		if strings.TrimSpace(l.AccountID) == "" {
			return nil, fmt.Errorf("%w: line %d is missing accountID", apperrors.ErrValidation, i+1)
		}
		if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
			return nil, fmt.Errorf("%w (line %d)", ErrNegativeAmount, i+1)
		}
		if !domain.FitsAmountScale(l.DebitAmount) || !domain.FitsAmountScale(l.CreditAmount) {
			return nil, fmt.Errorf("%w (line %d)", ErrAmountScale, i+1)
		}
		totalDebit = totalDebit.Add(l.DebitAmount)
		totalCredit = totalCredit.Add(l.CreditAmount)
		accountIDs = append(accountIDs, strings.TrimSpace(l.AccountID))
	}
	if !domain.IsBalanced(totalDebit, totalCredit) {
		return nil, fmt.Errorf("%w: debit %s, credit %s", ErrEntryUnbalanced, totalDebit.StringFixed(2), totalCredit.StringFixed(2))
	}

	// Names are a display snapshot only; an unknown account keeps its reference
	// and is rejected later when the entry is posted.
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		s.LogError(ctx, err, "Failed to resolve account names for entry")
		return nil, fmt.Errorf("failed to resolve accounts: %w", err)
	}

	now := s.Now()
	entry := domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryDate:   entryDate,
		Reference:   req.Reference,
		Description: description,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
		Status:      domain.EntryDraft,
		CreatedAt:   now,
		CreatedBy:   creatorUserID,
	}

	lines := make([]domain.JournalEntryLine, len(req.Lines))
	for i, l := range req.Lines {
		accountID := accountIDs[i]
		lines[i] = domain.JournalEntryLine{
			LineID:         uuid.NewString(),
			JournalEntryID: entry.EntryID,
			AccountID:      accountID,
			AccountName:    accounts[accountID].Name,
			Description:    strings.TrimSpace(l.Description),
			DebitAmount:    l.DebitAmount,
			CreditAmount:   l.CreditAmount,
			LineNumber:     i + 1,
		}
		if _, ok := accounts[accountID]; !ok {
			s.LogWarn(ctx, "Journal line references unknown account", slog.String("account_id", accountID), slog.Int("line_number", i+1))
		}
	}

	err = s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		seq, err := s.sequenceRepo.NextValue(txCtx, JournalEntrySequence)
		if err != nil {
			return fmt.Errorf("failed to allocate entry number: %w", err)
		}
		entry.EntryNumber = domain.FormatSequenceNumber(s.prefix, s.width, seq)
		if err := s.journalRepo.SaveEntry(txCtx, entry, lines); err != nil {
			return err
		}
		portsrepo.AfterCommit(txCtx, func() {
			s.metrics.IncEntriesCreated()
			s.LogInfo(ctx, "Journal entry created",
				slog.String("entry_id", entry.EntryID),
				slog.String("entry_number", entry.EntryNumber),
				slog.Int("line_count", len(lines)))
		})
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create journal entry")
		return nil, err
	}

	entry.Lines = lines
	return &entry, nil
}

func (s *journalService) GetEntryWithLines(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get journal entry lines", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to load lines: %w", err)
	}
	entry.Lines = lines
	return entry, nil
}

func (s *journalService) ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error) {
	filter := portsrepo.ListEntriesFilter{
		Limit:     params.Limit,
		NextToken: params.NextToken,
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	if params.Status != "" {
		status := domain.EntryStatus(params.Status)
		if !status.Valid() {
			return nil, fmt.Errorf("%w: invalid status %q", apperrors.ErrValidation, params.Status)
		}
		filter.Status = &status
	}

	entries, next, err := s.journalRepo.ListEntries(ctx, filter)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	return dto.ToListJournalEntriesResponse(entries, next), nil
}
