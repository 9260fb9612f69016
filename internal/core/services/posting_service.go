package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/ledger_backend/internal/platform/metrics"
)

// postingService moves entries through draft -> posted -> cancelled. Every
// transition is a compare-and-set on the stored status, made in the same
// transaction as the balance changes it implies.
type postingService struct {
	BaseService
	journalRepo portsrepo.JournalRepositoryFacade
	balances    portssvc.AccountBalanceSvc
	txManager   portsrepo.TransactionManager
	metrics     *metrics.LedgerMetrics
}

// PostingServiceOption configures the posting service.
type PostingServiceOption func(*postingService)

// WithPostingMetrics records transition outcomes on m.
func WithPostingMetrics(m *metrics.LedgerMetrics) PostingServiceOption {
	return func(s *postingService) {
		s.metrics = m
	}
}

// NewPostingService creates the posting engine.
func NewPostingService(
	journalRepo portsrepo.JournalRepositoryFacade,
	balances portssvc.AccountBalanceSvc,
	txManager portsrepo.TransactionManager,
	opts ...PostingServiceOption,
) portssvc.PostingSvcFacade {
	s := &postingService{
		journalRepo: journalRepo,
		balances:    balances,
		txManager:   txManager,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

func (s *postingService) PostEntry(ctx context.Context, entryID string, actor string) (*domain.JournalEntry, error) {
	start := time.Now()
	logger := s.GetLogger(ctx).With(slog.String("entry_id", entryID))

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		changed, err := s.journalRepo.TransitionStatus(txCtx, portsrepo.EntryTransition{
			EntryID: entryID,
			From:    domain.EntryDraft,
			To:      domain.EntryPosted,
			Actor:   actor,
			At:      s.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to transition entry: %w", err)
		}
		if !changed {
			return s.explainFailedTransition(txCtx, entryID)
		}
		if err := s.applyLines(txCtx, entryID, actor, false); err != nil {
			return err
		}
		portsrepo.AfterCommit(txCtx, func() {
			s.metrics.ObservePosting(metrics.OpPost, metrics.ResultSuccess, time.Since(start))
			logger.Info("Journal entry posted", slog.String("posted_by", actor))
		})
		return nil
	})
	if err != nil {
		s.metrics.ObservePosting(metrics.OpPost, outcome(err), time.Since(start))
		if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, apperrors.ErrValidation) || errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Journal entry not posted", slog.String("reason", err.Error()))
		} else {
			s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return s.loadEntry(ctx, entryID)
}

// CancelEntry cancels a draft without balance effect, or reverses a posted
// entry by applying each line with debit and credit swapped.
func (s *postingService) CancelEntry(ctx context.Context, entryID string, actor string) (*domain.JournalEntry, error) {
	start := time.Now()

	err := s.txManager.WithinTransaction(ctx, func(txCtx context.Context) error {
		entry, err := s.journalRepo.FindEntryByID(txCtx, entryID)
		if err != nil {
			return err
		}
		if entry.Status == domain.EntryCancelled {
			return fmt.Errorf("%w: %s", ErrEntryCancelled, entryID)
		}

		changed, err := s.journalRepo.TransitionStatus(txCtx, portsrepo.EntryTransition{
			EntryID: entryID,
			From:    entry.Status,
			To:      domain.EntryCancelled,
			Actor:   actor,
			At:      s.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to transition entry: %w", err)
		}
		if !changed {
			return fmt.Errorf("%w: entry %s changed concurrently", apperrors.ErrConflict, entryID)
		}
		if entry.Status == domain.EntryPosted {
			if err := s.applyLines(txCtx, entryID, actor, true); err != nil {
				return err
			}
		}
		portsrepo.AfterCommit(txCtx, func() {
			s.metrics.ObservePosting(metrics.OpCancel, metrics.ResultSuccess, time.Since(start))
			s.LogInfo(ctx, "Journal entry cancelled", slog.String("entry_id", entryID), slog.String("cancelled_by", actor))
		})
		return nil
	})
	if err != nil {
		s.metrics.ObservePosting(metrics.OpCancel, outcome(err), time.Since(start))
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to cancel journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return s.loadEntry(ctx, entryID)
}

// applyLines aggregates the entry's lines per account and applies them, or
// their reversal, to the account balances.
func (s *postingService) applyLines(ctx context.Context, entryID string, actor string, reverse bool) error {
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to load lines: %w", err)
	}
	deltas := domain.AggregateDeltas(lines)
	if reverse {
		for i := range deltas {
			deltas[i] = deltas[i].Reversed()
		}
	}
	if err := s.balances.ApplyDeltas(ctx, deltas, actor); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: %v", ErrInvalidAccountReference, err)
		}
		return err
	}
	return nil
}

// explainFailedTransition reports why a draft -> posted compare-and-set matched no row.
func (s *postingService) explainFailedTransition(ctx context.Context, entryID string) error {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	switch entry.Status {
	case domain.EntryPosted:
		return fmt.Errorf("%w: %s", ErrEntryAlreadyPosted, entry.EntryNumber)
	case domain.EntryCancelled:
		return fmt.Errorf("%w: %s", ErrEntryCancelled, entry.EntryNumber)
	default:
		return fmt.Errorf("%w: entry %s changed concurrently", apperrors.ErrConflict, entryID)
	}
}

func (s *postingService) loadEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines = lines
	return entry, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, apperrors.ErrConflict):
		return metrics.ResultConflict
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrNotFound):
		return metrics.ResultRejected
	default:
		return metrics.ResultFailed
	}
}
