package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
)

// ListEntriesFilter selects and pages journal entries.
type ListEntriesFilter struct {
	Status    *domain.EntryStatus
	Limit     int
	NextToken *string
}

// EntryTransition describes a compare-and-set on an entry's status.
type EntryTransition struct {
	EntryID string
	From    domain.EntryStatus
	To      domain.EntryStatus
	Actor   string
	At      time.Time
}

// JournalReader defines read operations for journal entries.
type JournalReader interface {
	// FindEntryByID retrieves the entry header. Lines are not loaded.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	// FindLinesByEntryID retrieves the entry's lines ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)
	// ListEntries returns entries newest first and a token for the next page, if any.
	ListEntries(ctx context.Context, filter ListEntriesFilter) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entries.
type JournalWriter interface {
	// SaveEntry inserts the entry header and all of its lines.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error
	// TransitionStatus sets the status to t.To only if it currently equals t.From.
	// It reports whether a row changed; false means another caller won or the entry is absent.
	TransitionStatus(ctx context.Context, t EntryTransition) (bool, error)
}

// JournalRepositoryFacade combines all journal entry storage operations.
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
