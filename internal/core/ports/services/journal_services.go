package services

import (
	"context"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/SscSPs/ledger_backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal entries.
type JournalReaderSvc interface {
	// GetEntryWithLines retrieves an entry and its lines ordered by line number.
	GetEntryWithLines(ctx context.Context, entryID string) (*domain.JournalEntry, error)
	// ListEntries retrieves a page of entries, newest first.
	ListEntries(ctx context.Context, params dto.ListJournalEntriesParams) (*dto.ListJournalEntriesResponse, error)
}

// JournalWriterSvc defines write operations for journal entries.
type JournalWriterSvc interface {
	// CreateEntry validates and persists a balanced draft entry with its lines.
	CreateEntry(ctx context.Context, req dto.CreateJournalEntryRequest, creatorUserID string) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces.
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
