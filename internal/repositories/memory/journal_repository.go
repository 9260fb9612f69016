package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_backend/internal/utils/pagination"
)

func (s *Store) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	return s.write(ctx, func() error {
		if _, taken := s.entries[entry.EntryID]; taken {
			return fmt.Errorf("%w: journal entry %s", apperrors.ErrDuplicate, entry.EntryID)
		}
		for _, e := range s.entries {
			if e.EntryNumber == entry.EntryNumber {
				return fmt.Errorf("%w: entry number %s", apperrors.ErrDuplicate, entry.EntryNumber)
			}
		}
		entry.Lines = nil
		s.entries[entry.EntryID] = entry
		s.lines[entry.EntryID] = slices.Clone(lines)
		return nil
	})
}

func (s *Store) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	var (
		entry domain.JournalEntry
		ok    bool
	)
	s.read(ctx, func() { entry, ok = s.entries[entryID] })
	if !ok {
		return nil, apperrors.NewNotFoundError("journal entry", entryID)
	}
	return &entry, nil
}

func (s *Store) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	var lines []domain.JournalEntryLine
	s.read(ctx, func() { lines = slices.Clone(s.lines[entryID]) })
	slices.SortFunc(lines, func(a, b domain.JournalEntryLine) int { return a.LineNumber - b.LineNumber })
	return lines, nil
}

func (s *Store) ListEntries(ctx context.Context, filter portsrepo.ListEntriesFilter) ([]domain.JournalEntry, *string, error) {
	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	var all []domain.JournalEntry
	s.read(ctx, func() {
		all = make([]domain.JournalEntry, 0, len(s.entries))
		for _, e := range s.entries {
			if filter.Status != nil && e.Status != *filter.Status {
				continue
			}
			if cursor != nil && !cursor.Before(e.EntryDate, e.CreatedAt, e.EntryID) {
				continue
			}
			all = append(all, e)
		}
	})
	slices.SortFunc(all, func(a, b domain.JournalEntry) int {
		if c := b.EntryDate.Compare(a.EntryDate); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.EntryID, a.EntryID)
	})

	if len(all) <= filter.Limit {
		return all, nil, nil
	}
	page := all[:filter.Limit]
	last := page[len(page)-1]
	next := pagination.EncodeToken(pagination.Cursor{Date: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.EntryID})
	return page, &next, nil
}

func (s *Store) TransitionStatus(ctx context.Context, t portsrepo.EntryTransition) (bool, error) {
	changed := false
	err := s.write(ctx, func() error {
		e, ok := s.entries[t.EntryID]
		if !ok || e.Status != t.From {
			return nil
		}
		e.Status = t.To
		actor, at := t.Actor, t.At
		switch t.To {
		case domain.EntryPosted:
			e.PostedBy, e.PostedAt = &actor, &at
		case domain.EntryCancelled:
			e.CancelledBy, e.CancelledAt = &actor, &at
		}
		s.entries[t.EntryID] = e
		changed = true
		return nil
	})
	return changed, err
}
