package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAccount(id, code string, t domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:      id,
		AccountCode:    code,
		Name:           "Account " + code,
		AccountType:    t,
		Level:          1,
		OpeningBalance: decimal.Zero,
		CurrentBalance: decimal.Zero,
		IsActive:       true,
	}
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveAccount(ctx, testAccount("a1", "1000", domain.Asset)))

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.NextValue(txCtx, "journal_entry"); err != nil {
			return err
		}
		if err := s.SaveAccount(txCtx, testAccount("a2", "2000", domain.Liability)); err != nil {
			return err
		}
		if err := s.UpdateAccountBalances(txCtx, map[string]decimal.Decimal{"a1": decimal.NewFromInt(99)}, "u", time.Now()); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.FindAccountByID(ctx, "a2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	a1, err := s.FindAccountByID(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, a1.CurrentBalance.IsZero())

	next, err := s.NextValue(ctx, "journal_entry")
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestAfterCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("runs once the outermost transaction commits", func(t *testing.T) {
		s := NewStore()
		var events []string
		err := s.WithinTransaction(ctx, func(txCtx context.Context) error {
			err := s.WithinTransaction(txCtx, func(inner context.Context) error {
				portsrepo.AfterCommit(inner, func() { events = append(events, "inner") })
				return s.SaveAccount(inner, testAccount("a1", "1000", domain.Asset))
			})
			events = append(events, "inner returned")
			portsrepo.AfterCommit(txCtx, func() {
				// Hooks run after the store lock is released.
				_, err := s.FindAccountByID(ctx, "a1")
				assert.NoError(t, err)
				events = append(events, "outer")
			})
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"inner returned", "inner", "outer"}, events)
	})

	t.Run("dropped on rollback", func(t *testing.T) {
		s := NewStore()
		ran := false
		boom := errors.New("boom")
		err := s.WithinTransaction(ctx, func(txCtx context.Context) error {
			portsrepo.AfterCommit(txCtx, func() { ran = true })
			return boom
		})
		require.ErrorIs(t, err, boom)
		assert.False(t, ran)
	})

	t.Run("immediate outside a transaction", func(t *testing.T) {
		ran := false
		portsrepo.AfterCommit(ctx, func() { ran = true })
		assert.True(t, ran)
	})
}

func TestBalanceWritesRequireTransaction(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	_, err := s.FindAccountsByIDsForUpdate(ctx, []string{"x"})
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	err = s.UpdateAccountBalances(ctx, map[string]decimal.Decimal{}, "u", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestSaveAccount_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	require.NoError(t, s.SaveAccount(ctx, testAccount("a1", "1000", domain.Asset)))
	err := s.SaveAccount(ctx, testAccount("a2", "1000", domain.Asset))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestTransitionStatus_CompareAndSet(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	entry := domain.JournalEntry{EntryID: "e1", EntryNumber: "JE-000001", Status: domain.EntryDraft}
	require.NoError(t, s.SaveEntry(ctx, entry, nil))

	tr := portsrepo.EntryTransition{EntryID: "e1", From: domain.EntryDraft, To: domain.EntryPosted, Actor: "u1", At: time.Now()}
	changed, err := s.TransitionStatus(ctx, tr)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.TransitionStatus(ctx, tr)
	require.NoError(t, err)
	assert.False(t, changed)

	got, err := s.FindEntryByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPosted, got.Status)
	require.NotNil(t, got.PostedBy)
	assert.Equal(t, "u1", *got.PostedBy)
}

func TestListEntries_PagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		e := domain.JournalEntry{
			EntryID:     string(rune('a' + i)),
			EntryNumber: domain.FormatSequenceNumber("JE-", 6, int64(i+1)),
			EntryDate:   base.AddDate(0, 0, i),
			CreatedAt:   base,
			Status:      domain.EntryDraft,
		}
		require.NoError(t, s.SaveEntry(ctx, e, nil))
	}

	page1, next, err := s.ListEntries(ctx, portsrepo.ListEntriesFilter{Limit: 2})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"e", "d"}, ids(page1))

	page2, next, err := s.ListEntries(ctx, portsrepo.ListEntriesFilter{Limit: 2, NextToken: next})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"c", "b"}, ids(page2))

	page3, next, err := s.ListEntries(ctx, portsrepo.ListEntriesFilter{Limit: 2, NextToken: next})
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []string{"a"}, ids(page3))

	bad := "%%%"
	_, _, err = s.ListEntries(ctx, portsrepo.ListEntriesFilter{Limit: 2, NextToken: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func ids(entries []domain.JournalEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.EntryID
	}
	return out
}
