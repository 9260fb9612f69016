package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxJournalRepository implements portsrepo.JournalRepositoryFacade using pgx.
type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const entryColumns = `entry_id, entry_number, entry_date, reference, description, total_debit, total_credit,
	status, created_at, created_by, posted_at, posted_by, cancelled_at, cancelled_by`

func scanEntry(row pgx.Row) (domain.JournalEntry, error) {
	var (
		e      domain.JournalEntry
		status string
	)
	err := row.Scan(
		&e.EntryID, &e.EntryNumber, &e.EntryDate, &e.Reference, &e.Description, &e.TotalDebit, &e.TotalCredit,
		&status, &e.CreatedAt, &e.CreatedBy, &e.PostedAt, &e.PostedBy, &e.CancelledAt, &e.CancelledBy,
	)
	e.Status = domain.EntryStatus(status)
	return e, err
}

// SaveEntry inserts the entry header and its lines. Lines go out in a single batch.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.requireTx(ctx, "SaveEntry")
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		entry.EntryID, entry.EntryNumber, entry.EntryDate, entry.Reference, entry.Description,
		entry.TotalDebit, entry.TotalCredit, string(entry.Status), entry.CreatedAt, entry.CreatedBy,
		entry.PostedAt, entry.PostedBy, entry.CancelledAt, entry.CancelledBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: entry number %s", apperrors.ErrDuplicate, entry.EntryNumber)
		}
		return dbError("failed to insert journal entry", err)
	}
	if len(lines) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(`
			INSERT INTO journal_entry_lines
				(line_id, journal_entry_id, account_id, account_name, description, debit_amount, credit_amount, line_number)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
			l.LineID, entry.EntryID, l.AccountID, l.AccountName, l.Description, l.DebitAmount, l.CreditAmount, l.LineNumber,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return dbError("failed to insert journal entry line", err)
		}
	}
	return br.Close()
}

// FindEntryByID retrieves an entry header.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	e, err := scanEntry(r.db(ctx).QueryRow(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("journal entry", entryID)
		}
		return nil, dbError("failed to query journal entry", err)
	}
	return &e, nil
}

// FindLinesByEntryID retrieves an entry's lines ordered by line number.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	rows, err := r.db(ctx).Query(ctx, `
		SELECT line_id, journal_entry_id, account_id, account_name, description, debit_amount, credit_amount, line_number
		FROM journal_entry_lines
		WHERE journal_entry_id = $1
		ORDER BY line_number`, entryID)
	if err != nil {
		return nil, dbError("failed to query journal entry lines", err)
	}
	defer rows.Close()

	lines := []domain.JournalEntryLine{}
	for rows.Next() {
		var l domain.JournalEntryLine
		if err := rows.Scan(&l.LineID, &l.JournalEntryID, &l.AccountID, &l.AccountName, &l.Description,
			&l.DebitAmount, &l.CreditAmount, &l.LineNumber); err != nil {
			return nil, dbError("failed to scan journal entry line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("failed iterating journal entry lines", err)
	}
	return lines, nil
}

// ListEntries pages entries by (entry_date, created_at, entry_id) descending.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter portsrepo.ListEntriesFilter) ([]domain.JournalEntry, *string, error) {
	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}
	args := []any{status, filter.Limit + 1}
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE ($1::text IS NULL OR status = $1)`

	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (entry_date, created_at, entry_id) < ($3, $4, $5)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT $2`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, dbError("failed to list journal entries", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, nil, dbError("failed to scan journal entry", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, dbError("failed iterating journal entries", err)
	}

	if len(entries) <= filter.Limit {
		return entries, nil, nil
	}
	entries = entries[:filter.Limit]
	last := entries[len(entries)-1]
	next := pagination.EncodeToken(pagination.Cursor{Date: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.EntryID})
	return entries, &next, nil
}

// TransitionStatus is the compare-and-set on status. Concurrent callers block
// on the row lock and re-check the predicate, so exactly one of them wins.
func (r *PgxJournalRepository) TransitionStatus(ctx context.Context, t portsrepo.EntryTransition) (bool, error) {
	var query string
	switch t.To {
	case domain.EntryPosted:
		query = `UPDATE journal_entries SET status = $1, posted_at = $2, posted_by = $3 WHERE entry_id = $4 AND status = $5`
	case domain.EntryCancelled:
		query = `UPDATE journal_entries SET status = $1, cancelled_at = $2, cancelled_by = $3 WHERE entry_id = $4 AND status = $5`
	default:
		return false, fmt.Errorf("%w: cannot transition to %q", apperrors.ErrValidation, t.To)
	}

	cmdTag, err := r.db(ctx).Exec(ctx, query, string(t.To), t.At, t.Actor, t.EntryID, string(t.From))
	if err != nil {
		return false, dbError("failed to transition journal entry", err)
	}
	return cmdTag.RowsAffected() == 1, nil
}
