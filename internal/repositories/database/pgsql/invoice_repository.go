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

// PgxInvoiceRepository stores sales and purchase invoices.
type PgxInvoiceRepository struct {
	BaseRepository
}

func newPgxInvoiceRepository(pool *pgxpool.Pool) *PgxInvoiceRepository {
	return &PgxInvoiceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, invoice_number, kind, invoice_date, party_name, party_account_id,
	items_account_id, tax_account_id, subtotal, discount_amount, tax_amount, total_amount, notes,
	journal_entry_id, created_at, created_by, last_updated_at, last_updated_by`

// selectInvoices joins the generated entry so the posting state is read, not stored.
const selectInvoices = `
	SELECT i.invoice_id, i.invoice_number, i.kind, i.invoice_date, i.party_name, i.party_account_id,
		i.items_account_id, i.tax_account_id, i.subtotal, i.discount_amount, i.tax_amount, i.total_amount, i.notes,
		i.journal_entry_id, i.created_at, i.created_by, i.last_updated_at, i.last_updated_by, je.status
	FROM invoices i
	JOIN journal_entries je ON je.entry_id = i.journal_entry_id`

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var (
		inv    domain.Invoice
		kind   string
		status string
	)
	err := row.Scan(
		&inv.InvoiceID, &inv.InvoiceNumber, &kind, &inv.InvoiceDate, &inv.PartyName, &inv.PartyAccountID,
		&inv.ItemsAccountID, &inv.TaxAccountID, &inv.Subtotal, &inv.DiscountAmount, &inv.TaxAmount, &inv.TotalAmount, &inv.Notes,
		&inv.JournalEntryID, &inv.CreatedAt, &inv.CreatedBy, &inv.LastUpdatedAt, &inv.LastUpdatedBy, &status,
	)
	inv.Kind = domain.InvoiceKind(kind)
	inv.PostingState = domain.NewPostingState(inv.JournalEntryID, domain.EntryStatus(status))
	return inv, err
}

// SaveInvoice inserts the header and its items. Items go out in a single batch.
func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, inv domain.Invoice) error {
	tx, err := r.requireTx(ctx, "SaveInvoice")
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`,
		inv.InvoiceID, inv.InvoiceNumber, string(inv.Kind), inv.InvoiceDate, inv.PartyName, inv.PartyAccountID,
		inv.ItemsAccountID, inv.TaxAccountID, inv.Subtotal, inv.DiscountAmount, inv.TaxAmount, inv.TotalAmount, inv.Notes,
		inv.JournalEntryID, inv.CreatedAt, inv.CreatedBy, inv.LastUpdatedAt, inv.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrDuplicate, inv.InvoiceNumber)
		}
		return dbError("failed to insert invoice", err)
	}

	batch := &pgx.Batch{}
	for _, it := range inv.Items {
		batch.Queue(`
			INSERT INTO invoice_items
				(invoice_id, line_number, description, quantity, unit_price, discount_amount, line_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7);`,
			inv.InvoiceID, it.LineNumber, it.Description, it.Quantity, it.UnitPrice, it.DiscountAmount, it.LineTotal,
		)
	}
	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for range inv.Items {
		if _, err := br.Exec(); err != nil {
			return dbError("failed to insert invoice item", err)
		}
	}
	return br.Close()
}

// FindInvoiceByID retrieves an invoice with its items ordered by line number.
func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	db := r.db(ctx)
	inv, err := scanInvoice(db.QueryRow(ctx, selectInvoices+` WHERE i.invoice_id = $1`, invoiceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("invoice", invoiceID)
		}
		return nil, dbError("failed to query invoice", err)
	}

	rows, err := db.Query(ctx, `
		SELECT line_number, description, quantity, unit_price, discount_amount, line_total
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY line_number`, invoiceID)
	if err != nil {
		return nil, dbError("failed to query invoice items", err)
	}
	defer rows.Close()

	inv.Items = []domain.InvoiceItem{}
	for rows.Next() {
		var it domain.InvoiceItem
		if err := rows.Scan(&it.LineNumber, &it.Description, &it.Quantity, &it.UnitPrice, &it.DiscountAmount, &it.LineTotal); err != nil {
			return nil, dbError("failed to scan invoice item", err)
		}
		inv.Items = append(inv.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("failed iterating invoice items", err)
	}
	return &inv, nil
}

// ListInvoices pages invoices by (invoice_date, created_at, invoice_id) descending.
func (r *PgxInvoiceRepository) ListInvoices(ctx context.Context, filter portsrepo.ListInvoicesFilter) ([]domain.Invoice, *string, error) {
	var kind *string
	if filter.Kind != nil {
		k := string(*filter.Kind)
		kind = &k
	}
	args := []any{kind, filter.Limit + 1}
	query := selectInvoices + ` WHERE ($1::text IS NULL OR i.kind = $1)`

	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (i.invoice_date, i.created_at, i.invoice_id) < ($3, $4, $5)`
		args = append(args, cursor.Date, cursor.CreatedAt, cursor.ID)
	}
	query += ` ORDER BY i.invoice_date DESC, i.created_at DESC, i.invoice_id DESC LIMIT $2`

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, nil, dbError("failed to list invoices", err)
	}
	defer rows.Close()

	invoices := []domain.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, nil, dbError("failed to scan invoice", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, dbError("failed iterating invoices", err)
	}

	if len(invoices) <= filter.Limit {
		return invoices, nil, nil
	}
	invoices = invoices[:filter.Limit]
	last := invoices[len(invoices)-1]
	next := pagination.EncodeToken(pagination.Cursor{Date: last.InvoiceDate, CreatedAt: last.CreatedAt, ID: last.InvoiceID})
	return invoices, &next, nil
}
