package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxVoucherRepository stores payment and receipt vouchers.
type PgxVoucherRepository struct {
	BaseRepository
}

func newPgxVoucherRepository(pool *pgxpool.Pool) *PgxVoucherRepository {
	return &PgxVoucherRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.VoucherRepositoryFacade = (*PgxVoucherRepository)(nil)

const voucherColumns = `voucher_id, voucher_number, kind, voucher_date, counterparty, amount, payment_method,
	cash_account_id, counter_account_id, check_number, reference, description, journal_entry_id,
	created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxVoucherRepository) SaveVoucher(ctx context.Context, v domain.Voucher) error {
	_, err := r.db(ctx).Exec(ctx, `
		INSERT INTO vouchers (`+voucherColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);`,
		v.VoucherID, v.VoucherNumber, string(v.Kind), v.VoucherDate, v.Counterparty, v.Amount, string(v.PaymentMethod),
		v.CashAccountID, v.CounterAccountID, v.CheckNumber, v.Reference, v.Description, v.JournalEntryID,
		v.CreatedAt, v.CreatedBy, v.LastUpdatedAt, v.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: voucher %s", apperrors.ErrDuplicate, v.VoucherNumber)
		}
		return dbError("failed to insert voucher", err)
	}
	return nil
}

// FindVoucherByID joins the generated entry so the posting state is read, not stored.
func (r *PgxVoucherRepository) FindVoucherByID(ctx context.Context, voucherID string) (*domain.Voucher, error) {
	var (
		v      domain.Voucher
		kind   string
		method string
		status string
	)
	err := r.db(ctx).QueryRow(ctx, `
		SELECT v.voucher_id, v.voucher_number, v.kind, v.voucher_date, v.counterparty, v.amount, v.payment_method,
			v.cash_account_id, v.counter_account_id, v.check_number, v.reference, v.description, v.journal_entry_id,
			v.created_at, v.created_by, v.last_updated_at, v.last_updated_by, je.status
		FROM vouchers v
		JOIN journal_entries je ON je.entry_id = v.journal_entry_id
		WHERE v.voucher_id = $1`, voucherID).Scan(
		&v.VoucherID, &v.VoucherNumber, &kind, &v.VoucherDate, &v.Counterparty, &v.Amount, &method,
		&v.CashAccountID, &v.CounterAccountID, &v.CheckNumber, &v.Reference, &v.Description, &v.JournalEntryID,
		&v.CreatedAt, &v.CreatedBy, &v.LastUpdatedAt, &v.LastUpdatedBy, &status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("voucher", voucherID)
		}
		return nil, dbError("failed to query voucher", err)
	}
	v.Kind = domain.VoucherKind(kind)
	v.PaymentMethod = domain.PaymentMethod(method)
	v.PostingState = domain.NewPostingState(v.JournalEntryID, domain.EntryStatus(status))
	return &v, nil
}
