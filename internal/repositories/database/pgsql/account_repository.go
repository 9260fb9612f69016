package pgsql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxAccountRepository implements portsrepo.AccountRepositoryFacade using pgx.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, account_code, name, name_en, account_type, parent_account_id, level,
	opening_balance, current_balance, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var (
		a        domain.Account
		nameEn   *string
		parentID *string
		accType  string
	)
	err := row.Scan(
		&a.AccountID, &a.AccountCode, &a.Name, &nameEn, &accType, &parentID, &a.Level,
		&a.OpeningBalance, &a.CurrentBalance, &a.IsActive,
		&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	a.AccountType = domain.AccountType(accType)
	if nameEn != nil {
		a.NameEn = *nameEn
	}
	if parentID != nil {
		a.ParentAccountID = *parentID
	}
	return a, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SaveAccount inserts a new account record.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.db(ctx).Exec(ctx, query,
		account.AccountID, account.AccountCode, account.Name, nullIfEmpty(account.NameEn),
		string(account.AccountType), nullIfEmpty(account.ParentAccountID), account.Level,
		account.OpeningBalance, account.CurrentBalance, account.IsActive,
		account.CreatedAt, account.CreatedBy, account.LastUpdatedAt, account.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s", apperrors.ErrDuplicate, account.AccountCode)
		}
		return dbError("failed to insert account", err)
	}
	return nil
}

func (r *PgxAccountRepository) findOne(ctx context.Context, where string, arg any, label string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + where
	a, err := scanAccount(r.db(ctx).QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(label, fmt.Sprint(arg))
		}
		return nil, dbError("failed to query account", err)
	}
	return &a, nil
}

// FindAccountByID retrieves an account by its unique ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, "account_id = $1", accountID, "account")
}

// FindAccountByCode retrieves an account by its business code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	return r.findOne(ctx, "account_code = $1", accountCode, "account code")
}

func (r *PgxAccountRepository) collect(ctx context.Context, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to query accounts", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, dbError("failed to scan account", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("failed iterating accounts", err)
	}
	return accounts, nil
}

func toAccountMap(accounts []domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	accounts, err := r.collect(ctx, `SELECT `+accountColumns+` FROM accounts WHERE account_id = ANY($1)`, accountIDs)
	if err != nil {
		return nil, err
	}
	return toAccountMap(accounts), nil
}

// ListAccounts lists accounts ordered by account code.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	accounts, err := r.collect(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE ($1 = FALSE OR is_active) ORDER BY account_code`, activeOnly)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// DeactivateAccount marks an active account inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $1, last_updated_by = $2
		WHERE account_id = $3 AND is_active = TRUE;
	`
	cmdTag, err := r.db(ctx).Exec(ctx, query, now, userID, accountID)
	if err != nil {
		return dbError("failed to deactivate account", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("active account", accountID)
	}
	return nil
}

// FindAccountsByIDsForUpdate row-locks the accounts in ascending ID order.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	tx, err := r.requireTx(ctx, "FindAccountsByIDsForUpdate")
	if err != nil {
		return nil, err
	}
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}
	ids := slices.Clone(accountIDs)
	slices.Sort(ids)

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) ORDER BY account_id FOR UPDATE`
	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		return nil, dbError("failed to lock accounts", err)
	}
	defer rows.Close()

	out := make(map[string]domain.Account, len(ids))
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, dbError("failed to scan locked account", err)
		}
		out[a.AccountID] = a
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("failed iterating locked accounts", err)
	}
	return out, nil
}

// UpdateAccountBalances writes new current balances in one batch.
func (r *PgxAccountRepository) UpdateAccountBalances(ctx context.Context, balances map[string]decimal.Decimal, userID string, now time.Time) error {
	tx, err := r.requireTx(ctx, "UpdateAccountBalances")
	if err != nil {
		return err
	}
	if len(balances) == 0 {
		return nil
	}

	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(`
			UPDATE accounts
			SET current_balance = $1, last_updated_at = $2, last_updated_by = $3
			WHERE account_id = $4`, balances[id], now, userID, id)
	}

	br := tx.SendBatch(ctx, batch)
	defer br.Close()
	for _, id := range ids {
		cmdTag, err := br.Exec()
		if err != nil {
			return dbError("failed to update account balance", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("account", id)
		}
	}
	return br.Close()
}
