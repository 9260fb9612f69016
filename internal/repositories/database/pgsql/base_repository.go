package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

type txCtxKey struct{}

func txFromCtx(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txCtxKey{}).(pgx.Tx)
	return tx, ok
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// db returns the transaction bound to ctx, or the pool when there is none.
func (r *BaseRepository) db(ctx context.Context) DBTX {
	if tx, ok := txFromCtx(ctx); ok {
		return tx
	}
	return r.Pool
}

// requireTx returns the transaction bound to ctx or an internal error.
func (r *BaseRepository) requireTx(ctx context.Context, op string) (pgx.Tx, error) {
	tx, ok := txFromCtx(ctx)
	if !ok {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, op+" requires a transaction", nil)
	}
	return tx, nil
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction. Rolling back a committed transaction is a no-op.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to rollback transaction", err)
	}
	return nil
}

// TxManager binds a pgx transaction to the context handed to the unit of work.
type TxManager struct {
	BaseRepository
}

// NewTxManager creates a transaction manager over pool.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

// WithinTransaction runs fn in a transaction, committing on success.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromCtx(ctx); ok {
		return fn(ctx)
	}
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = m.Rollback(ctx, tx) }()

	hookCtx, runHooks := portsrepo.WithCommitHooks(ctx)
	if err := fn(context.WithValue(hookCtx, txCtxKey{}, tx)); err != nil {
		return err
	}
	if err := m.Commit(ctx, tx); err != nil {
		return err
	}
	runHooks()
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func dbError(message string, err error) error {
	return apperrors.NewAppError(http.StatusInternalServerError, message, err)
}
