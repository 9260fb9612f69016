package pgsql

import (
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates every PostgreSQL-backed repository over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   newPgxAccountRepository(dbPool),
		JournalRepo:   newPgxJournalRepository(dbPool),
		SequenceRepo:  newPgxSequenceRepository(dbPool),
		ReportingRepo: newPgxReportingRepository(dbPool),
		VoucherRepo:   newPgxVoucherRepository(dbPool),
		InvoiceRepo:   newPgxInvoiceRepository(dbPool),
		TxManager:     NewTxManager(dbPool),
	}
}
