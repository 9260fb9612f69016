package pgsql

import (
	"context"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxReportingRepository serves the report read path.
type PgxReportingRepository struct {
	BaseRepository
}

func newPgxReportingRepository(pool *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// AggregateActivity is one statement, and therefore one MVCC snapshot: an entry
// whose status flip has not committed contributes none of its lines.
func (r *PgxReportingRepository) AggregateActivity(ctx context.Context, window domain.ActivityWindow) ([]domain.AccountActivity, error) {
	query := `
		SELECT
			a.account_id, a.account_code, a.name, a.name_en, a.account_type, a.parent_account_id, a.level,
			a.opening_balance, a.current_balance, a.is_active,
			a.created_at, a.created_by, a.last_updated_at, a.last_updated_by,
			COALESCE(act.total_debit, 0) AS total_debit,
			COALESCE(act.total_credit, 0) AS total_credit
		FROM accounts a
		LEFT JOIN (
			SELECT
				l.account_id,
				SUM(l.debit_amount) AS total_debit,
				SUM(l.credit_amount) AS total_credit
			FROM journal_entry_lines l
			JOIN journal_entries e ON e.entry_id = l.journal_entry_id
			WHERE e.status = 'posted'
				AND ($1::date IS NULL OR e.entry_date >= $1::date)
				AND e.entry_date <= $2::date
			GROUP BY l.account_id
		) act ON act.account_id = a.account_id
		ORDER BY a.account_code
	`

	rows, err := r.db(ctx).Query(ctx, query, window.From, window.To)
	if err != nil {
		return nil, dbError("failed to aggregate ledger activity", err)
	}
	defer rows.Close()

	result := []domain.AccountActivity{}
	for rows.Next() {
		var (
			act      domain.AccountActivity
			nameEn   *string
			parentID *string
			accType  string
		)
		a := &act.Account
		if err := rows.Scan(
			&a.AccountID, &a.AccountCode, &a.Name, &nameEn, &accType, &parentID, &a.Level,
			&a.OpeningBalance, &a.CurrentBalance, &a.IsActive,
			&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy,
			&act.TotalDebit, &act.TotalCredit,
		); err != nil {
			return nil, dbError("failed to scan ledger activity", err)
		}
		a.AccountType = domain.AccountType(accType)
		if nameEn != nil {
			a.NameEn = *nameEn
		}
		if parentID != nil {
			a.ParentAccountID = *parentID
		}
		result = append(result, act)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("failed iterating ledger activity", err)
	}
	return result, nil
}
