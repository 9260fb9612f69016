package pgsql

import (
	"context"

	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSequenceRepository hands out counter values from the ledger_counters table.
type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) *PgxSequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepositoryFacade = (*PgxSequenceRepository)(nil)

// NextValue increments the counter with an upsert, so the first call for a
// name returns 1 and concurrent callers serialize on the counter row.
func (r *PgxSequenceRepository) NextValue(ctx context.Context, name string) (int64, error) {
	var value int64
	err := r.db(ctx).QueryRow(ctx, `
		INSERT INTO ledger_counters (name, value) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET value = ledger_counters.value + 1
		RETURNING value`, name).Scan(&value)
	if err != nil {
		return 0, dbError("failed to increment counter", err)
	}
	return value, nil
}
