package counter

import (
	"context"
	"database/sql"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	GetNextValue(ctx context.Context, counterType string) (int64, error)
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// GetNextValue atomically increments and returns the named counter. Raw
// UPSERT so concurrent callers serialize on the counter row lock.
func (r *repository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	query := `
		INSERT INTO ledger_counters (counter_type, last_value, updated_at)
		VALUES ($1, 1, now())
		ON CONFLICT (counter_type) DO UPDATE
		SET last_value = ledger_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`

	var nextValue int64
	err := r.queryer().QueryRowContext(ctx, query, counterType).Scan(&nextValue)
	return nextValue, err
}

func (r *repository) queryer() interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}
