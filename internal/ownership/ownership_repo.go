package ownership

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Get(ctx context.Context) (*LedgerOwner, error)
	UpdateAddress(ctx context.Context, address string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Get(ctx context.Context) (*LedgerOwner, error) {
	if r.tx != nil {
		// Inside a mutation the owner row is read under FOR UPDATE so the
		// authorization check and the write see the same owner.
		row := r.tx.QueryRowContext(ctx,
			`SELECT id, address, updated_at FROM ledger_owners WHERE id = 1 FOR UPDATE`)
		var owner LedgerOwner
		if err := row.Scan(&owner.ID, &owner.Address, &owner.UpdatedAt); err != nil {
			return nil, err
		}
		return &owner, nil
	}

	var owner LedgerOwner
	err := r.db.WithContext(ctx).First(&owner, "id = 1").Error
	if err != nil {
		return nil, err
	}
	return &owner, nil
}

func (r *repository) UpdateAddress(ctx context.Context, address string) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx,
			`UPDATE ledger_owners SET address = $1, updated_at = NOW() WHERE id = 1`, address)
		return err
	}

	return r.db.WithContext(ctx).
		Model(&LedgerOwner{}).
		Where("id = 1").
		Update("address", address).Error
}
