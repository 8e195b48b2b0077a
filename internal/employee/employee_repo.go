package employee

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Insert(ctx context.Context, e *Employee) error
	FindAll(ctx context.Context) ([]Employee, error)
	FindByID(ctx context.Context, id uint64) (*Employee, error)
	Count(ctx context.Context) (int64, error)
	UpdateDetails(ctx context.Context, e *Employee) error
	SetInactive(ctx context.Context, id uint64) error
	UpdateLastPaymentDate(ctx context.Context, id uint64, paidAt time.Time) error
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

func (r *repository) Insert(ctx context.Context, e *Employee) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO employees (
				id, name, wallet_address, is_active, salary_usd,
				joining_date, last_payment_date, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		`, e.ID, e.Name, e.WalletAddress, e.IsActive, e.SalaryUSD, e.JoiningDate, e.LastPaymentDate)
		return err
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var list []Employee
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

func (r *repository) FindByID(ctx context.Context, id uint64) (*Employee, error) {
	if r.tx != nil {
		// Settlement re-validates each record under a row lock.
		row := r.tx.QueryRowContext(ctx, `
			SELECT id, name, wallet_address, is_active, salary_usd,
			       joining_date, last_payment_date, created_at, updated_at
			FROM employees WHERE id = $1 FOR UPDATE
		`, id)
		var e Employee
		err := row.Scan(
			&e.ID, &e.Name, &e.WalletAddress, &e.IsActive, &e.SalaryUSD,
			&e.JoiningDate, &e.LastPaymentDate, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		return &e, nil
	}

	var e Employee
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Employee{}).Count(&count).Error
	return count, err
}

func (r *repository) UpdateDetails(ctx context.Context, e *Employee) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			UPDATE employees
			SET name = $2, wallet_address = $3, is_active = $4, salary_usd = $5, updated_at = NOW()
			WHERE id = $1
		`, e.ID, e.Name, e.WalletAddress, e.IsActive, e.SalaryUSD)
		return err
	}
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", e.ID).
		Updates(map[string]any{
			"name":           e.Name,
			"wallet_address": e.WalletAddress,
			"is_active":      e.IsActive,
			"salary_usd":     e.SalaryUSD,
		}).Error
}

func (r *repository) SetInactive(ctx context.Context, id uint64) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			UPDATE employees SET is_active = FALSE, updated_at = NOW() WHERE id = $1
		`, id)
		return err
	}
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// UpdateLastPaymentDate advances the payment timestamp. The predicate keeps
// the invariant that last_payment_date never decreases.
func (r *repository) UpdateLastPaymentDate(ctx context.Context, id uint64, paidAt time.Time) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			UPDATE employees
			SET last_payment_date = $2, updated_at = NOW()
			WHERE id = $1 AND last_payment_date <= $2
		`, id, paidAt)
		return err
	}
	return r.db.WithContext(ctx).
		Model(&Employee{}).
		Where("id = ? AND last_payment_date <= ?", id, paidAt).
		Update("last_payment_date", paidAt).Error
}
