package upkeep

import (
	"context"
	"time"

	"defisalary/internal/employee"

	"gorm.io/gorm"
)

type Repository interface {
	// ListDueIDs returns ids of active employees whose last payment is at
	// or before the cutoff, in insertion order.
	ListDueIDs(ctx context.Context, cutoff time.Time) ([]uint64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListDueIDs(ctx context.Context, cutoff time.Time) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&employee.Employee{}).
		Where("is_active = ? AND last_payment_date <= ?", true, cutoff).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}
