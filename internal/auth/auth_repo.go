package auth

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	FindByAddress(ctx context.Context, address string) (*Operator, error)
	Create(ctx context.Context, operator *Operator) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByAddress(ctx context.Context, address string) (*Operator, error) {
	var operator Operator
	err := r.db.WithContext(ctx).First(&operator, "address = ?", address).Error
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *repository) Create(ctx context.Context, operator *Operator) error {
	return r.db.WithContext(ctx).Create(operator).Error
}
