package auth

import (
	"time"

	"github.com/google/uuid"
)

// Operator is a human or automation principal allowed to call the API.
// The wallet address is the identity the ledger reasons about; whether an
// operator is the owner is decided against ledger state, not here.
type Operator struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Address      string    `gorm:"size:42;uniqueIndex"`
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Operator) TableName() string {
	return "operators"
}
