package ownership

import "time"

// LedgerOwner is a single-row table: the owner principal of the payroll
// ledger. ID is pinned to 1 so there can never be two owners.
type LedgerOwner struct {
	ID        uint8  `gorm:"primaryKey"`
	Address   string `gorm:"size:42"`
	UpdatedAt time.Time
}

func (LedgerOwner) TableName() string {
	return "ledger_owners"
}
