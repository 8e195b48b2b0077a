package treasury

import (
	"time"

	"defisalary/internal/shared/money"
)

// TreasuryBalance is the single row holding the funds the ledger controls.
// Credited by any deposit, debited only by salary payments and owner
// withdrawal.
type TreasuryBalance struct {
	ID        uint8     `gorm:"primaryKey"`
	Balance   money.Wei `gorm:"type:numeric(78,0)"`
	UpdatedAt time.Time
}

func (TreasuryBalance) TableName() string {
	return "treasury_balances"
}

// WalletAccount models an external payout destination. Frozen accounts
// refuse incoming transfers, which is how destination rejection surfaces.
type WalletAccount struct {
	Address   string    `gorm:"primaryKey;size:42"`
	Balance   money.Wei `gorm:"type:numeric(78,0)"`
	Frozen    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WalletAccount) TableName() string {
	return "wallet_accounts"
}
