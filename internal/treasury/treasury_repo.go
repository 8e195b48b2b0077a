package treasury

import (
	"context"
	"database/sql"

	"defisalary/internal/shared/money"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Balance(ctx context.Context) (money.Wei, error)
	Credit(ctx context.Context, amount money.Wei) error
	Debit(ctx context.Context, amount money.Wei) error
	WalletAccount(ctx context.Context, address string) (*WalletAccount, error)
	CreditWallet(ctx context.Context, address string, amount money.Wei) error
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

// Balance reads the held balance. Inside a transaction the row is locked
// so the sufficiency check and the debit cannot race another settlement.
func (r *repository) Balance(ctx context.Context) (money.Wei, error) {
	if r.tx != nil {
		row := r.tx.QueryRowContext(ctx,
			`SELECT balance FROM treasury_balances WHERE id = 1 FOR UPDATE`)
		var balance money.Wei
		if err := row.Scan(&balance); err != nil {
			return money.Wei{}, err
		}
		return balance, nil
	}

	var record TreasuryBalance
	err := r.db.WithContext(ctx).First(&record, "id = 1").Error
	if err != nil {
		return money.Wei{}, err
	}
	return record.Balance, nil
}

func (r *repository) Credit(ctx context.Context, amount money.Wei) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			UPDATE treasury_balances
			SET balance = balance + $1, updated_at = NOW()
			WHERE id = 1
		`, amount)
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		UPDATE treasury_balances
		SET balance = balance + ?, updated_at = NOW()
		WHERE id = 1
	`, amount).Error
}

func (r *repository) Debit(ctx context.Context, amount money.Wei) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			UPDATE treasury_balances
			SET balance = balance - $1, updated_at = NOW()
			WHERE id = 1 AND balance >= $1
		`, amount)
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		UPDATE treasury_balances
		SET balance = balance - ?, updated_at = NOW()
		WHERE id = 1 AND balance >= ?
	`, amount, amount).Error
}

func (r *repository) WalletAccount(ctx context.Context, address string) (*WalletAccount, error) {
	if r.tx != nil {
		row := r.tx.QueryRowContext(ctx, `
			SELECT address, balance, frozen, created_at, updated_at
			FROM wallet_accounts WHERE address = $1 FOR UPDATE
		`, address)
		var acc WalletAccount
		err := row.Scan(&acc.Address, &acc.Balance, &acc.Frozen, &acc.CreatedAt, &acc.UpdatedAt)
		if err != nil {
			return nil, err
		}
		return &acc, nil
	}

	var acc WalletAccount
	err := r.db.WithContext(ctx).First(&acc, "address = ?", address).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// CreditWallet upserts the destination account; unknown addresses start at
// the credited amount.
func (r *repository) CreditWallet(ctx context.Context, address string, amount money.Wei) error {
	query := `
		INSERT INTO wallet_accounts (address, balance, frozen, created_at, updated_at)
		VALUES ($1, $2, FALSE, NOW(), NOW())
		ON CONFLICT (address) DO UPDATE
		SET balance = wallet_accounts.balance + EXCLUDED.balance, updated_at = NOW()
	`
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, query, address, amount)
		return err
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO wallet_accounts (address, balance, frozen, created_at, updated_at)
		VALUES (?, ?, FALSE, NOW(), NOW())
		ON CONFLICT (address) DO UPDATE
		SET balance = wallet_accounts.balance + EXCLUDED.balance, updated_at = NOW()
	`, address, amount).Error
}
