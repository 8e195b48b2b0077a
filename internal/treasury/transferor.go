package treasury

import (
	"context"
	"database/sql"
	"errors"
	"math/big"

	"defisalary/internal/shared/money"
	treasuryerrors "defisalary/internal/treasury/errors"
)

// Transferor is the funds-transfer primitive: move wei from the held
// balance to a destination address, signalling failure explicitly. Every
// transfer runs inside the caller's transaction so a refused transfer
// leaves nothing half-moved.
type Transferor interface {
	Transfer(ctx context.Context, tx *sql.Tx, dest string, amount *big.Int) error
}

type ledgerTransferor struct {
	repo Repository
}

func NewTransferor(repo Repository) Transferor {
	return &ledgerTransferor{repo: repo}
}

func (t *ledgerTransferor) Transfer(ctx context.Context, tx *sql.Tx, dest string, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return treasuryerrors.ErrInvalidAmount
	}

	qtx := t.repo.WithTx(tx)
	wei := money.NewWei(amount)

	held, err := qtx.Balance(ctx)
	if err != nil {
		return err
	}
	if held.Cmp(wei) < 0 {
		return treasuryerrors.ErrInsufficientFunds
	}

	account, err := qtx.WalletAccount(ctx, dest)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if account != nil && account.Frozen {
		return treasuryerrors.ErrTransferRejected
	}

	if err := qtx.Debit(ctx, wei); err != nil {
		return err
	}
	return qtx.CreditWallet(ctx, dest, wei)
}
