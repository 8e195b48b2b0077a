package treasury

import (
	"context"
	"database/sql"

	"defisalary/internal/ownership"
	"defisalary/internal/shared/contextutil"
	"defisalary/internal/shared/ethaddr"
	"defisalary/internal/shared/money"
	treasuryerrors "defisalary/internal/treasury/errors"

	"go.uber.org/zap"
)

type Service interface {
	// Deposit credits the held balance. Anyone may fund the ledger.
	Deposit(ctx context.Context, req DepositRequest) (BalanceResponse, error)
	Balance(ctx context.Context) (BalanceResponse, error)
	// Withdraw moves the entire held balance to the owner. Owner-only,
	// atomic: a refused transfer leaves the balance untouched.
	Withdraw(ctx context.Context, caller string) (WithdrawResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	owners     ownership.Service
	transferor Transferor
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	owners ownership.Service,
	transferor Transferor,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("treasury.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("treasury.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		owners:     owners,
		transferor: transferor,
		logger:     l,
	}
}

func (s *service) Deposit(ctx context.Context, req DepositRequest) (BalanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if !ethaddr.IsValid(req.From) {
		return BalanceResponse{}, treasuryerrors.ErrInvalidDepositor
	}

	amount, err := money.NewWeiFromString(req.AmountWei)
	if err != nil || amount.Sign() <= 0 {
		return BalanceResponse{}, treasuryerrors.ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Credit(ctx, amount); err != nil {
		return BalanceResponse{}, err
	}

	balance, err := qtx.Balance(ctx)
	if err != nil {
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("deposit received",
		zap.String("request_id", rid),
		zap.String("caller", contextutil.GetCallerAddress(ctx)),
		zap.String("from", ethaddr.Normalize(req.From)),
		zap.String("amount_wei", amount.String()),
	)
	return BalanceResponse{BalanceWei: balance.String()}, nil
}

func (s *service) Balance(ctx context.Context) (BalanceResponse, error) {
	balance, err := s.repo.Balance(ctx)
	if err != nil {
		return BalanceResponse{}, err
	}
	return BalanceResponse{BalanceWei: balance.String()}, nil
}

func (s *service) Withdraw(ctx context.Context, caller string) (WithdrawResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WithdrawResponse{}, err
	}
	defer tx.Rollback()

	// The owner row is read under the payout transaction, so an ownership
	// transfer cannot slip in between the gate and the debit.
	if err := s.owners.RequireOwnerTx(ctx, tx, caller); err != nil {
		return WithdrawResponse{}, err
	}
	owner := ethaddr.Normalize(caller)

	qtx := s.repo.WithTx(tx)

	balance, err := qtx.Balance(ctx)
	if err != nil {
		return WithdrawResponse{}, err
	}

	if err := s.transferor.Transfer(ctx, tx, owner, balance.BigInt()); err != nil {
		s.logger.Warn("withdrawal transfer failed",
			zap.String("request_id", rid),
			zap.String("owner", owner),
			zap.Error(err),
		)
		return WithdrawResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WithdrawResponse{}, err
	}

	s.logger.Info("funds withdrawn",
		zap.String("request_id", rid),
		zap.String("owner", owner),
		zap.String("amount_wei", balance.String()),
	)
	return WithdrawResponse{To: owner, AmountWei: balance.String()}, nil
}
