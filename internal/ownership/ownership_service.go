package ownership

import (
	"context"
	"database/sql"
	"errors"

	ownershiperrors "defisalary/internal/ownership/errors"
	"defisalary/internal/shared/apperror"
	"defisalary/internal/shared/contextutil"
	"defisalary/internal/shared/ethaddr"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Guard is the owner gate other modules depend on. Every owner-only ledger
// mutation opens its transaction first and calls RequireOwnerTx with the
// authenticated caller address.
type Guard interface {
	// RequireOwnerTx reads the owner row under the given transaction
	// (FOR UPDATE), so a concurrent ownership transfer cannot commit
	// between the check and the mutation.
	RequireOwnerTx(ctx context.Context, tx *sql.Tx, caller string) error
}

type Service interface {
	Guard
	Owner(ctx context.Context) (string, error)
	// Transfer replaces the owner in a single step. There is no two-phase
	// handshake: transferring to an unreachable address is irrecoverable.
	Transfer(ctx context.Context, caller, newOwner string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("ownership.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ownership.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Owner(ctx context.Context) (string, error) {
	owner, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, sql.ErrNoRows) {
			return "", ownershiperrors.ErrOwnerNotConfigured
		}
		return "", err
	}
	return owner.Address, nil
}

func (s *service) RequireOwnerTx(ctx context.Context, tx *sql.Tx, caller string) error {
	owner, err := s.repo.WithTx(tx).Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ownershiperrors.ErrOwnerNotConfigured
		}
		return err
	}
	if !ethaddr.Equal(owner.Address, caller) {
		return apperror.UnauthorizedCaller(caller)
	}
	return nil
}

func (s *service) Transfer(ctx context.Context, caller, newOwner string) error {
	rid := contextutil.GetRequestID(ctx)

	if !ethaddr.IsValid(newOwner) {
		return ownershiperrors.ErrInvalidOwnerAddress
	}
	newOwner = ethaddr.Normalize(newOwner)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	current, err := qtx.Get(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ownershiperrors.ErrOwnerNotConfigured
		}
		return err
	}
	if !ethaddr.Equal(current.Address, caller) {
		s.logger.Warn("ownership transfer rejected",
			zap.String("request_id", rid),
			zap.String("caller", caller),
		)
		return apperror.UnauthorizedCaller(caller)
	}

	if err := qtx.UpdateAddress(ctx, newOwner); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("ledger owner changed",
		zap.String("request_id", rid),
		zap.String("previous_owner", current.Address),
		zap.String("new_owner", newOwner),
	)
	return nil
}
