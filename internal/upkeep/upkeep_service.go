package upkeep

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"defisalary/internal/employee"
	employeeerrors "defisalary/internal/employee/errors"
	"defisalary/internal/events"
	"defisalary/internal/messaging/kafka"
	"defisalary/internal/pricefeed"
	"defisalary/internal/shared/apperror"
	"defisalary/internal/shared/contextutil"
	"defisalary/internal/treasury"
	treasuryerrors "defisalary/internal/treasury/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock lets tests drive the payroll calendar; nil means time.Now.
type Clock func() time.Time

type Service interface {
	// CheckDue is a pure read: it never mutates state and is safe to call
	// at any time, by anyone. Run back-to-back with Settle against
	// unchanged state the two agree on ids and amounts.
	CheckDue(ctx context.Context) (CheckResult, error)
	// Settle executes the payments for the caller-supplied due set. Failed
	// transfers are skipped and the rest proceed; an underfunded treasury
	// aborts the whole call.
	Settle(ctx context.Context, caller string, dueIDs []uint64, count int) (SettlementResult, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	prices     pricefeed.Service
	transferor treasury.Transferor
	outbox     kafka.OutboxRepository
	clock      Clock
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	prices pricefeed.Service,
	transferor treasury.Transferor,
	outboxRepo kafka.OutboxRepository,
	clock Clock,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("upkeep.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("upkeep.service")
	}
	if clock == nil {
		clock = time.Now
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		prices:     prices,
		transferor: transferor,
		outbox:     outboxRepo,
		clock:      clock,
		logger:     l,
	}
}

func (s *service) CheckDue(ctx context.Context) (CheckResult, error) {
	cutoff := s.clock().UTC().Add(-employee.PaymentInterval)

	ids, err := s.repo.ListDueIDs(ctx, cutoff)
	if err != nil {
		return CheckResult{}, err
	}

	return CheckResult{
		AnyDue: len(ids) > 0,
		DueIDs: ids,
		Count:  len(ids),
	}, nil
}

func (s *service) Settle(
	ctx context.Context,
	caller string,
	dueIDs []uint64,
	count int,
) (SettlementResult, error) {
	rid := contextutil.GetRequestID(ctx)

	// dueIDs and count are opaque caller input; a hostile count must fail
	// like any other bad request, not slice out of range.
	if count < 0 {
		return SettlementResult{}, apperror.ErrInvalidInput
	}
	if count > len(dueIDs) {
		count = len(dueIDs)
	}
	batch := dueIDs[:count]

	s.logger.Debug("settlement requested",
		zap.String("request_id", rid),
		zap.String("caller", caller),
		zap.Int("batch_size", len(batch)),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SettlementResult{}, err
	}
	defer tx.Rollback()

	qtx := s.employees.WithTx(tx)
	now := s.clock().UTC()

	result := SettlementResult{
		Settled: make([]PaymentResult, 0, len(batch)),
		Skipped: make([]uint64, 0),
	}

	for _, id := range batch {
		record, err := qtx.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return SettlementResult{}, employeeerrors.ErrEmployeeNotFound
			}
			return SettlementResult{}, err
		}

		// Re-validate: the due set may be stale.
		if !record.IsActive {
			result.Skipped = append(result.Skipped, id)
			continue
		}

		amount, err := s.prices.UsdToEth(ctx, record.SalaryUSD)
		if err != nil {
			return SettlementResult{}, err
		}

		if err := s.transferor.Transfer(ctx, tx, record.WalletAddress, amount); err != nil {
			if errors.Is(err, treasuryerrors.ErrTransferRejected) {
				// One refused wallet does not block the rest of the batch.
				s.logger.Warn("salary transfer refused, skipping employee",
					zap.String("request_id", rid),
					zap.Uint64("employee_id", id),
				)
				result.Skipped = append(result.Skipped, id)
				continue
			}
			// Underfunding aborts everything: it signals an operational
			// shortfall the owner has to act on.
			return SettlementResult{}, err
		}

		if err := qtx.UpdateLastPaymentDate(ctx, id, now); err != nil {
			return SettlementResult{}, err
		}

		if err := s.stageSalaryPaid(ctx, tx, rid, record, amount.String(), now); err != nil {
			return SettlementResult{}, err
		}

		result.Settled = append(result.Settled, PaymentResult{
			EmployeeID:   id,
			SalaryUSD:    record.SalaryUSD,
			EthAmountWei: amount.String(),
		})
	}

	if err := tx.Commit(); err != nil {
		return SettlementResult{}, err
	}

	s.logger.Info("settlement completed",
		zap.String("request_id", rid),
		zap.Int("paid", len(result.Settled)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return result, nil
}

func (s *service) stageSalaryPaid(
	ctx context.Context,
	tx *sql.Tx,
	requestID string,
	record *employee.Employee,
	amountWei string,
	paidAt time.Time,
) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.SalaryPaidEvent{
		EventType:    events.TypeSalaryPaid,
		EmployeeID:   record.ID,
		SalaryUSD:    record.SalaryUSD,
		EthAmountWei: amountWei,
		OccurredAt:   paidAt,
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     requestID,
		AggregateType: "employee",
		AggregateID:   strconv.FormatUint(record.ID, 10),
		EventType:     events.TypeSalaryPaid,
		Topic:         events.LedgerEventsTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}
