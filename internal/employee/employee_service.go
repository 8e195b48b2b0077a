package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	employeeerrors "defisalary/internal/employee/errors"
	"defisalary/internal/events"
	"defisalary/internal/messaging/kafka"
	"defisalary/internal/ownership"
	"defisalary/internal/shared/contextutil"
	"defisalary/internal/shared/counter"
	"defisalary/internal/shared/ethaddr"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const employeeIDCounter = "employee_id"

type Service interface {
	Create(ctx context.Context, caller string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, id uint64) (EmployeeResponse, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, caller string, id uint64, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Deactivate(ctx context.Context, caller string, id uint64) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	guard   ownership.Guard
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	guard ownership.Guard,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		guard:   guard,
		outbox:  outboxRepo,
		logger:  l,
	}
}

func (s *service) Create(
	ctx context.Context,
	caller string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("caller", caller),
		zap.String("name", req.Name),
	)

	if !ethaddr.IsValid(req.WalletAddress) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidWalletAddress
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	if err := s.guard.RequireOwnerTx(ctx, tx, caller); err != nil {
		return EmployeeResponse{}, err
	}

	qtx := s.repo.WithTx(tx)

	// The counter value doubles as the collection length, so the new id is
	// always the previous record count.
	nextVal, err := s.counter.WithTx(tx).GetNextValue(ctx, employeeIDCounter)
	if err != nil {
		s.logger.Error("create employee id assignment failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	now := time.Now().UTC()
	record := &Employee{
		ID:              uint64(nextVal - 1),
		Name:            req.Name,
		WalletAddress:   ethaddr.Normalize(req.WalletAddress),
		IsActive:        true,
		SalaryUSD:       req.SalaryUSD,
		JoiningDate:     now,
		LastPaymentDate: now,
	}

	if err := qtx.Insert(ctx, record); err != nil {
		s.logger.Error("create employee insert failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := s.stageEvent(ctx, tx, rid, record.ID, events.TypeEmployeeAdded, events.EmployeeAddedEvent{
		EventType:     events.TypeEmployeeAdded,
		EmployeeID:    record.ID,
		Name:          record.Name,
		WalletAddress: record.WalletAddress,
		SalaryUSD:     record.SalaryUSD,
		OccurredAt:    now,
	}); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee added",
		zap.String("request_id", rid),
		zap.Uint64("employee_id", record.ID),
		zap.Uint64("salary_usd", record.SalaryUSD),
	)
	return mapToResponse(*record), nil
}

func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(list), nil
}

func (s *service) GetByID(ctx context.Context, id uint64) (EmployeeResponse, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*record), nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *service) Update(
	ctx context.Context,
	caller string,
	id uint64,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if !ethaddr.IsValid(req.WalletAddress) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidWalletAddress
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	if err := s.guard.RequireOwnerTx(ctx, tx, caller); err != nil {
		return EmployeeResponse{}, err
	}

	qtx := s.repo.WithTx(tx)

	record, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	record.Name = req.Name
	record.WalletAddress = ethaddr.Normalize(req.WalletAddress)
	record.IsActive = *req.IsActive
	record.SalaryUSD = req.SalaryUSD

	if err := qtx.UpdateDetails(ctx, record); err != nil {
		return EmployeeResponse{}, err
	}

	if err := s.stageEvent(ctx, tx, rid, record.ID, events.TypeEmployeeUpdated, events.EmployeeUpdatedEvent{
		EventType:     events.TypeEmployeeUpdated,
		EmployeeID:    record.ID,
		Name:          record.Name,
		IsActive:      record.IsActive,
		WalletAddress: record.WalletAddress,
		SalaryUSD:     record.SalaryUSD,
		OccurredAt:    time.Now().UTC(),
	}); err != nil {
		return EmployeeResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee updated",
		zap.String("request_id", rid),
		zap.Uint64("employee_id", record.ID),
		zap.Bool("is_active", record.IsActive),
	)
	return mapToResponse(*record), nil
}

// Deactivate marks the record inactive in place. Deactivating an already
// inactive employee succeeds silently, matching removeEmployee semantics.
func (s *service) Deactivate(ctx context.Context, caller string, id uint64) error {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.guard.RequireOwnerTx(ctx, tx, caller); err != nil {
		return err
	}

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employeeerrors.ErrEmployeeNotFound
		}
		return err
	}

	if err := qtx.SetInactive(ctx, id); err != nil {
		return err
	}

	if err := s.stageEvent(ctx, tx, rid, id, events.TypeEmployeeRemoved, events.EmployeeRemovedEvent{
		EventType:  events.TypeEmployeeRemoved,
		EmployeeID: id,
		OccurredAt: time.Now().UTC(),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("employee removed",
		zap.String("request_id", rid),
		zap.Uint64("employee_id", id),
	)
	return nil
}

func (s *service) stageEvent(
	ctx context.Context,
	tx *sql.Tx,
	requestID string,
	employeeID uint64,
	eventType string,
	payload any,
) error {
	if s.outbox == nil {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     requestID,
		AggregateType: "employee",
		AggregateID:   formatEmployeeID(employeeID),
		EventType:     eventType,
		Topic:         events.LedgerEventsTopic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

func formatEmployeeID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
