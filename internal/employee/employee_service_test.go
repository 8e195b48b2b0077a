package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"defisalary/internal/employee"
	employeeerrors "defisalary/internal/employee/errors"
	"defisalary/internal/messaging/kafka"
	"defisalary/internal/shared/apperror"
	"defisalary/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

const (
	ownerAddress  = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	walletAddress = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

type fakeEmployeeRepository struct {
	insertFn                func(ctx context.Context, e *employee.Employee) error
	findAllFn               func(ctx context.Context) ([]employee.Employee, error)
	findByIDFn              func(ctx context.Context, id uint64) (*employee.Employee, error)
	countFn                 func(ctx context.Context) (int64, error)
	updateDetailsFn         func(ctx context.Context, e *employee.Employee) error
	setInactiveFn           func(ctx context.Context, id uint64) error
	updateLastPaymentDateFn func(ctx context.Context, id uint64, paidAt time.Time) error
}

func (f *fakeEmployeeRepository) WithTx(tx *sql.Tx) employee.Repository {
	return f
}

func (f *fakeEmployeeRepository) Insert(ctx context.Context, e *employee.Employee) error {
	if f.insertFn != nil {
		return f.insertFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) FindAll(ctx context.Context) ([]employee.Employee, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx)
	}
	return nil, nil
}

func (f *fakeEmployeeRepository) FindByID(ctx context.Context, id uint64) (*employee.Employee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEmployeeRepository) Count(ctx context.Context) (int64, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}
	return 0, nil
}

func (f *fakeEmployeeRepository) UpdateDetails(ctx context.Context, e *employee.Employee) error {
	if f.updateDetailsFn != nil {
		return f.updateDetailsFn(ctx, e)
	}
	return nil
}

func (f *fakeEmployeeRepository) SetInactive(ctx context.Context, id uint64) error {
	if f.setInactiveFn != nil {
		return f.setInactiveFn(ctx, id)
	}
	return nil
}

func (f *fakeEmployeeRepository) UpdateLastPaymentDate(ctx context.Context, id uint64, paidAt time.Time) error {
	if f.updateLastPaymentDateFn != nil {
		return f.updateLastPaymentDateFn(ctx, id, paidAt)
	}
	return nil
}

type fakeCounterRepository struct {
	next int64
	err  error
}

func (f *fakeCounterRepository) WithTx(tx *sql.Tx) counter.Repository {
	return f
}

func (f *fakeCounterRepository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.next++
	return f.next, nil
}

type fakeGuard struct {
	owner string
	gotTx *sql.Tx
}

func (f *fakeGuard) RequireOwnerTx(ctx context.Context, tx *sql.Tx, caller string) error {
	f.gotTx = tx
	if caller != f.owner {
		return apperror.UnauthorizedCaller(caller)
	}
	return nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
	err     error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error {
	return nil
}

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service employee.Service
	repo    *fakeEmployeeRepository
	counter *fakeCounterRepository
	guard   *fakeGuard
	outbox  *fakeOutboxRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeEmployeeRepository{}
	counterRepo := &fakeCounterRepository{}
	outbox := &fakeOutboxRepository{}
	guard := &fakeGuard{owner: ownerAddress}
	svc := employee.NewService(db, repo, counterRepo, guard, outbox)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		counter: counterRepo,
		guard:   guard,
		outbox:  outbox,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("first employee gets id zero", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		var inserted *employee.Employee
		deps.repo.insertFn = func(ctx context.Context, e *employee.Employee) error {
			inserted = e
			return nil
		}

		resp, err := deps.service.Create(ctx, ownerAddress, employee.CreateEmployeeRequest{
			Name:          "Alice",
			WalletAddress: walletAddress,
			SalaryUSD:     1000,
		})

		assert.NoError(t, err)
		assert.Equal(t, uint64(0), resp.ID)
		assert.Equal(t, walletAddress, resp.WalletAddress)
		assert.True(t, resp.IsActive)
		assert.NotNil(t, inserted)
		assert.Equal(t, inserted.JoiningDate, inserted.LastPaymentDate)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "employee.added", deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("ids are dense and sequential", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		for i := 0; i < 3; i++ {
			expectTx(t, deps.sqlMock, true)
		}

		var ids []uint64
		deps.repo.insertFn = func(ctx context.Context, e *employee.Employee) error {
			ids = append(ids, e.ID)
			return nil
		}

		for _, name := range []string{"Alice", "Bob", "Carol"} {
			_, err := deps.service.Create(ctx, ownerAddress, employee.CreateEmployeeRequest{
				Name:          name,
				WalletAddress: walletAddress,
				SalaryUSD:     1000,
			})
			assert.NoError(t, err)
		}

		assert.Equal(t, []uint64{0, 1, 2}, ids)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("non-owner rejected with caller in message", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		intruder := "0xcccccccccccccccccccccccccccccccccccccccc"
		_, err := deps.service.Create(ctx, intruder, employee.CreateEmployeeRequest{
			Name:          "Mallory",
			WalletAddress: walletAddress,
			SalaryUSD:     1000,
		})

		assert.Error(t, err)
		var appErr *apperror.AppError
		assert.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Message, intruder)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("owner gate reads inside the mutation transaction", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.Create(ctx, ownerAddress, employee.CreateEmployeeRequest{
			Name:          "Alice",
			WalletAddress: walletAddress,
			SalaryUSD:     1000,
		})

		assert.NoError(t, err)
		// The guard only ever sees a transaction opened by the service, so
		// a non-nil handle proves the owner read happened after BeginTx.
		assert.NotNil(t, deps.guard.gotTx)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("invalid wallet address", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, ownerAddress, employee.CreateEmployeeRequest{
			Name:          "Alice",
			WalletAddress: "not-an-address",
			SalaryUSD:     1000,
		})

		assert.ErrorIs(t, err, employeeerrors.ErrInvalidWalletAddress)
	})

	t.Run("counter error rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.counter.err = errors.New("counter unavailable")

		_, err := deps.service.Create(ctx, ownerAddress, employee.CreateEmployeeRequest{
			Name:          "Alice",
			WalletAddress: walletAddress,
			SalaryUSD:     1000,
		})

		assert.Error(t, err)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		joined := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
		deps.repo.findByIDFn = func(ctx context.Context, id uint64) (*employee.Employee, error) {
			return &employee.Employee{
				ID:              id,
				Name:            "Alice",
				WalletAddress:   walletAddress,
				IsActive:        true,
				SalaryUSD:       1000,
				JoiningDate:     joined,
				LastPaymentDate: joined,
			}, nil
		}

		resp, err := deps.service.GetByID(ctx, 0)

		assert.NoError(t, err)
		assert.Equal(t, "Alice", resp.Name)
		assert.Equal(t, joined.Add(employee.PaymentInterval).Format(time.RFC3339), resp.NextPaymentDue)
	})

	t.Run("out of range id maps to not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		deps.repo.findByIDFn = func(ctx context.Context, id uint64) (*employee.Employee, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.GetByID(ctx, 42)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	active := true

	t.Run("overwrites all mutable fields", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.findByIDFn = func(ctx context.Context, id uint64) (*employee.Employee, error) {
			return &employee.Employee{
				ID:            id,
				Name:          "Alice",
				WalletAddress: walletAddress,
				IsActive:      false,
				SalaryUSD:     1000,
			}, nil
		}

		var updated *employee.Employee
		deps.repo.updateDetailsFn = func(ctx context.Context, e *employee.Employee) error {
			updated = e
			return nil
		}

		newWallet := "0xdddddddddddddddddddddddddddddddddddddddd"
		resp, err := deps.service.Update(ctx, ownerAddress, 0, employee.UpdateEmployeeRequest{
			Name:          "Alice B",
			WalletAddress: newWallet,
			IsActive:      &active,
			SalaryUSD:     3421,
		})

		assert.NoError(t, err)
		assert.NotNil(t, updated)
		assert.Equal(t, "Alice B", updated.Name)
		assert.Equal(t, newWallet, updated.WalletAddress)
		assert.True(t, updated.IsActive)
		assert.Equal(t, uint64(3421), updated.SalaryUSD)
		assert.Equal(t, uint64(3421), resp.SalaryUSD)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "employee.updated", deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown id", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Update(ctx, ownerAddress, 42, employee.UpdateEmployeeRequest{
			Name:          "Nobody",
			WalletAddress: walletAddress,
			IsActive:      &active,
			SalaryUSD:     1,
		})

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_Deactivate(t *testing.T) {
	ctx := context.Background()

	existing := func(ctx context.Context, id uint64) (*employee.Employee, error) {
		return &employee.Employee{ID: id, Name: "Alice", WalletAddress: walletAddress, IsActive: true}, nil
	}

	t.Run("marks inactive and stages removal event", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = existing

		var deactivated uint64
		deps.repo.setInactiveFn = func(ctx context.Context, id uint64) error {
			deactivated = id
			return nil
		}

		err := deps.service.Deactivate(ctx, ownerAddress, 3)

		assert.NoError(t, err)
		assert.Equal(t, uint64(3), deactivated)
		assert.Len(t, deps.outbox.created, 1)
		assert.Equal(t, "employee.removed", deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already inactive succeeds silently", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id uint64) (*employee.Employee, error) {
			return &employee.Employee{ID: id, Name: "Alice", WalletAddress: walletAddress, IsActive: false}, nil
		}

		err := deps.service.Deactivate(ctx, ownerAddress, 3)

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		err := deps.service.Deactivate(ctx, walletAddress, 3)

		assert.Error(t, err)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
