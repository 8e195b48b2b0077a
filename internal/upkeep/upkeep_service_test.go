package upkeep_test

import (
	"context"
	"database/sql"
	"math/big"
	"sort"
	"testing"
	"time"

	"defisalary/internal/employee"
	employeeerrors "defisalary/internal/employee/errors"
	"defisalary/internal/events"
	"defisalary/internal/messaging/kafka"
	"defisalary/internal/shared/apperror"
	treasuryerrors "defisalary/internal/treasury/errors"
	"defisalary/internal/upkeep"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

const (
	callerAddress = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	walletOne     = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	walletTwo     = "0xcccccccccccccccccccccccccccccccccccccccc"
)

// ledgerStore is an in-memory employee collection backing both the due
// query and the per-record settlement reads.
type ledgerStore struct {
	employees map[uint64]*employee.Employee
}

func newLedgerStore() *ledgerStore {
	return &ledgerStore{employees: make(map[uint64]*employee.Employee)}
}

func (s *ledgerStore) add(e employee.Employee) {
	copied := e
	s.employees[e.ID] = &copied
}

func (s *ledgerStore) ListDueIDs(ctx context.Context, cutoff time.Time) ([]uint64, error) {
	var ids []uint64
	for id, e := range s.employees {
		if e.IsActive && !e.LastPaymentDate.After(cutoff) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *ledgerStore) WithTx(tx *sql.Tx) employee.Repository {
	return s
}

func (s *ledgerStore) Insert(ctx context.Context, e *employee.Employee) error {
	s.add(*e)
	return nil
}

func (s *ledgerStore) FindAll(ctx context.Context) ([]employee.Employee, error) {
	return nil, nil
}

func (s *ledgerStore) FindByID(ctx context.Context, id uint64) (*employee.Employee, error) {
	e, ok := s.employees[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (s *ledgerStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.employees)), nil
}

func (s *ledgerStore) UpdateDetails(ctx context.Context, e *employee.Employee) error {
	s.add(*e)
	return nil
}

func (s *ledgerStore) SetInactive(ctx context.Context, id uint64) error {
	if e, ok := s.employees[id]; ok {
		e.IsActive = false
	}
	return nil
}

func (s *ledgerStore) UpdateLastPaymentDate(ctx context.Context, id uint64, paidAt time.Time) error {
	if e, ok := s.employees[id]; ok && !e.LastPaymentDate.After(paidAt) {
		e.LastPaymentDate = paidAt
	}
	return nil
}

// fakePriceService quotes a fixed whole-USD ETH price.
type fakePriceService struct {
	usdPerEth int64
}

func (f *fakePriceService) LatestETHPrice(ctx context.Context) (*big.Int, error) {
	price := big.NewInt(f.usdPerEth)
	return price.Mul(price, weiPerEth()), nil
}

func (f *fakePriceService) UsdToEth(ctx context.Context, usdAmount uint64) (*big.Int, error) {
	price18, err := f.LatestETHPrice(ctx)
	if err != nil {
		return nil, err
	}
	wei := new(big.Int).SetUint64(usdAmount)
	wei.Mul(wei, weiPerEth())
	wei.Mul(wei, weiPerEth())
	return wei.Quo(wei, price18), nil
}

func weiPerEth() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
}

type transferCall struct {
	dest   string
	amount *big.Int
}

type fakeTransferor struct {
	balance   *big.Int
	frozen    map[string]bool
	transfers []transferCall
}

func (f *fakeTransferor) Transfer(ctx context.Context, tx *sql.Tx, dest string, amount *big.Int) error {
	if f.balance != nil && f.balance.Cmp(amount) < 0 {
		return treasuryerrors.ErrInsufficientFunds
	}
	if f.frozen[dest] {
		return treasuryerrors.ErrTransferRejected
	}
	if f.balance != nil {
		f.balance.Sub(f.balance, amount)
	}
	f.transfers = append(f.transfers, transferCall{dest: dest, amount: new(big.Int).Set(amount)})
	return nil
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository {
	return f
}

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
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

type upkeepDeps struct {
	db         *sql.DB
	sqlMock    sqlmock.Sqlmock
	service    upkeep.Service
	store      *ledgerStore
	transferor *fakeTransferor
	outbox     *fakeOutboxRepository
	now        *time.Time
}

func setupUpkeepTest(t *testing.T) *upkeepDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	store := newLedgerStore()
	transferor := &fakeTransferor{frozen: map[string]bool{}}
	outbox := &fakeOutboxRepository{}

	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := &start
	clock := func() time.Time { return *now }

	svc := upkeep.NewService(db, store, store, &fakePriceService{usdPerEth: 2000}, transferor, outbox, clock)

	return &upkeepDeps{
		db:         db,
		sqlMock:    sqlMock,
		service:    svc,
		store:      store,
		transferor: transferor,
		outbox:     outbox,
		now:        now,
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

func TestUpkeepService_CheckDue(t *testing.T) {
	ctx := context.Background()

	t.Run("fresh hire is not due", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		deps.store.add(employee.Employee{
			ID: 0, WalletAddress: walletOne, IsActive: true,
			SalaryUSD: 1000, LastPaymentDate: *deps.now,
		})

		result, err := deps.service.CheckDue(ctx)

		assert.NoError(t, err)
		assert.False(t, result.AnyDue)
		assert.Empty(t, result.DueIDs)
		assert.Zero(t, result.Count)
	})

	t.Run("due once the interval elapses", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		deps.store.add(employee.Employee{
			ID: 0, WalletAddress: walletOne, IsActive: true,
			SalaryUSD: 1000, LastPaymentDate: *deps.now,
		})

		*deps.now = deps.now.Add(employee.PaymentInterval)

		result, err := deps.service.CheckDue(ctx)

		assert.NoError(t, err)
		assert.True(t, result.AnyDue)
		assert.Equal(t, []uint64{0}, result.DueIDs)
		assert.Equal(t, 1, result.Count)
	})

	t.Run("inactive employees never show up", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		paid := deps.now.Add(-2 * employee.PaymentInterval)
		deps.store.add(employee.Employee{
			ID: 0, WalletAddress: walletOne, IsActive: false,
			SalaryUSD: 1000, LastPaymentDate: paid,
		})

		result, err := deps.service.CheckDue(ctx)

		assert.NoError(t, err)
		assert.False(t, result.AnyDue)
	})

	t.Run("due ids come back in insertion order", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		paid := deps.now.Add(-employee.PaymentInterval)
		deps.store.add(employee.Employee{
			ID: 1, WalletAddress: walletTwo, IsActive: true,
			SalaryUSD: 3421, LastPaymentDate: paid,
		})
		deps.store.add(employee.Employee{
			ID: 0, WalletAddress: walletOne, IsActive: true,
			SalaryUSD: 1000, LastPaymentDate: paid,
		})

		result, err := deps.service.CheckDue(ctx)

		assert.NoError(t, err)
		assert.Equal(t, []uint64{0, 1}, result.DueIDs)
		assert.Equal(t, 2, result.Count)
	})
}

func TestUpkeepService_Settle(t *testing.T) {
	ctx := context.Background()

	addDue := func(deps *upkeepDeps, id uint64, wallet string, salaryUSD uint64) {
		deps.store.add(employee.Employee{
			ID: id, WalletAddress: wallet, IsActive: true,
			SalaryUSD: salaryUSD, LastPaymentDate: deps.now.Add(-employee.PaymentInterval),
		})
	}

	t.Run("pays exact wei amounts and advances the payment date", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		addDue(deps, 0, walletOne, 1000)
		addDue(deps, 1, walletTwo, 3421)

		expectTx(t, deps.sqlMock, true)

		result, err := deps.service.Settle(ctx, callerAddress, []uint64{0, 1}, 2)

		assert.NoError(t, err)
		assert.Len(t, result.Settled, 2)
		assert.Empty(t, result.Skipped)

		// $1000 at $2000/ETH is exactly half an ether.
		assert.Equal(t, "500000000000000000", result.Settled[0].EthAmountWei)
		assert.Equal(t, "1710500000000000000", result.Settled[1].EthAmountWei)

		assert.Len(t, deps.transferor.transfers, 2)
		assert.Equal(t, walletOne, deps.transferor.transfers[0].dest)
		assert.Equal(t, walletTwo, deps.transferor.transfers[1].dest)

		for _, id := range []uint64{0, 1} {
			record, findErr := deps.store.FindByID(ctx, id)
			assert.NoError(t, findErr)
			assert.Equal(t, (*deps.now).UTC(), record.LastPaymentDate)
		}

		assert.Len(t, deps.outbox.created, 2)
		assert.Equal(t, events.TypeSalaryPaid, deps.outbox.created[0].EventType)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("paid employees are no longer due", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		addDue(deps, 0, walletOne, 1000)

		expectTx(t, deps.sqlMock, true)

		_, err := deps.service.Settle(ctx, callerAddress, []uint64{0}, 1)
		assert.NoError(t, err)

		check, err := deps.service.CheckDue(ctx)
		assert.NoError(t, err)
		assert.False(t, check.AnyDue)
	})

	t.Run("refused wallet is skipped and the rest are paid", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		addDue(deps, 0, walletOne, 1000)
		addDue(deps, 1, walletTwo, 3421)
		deps.transferor.frozen[walletOne] = true

		expectTx(t, deps.sqlMock, true)

		result, err := deps.service.Settle(ctx, callerAddress, []uint64{0, 1}, 2)

		assert.NoError(t, err)
		assert.Len(t, result.Settled, 1)
		assert.Equal(t, uint64(1), result.Settled[0].EmployeeID)
		assert.Equal(t, []uint64{0}, result.Skipped)

		// The skipped employee stays due for the next round.
		skipped, findErr := deps.store.FindByID(ctx, 0)
		assert.NoError(t, findErr)
		assert.True(t, skipped.LastPaymentDate.Before(*deps.now))
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("underfunded treasury aborts the whole batch", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		addDue(deps, 0, walletOne, 1000)
		addDue(deps, 1, walletTwo, 3421)
		// Enough for the first payment only.
		deps.transferor.balance = big.NewInt(600000000000000000)

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Settle(ctx, callerAddress, []uint64{0, 1}, 2)

		assert.ErrorIs(t, err, treasuryerrors.ErrInsufficientFunds)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("stale due set skips deactivated employees", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		addDue(deps, 0, walletOne, 1000)
		deps.store.employees[0].IsActive = false

		expectTx(t, deps.sqlMock, true)

		result, err := deps.service.Settle(ctx, callerAddress, []uint64{0}, 1)

		assert.NoError(t, err)
		assert.Empty(t, result.Settled)
		assert.Equal(t, []uint64{0}, result.Skipped)
		assert.Empty(t, deps.transferor.transfers)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown id aborts with not found", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Settle(ctx, callerAddress, []uint64{42}, 1)

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("count caps the batch", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		addDue(deps, 0, walletOne, 1000)
		addDue(deps, 1, walletTwo, 3421)

		expectTx(t, deps.sqlMock, true)

		result, err := deps.service.Settle(ctx, callerAddress, []uint64{0, 1}, 1)

		assert.NoError(t, err)
		assert.Len(t, result.Settled, 1)
		assert.Equal(t, uint64(0), result.Settled[0].EmployeeID)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("count larger than the due set is clamped", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		addDue(deps, 0, walletOne, 1000)

		expectTx(t, deps.sqlMock, true)

		result, err := deps.service.Settle(ctx, callerAddress, []uint64{0}, 10)

		assert.NoError(t, err)
		assert.Len(t, result.Settled, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative count is rejected, not a panic", func(t *testing.T) {
		deps := setupUpkeepTest(t)
		defer deps.db.Close()

		addDue(deps, 0, walletOne, 1000)

		_, err := deps.service.Settle(ctx, callerAddress, []uint64{0}, -1)

		assert.ErrorIs(t, err, apperror.ErrInvalidInput)
		assert.Empty(t, deps.transferor.transfers)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
