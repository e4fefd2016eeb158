// internal/service/mocks_test.go
package service

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/infrastructure/lock"
	"momo-ledger/internal/repository"
	"momo-ledger/pkg/db"
)

// MockDBExecutor is a mock implementation of repository.DBExecutor.
type MockDBExecutor struct {
	mock.Mock
}

func (m *MockDBExecutor) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	argsCalled := m.Called(ctx, dest, query, args)
	return argsCalled.Error(0)
}

func (m *MockDBExecutor) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	argsCalled := m.Called(ctx, query, args)
	return argsCalled.Get(0).(sql.Result), argsCalled.Error(1)
}

func (m *MockDBExecutor) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	m.Called(ctx, query, args)
	return &sql.Row{}
}

// MockTxController is a mock implementation of db.TxController.
// It also implements repository.DBExecutor by embedding MockDBExecutor.
type MockTxController struct {
	mock.Mock
	MockDBExecutor
}

func (m *MockTxController) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTxController) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, q repository.DBExecutor, user *domain.User) error {
	args := m.Called(ctx, q, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByPhone(ctx context.Context, q repository.DBExecutor, phoneNumber string) (*domain.User, error) {
	args := m.Called(ctx, q, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) LockUser(ctx context.Context, q repository.DBExecutor, id int64) (*domain.User, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockTransactionRepository is a mock implementation of repository.TransactionRepository.
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	args := m.Called(ctx, q, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, q, userID)
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockPendingDepositRepository is a mock implementation of repository.PendingDepositRepository.
type MockPendingDepositRepository struct {
	mock.Mock
}

func (m *MockPendingDepositRepository) CreatePendingDeposit(ctx context.Context, q repository.DBExecutor, deposit *domain.PendingDeposit) error {
	args := m.Called(ctx, q, deposit)
	return args.Error(0)
}

func (m *MockPendingDepositRepository) ListByPhone(ctx context.Context, q repository.DBExecutor, phoneNumber string) ([]domain.PendingDeposit, error) {
	args := m.Called(ctx, q, phoneNumber)
	return args.Get(0).([]domain.PendingDeposit), args.Error(1)
}

func (m *MockPendingDepositRepository) LockByPhone(ctx context.Context, q repository.DBExecutor, phoneNumber string) ([]domain.PendingDeposit, error) {
	args := m.Called(ctx, q, phoneNumber)
	return args.Get(0).([]domain.PendingDeposit), args.Error(1)
}

func (m *MockPendingDepositRepository) LockPhone(ctx context.Context, q repository.DBExecutor, phoneNumber string) error {
	args := m.Called(ctx, q, phoneNumber)
	return args.Error(0)
}

func (m *MockPendingDepositRepository) DeleteByIDs(ctx context.Context, q repository.DBExecutor, ids []int64) (int64, error) {
	args := m.Called(ctx, q, ids)
	return args.Get(0).(int64), args.Error(1)
}

// MockDepositRequestRepository is a mock implementation of repository.DepositRequestRepository.
type MockDepositRequestRepository struct {
	mock.Mock
}

func (m *MockDepositRequestRepository) CreateDepositRequest(ctx context.Context, q repository.DBExecutor, request *domain.DepositRequest) error {
	args := m.Called(ctx, q, request)
	return args.Error(0)
}

func (m *MockDepositRequestRepository) GetForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.DepositRequest, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DepositRequest), args.Error(1)
}

func (m *MockDepositRequestRepository) UpdateStatus(ctx context.Context, q repository.DBExecutor, id int64, from, to domain.RequestStatus, processedAt time.Time) error {
	args := m.Called(ctx, q, id, from, to, processedAt)
	return args.Error(0)
}

func (m *MockDepositRequestRepository) List(ctx context.Context, q repository.DBExecutor, status *domain.RequestStatus) ([]domain.DepositRequest, error) {
	args := m.Called(ctx, q, status)
	return args.Get(0).([]domain.DepositRequest), args.Error(1)
}

// MockWithdrawRequestRepository is a mock implementation of repository.WithdrawRequestRepository.
type MockWithdrawRequestRepository struct {
	mock.Mock
}

func (m *MockWithdrawRequestRepository) CreateWithdrawRequest(ctx context.Context, q repository.DBExecutor, request *domain.WithdrawRequest) error {
	args := m.Called(ctx, q, request)
	return args.Error(0)
}

func (m *MockWithdrawRequestRepository) GetForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.WithdrawRequest, error) {
	args := m.Called(ctx, q, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WithdrawRequest), args.Error(1)
}

func (m *MockWithdrawRequestRepository) UpdateStatus(ctx context.Context, q repository.DBExecutor, id int64, from, to domain.RequestStatus, processedAt time.Time) error {
	args := m.Called(ctx, q, id, from, to, processedAt)
	return args.Error(0)
}

func (m *MockWithdrawRequestRepository) ListWithUsers(ctx context.Context, q repository.DBExecutor, status *domain.RequestStatus) ([]domain.WithdrawRequestView, error) {
	args := m.Called(ctx, q, status)
	return args.Get(0).([]domain.WithdrawRequestView), args.Error(1)
}

// MockLocker is a mock implementation of lock.Locker.
type MockLocker struct {
	mock.Mock
}

func (m *MockLocker) Acquire(ctx context.Context, key string) (lock.ReleaseFunc, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(lock.ReleaseFunc), args.Error(1)
}

// MockPublisher is a mock implementation of mq.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event domain.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// fixture wires every mock into a Dependencies value.
type fixture struct {
	ctx       context.Context
	reader    *MockDBExecutor
	tx        *MockTxController
	users     *MockUserRepository
	txs       *MockTransactionRepository
	pending   *MockPendingDepositRepository
	deposits  *MockDepositRequestRepository
	withdraws *MockWithdrawRequestRepository
	locker    *MockLocker
	publisher *MockPublisher
	began     int
	deps      Dependencies
}

func newFixture() *fixture {
	f := &fixture{
		ctx:       context.Background(),
		reader:    new(MockDBExecutor),
		tx:        new(MockTxController),
		users:     new(MockUserRepository),
		txs:       new(MockTransactionRepository),
		pending:   new(MockPendingDepositRepository),
		deposits:  new(MockDepositRequestRepository),
		withdraws: new(MockWithdrawRequestRepository),
		locker:    new(MockLocker),
		publisher: new(MockPublisher),
	}
	txManager := db.NewTxManager(nil,
		func(ctx context.Context, dbConn db.DBTxBeginner) (db.TxController, error) {
			f.began++
			return f.tx, nil
		},
		func(tx db.TxController) error {
			return f.tx.Commit()
		},
		func(tx db.TxController) {
			_ = f.tx.Rollback()
		},
	)
	// The deferred rollback runs on every path, including after a commit.
	f.tx.On("Rollback").Return(nil).Maybe()

	f.deps = Dependencies{
		TxManager:        txManager,
		Reader:           f.reader,
		Users:            f.users,
		Transactions:     f.txs,
		PendingDeposits:  f.pending,
		DepositRequests:  f.deposits,
		WithdrawRequests: f.withdraws,
		Locker:           f.locker,
		Publisher:        f.publisher,
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return f
}

// expectCommit expects exactly one successful commit.
func (f *fixture) expectCommit() {
	f.tx.On("Commit").Return(nil).Once()
}

// expectEvent expects one published event of the given type.
func (f *fixture) expectEvent(eventType domain.EventType) {
	f.publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e domain.Event) bool {
		return e.Type == eventType
	})).Return(nil).Once()
}

// grantLock makes the next Acquire on key succeed.
func (f *fixture) grantLock(key string) {
	f.locker.On("Acquire", mock.Anything, key).
		Return(lock.ReleaseFunc(func(context.Context) error { return nil }), nil).Once()
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	mock.AssertExpectationsForObjects(t, f.reader, f.tx, f.users, f.txs, f.pending, f.deposits, f.withdraws, f.locker, f.publisher)
}
