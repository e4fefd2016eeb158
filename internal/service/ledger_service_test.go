// internal/service/ledger_service_test.go
package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/util"
)

func TestAddIncome(t *testing.T) {
	phone := "+22670000001"
	amount := decimal.NewFromInt(5000)

	t.Run("RegisteredUser", func(t *testing.T) {
		f := newFixture()
		service := NewLedgerService(f.deps)

		f.pending.On("LockPhone", f.ctx, mock.Anything, phone).Return(nil).Once()
		f.users.On("GetUserByPhone", f.ctx, mock.Anything, phone).Return(&domain.User{ID: 1, PhoneNumber: phone}, nil).Once()
		f.txs.On("CreateTransaction", f.ctx, mock.Anything, mock.MatchedBy(func(tx *domain.Transaction) bool {
			return tx.UserID == 1 && tx.Kind == domain.TransactionKindIncome && tx.Amount.Equal(amount) && tx.Category == "salary"
		})).Return(nil).Once()
		f.expectCommit()
		f.expectEvent(domain.EventTransactionRecorded)

		result, err := service.AddIncome(f.ctx, phone, domain.Entry{Amount: amount, Category: " salary ", Note: "march"})

		require.NoError(t, err)
		require.NotNil(t, result.Transaction)
		assert.Nil(t, result.Pending)
		assert.Equal(t, "march", result.Transaction.Note)
		assert.False(t, result.Transaction.OccurredAt.IsZero())
		f.assertExpectations(t)
	})

	t.Run("UnregisteredPhoneIsBuffered", func(t *testing.T) {
		f := newFixture()
		service := NewLedgerService(f.deps)

		occurred := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
		f.pending.On("LockPhone", f.ctx, mock.Anything, phone).Return(nil).Once()
		f.users.On("GetUserByPhone", f.ctx, mock.Anything, phone).Return(nil, util.ErrUserNotFound).Once()
		f.pending.On("CreatePendingDeposit", f.ctx, mock.Anything, mock.MatchedBy(func(d *domain.PendingDeposit) bool {
			return d.PhoneNumber == phone && d.Amount.Equal(amount) && d.Source == "salary" && d.OccurredAt.Equal(occurred)
		})).Return(nil).Once()
		f.expectCommit()
		f.expectEvent(domain.EventPendingDepositStashed)

		result, err := service.AddIncome(f.ctx, "22670000001", domain.Entry{Amount: amount, Category: "salary", OccurredAt: occurred})

		require.NoError(t, err)
		assert.Nil(t, result.Transaction)
		require.NotNil(t, result.Pending)
		f.txs.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})

	t.Run("InvalidAmount", func(t *testing.T) {
		for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
			f := newFixture()
			service := NewLedgerService(f.deps)

			result, err := service.AddIncome(f.ctx, phone, domain.Entry{Amount: amount, Category: "salary"})

			assert.ErrorIs(t, err, util.ErrInvalidAmount)
			assert.Nil(t, result)
			assert.Equal(t, 0, f.began)
			f.assertExpectations(t)
		}
	})

	t.Run("StorageFailureRollsBack", func(t *testing.T) {
		f := newFixture()
		service := NewLedgerService(f.deps)

		f.pending.On("LockPhone", f.ctx, mock.Anything, phone).Return(nil).Once()
		f.users.On("GetUserByPhone", f.ctx, mock.Anything, phone).Return(&domain.User{ID: 1}, nil).Once()
		f.txs.On("CreateTransaction", f.ctx, mock.Anything, mock.Anything).Return(assert.AnError).Once()

		_, err := service.AddIncome(f.ctx, phone, domain.Entry{Amount: amount, Category: "salary"})

		assert.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, "INTERNAL_ERROR", util.ErrorCode(err))
		f.tx.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})
}

func TestAddExpense(t *testing.T) {
	phone := "+22670000001"

	t.Run("RegisteredUser", func(t *testing.T) {
		f := newFixture()
		service := NewLedgerService(f.deps)

		f.users.On("GetUserByPhone", f.ctx, mock.Anything, phone).Return(&domain.User{ID: 1}, nil).Once()
		f.txs.On("CreateTransaction", f.ctx, mock.Anything, mock.MatchedBy(func(tx *domain.Transaction) bool {
			return tx.Kind == domain.TransactionKindExpense && tx.Category == "rent"
		})).Return(nil).Once()
		f.expectCommit()
		f.expectEvent(domain.EventTransactionRecorded)

		transaction, err := service.AddExpense(f.ctx, phone, domain.Entry{Amount: decimal.NewFromInt(2000), Category: "rent"})

		require.NoError(t, err)
		assert.Equal(t, domain.TransactionKindExpense, transaction.Kind)
		assert.True(t, decimal.NewFromInt(-2000).Equal(transaction.SignedAmount()))
		f.assertExpectations(t)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newFixture()
		service := NewLedgerService(f.deps)

		f.users.On("GetUserByPhone", f.ctx, mock.Anything, phone).Return(nil, util.ErrUserNotFound).Once()

		transaction, err := service.AddExpense(f.ctx, phone, domain.Entry{Amount: decimal.NewFromInt(2000), Category: "rent"})

		assert.ErrorIs(t, err, util.ErrUserNotFound)
		assert.Nil(t, transaction)
		f.tx.AssertNotCalled(t, "Commit")
		f.pending.AssertNotCalled(t, "CreatePendingDeposit", mock.Anything, mock.Anything, mock.Anything)
		f.assertExpectations(t)
	})
}

func TestLedgerRecordRejectsInvalidEntry(t *testing.T) {
	f := newFixture()
	ledger := NewLedger(f.txs)

	_, err := ledger.Record(f.ctx, f.tx, 99, domain.Entry{Kind: "transfer", Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, util.ErrInvalidInput)

	_, err = ledger.Record(f.ctx, f.tx, 99, domain.Entry{Kind: domain.TransactionKindIncome, Amount: decimal.Zero})
	assert.ErrorIs(t, err, util.ErrInvalidAmount)

	f.txs.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestAddIncomeAndExpenseRequireCategory(t *testing.T) {
	phone := "+22670000001"
	amount := decimal.NewFromInt(5000)

	for _, category := range []string{"", "   "} {
		f := newFixture()
		service := NewLedgerService(f.deps)

		result, err := service.AddIncome(f.ctx, phone, domain.Entry{Amount: amount, Category: category})
		assert.ErrorIs(t, err, util.ErrMissingField)
		assert.Nil(t, result)

		transaction, err := service.AddExpense(f.ctx, phone, domain.Entry{Amount: amount, Category: category})
		assert.ErrorIs(t, err, util.ErrMissingField)
		assert.Nil(t, transaction)

		assert.Zero(t, f.began)
		f.assertExpectations(t)
	}
}

func TestStatement(t *testing.T) {
	phone := "+22670000001"
	f := newFixture()
	service := NewLedgerService(f.deps)

	user := &domain.User{ID: 1, PhoneNumber: phone, Name: "Aïcha"}
	history := []domain.Transaction{
		{ID: 2, UserID: 1, Kind: domain.TransactionKindExpense, Amount: decimal.NewFromInt(2000), Category: "rent"},
		{ID: 1, UserID: 1, Kind: domain.TransactionKindIncome, Amount: decimal.NewFromInt(5000), Category: "salary"},
	}
	f.users.On("GetUserByPhone", f.ctx, f.reader, phone).Return(user, nil).Once()
	f.txs.On("ListByUserID", f.ctx, f.reader, int64(1)).Return(history, nil).Once()

	statement, err := service.Statement(f.ctx, phone)

	require.NoError(t, err)
	assert.Equal(t, user, statement.User)
	assert.True(t, decimal.NewFromInt(3000).Equal(statement.Balance), "balance was %s", statement.Balance)
	assert.Equal(t, history, statement.Transactions)
	assert.Equal(t, 0, f.began)
	f.assertExpectations(t)
}

func TestPendingDeposits(t *testing.T) {
	f := newFixture()
	service := NewLedgerService(f.deps)

	deposits := []domain.PendingDeposit{{ID: 1, PhoneNumber: "+22670000002", Amount: decimal.NewFromInt(1000)}}
	f.pending.On("ListByPhone", f.ctx, f.reader, "+22670000002").Return(deposits, nil).Once()

	listed, err := service.PendingDeposits(f.ctx, "22670000002")

	require.NoError(t, err)
	assert.Equal(t, deposits, listed)
	f.assertExpectations(t)
}
