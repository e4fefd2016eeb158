// internal/service/ledger_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/repository"
	"momo-ledger/internal/util"
)

// IncomeResult reports where an income claim went: exactly one field is set.
type IncomeResult struct {
	Transaction *domain.Transaction    // recorded for an existing user
	Pending     *domain.PendingDeposit // stashed until the phone number registers
}

// Statement is a user's balance together with the history it was folded from.
type Statement struct {
	User         *domain.User
	Balance      decimal.Decimal
	Transactions []domain.Transaction
}

// LedgerService defines the interface for ledger operations.
type LedgerService interface {
	// AddIncome records income for a registered phone number or buffers it otherwise.
	AddIncome(ctx context.Context, phoneNumber string, entry domain.Entry) (*IncomeResult, error)
	// AddExpense records an expense; the phone number must be registered.
	AddExpense(ctx context.Context, phoneNumber string, entry domain.Entry) (*domain.Transaction, error)
	// Statement resolves the phone number and returns balance and history.
	Statement(ctx context.Context, phoneNumber string) (*Statement, error)
	// PendingDeposits lists buffered income for a phone number.
	PendingDeposits(ctx context.Context, phoneNumber string) ([]domain.PendingDeposit, error)
}

type ledgerService struct {
	base
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(deps Dependencies) LedgerService {
	return &ledgerService{base: newBase(deps)}
}

func (s *ledgerService) AddIncome(ctx context.Context, phoneNumber string, entry domain.Entry) (*IncomeResult, error) {
	entry.Kind = domain.TransactionKindIncome
	entry.Category = strings.TrimSpace(entry.Category)
	if entry.Category == "" {
		return nil, util.ErrMissingField
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	phone, err := domain.NormalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}

	result := &IncomeResult{}
	err = s.withinTx(ctx, "add income", func(q repository.DBExecutor) error {
		if err := s.deps.PendingDeposits.LockPhone(ctx, q, phone); err != nil {
			return fmt.Errorf("add income: %w", err)
		}

		user, err := s.deps.Users.GetUserByPhone(ctx, q, phone)
		switch {
		case err == nil:
			result.Transaction, err = s.ledger.Record(ctx, q, user.ID, entry)
			return err
		case util.IsError(err, util.ErrUserNotFound):
			result.Pending, err = s.pending.Stash(ctx, q, phone, entry.Amount, entry.Category, entry.Note, entry.OccurredAt)
			return err
		default:
			return fmt.Errorf("add income: failed to look up user: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}

	if result.Transaction != nil {
		s.deps.Logger.Info("Income recorded", "user_id", result.Transaction.UserID, "amount", result.Transaction.Amount.String())
		s.publish(ctx, transactionEvents([]domain.Transaction{*result.Transaction})...)
	} else {
		s.deps.Logger.Info("Income buffered for unregistered phone number", "phone_number", phone, "amount", result.Pending.Amount.String())
		s.publish(ctx, domain.NewEvent(domain.EventPendingDepositStashed, phone, result.Pending))
	}
	return result, nil
}

func (s *ledgerService) AddExpense(ctx context.Context, phoneNumber string, entry domain.Entry) (*domain.Transaction, error) {
	entry.Kind = domain.TransactionKindExpense
	entry.Category = strings.TrimSpace(entry.Category)
	if entry.Category == "" {
		return nil, util.ErrMissingField
	}
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	phone, err := domain.NormalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}

	var transaction *domain.Transaction
	err = s.withinTx(ctx, "add expense", func(q repository.DBExecutor) error {
		user, err := s.deps.Users.GetUserByPhone(ctx, q, phone)
		if err != nil {
			return err
		}
		transaction, err = s.ledger.Record(ctx, q, user.ID, entry)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("Expense recorded", "user_id", transaction.UserID, "amount", transaction.Amount.String())
	s.publish(ctx, transactionEvents([]domain.Transaction{*transaction})...)
	return transaction, nil
}

func (s *ledgerService) Statement(ctx context.Context, phoneNumber string) (*Statement, error) {
	phone, err := domain.NormalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}
	user, err := s.deps.Users.GetUserByPhone(ctx, s.deps.Reader, phone)
	if err != nil {
		return nil, err
	}
	transactions, err := s.ledger.History(ctx, s.deps.Reader, user.ID)
	if err != nil {
		return nil, err
	}
	return &Statement{
		User:         user,
		Balance:      domain.FoldBalance(transactions),
		Transactions: transactions,
	}, nil
}

func (s *ledgerService) PendingDeposits(ctx context.Context, phoneNumber string) ([]domain.PendingDeposit, error) {
	phone, err := domain.NormalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}
	return s.pending.List(ctx, s.deps.Reader, phone)
}
