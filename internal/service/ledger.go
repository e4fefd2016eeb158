// internal/service/ledger.go
package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/repository"
)

// Ledger appends entries to a user's log and derives the balance from it.
// It never opens transactions itself: callers pass the executor they are working in.
type Ledger struct {
	transactionRepo repository.TransactionRepository
}

// NewLedger creates a Ledger.
func NewLedger(transactionRepo repository.TransactionRepository) *Ledger {
	return &Ledger{transactionRepo: transactionRepo}
}

// Record validates and appends one entry for userID.
func (l *Ledger) Record(ctx context.Context, q repository.DBExecutor, userID int64, entry domain.Entry) (*domain.Transaction, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	transaction := domain.NewTransaction(userID, entry)
	if err := l.transactionRepo.CreateTransaction(ctx, q, transaction); err != nil {
		return nil, fmt.Errorf("record: failed to create transaction: %w", err)
	}
	return transaction, nil
}

// History returns every entry of the user, most recent first.
func (l *Ledger) History(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Transaction, error) {
	transactions, err := l.transactionRepo.ListByUserID(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return transactions, nil
}

// Balance recomputes the balance from the full log on every call.
func (l *Ledger) Balance(ctx context.Context, q repository.DBExecutor, userID int64) (decimal.Decimal, error) {
	transactions, err := l.History(ctx, q, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return domain.FoldBalance(transactions), nil
}
