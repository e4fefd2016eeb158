// internal/repository/transaction_repo.go
package repository

import (
	"context"

	"momo-ledger/internal/domain"
)

// TransactionRepository defines the interface for ledger entry operations.
// Entries are append-only: there is no update or delete.
type TransactionRepository interface {
	// CreateTransaction appends a ledger entry.
	CreateTransaction(ctx context.Context, q DBExecutor, transaction *domain.Transaction) error
	// ListByUserID returns every entry of a user, newest occurred_at first.
	ListByUserID(ctx context.Context, q DBExecutor, userID int64) ([]domain.Transaction, error)
}
