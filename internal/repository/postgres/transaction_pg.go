// internal/repository/postgres/transaction_pg.go
package postgres

import (
	"context"
	"fmt"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/repository"
)

// TransactionRepository implements repository.TransactionRepository for PostgreSQL.
type TransactionRepository struct{}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository() repository.TransactionRepository {
	return &TransactionRepository{}
}

// CreateTransaction inserts a new ledger entry using the provided DBExecutor.
func (r *TransactionRepository) CreateTransaction(ctx context.Context, q repository.DBExecutor, transaction *domain.Transaction) error {
	query := `INSERT INTO transactions (user_id, kind, amount, category, note, occurred_at, recorded_at, reference)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`

	err := q.QueryRowContext(ctx, query,
		transaction.UserID,
		transaction.Kind,
		transaction.Amount,
		transaction.Category,
		transaction.Note,
		transaction.OccurredAt,
		transaction.RecordedAt,
		transaction.Reference,
	).Scan(&transaction.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListByUserID retrieves the whole ledger of a user, most recent first.
func (r *TransactionRepository) ListByUserID(ctx context.Context, q repository.DBExecutor, userID int64) ([]domain.Transaction, error) {
	transactions := []domain.Transaction{}
	query := `
		SELECT id, user_id, kind, amount, category, note, occurred_at, recorded_at, reference
		FROM transactions
		WHERE user_id = $1
		ORDER BY occurred_at DESC, id DESC`
	if err := q.SelectContext(ctx, &transactions, query, userID); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions for user %d: %w", userID, err)
	}
	return transactions, nil
}
