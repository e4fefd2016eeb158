// internal/repository/postgres/pending_deposit_pg.go
package postgres

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/repository"
)

const pendingDepositColumns = `id, phone_number, amount, source, note, occurred_at, created_at`

// PendingDepositRepository implements repository.PendingDepositRepository for PostgreSQL.
type PendingDepositRepository struct{}

// NewPendingDepositRepository creates a new PendingDepositRepository.
func NewPendingDepositRepository() repository.PendingDepositRepository {
	return &PendingDepositRepository{}
}

func (r *PendingDepositRepository) CreatePendingDeposit(ctx context.Context, q repository.DBExecutor, deposit *domain.PendingDeposit) error {
	query := `INSERT INTO pending_deposits (phone_number, amount, source, note, occurred_at, created_at)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		deposit.PhoneNumber,
		deposit.Amount,
		deposit.Source,
		deposit.Note,
		deposit.OccurredAt,
		deposit.CreatedAt,
	).Scan(&deposit.ID)
	if err != nil {
		return fmt.Errorf("failed to create pending deposit: %w", err)
	}
	return nil
}

func (r *PendingDepositRepository) ListByPhone(ctx context.Context, q repository.DBExecutor, phoneNumber string) ([]domain.PendingDeposit, error) {
	return r.list(ctx, q, `
		SELECT `+pendingDepositColumns+`
		FROM pending_deposits
		WHERE phone_number = $1
		ORDER BY occurred_at DESC, id DESC`, phoneNumber)
}

func (r *PendingDepositRepository) LockByPhone(ctx context.Context, q repository.DBExecutor, phoneNumber string) ([]domain.PendingDeposit, error) {
	return r.list(ctx, q, `
		SELECT `+pendingDepositColumns+`
		FROM pending_deposits
		WHERE phone_number = $1
		ORDER BY id
		FOR UPDATE`, phoneNumber)
}

func (r *PendingDepositRepository) LockPhone(ctx context.Context, q repository.DBExecutor, phoneNumber string) error {
	if _, err := q.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, phoneNumber); err != nil {
		return fmt.Errorf("failed to lock phone number %s: %w", phoneNumber, err)
	}
	return nil
}

func (r *PendingDepositRepository) DeleteByIDs(ctx context.Context, q repository.DBExecutor, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result, err := q.ExecContext(ctx, `DELETE FROM pending_deposits WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("failed to delete pending deposits: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected after deleting pending deposits: %w", err)
	}
	return deleted, nil
}

func (r *PendingDepositRepository) list(ctx context.Context, q repository.DBExecutor, query, phoneNumber string) ([]domain.PendingDeposit, error) {
	deposits := []domain.PendingDeposit{}
	if err := q.SelectContext(ctx, &deposits, query, phoneNumber); err != nil {
		return nil, fmt.Errorf("failed to fetch pending deposits for %s: %w", phoneNumber, err)
	}
	return deposits, nil
}
