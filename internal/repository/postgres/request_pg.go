// internal/repository/postgres/request_pg.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/repository"
	"momo-ledger/internal/util"
)

const (
	depositRequestColumns  = `id, phone_number, amount, transaction_proof, status, created_at, processed_at`
	withdrawRequestColumns = `id, user_id, amount, transaction_proof, status, created_at, processed_at`
)

// DepositRequestRepository implements repository.DepositRequestRepository for PostgreSQL.
type DepositRequestRepository struct{}

// NewDepositRequestRepository creates a new DepositRequestRepository.
func NewDepositRequestRepository() repository.DepositRequestRepository {
	return &DepositRequestRepository{}
}

func (r *DepositRequestRepository) CreateDepositRequest(ctx context.Context, q repository.DBExecutor, request *domain.DepositRequest) error {
	query := `INSERT INTO deposit_requests (phone_number, amount, transaction_proof, status, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		request.PhoneNumber,
		request.Amount,
		request.TransactionProof,
		request.Status,
		request.CreatedAt,
	).Scan(&request.ID)
	if err != nil {
		return fmt.Errorf("failed to create deposit request: %w", err)
	}
	return nil
}

func (r *DepositRequestRepository) GetForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.DepositRequest, error) {
	var request domain.DepositRequest
	query := `SELECT ` + depositRequestColumns + ` FROM deposit_requests WHERE id = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &request, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get deposit request %d: %w", id, err)
	}
	return &request, nil
}

func (r *DepositRequestRepository) UpdateStatus(ctx context.Context, q repository.DBExecutor, id int64, from, to domain.RequestStatus, processedAt time.Time) error {
	return updateStatus(ctx, q, "deposit_requests", id, from, to, processedAt)
}

func (r *DepositRequestRepository) List(ctx context.Context, q repository.DBExecutor, status *domain.RequestStatus) ([]domain.DepositRequest, error) {
	requests := []domain.DepositRequest{}
	query := `SELECT ` + depositRequestColumns + ` FROM deposit_requests`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if err := q.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list deposit requests: %w", err)
	}
	return requests, nil
}

// WithdrawRequestRepository implements repository.WithdrawRequestRepository for PostgreSQL.
type WithdrawRequestRepository struct{}

// NewWithdrawRequestRepository creates a new WithdrawRequestRepository.
func NewWithdrawRequestRepository() repository.WithdrawRequestRepository {
	return &WithdrawRequestRepository{}
}

func (r *WithdrawRequestRepository) CreateWithdrawRequest(ctx context.Context, q repository.DBExecutor, request *domain.WithdrawRequest) error {
	query := `INSERT INTO withdraw_requests (user_id, amount, transaction_proof, status, created_at)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := q.QueryRowContext(ctx, query,
		request.UserID,
		request.Amount,
		request.TransactionProof,
		request.Status,
		request.CreatedAt,
	).Scan(&request.ID)
	if err != nil {
		return fmt.Errorf("failed to create withdraw request: %w", err)
	}
	return nil
}

func (r *WithdrawRequestRepository) GetForUpdate(ctx context.Context, q repository.DBExecutor, id int64) (*domain.WithdrawRequest, error) {
	var request domain.WithdrawRequest
	query := `SELECT ` + withdrawRequestColumns + ` FROM withdraw_requests WHERE id = $1 FOR UPDATE`
	if err := q.GetContext(ctx, &request, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, util.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get withdraw request %d: %w", id, err)
	}
	return &request, nil
}

func (r *WithdrawRequestRepository) UpdateStatus(ctx context.Context, q repository.DBExecutor, id int64, from, to domain.RequestStatus, processedAt time.Time) error {
	return updateStatus(ctx, q, "withdraw_requests", id, from, to, processedAt)
}

// ListWithUsers joins each request with its owner; the name is never copied into the request row.
func (r *WithdrawRequestRepository) ListWithUsers(ctx context.Context, q repository.DBExecutor, status *domain.RequestStatus) ([]domain.WithdrawRequestView, error) {
	requests := []domain.WithdrawRequestView{}
	query := `
		SELECT w.id, w.user_id, w.amount, w.transaction_proof, w.status, w.created_at, w.processed_at,
		       u.name AS user_name, u.phone_number
		FROM withdraw_requests w
		JOIN users u ON u.id = w.user_id`
	args := []interface{}{}
	if status != nil {
		query += ` WHERE w.status = $1`
		args = append(args, *status)
	}
	query += ` ORDER BY w.created_at DESC, w.id DESC`
	if err := q.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list withdraw requests: %w", err)
	}
	return requests, nil
}

// updateStatus is a compare-and-swap on status: the row only changes while it is still
// in `from`, so a concurrent decision on the same request cannot be applied twice.
func updateStatus(ctx context.Context, q repository.DBExecutor, table string, id int64, from, to domain.RequestStatus, processedAt time.Time) error {
	if !from.CanTransitionTo(to) {
		return util.ErrRequestAlreadyProcessed
	}

	query := fmt.Sprintf(`UPDATE %s SET status = $1, processed_at = $2 WHERE id = $3 AND status = $4`, table)
	result, err := q.ExecContext(ctx, query, to, processedAt, id, from)
	if err != nil {
		return fmt.Errorf("failed to update %s status for ID %d: %w", table, id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating %s status for ID %d: %w", table, id, err)
	}
	if rowsAffected == 0 {
		return util.ErrRequestAlreadyProcessed
	}
	return nil
}
