// internal/repository/request_repo.go
package repository

import (
	"context"
	"time"

	"momo-ledger/internal/domain"
)

// DepositRequestRepository defines the interface for deposit request persistence.
type DepositRequestRepository interface {
	CreateDepositRequest(ctx context.Context, q DBExecutor, request *domain.DepositRequest) error
	// GetForUpdate loads a request and locks its row. Missing ids yield util.ErrRequestNotFound.
	GetForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.DepositRequest, error)
	// UpdateStatus moves a request from one status to another only if it is still in
	// `from`; otherwise util.ErrRequestAlreadyProcessed.
	UpdateStatus(ctx context.Context, q DBExecutor, id int64, from, to domain.RequestStatus, processedAt time.Time) error
	// List returns requests newest created_at first, optionally filtered by status.
	List(ctx context.Context, q DBExecutor, status *domain.RequestStatus) ([]domain.DepositRequest, error)
}

// WithdrawRequestRepository defines the interface for withdraw request persistence.
type WithdrawRequestRepository interface {
	CreateWithdrawRequest(ctx context.Context, q DBExecutor, request *domain.WithdrawRequest) error
	GetForUpdate(ctx context.Context, q DBExecutor, id int64) (*domain.WithdrawRequest, error)
	UpdateStatus(ctx context.Context, q DBExecutor, id int64, from, to domain.RequestStatus, processedAt time.Time) error
	// ListWithUsers returns requests joined with the owner's name and phone number.
	ListWithUsers(ctx context.Context, q DBExecutor, status *domain.RequestStatus) ([]domain.WithdrawRequestView, error)
}
