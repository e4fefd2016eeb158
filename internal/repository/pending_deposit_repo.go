// internal/repository/pending_deposit_repo.go
package repository

import (
	"context"

	"momo-ledger/internal/domain"
)

// PendingDepositRepository stores income claims for unregistered phone numbers.
type PendingDepositRepository interface {
	CreatePendingDeposit(ctx context.Context, q DBExecutor, deposit *domain.PendingDeposit) error
	// ListByPhone returns the claims for a phone number, newest occurred_at first.
	ListByPhone(ctx context.Context, q DBExecutor, phoneNumber string) ([]domain.PendingDeposit, error)
	// LockByPhone is ListByPhone with row locks held until the transaction ends.
	LockByPhone(ctx context.Context, q DBExecutor, phoneNumber string) ([]domain.PendingDeposit, error)
	// LockPhone takes a transaction-scoped lock on the phone number so that stashing
	// and draining for the same number never interleave.
	LockPhone(ctx context.Context, q DBExecutor, phoneNumber string) error
	// DeleteByIDs removes the given claims and returns how many rows went away.
	DeleteByIDs(ctx context.Context, q DBExecutor, ids []int64) (int64, error)
}
