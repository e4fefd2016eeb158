// internal/service/pending_buffer.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/repository"
)

// PendingBuffer holds income for phone numbers without an account and turns it into
// ledger entries once the account exists.
type PendingBuffer struct {
	pendingRepo repository.PendingDepositRepository
	ledger      *Ledger
}

// NewPendingBuffer creates a PendingBuffer that drains into ledger.
func NewPendingBuffer(pendingRepo repository.PendingDepositRepository, ledger *Ledger) *PendingBuffer {
	return &PendingBuffer{pendingRepo: pendingRepo, ledger: ledger}
}

// Stash stores an income claim for an unregistered phone number.
func (b *PendingBuffer) Stash(ctx context.Context, q repository.DBExecutor, phoneNumber string, amount decimal.Decimal, source, note string, occurredAt time.Time) (*domain.PendingDeposit, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	deposit := domain.NewPendingDeposit(phoneNumber, amount, source, note, occurredAt)
	if err := b.pendingRepo.CreatePendingDeposit(ctx, q, deposit); err != nil {
		return nil, fmt.Errorf("stash: %w", err)
	}
	return deposit, nil
}

// Drain converts every pending claim for the user's phone number into an income entry
// and deletes the claims. It must run inside the caller's transaction: either every
// claim is converted or, on error, the caller rolls back and none is.
func (b *PendingBuffer) Drain(ctx context.Context, q repository.DBExecutor, user *domain.User) ([]domain.Transaction, error) {
	deposits, err := b.pendingRepo.LockByPhone(ctx, q, user.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("drain: %w", err)
	}
	if len(deposits) == 0 {
		return nil, nil
	}

	credited := make([]domain.Transaction, 0, len(deposits))
	ids := make([]int64, 0, len(deposits))
	for _, deposit := range deposits {
		transaction, err := b.ledger.Record(ctx, q, user.ID, deposit.AsEntry())
		if err != nil {
			return nil, fmt.Errorf("drain: pending deposit %d: %w", deposit.ID, err)
		}
		credited = append(credited, *transaction)
		ids = append(ids, deposit.ID)
	}

	deleted, err := b.pendingRepo.DeleteByIDs(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("drain: %w", err)
	}
	if deleted != int64(len(ids)) {
		return nil, fmt.Errorf("drain: deleted %d of %d pending deposits for %s", deleted, len(ids), user.PhoneNumber)
	}
	return credited, nil
}

// List returns the claims waiting for a phone number.
func (b *PendingBuffer) List(ctx context.Context, q repository.DBExecutor, phoneNumber string) ([]domain.PendingDeposit, error) {
	deposits, err := b.pendingRepo.ListByPhone(ctx, q, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("list pending deposits: %w", err)
	}
	return deposits, nil
}
