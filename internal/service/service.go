// internal/service/service.go
package service

import (
	"context"
	"fmt"
	"log/slog"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/infrastructure/lock"
	"momo-ledger/internal/infrastructure/mq"
	"momo-ledger/internal/repository"
	"momo-ledger/pkg/db"
)

// Dependencies groups the collaborators shared by every service.
type Dependencies struct {
	TxManager *db.TxManager         // For starting transactions
	Reader    repository.DBExecutor // For non-transactional reads (e.g., *sqlx.DB)

	Users            repository.UserRepository
	Transactions     repository.TransactionRepository
	PendingDeposits  repository.PendingDepositRepository
	DepositRequests  repository.DepositRequestRepository
	WithdrawRequests repository.WithdrawRequestRepository

	Locker    lock.Locker  // Optional; defaults to lock.NoopLocker
	Publisher mq.Publisher // Optional; defaults to mq.NoopPublisher
	Logger    *slog.Logger // Optional; defaults to slog.Default()
}

func (d Dependencies) withDefaults() Dependencies {
	if d.Locker == nil {
		d.Locker = lock.NoopLocker{}
	}
	if d.Publisher == nil {
		d.Publisher = mq.NoopPublisher{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return d
}

// base carries the transaction scope and post-commit publishing shared by services.
type base struct {
	deps    Dependencies
	ledger  *Ledger
	pending *PendingBuffer
}

func newBase(deps Dependencies) base {
	deps = deps.withDefaults()
	ledger := NewLedger(deps.Transactions)
	return base{
		deps:    deps,
		ledger:  ledger,
		pending: NewPendingBuffer(deps.PendingDeposits, ledger),
	}
}

// withinTx runs fn inside one transaction. The transaction is rolled back on every
// exit path except a successful commit.
func (b *base) withinTx(ctx context.Context, op string, fn func(q repository.DBExecutor) error) error {
	txController, err := b.deps.TxManager.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer b.deps.TxManager.Rollback(txController)

	txExecutor, ok := txController.(repository.DBExecutor)
	if !ok {
		return fmt.Errorf("%s: transaction controller does not implement DBExecutor", op)
	}

	if err := fn(txExecutor); err != nil {
		return err
	}

	if err := b.deps.TxManager.Commit(txController); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}

// publish emits events after commit. A broker failure is logged and never changes the
// outcome of an operation that has already been committed.
func (b *base) publish(ctx context.Context, events ...domain.Event) {
	for _, event := range events {
		if err := b.deps.Publisher.Publish(ctx, event); err != nil {
			b.deps.Logger.Error("Failed to publish event", "type", event.Type, "key", event.Key, "error", err)
		}
	}
}

func transactionEvents(transactions []domain.Transaction) []domain.Event {
	events := make([]domain.Event, 0, len(transactions))
	for _, t := range transactions {
		events = append(events, domain.NewEvent(domain.EventTransactionRecorded, fmt.Sprintf("user:%d", t.UserID), t))
	}
	return events
}
