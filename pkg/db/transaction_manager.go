// pkg/db/transaction_manager.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
)

// TxController defines methods for controlling a database transaction.
// *sqlx.Tx implicitly implements this interface.
type TxController interface {
	Commit() error
	Rollback() error
}

// DBTxBeginner defines the interface for beginning transactions.
// *sqlx.DB implements this.
type DBTxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// Function types so services can be tested without a database.
type (
	BeginTxFunc    func(ctx context.Context, dbConn DBTxBeginner) (TxController, error)
	CommitTxFunc   func(tx TxController) error
	RollbackTxFunc func(tx TxController)
)

// BeginTx starts a new database transaction.
// It returns a TxController interface, which *sqlx.Tx implements.
func BeginTx(ctx context.Context, dbConn DBTxBeginner) (TxController, error) {
	tx, err := dbConn.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// CommitTx commits the transaction.
func CommitTx(tx TxController) error {
	return tx.Commit()
}

// RollbackTx rolls back the transaction. It is meant to be deferred, so a transaction
// that was already committed is not an error.
func RollbackTx(tx TxController) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Default().Error("Error rolling back transaction", "error", err)
	}
}

// TxManager bundles a connection pool with the begin/commit/rollback functions used on it.
type TxManager struct {
	beginner DBTxBeginner
	begin    BeginTxFunc
	commit   CommitTxFunc
	rollback RollbackTxFunc
}

// NewTxManager creates a TxManager. Production code passes BeginTx, CommitTx and RollbackTx.
func NewTxManager(beginner DBTxBeginner, begin BeginTxFunc, commit CommitTxFunc, rollback RollbackTxFunc) *TxManager {
	return &TxManager{
		beginner: beginner,
		begin:    begin,
		commit:   commit,
		rollback: rollback,
	}
}

// NewDefaultTxManager wires the package-level transaction helpers around beginner.
func NewDefaultTxManager(beginner DBTxBeginner) *TxManager {
	return NewTxManager(beginner, BeginTx, CommitTx, RollbackTx)
}

// Begin starts a transaction.
func (m *TxManager) Begin(ctx context.Context) (TxController, error) {
	return m.begin(ctx, m.beginner)
}

// Commit commits tx.
func (m *TxManager) Commit(tx TxController) error {
	return m.commit(tx)
}

// Rollback rolls tx back; safe to call after Commit.
func (m *TxManager) Rollback(tx TxController) {
	m.rollback(tx)
}
