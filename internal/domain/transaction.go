// internal/domain/transaction.go
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"momo-ledger/internal/util"
)

// TransactionKind is the direction of a ledger entry. The amount is always positive;
// the kind carries the sign.
type TransactionKind string

const (
	TransactionKindIncome  TransactionKind = "income"
	TransactionKindExpense TransactionKind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k TransactionKind) Valid() bool {
	return k == TransactionKindIncome || k == TransactionKindExpense
}

// Categories and notes written by the request workflow.
const (
	CategoryDeposit    = "deposit"
	CategoryWithdrawal = "withdrawal"
	NoteAdminApproved  = "admin-approved"
)

// Transaction is an append-only ledger entry.
type Transaction struct {
	ID         int64           `db:"id" json:"id"`
	UserID     int64           `db:"user_id" json:"user_id"`
	Kind       TransactionKind `db:"kind" json:"kind"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Category   string          `db:"category" json:"category"`
	Note       string          `db:"note" json:"note"`
	OccurredAt time.Time       `db:"occurred_at" json:"occurred_at"`
	RecordedAt time.Time       `db:"recorded_at" json:"recorded_at"`
	Reference  uuid.UUID       `db:"reference" json:"reference"`
}

// Entry is the caller-supplied part of a ledger record.
type Entry struct {
	Kind       TransactionKind
	Amount     decimal.Decimal
	Category   string
	Note       string
	OccurredAt time.Time // zero means "now"
}

// Validate checks the invariants every ledger entry must satisfy.
func (e Entry) Validate() error {
	if !e.Kind.Valid() {
		return util.ErrInvalidInput
	}
	return ValidateAmount(e.Amount)
}

// NewTransaction builds a Transaction for userID from a validated entry.
func NewTransaction(userID int64, e Entry) *Transaction {
	now := time.Now().UTC()
	occurredAt := e.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = now
	}
	return &Transaction{
		UserID:     userID,
		Kind:       e.Kind,
		Amount:     e.Amount,
		Category:   e.Category,
		Note:       e.Note,
		OccurredAt: occurredAt,
		RecordedAt: now,
		Reference:  uuid.New(),
	}
}

// SignedAmount returns +amount for income and -amount for expense.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == TransactionKindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// FoldBalance sums the signed amounts of transactions. Order does not matter.
func FoldBalance(transactions []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range transactions {
		balance = balance.Add(t.SignedAmount())
	}
	return balance
}

// ValidateAmount rejects zero and negative amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return util.ErrInvalidAmount
	}
	return nil
}
