// internal/domain/pending_deposit.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingDeposit is an income claim for a phone number that has no account yet.
// It lives until the owner registers, then becomes an income Transaction.
type PendingDeposit struct {
	ID          int64           `db:"id" json:"id"`
	PhoneNumber string          `db:"phone_number" json:"phone_number"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Source      string          `db:"source" json:"source"`
	Note        string          `db:"note" json:"note"`
	OccurredAt  time.Time       `db:"occurred_at" json:"occurred_at"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// NewPendingDeposit creates a PendingDeposit; a zero occurredAt means "now".
func NewPendingDeposit(phoneNumber string, amount decimal.Decimal, source, note string, occurredAt time.Time) *PendingDeposit {
	now := time.Now().UTC()
	if occurredAt.IsZero() {
		occurredAt = now
	}
	return &PendingDeposit{
		PhoneNumber: phoneNumber,
		Amount:      amount,
		Source:      source,
		Note:        note,
		OccurredAt:  occurredAt,
		CreatedAt:   now,
	}
}

// AsEntry converts the claim into the income entry it becomes on reconciliation.
func (p PendingDeposit) AsEntry() Entry {
	return Entry{
		Kind:       TransactionKindIncome,
		Amount:     p.Amount,
		Category:   p.Source,
		Note:       p.Note,
		OccurredAt: p.OccurredAt,
	}
}
