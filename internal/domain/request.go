// internal/domain/request.go
package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"momo-ledger/internal/util"
)

// RequestStatus is the lifecycle state of a deposit or withdraw request.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

// validStatusTransitions lists the allowed moves; approved and rejected are terminal.
var validStatusTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPending: {RequestStatusApproved, RequestStatusRejected},
}

// CanTransitionTo reports whether a request may move from s to target.
func (s RequestStatus) CanTransitionTo(target RequestStatus) bool {
	for _, allowed := range validStatusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s RequestStatus) IsTerminal() bool {
	return len(validStatusTransitions[s]) == 0
}

// ParseRequestStatus checks a user-supplied status filter.
func ParseRequestStatus(raw string) (RequestStatus, error) {
	switch s := RequestStatus(strings.ToLower(strings.TrimSpace(raw))); s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return s, nil
	default:
		return "", util.ErrInvalidStatus
	}
}

// DepositRequest is a user's claim that money was sent in, backed by a proof reference.
// The phone number need not belong to a registered user.
type DepositRequest struct {
	ID               int64           `db:"id" json:"id"`
	PhoneNumber      string          `db:"phone_number" json:"phone_number"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	TransactionProof string          `db:"transaction_proof" json:"transaction_proof"`
	Status           RequestStatus   `db:"status" json:"status"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt      *time.Time      `db:"processed_at" json:"processed_at"`
}

// NewDepositRequest creates a pending deposit request.
func NewDepositRequest(phoneNumber string, amount decimal.Decimal, proof string) *DepositRequest {
	return &DepositRequest{
		PhoneNumber:      phoneNumber,
		Amount:           amount,
		TransactionProof: proof,
		Status:           RequestStatusPending,
		CreatedAt:        time.Now().UTC(),
	}
}

// WithdrawRequest asks for money to be paid out of a registered user's balance.
type WithdrawRequest struct {
	ID               int64           `db:"id" json:"id"`
	UserID           int64           `db:"user_id" json:"user_id"`
	Amount           decimal.Decimal `db:"amount" json:"amount"`
	TransactionProof *string         `db:"transaction_proof" json:"transaction_proof"`
	Status           RequestStatus   `db:"status" json:"status"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt      *time.Time      `db:"processed_at" json:"processed_at"`
}

// NewWithdrawRequest creates a pending withdraw request. An empty proof is stored as NULL.
func NewWithdrawRequest(userID int64, amount decimal.Decimal, proof string) *WithdrawRequest {
	var p *string
	if proof = strings.TrimSpace(proof); proof != "" {
		p = &proof
	}
	return &WithdrawRequest{
		UserID:           userID,
		Amount:           amount,
		TransactionProof: p,
		Status:           RequestStatusPending,
		CreatedAt:        time.Now().UTC(),
	}
}

// WithdrawRequestView is a withdraw request joined with its owner's identity for listings.
type WithdrawRequestView struct {
	WithdrawRequest
	UserName    string `db:"user_name" json:"user_name"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`
}
