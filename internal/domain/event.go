// internal/domain/event.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names a ledger or workflow fact published after commit.
type EventType string

const (
	EventUserRegistered           EventType = "user.registered"
	EventTransactionRecorded      EventType = "transaction.recorded"
	EventPendingDepositStashed    EventType = "pending_deposit.stashed"
	EventDepositRequestSubmitted  EventType = "deposit_request.submitted"
	EventDepositRequestApproved   EventType = "deposit_request.approved"
	EventDepositRequestRejected   EventType = "deposit_request.rejected"
	EventWithdrawRequestSubmitted EventType = "withdraw_request.submitted"
	EventWithdrawRequestApproved  EventType = "withdraw_request.approved"
	EventWithdrawRequestRejected  EventType = "withdraw_request.rejected"
)

// Event is the envelope handed to the publisher. Key selects the partition so that
// events for the same phone number or request stay ordered.
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// NewEvent stamps a new event with a random id and the current time.
func NewEvent(eventType EventType, key string, payload any) Event {
	return Event{
		ID:         uuid.New(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}
