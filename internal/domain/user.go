// internal/domain/user.go
package domain

import "time"

// User is a registered account holder, identified by a unique phone number.
type User struct {
	ID          int64     `db:"id" json:"id"`
	PhoneNumber string    `db:"phone_number" json:"phone_number"`
	Name        string    `db:"name" json:"name"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// NewUser creates a new User instance. The phone number must already be normalized.
func NewUser(phoneNumber, name string) *User {
	return &User{
		PhoneNumber: phoneNumber,
		Name:        name,
		CreatedAt:   time.Now().UTC(),
	}
}
