// internal/repository/user_repo.go
package repository

import (
	"context"

	"momo-ledger/internal/domain"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	// CreateUser adds a new user. A taken phone number yields util.ErrDuplicatePhone.
	CreateUser(ctx context.Context, q DBExecutor, user *domain.User) error
	// GetUserByID retrieves a user by their ID.
	GetUserByID(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
	// GetUserByPhone retrieves a user by their normalized phone number.
	GetUserByPhone(ctx context.Context, q DBExecutor, phoneNumber string) (*domain.User, error)
	// LockUser retrieves a user and holds a row lock until the surrounding transaction ends.
	LockUser(ctx context.Context, q DBExecutor, id int64) (*domain.User, error)
}
