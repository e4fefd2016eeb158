// internal/service/identity_service.go
package service

import (
	"context"
	"fmt"
	"strings"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/repository"
	"momo-ledger/internal/util"
)

// Registration is the outcome of a successful sign-up.
type Registration struct {
	User *domain.User
	// Credited holds the income entries created from pending deposits.
	Credited []domain.Transaction
}

// DrainedCount is the number of pending deposits converted during registration.
func (r *Registration) DrainedCount() int {
	return len(r.Credited)
}

// IdentityService defines the interface for the phone-number registry.
type IdentityService interface {
	// Register creates a user and credits every pending deposit for the phone number
	// in the same transaction.
	Register(ctx context.Context, phoneNumber, name string) (*Registration, error)
	// Lookup finds a user by phone number.
	Lookup(ctx context.Context, phoneNumber string) (*domain.User, error)
}

type identityService struct {
	base
}

// NewIdentityService creates a new IdentityService.
func NewIdentityService(deps Dependencies) IdentityService {
	return &identityService{base: newBase(deps)}
}

func (s *identityService) Register(ctx context.Context, phoneNumber, name string) (*Registration, error) {
	phone, err := domain.NormalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.ErrMissingField
	}

	registration := &Registration{}
	err = s.withinTx(ctx, "register", func(q repository.DBExecutor) error {
		if err := s.deps.PendingDeposits.LockPhone(ctx, q, phone); err != nil {
			return fmt.Errorf("register: %w", err)
		}

		if _, err := s.deps.Users.GetUserByPhone(ctx, q, phone); err == nil {
			return util.ErrDuplicatePhone
		} else if !util.IsError(err, util.ErrUserNotFound) {
			return fmt.Errorf("register: failed to check phone number: %w", err)
		}

		user := domain.NewUser(phone, name)
		if err := s.deps.Users.CreateUser(ctx, q, user); err != nil {
			if util.IsError(err, util.ErrDuplicatePhone) {
				return err
			}
			return fmt.Errorf("register: failed to create user: %w", err)
		}

		credited, err := s.pending.Drain(ctx, q, user)
		if err != nil {
			return fmt.Errorf("register: %w", err)
		}

		registration.User = user
		registration.Credited = credited
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("User registered",
		"user_id", registration.User.ID,
		"phone_number", registration.User.PhoneNumber,
		"pending_credited", registration.DrainedCount(),
	)
	s.publish(ctx, domain.NewEvent(domain.EventUserRegistered, registration.User.PhoneNumber, registration.User))
	s.publish(ctx, transactionEvents(registration.Credited)...)

	return registration, nil
}

func (s *identityService) Lookup(ctx context.Context, phoneNumber string) (*domain.User, error) {
	phone, err := domain.NormalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}
	user, err := s.deps.Users.GetUserByPhone(ctx, s.deps.Reader, phone)
	if err != nil {
		return nil, err
	}
	return user, nil
}
