// internal/service/request_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"momo-ledger/internal/domain"
	"momo-ledger/internal/infrastructure/lock"
	"momo-ledger/internal/repository"
	"momo-ledger/internal/util"
)

const (
	depositKind  = "deposit"
	withdrawKind = "withdraw"
)

// DepositApproval is the outcome of approving a deposit request. Exactly one of
// Transaction and Pending is set, depending on whether the phone number is registered.
type DepositApproval struct {
	Request     *domain.DepositRequest
	Transaction *domain.Transaction
	Pending     *domain.PendingDeposit
}

// WithdrawApproval is the outcome of approving a withdraw request.
type WithdrawApproval struct {
	Request     *domain.WithdrawRequest
	Transaction *domain.Transaction
}

// RequestService defines the interface for the deposit/withdraw request workflow.
type RequestService interface {
	SubmitDeposit(ctx context.Context, phoneNumber string, amount decimal.Decimal, proof string) (*domain.DepositRequest, error)
	SubmitWithdraw(ctx context.Context, userID int64, amount decimal.Decimal, proof string) (*domain.WithdrawRequest, error)

	ApproveDeposit(ctx context.Context, id int64) (*DepositApproval, error)
	RejectDeposit(ctx context.Context, id int64) (*domain.DepositRequest, error)
	ApproveWithdraw(ctx context.Context, id int64) (*WithdrawApproval, error)
	RejectWithdraw(ctx context.Context, id int64) (*domain.WithdrawRequest, error)

	ListDeposits(ctx context.Context, status *domain.RequestStatus) ([]domain.DepositRequest, error)
	ListWithdraws(ctx context.Context, status *domain.RequestStatus) ([]domain.WithdrawRequestView, error)
}

type requestService struct {
	base
}

// NewRequestService creates a new RequestService.
func NewRequestService(deps Dependencies) RequestService {
	return &requestService{base: newBase(deps)}
}

func (s *requestService) SubmitDeposit(ctx context.Context, phoneNumber string, amount decimal.Decimal, proof string) (*domain.DepositRequest, error) {
	phone, err := domain.NormalizePhone(phoneNumber)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return nil, util.ErrMissingProof
	}

	request := domain.NewDepositRequest(phone, amount, proof)
	if err := s.deps.DepositRequests.CreateDepositRequest(ctx, s.deps.Reader, request); err != nil {
		return nil, fmt.Errorf("submit deposit: %w", err)
	}

	s.deps.Logger.Info("Deposit request submitted", "request_id", request.ID, "phone_number", phone, "amount", amount.String())
	s.publish(ctx, domain.NewEvent(domain.EventDepositRequestSubmitted, requestKey(depositKind, request.ID), request))
	return request, nil
}

func (s *requestService) SubmitWithdraw(ctx context.Context, userID int64, amount decimal.Decimal, proof string) (*domain.WithdrawRequest, error) {
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	request := domain.NewWithdrawRequest(userID, amount, proof)
	err := s.withinTx(ctx, "submit withdraw", func(q repository.DBExecutor) error {
		if _, err := s.deps.Users.LockUser(ctx, q, userID); err != nil {
			return err
		}
		if err := s.ensureFunds(ctx, q, userID, amount); err != nil {
			return err
		}
		if err := s.deps.WithdrawRequests.CreateWithdrawRequest(ctx, q, request); err != nil {
			return fmt.Errorf("submit withdraw: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("Withdraw request submitted", "request_id", request.ID, "user_id", userID, "amount", amount.String())
	s.publish(ctx, domain.NewEvent(domain.EventWithdrawRequestSubmitted, requestKey(withdrawKind, request.ID), request))
	return request, nil
}

func (s *requestService) ApproveDeposit(ctx context.Context, id int64) (*DepositApproval, error) {
	approval := &DepositApproval{}
	err := s.decide(ctx, depositKind, id, func(q repository.DBExecutor, now time.Time) error {
		request, err := s.deps.DepositRequests.GetForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if request.Status.IsTerminal() {
			return util.ErrRequestAlreadyProcessed
		}

		if err := s.deps.PendingDeposits.LockPhone(ctx, q, request.PhoneNumber); err != nil {
			return fmt.Errorf("approve deposit: %w", err)
		}
		user, err := s.deps.Users.GetUserByPhone(ctx, q, request.PhoneNumber)
		switch {
		case err == nil:
			approval.Transaction, err = s.ledger.Record(ctx, q, user.ID, domain.Entry{
				Kind:       domain.TransactionKindIncome,
				Amount:     request.Amount,
				Category:   domain.CategoryDeposit,
				Note:       domain.NoteAdminApproved,
				OccurredAt: now,
			})
		case util.IsError(err, util.ErrUserNotFound):
			approval.Pending, err = s.pending.Stash(ctx, q, request.PhoneNumber, request.Amount,
				domain.CategoryDeposit, domain.NoteAdminApproved, now)
		default:
			err = fmt.Errorf("approve deposit: failed to look up user: %w", err)
		}
		if err != nil {
			return err
		}

		if err := s.deps.DepositRequests.UpdateStatus(ctx, q, id, request.Status, domain.RequestStatusApproved, now); err != nil {
			return err
		}
		request.Status = domain.RequestStatusApproved
		request.ProcessedAt = &now
		approval.Request = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("Deposit request approved",
		"request_id", id,
		"phone_number", approval.Request.PhoneNumber,
		"buffered", approval.Pending != nil,
	)
	events := []domain.Event{domain.NewEvent(domain.EventDepositRequestApproved, requestKey(depositKind, id), approval.Request)}
	if approval.Transaction != nil {
		events = append(events, transactionEvents([]domain.Transaction{*approval.Transaction})...)
	} else {
		events = append(events, domain.NewEvent(domain.EventPendingDepositStashed, approval.Pending.PhoneNumber, approval.Pending))
	}
	s.publish(ctx, events...)
	return approval, nil
}

func (s *requestService) RejectDeposit(ctx context.Context, id int64) (*domain.DepositRequest, error) {
	var rejected *domain.DepositRequest
	err := s.decide(ctx, depositKind, id, func(q repository.DBExecutor, now time.Time) error {
		request, err := s.deps.DepositRequests.GetForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if request.Status.IsTerminal() {
			return util.ErrRequestAlreadyProcessed
		}
		if err := s.deps.DepositRequests.UpdateStatus(ctx, q, id, request.Status, domain.RequestStatusRejected, now); err != nil {
			return err
		}
		request.Status = domain.RequestStatusRejected
		request.ProcessedAt = &now
		rejected = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("Deposit request rejected", "request_id", id)
	s.publish(ctx, domain.NewEvent(domain.EventDepositRequestRejected, requestKey(depositKind, id), rejected))
	return rejected, nil
}

func (s *requestService) ApproveWithdraw(ctx context.Context, id int64) (*WithdrawApproval, error) {
	approval := &WithdrawApproval{}
	err := s.decide(ctx, withdrawKind, id, func(q repository.DBExecutor, now time.Time) error {
		request, err := s.deps.WithdrawRequests.GetForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if request.Status.IsTerminal() {
			return util.ErrRequestAlreadyProcessed
		}

		if _, err := s.deps.Users.LockUser(ctx, q, request.UserID); err != nil {
			return err
		}
		if err := s.ensureFunds(ctx, q, request.UserID, request.Amount); err != nil {
			return err
		}
		approval.Transaction, err = s.ledger.Record(ctx, q, request.UserID, domain.Entry{
			Kind:       domain.TransactionKindExpense,
			Amount:     request.Amount,
			Category:   domain.CategoryWithdrawal,
			Note:       domain.NoteAdminApproved,
			OccurredAt: now,
		})
		if err != nil {
			return err
		}

		if err := s.deps.WithdrawRequests.UpdateStatus(ctx, q, id, request.Status, domain.RequestStatusApproved, now); err != nil {
			return err
		}
		request.Status = domain.RequestStatusApproved
		request.ProcessedAt = &now
		approval.Request = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("Withdraw request approved", "request_id", id, "user_id", approval.Request.UserID)
	events := []domain.Event{domain.NewEvent(domain.EventWithdrawRequestApproved, requestKey(withdrawKind, id), approval.Request)}
	s.publish(ctx, append(events, transactionEvents([]domain.Transaction{*approval.Transaction})...)...)
	return approval, nil
}

func (s *requestService) RejectWithdraw(ctx context.Context, id int64) (*domain.WithdrawRequest, error) {
	var rejected *domain.WithdrawRequest
	err := s.decide(ctx, withdrawKind, id, func(q repository.DBExecutor, now time.Time) error {
		request, err := s.deps.WithdrawRequests.GetForUpdate(ctx, q, id)
		if err != nil {
			return err
		}
		if request.Status.IsTerminal() {
			return util.ErrRequestAlreadyProcessed
		}
		if err := s.deps.WithdrawRequests.UpdateStatus(ctx, q, id, request.Status, domain.RequestStatusRejected, now); err != nil {
			return err
		}
		request.Status = domain.RequestStatusRejected
		request.ProcessedAt = &now
		rejected = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.deps.Logger.Info("Withdraw request rejected", "request_id", id)
	s.publish(ctx, domain.NewEvent(domain.EventWithdrawRequestRejected, requestKey(withdrawKind, id), rejected))
	return rejected, nil
}

func (s *requestService) ListDeposits(ctx context.Context, status *domain.RequestStatus) ([]domain.DepositRequest, error) {
	return s.deps.DepositRequests.List(ctx, s.deps.Reader, status)
}

func (s *requestService) ListWithdraws(ctx context.Context, status *domain.RequestStatus) ([]domain.WithdrawRequestView, error) {
	return s.deps.WithdrawRequests.ListWithUsers(ctx, s.deps.Reader, status)
}

// decide runs one admin decision on a request under the request lock and inside a
// single transaction.
func (s *requestService) decide(ctx context.Context, kind string, id int64, fn func(q repository.DBExecutor, now time.Time) error) error {
	release, err := s.deps.Locker.Acquire(ctx, lock.RequestKey(kind, id))
	if err != nil {
		if errors.Is(err, lock.ErrLockFailed) {
			return util.ErrRequestBusy
		}
		return fmt.Errorf("%s request %d: failed to acquire lock: %w", kind, id, err)
	}
	defer func() {
		if err := release(ctx); err != nil {
			s.deps.Logger.Warn("Failed to release request lock", "kind", kind, "request_id", id, "error", err)
		}
	}()

	op := kind + " request " + strconv.FormatInt(id, 10)
	return s.withinTx(ctx, op, func(q repository.DBExecutor) error {
		return fn(q, time.Now().UTC())
	})
}

// ensureFunds fails with util.ErrInsufficientBalance when the balance cannot cover amount.
// The user row must already be locked by the caller.
func (s *requestService) ensureFunds(ctx context.Context, q repository.DBExecutor, userID int64, amount decimal.Decimal) error {
	balance, err := s.ledger.Balance(ctx, q, userID)
	if err != nil {
		return fmt.Errorf("failed to compute balance for user %d: %w", userID, err)
	}
	if balance.LessThan(amount) {
		return util.ErrInsufficientBalance
	}
	return nil
}

func requestKey(kind string, id int64) string {
	return fmt.Sprintf("%s_request:%d", kind, id)
}
