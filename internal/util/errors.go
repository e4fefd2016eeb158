// internal/util/errors.go
package util

import (
	"errors"
	"fmt"
)

// Error categories. Every specific error below wraps exactly one of them so callers
// can branch on the category with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("conflict")
)

// Common application-specific errors.
var (
	ErrInvalidInput       = fmt.Errorf("%w: invalid input provided", ErrValidation)
	ErrMissingField       = fmt.Errorf("%w: missing required field", ErrValidation)
	ErrInvalidPhoneFormat = fmt.Errorf("%w: phone number must be +226 followed by 8 digits", ErrValidation)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	ErrInvalidDate        = fmt.Errorf("%w: date must be an ISO-8601 timestamp", ErrValidation)
	ErrMissingProof       = fmt.Errorf("%w: transaction proof is required", ErrValidation)
	ErrInvalidStatus      = fmt.Errorf("%w: unknown request status", ErrValidation)

	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrRequestNotFound = fmt.Errorf("%w: request not found", ErrNotFound)

	ErrDuplicatePhone          = fmt.Errorf("%w: phone number already registered", ErrConflict)
	ErrInsufficientBalance     = fmt.Errorf("%w: insufficient balance", ErrConflict)
	ErrRequestAlreadyProcessed = fmt.Errorf("%w: request already processed", ErrConflict)
	ErrRequestBusy             = fmt.Errorf("%w: request is being processed, retry later", ErrConflict)
)

// IsError reports whether err matches target anywhere in its chain.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

var errorCodes = []struct {
	target error
	code   string
}{
	{ErrInvalidPhoneFormat, "INVALID_PHONE_FORMAT"},
	{ErrInvalidAmount, "INVALID_AMOUNT"},
	{ErrInvalidDate, "INVALID_DATE"},
	{ErrMissingProof, "MISSING_PROOF"},
	{ErrMissingField, "MISSING_FIELD"},
	{ErrInvalidStatus, "INVALID_STATUS"},
	{ErrUserNotFound, "UNKNOWN_USER"},
	{ErrRequestNotFound, "REQUEST_NOT_FOUND"},
	{ErrDuplicatePhone, "DUPLICATE_PHONE"},
	{ErrInsufficientBalance, "INSUFFICIENT_BALANCE"},
	{ErrRequestAlreadyProcessed, "REQUEST_ALREADY_PROCESSED"},
	{ErrRequestBusy, "REQUEST_BUSY"},
	{ErrValidation, "VALIDATION_ERROR"},
	{ErrNotFound, "NOT_FOUND"},
	{ErrConflict, "CONFLICT"},
}

// ErrorCode returns the machine-readable code for err, or "INTERNAL_ERROR" for
// anything outside the known taxonomy (storage failures included).
func ErrorCode(err error) string {
	for _, c := range errorCodes {
		if errors.Is(err, c.target) {
			return c.code
		}
	}
	return "INTERNAL_ERROR"
}
