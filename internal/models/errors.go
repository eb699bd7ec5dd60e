package models

import "fmt"

// ValidationError reports invalid input on a ledger or repository operation.
// It is recoverable and surfaced to the caller as a user-facing message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// NewValidationError constructs a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// InsufficientFundsError reports a transfer whose source balance cannot
// cover the requested amount.
type InsufficientFundsError struct {
	AccountID string
	Requested Money
	Available Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds in account %q: requested %s, available %s",
		e.AccountID, e.Requested, e.Available)
}

// ConflictError reports an operation refused because another entity still
// references the target (e.g. deleting an account with posted transactions).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}

// NewConflictError constructs a ConflictError with a formatted message.
func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}
