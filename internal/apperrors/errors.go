package apperrors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the operation conflicts with existing state,
// e.g. a duplicate account number or deleting an account that still has entries.
var ErrConflict = errors.New("conflict with existing resource")

// ImbalanceError is returned when the debit and credit totals of a posting
// differ beyond the allowed tolerance. It carries both computed totals so the
// caller can see the discrepancy.
type ImbalanceError struct {
	TotalDebits  decimal.Decimal
	TotalCredits decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("transaction entries do not balance: debits total %s, credits total %s",
		e.TotalDebits.String(), e.TotalCredits.String())
}

// Unwrap lets errors.Is classify an imbalance as a validation failure.
func (e *ImbalanceError) Unwrap() error {
	return ErrValidation
}

// NewImbalanceError creates an ImbalanceError from the computed totals.
func NewImbalanceError(totalDebits, totalCredits decimal.Decimal) *ImbalanceError {
	return &ImbalanceError{TotalDebits: totalDebits, TotalCredits: totalCredits}
}

// AppError wraps a lower-level error with an HTTP-ish status code and message.
// Repositories use it for infrastructure failures that have no sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
