package service

import (
	"errors"
	"fmt"

	"wiremon/internal/model"

	"github.com/shopspring/decimal"
)

// Domain error types. Handlers map these onto HTTP status codes; anything
// else is treated as an internal error and never leaked to clients.

type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

func NewNotFoundError(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStockError is returned when an OUT would drive a stage's stock
// negative. The failed operation must leave no trace in the ledger.
type InsufficientStockError struct {
	Stage     model.Stage
	Available decimal.Decimal
	Required  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock at %s: available %s, required %s",
		e.Stage, e.Available.String(), e.Required.String())
}

// SequenceViolationError is returned when a batch move skips ahead or runs
// backwards in the stage sequence.
type SequenceViolationError struct{ Msg string }

func (e *SequenceViolationError) Error() string { return e.Msg }

func NewSequenceViolationError(format string, args ...interface{}) *SequenceViolationError {
	return &SequenceViolationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a client-input problem (400).
func IsValidation(err error) bool {
	var ve *ValidationError
	var se *SequenceViolationError
	return errors.As(err, &ve) || errors.As(err, &se)
}

// IsNotFound reports whether err means a missing resource (404).
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a state conflict (409).
func IsConflict(err error) bool {
	var is *InsufficientStockError
	return errors.As(err, &is)
}
