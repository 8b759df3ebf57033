package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidDefinition is returned when a payment condition breaks its invariants.
	ErrInvalidDefinition = errors.New("invalid payment condition definition")

	// ErrInvalidAmount is returned when an amount cannot be used for calculation.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrAlreadyReconciled is returned when an entry or receivable is already settled.
	ErrAlreadyReconciled = errors.New("already reconciled")

	// ErrConflict is returned when a record changed between read and write.
	ErrConflict = errors.New("concurrent modification detected")

	ErrNotFound          = errors.New("not found")
	ErrPlanExists        = errors.New("installment plan already generated for sale")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidPeriod     = errors.New("invalid period: end before start")
	ErrInvalidRecord     = errors.New("invalid record")
)

// InvalidDefinitionError lists every invariant a definition violates.
type InvalidDefinitionError struct {
	Violations []string
}

func (e *InvalidDefinitionError) Error() string {
	return fmt.Sprintf("invalid payment condition definition: %s", strings.Join(e.Violations, "; "))
}

func (e *InvalidDefinitionError) Unwrap() error {
	return ErrInvalidDefinition
}

// InvalidAmountError carries the rejected amount.
type InvalidAmountError struct {
	Amount decimal.Decimal
	Reason string
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("invalid amount %s: %s", e.Amount.String(), e.Reason)
}

func (e *InvalidAmountError) Unwrap() error {
	return ErrInvalidAmount
}

// AlreadyReconciledError names the record that is already settled.
type AlreadyReconciledError struct {
	Entity string
	ID     string
}

func (e *AlreadyReconciledError) Error() string {
	return fmt.Sprintf("%s %s is already reconciled", e.Entity, e.ID)
}

func (e *AlreadyReconciledError) Unwrap() error {
	return ErrAlreadyReconciled
}

// ConflictError names the record whose version moved under the caller.
type ConflictError struct {
	Entity string
	ID     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Entity, e.ID)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// NotFoundError names the missing record.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// IsRetryable returns true if the caller may retry against fresh state.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDefinition) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidRecord)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
