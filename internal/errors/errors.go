package errors

import (
	"errors"
	"fmt"
)

// Domain errors for the building ledger
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPeriodNotFound      = errors.New("period not found")
	ErrUnitNotFound        = errors.New("unit not found")
	ErrAlreadyVoided       = errors.New("transaction already voided")
	ErrPeriodLocked        = errors.New("period is locked")
	ErrPeriodAlreadyExists = errors.New("period already exists")
	ErrUnitAlreadyExists   = errors.New("unit already exists")
	ErrAmountOverflow      = errors.New("amount overflow")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// StorageError wraps a failure of the backing store. It is never retried by the core.
type StorageError struct {
	Operation string
	Cause     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during '%s': %v", e.Operation, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError wraps cause unless it already carries a domain meaning, in which
// case it is returned as is so callers can still match on it.
func NewStorageError(operation string, cause error) error {
	if cause == nil {
		return nil
	}
	if IsDomainError(cause) {
		return cause
	}
	return &StorageError{
		Operation: operation,
		Cause:     cause,
	}
}

// PeriodLockedError names the period that rejected the operation.
type PeriodLockedError struct {
	Period string
}

func (e *PeriodLockedError) Error() string {
	return fmt.Sprintf("period %s is locked, unlock it to make changes", e.Period)
}

func (e *PeriodLockedError) Unwrap() error {
	return ErrPeriodLocked
}

func NewPeriodLockedError(period string) error {
	return &PeriodLockedError{Period: period}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrTransactionNotFound) ||
		errors.Is(err, ErrPeriodNotFound) ||
		errors.Is(err, ErrUnitNotFound)
}

func IsAlreadyVoided(err error) bool {
	return errors.Is(err, ErrAlreadyVoided)
}

func IsPeriodLocked(err error) bool {
	return errors.Is(err, ErrPeriodLocked)
}

func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrPeriodAlreadyExists) || errors.Is(err, ErrUnitAlreadyExists)
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

func IsStorageError(err error) bool {
	var storageErr *StorageError
	return errors.As(err, &storageErr)
}

// IsDomainError reports whether err is one of the typed ledger errors rather than an
// infrastructure failure.
func IsDomainError(err error) bool {
	return IsNotFound(err) || IsAlreadyVoided(err) || IsPeriodLocked(err) ||
		IsAlreadyExists(err) || IsValidationError(err) || IsStorageError(err) ||
		errors.Is(err, ErrAmountOverflow)
}
