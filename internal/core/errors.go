package core

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the ledger components wraps exactly
// one of these, so callers branch with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrInvalidAmount        = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrNegativeAmount       = fmt.Errorf("%w: amount must not be negative", ErrValidation)
	ErrInvalidAccountNumber = fmt.Errorf("%w: account number must be a positive integer", ErrValidation)
	ErrEmptyName            = fmt.Errorf("%w: name must not be empty", ErrValidation)
	ErrInvalidType          = fmt.Errorf("%w: invalid transaction type", ErrValidation)
	ErrInvalidMonth         = fmt.Errorf("%w: invalid month", ErrValidation)
	ErrInvalidYear          = fmt.Errorf("%w: invalid year", ErrValidation)
	ErrInvalidDate          = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrInvalidLimit         = fmt.Errorf("%w: invalid limit", ErrValidation)
)

// NotFoundf returns an ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNotFound}, args...)...)
}

// Conflictf returns an ErrConflict with a formatted message.
func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrConflict}, args...)...)
}

// Validationf returns an ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}
