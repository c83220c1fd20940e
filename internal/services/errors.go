package services

import (
	"fmt"
	"strings"

	"oink/internal/core"
	"oink/internal/log"
	"oink/internal/storage"
)

var errorKinds = map[error]string{
	core.ErrValidation: log.ErrorTypeValidation,
	core.ErrNotFound:   log.ErrorTypeNotFound,
	core.ErrConflict:   log.ErrorTypeConflict,
}

// ClassifyError maps an error to its log error type.
func ClassifyError(err error) string {
	return log.ErrorType(err, errorKinds)
}

// conflictOr turns a UNIQUE violation into ErrConflict and wraps anything
// else as "<what>: <err>".
func conflictOr(err error, what string) error {
	if storage.IsUniqueViolation(err) {
		return core.Conflictf("%s", what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// affected maps a zero row count from an :execrows query to ErrNotFound.
func affected(n int64, err error, what string) error {
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	if n == 0 {
		return core.NotFoundf("%s", what)
	}
	return nil
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", core.ErrEmptyName
	}
	return name, nil
}
