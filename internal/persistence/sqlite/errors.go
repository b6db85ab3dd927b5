package sqlite

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/example/convention-scheduler/internal/persistence"
)

// ErrorMapper translates SQLite driver errors into persistence sentinels so
// callers never match on driver error strings.
type ErrorMapper struct{}

// NewErrorMapper creates a new error mapper.
func NewErrorMapper() *ErrorMapper {
	return &ErrorMapper{}
}

// MapError maps SQLite-specific errors to persistence layer errors. Errors
// with no mapping pass through unchanged.
func (em *ErrorMapper) MapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}

	errStr := err.Error()
	switch {
	case containsAny(errStr, "UNIQUE constraint failed", "PRIMARY KEY constraint"):
		return persistence.ErrDuplicate
	case containsAny(errStr, "FOREIGN KEY constraint failed", "foreign key constraint"):
		return persistence.ErrForeignKeyViolation
	case containsAny(errStr, "CHECK constraint failed", "NOT NULL constraint failed"):
		return persistence.ErrConstraintViolation
	}
	return err
}

func containsAny(s string, substrings ...string) bool {
	for _, substr := range substrings {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}
