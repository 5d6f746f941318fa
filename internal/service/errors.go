package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors shared by all services. Handlers map these to HTTP status
// codes with errors.Is; services wrap them with %w to add context.
var (
	// ErrNotFound: a referenced record does not exist. Not retryable.
	ErrNotFound = errors.New("record not found")

	// ErrInsufficientStock: the operation would drive an item's quantity
	// below zero. Raised before any write — the item and movement table are
	// untouched when this is returned.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientHeadCount: the daily-log counterpart — mortality would
	// drive a batch's current head count below zero.
	ErrInsufficientHeadCount = errors.New("insufficient head count")

	// ErrItemHasMovements: an item with recorded movements cannot be deleted;
	// the ledger doubles as an audit trail and must not be orphaned.
	ErrItemHasMovements = errors.New("item has recorded movements")

	// ErrConcurrencyConflict: the database aborted the transaction because of
	// a conflicting concurrent write on the same row. Safe to retry by
	// re-reading and recomputing; the service never retries on its own.
	ErrConcurrencyConflict = errors.New("concurrent update conflict")
)

// ValidationError reports bad input detected before any data-store access.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// translateDBError normalizes driver errors into the sentinel taxonomy.
// Serialization failures and deadlocks (SQLSTATE 40001 / 40P01) become
// ErrConcurrencyConflict; matching is textual because the GORM postgres
// driver does not surface pgconn error types here.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	msg := err.Error()
	if strings.Contains(msg, "40001") || strings.Contains(msg, "40P01") ||
		strings.Contains(msg, "deadlock detected") ||
		strings.Contains(msg, "could not serialize access") {
		return fmt.Errorf("%w: %s", ErrConcurrencyConflict, msg)
	}
	return err
}
