package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("already exists")
	ErrCycle         = errors.New("category cannot be moved under itself or one of its descendants")
	ErrInvalidParent = errors.New("invalid parent category")
	ErrCorruptTree   = errors.New("category tree is corrupt")
	ErrDepthExceeded = errors.New("category tree exceeds maximum depth")
	ErrCategoryInUse = errors.New("category subtree is referenced by service providers")
)

// FieldError is a validation failure with per-field messages. It matches
// ErrValidation under errors.Is.
type FieldError struct {
	Fields map[string]string
}

func NewFieldError(field, message string) *FieldError {
	return &FieldError{Fields: map[string]string{field: message}}
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *FieldError) Unwrap() error {
	return ErrValidation
}

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsUniqueViolation reports whether err came from a unique constraint, on
// either PostgreSQL or SQLite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return false
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}

// NewNotFound reports a missing record of the named kind.
func NewNotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
