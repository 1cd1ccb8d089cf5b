package postgres

import (
	"errors"
	"fmt"

	"lectern/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsPgDuplicateError checks if error is a unique constraint violation
func IsPgDuplicateError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsPgNoRowsError checks if error is a "no rows" error
func IsPgNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsPgForeignKeyError checks if error is a foreign key violation
func IsPgForeignKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return false
}

// constraintName returns the violated constraint, if the error carries one
func constraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// MapWriteError translates constraint violations on insert or update into
// domain errors. Other errors are wrapped with op.
func MapWriteError(err error, op, resourceType, resourceID string) error {
	switch {
	case IsPgDuplicateError(err):
		return &domain.ConflictError{
			Message:      fmt.Sprintf("%s conflicts with an existing row (%s)", resourceType, constraintName(err)),
			ResourceType: resourceType,
			ResourceID:   resourceID,
		}
	case IsPgForeignKeyError(err):
		return fmt.Errorf("%s references a missing parent: %w", resourceType, domain.ErrNotFound)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
