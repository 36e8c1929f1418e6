package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a point lookup matches no row
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert hits a unique constraint.
	// Callers rely on distinguishing this from other failures for
	// idempotent-create patterns.
	ErrDuplicate = errors.New("duplicate key")

	// Join rejections, the closed set produced by the atomic invite redemption
	ErrCodeNotFound  = errors.New("invalid or already used code")
	ErrAlreadyPaired = errors.New("already in a couple")
	ErrOwnCouple     = errors.New("cannot join own couple")
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint error
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
