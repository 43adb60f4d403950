package store

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when inserting a user whose email is
// already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// ErrDuplicateTitle is returned when inserting or updating a post whose
// title collides with an existing one.
var ErrDuplicateTitle = errors.New("title already in use")

// Postgres error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}

// isSingleAdminViolation matches a conflict on the partial unique index
// that allows only one admin row.
func isSingleAdminViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) &&
		string(pqErr.Code) == pgUniqueViolation &&
		pqErr.Constraint == "users_single_admin_idx"
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation
}
