package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes the repositories care about.
const (
	UniqueViolation        = "23505"
	ForeignKeyViolation    = "23503"
	CheckViolation         = "23514"
	NoDataFound            = "P0002"
	ObjectNotInPrereqState = "55000"
)

// SQLState returns the SQLSTATE code of a PostgreSQL error, or "" when err is not one.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation error
// for a specific constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolation && pgErr.ConstraintName == constraintName
}

// IsUniqueViolation reports a unique violation on any constraint.
func IsUniqueViolation(err error) bool {
	return SQLState(err) == UniqueViolation
}

// IsForeignKeyViolation reports a foreign key violation on any constraint.
func IsForeignKeyViolation(err error) bool {
	return SQLState(err) == ForeignKeyViolation
}

// IsCheckViolation reports a CHECK constraint violation.
func IsCheckViolation(err error) bool {
	return SQLState(err) == CheckViolation
}

// IsNoDataFound reports a P0002 raised by a PL/pgSQL function.
func IsNoDataFound(err error) bool {
	return SQLState(err) == NoDataFound
}

// IsInvalidState reports a 55000 raised by a PL/pgSQL function guarding a state transition.
func IsInvalidState(err error) bool {
	return SQLState(err) == ObjectNotInPrereqState
}
