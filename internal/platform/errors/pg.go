package errors

// Postgres-specific helpers for mapping pgx errors to project ErrorCode and
// for classifying schema-capability failures (the optional vector column)

import (
	stderrs "errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Common SQLSTATE codes we care about
const (
	pgErrUniqueViolation           = "23505"
	pgErrForeignKeyViolation       = "23503"
	pgErrNotNullViolation          = "23502"
	pgErrCheckViolation            = "23514"
	pgErrInvalidTextRepresentation = "22P02"

	pgErrUndefinedColumn     = "42703"
	pgErrUndefinedObject     = "42704"
	pgErrUndefinedFunction   = "42883"
	pgErrFeatureNotSupported = "0A000"

	pgErrCannotConnectNow = "57P03" // i.e. startup in progress
)

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError.
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether the error is a Postgres error with the given SQLSTATE code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsDuplicateKey reports whether the error is a unique constraint violation
func IsDuplicateKey(err error) bool { return IsSQLState(err, pgErrUniqueViolation) }

// IsUndefinedColumn reports whether the error names a column the table does not have
func IsUndefinedColumn(err error) bool { return IsSQLState(err, pgErrUndefinedColumn) }

// IsCapabilityMissing reports whether a persistence error plausibly means an
// optional column/extension is absent rather than the write itself being bad.
// Structured SQLSTATEs are checked first (undefined column/object/function,
// feature not supported); the text fallback mirrors what drivers emit when
// the vector extension's type is unknown to the session
func IsCapabilityMissing(err error) bool {
	if err == nil {
		return false
	}
	if pgErr, ok := ExtractPgError(err); ok {
		switch pgErr.Code {
		case pgErrUndefinedColumn, pgErrUndefinedObject, pgErrUndefinedFunction, pgErrFeatureNotSupported:
			return true
		}
		return false
	}
	s := strings.ToLower(Root(err).Error())
	switch {
	case strings.Contains(s, "embedding"),
		strings.Contains(s, "does not exist") && strings.Contains(s, "column"),
		strings.Contains(s, "unknown type"),
		strings.Contains(s, "vector"):
		return true
	default:
		return false
	}
}

// DBErrorCode maps a Postgres error to an ErrorCode with an ok flag
// !ok means err wasn't a PgError; caller may fall back to generic handling
func DBErrorCode(err error) (ErrorCode, bool) {
	var pgErr *pgconn.PgError
	if !stderrs.As(err, &pgErr) {
		return ErrorCodeUnknown, false
	}

	switch pgErr.Code {
	case pgErrUniqueViolation:
		return ErrorCodeDuplicateKey, true

	case pgErrForeignKeyViolation:
		// Typically this means input referenced a missing row: classify as invalid input
		return ErrorCodeInvalidArgument, true

	case pgErrNotNullViolation, pgErrCheckViolation:
		return ErrorCodeValidation, true

	case pgErrInvalidTextRepresentation:
		return ErrorCodeInvalidArgument, true

	case pgErrCannotConnectNow:
		return ErrorCodeUnavailable, true
	}

	// Default: still a DB error
	return ErrorCodeDB, true
}

// FromPostgres wraps a pg error with a mapped ErrorCode and message.
// If err is nil, returns nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	if stderrs.Is(err, pgx.ErrNoRows) {
		return Wrap(err, ErrorCodeNotFound, msg)
	}
	if code, ok := DBErrorCode(err); ok {
		return Wrap(err, code, msg)
	}
	return Wrap(err, ErrorCodeDB, msg)
}

// FromPostgresf is the formatted variant of FromPostgres
func FromPostgresf(err error, format string, a ...any) error {
	if err == nil {
		return nil
	}
	return FromPostgres(err, fmt.Sprintf(format, a...))
}
