package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/koustreak/lorelink/internal/errs"
)

// PostgreSQL SQLSTATE classes and codes (read-relevant only).
// Full list: https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgClassConnection       = "08"
	pgClassAuthorization    = "28"
	pgInsufficientPrivilege = "42501"
	pgUndefinedTable        = "42P01"
	pgUndefinedColumn       = "42703"
	pgQueryCanceled         = "57014"
	pgInvalidTextRepr       = "22P02"
)

// mapError translates pgx / pgconn native errors into *errs.Error.
func mapError(err error, msg string) *errs.Error {
	if err == nil {
		return nil
	}

	if e := errs.FromContext(err, msg); e != nil {
		return e
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.Wrap(errs.ErrKindNotFound, msg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return errs.Wrap(classifySQLState(pgErr.Code), fmt.Sprintf("%s: %s", msg, pgErr.Message), err)
	}

	// Fallthrough: connection-level errors (TLS, network, auth handshake)
	return errs.Wrap(errs.ErrKindConnectionFailed, msg, err)
}

func classifySQLState(code string) errs.ErrKind {
	switch {
	case len(code) >= 2 && code[:2] == pgClassConnection:
		return errs.ErrKindConnectionFailed
	case len(code) >= 2 && code[:2] == pgClassAuthorization, code == pgInsufficientPrivilege:
		return errs.ErrKindPermissionDenied
	case code == pgUndefinedTable, code == pgUndefinedColumn:
		return errs.ErrKindNotFound
	case code == pgQueryCanceled:
		return errs.ErrKindTimeout
	case code == pgInvalidTextRepr:
		return errs.ErrKindInvalidInput
	default:
		return errs.ErrKindReadFailed
	}
}
