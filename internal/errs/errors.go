// Package errs provides the unified error type used across lorelink.
//
// Every subsystem (filestore drivers, the enablement database, the catalog)
// wraps its native errors into *errs.Error before handing them upward.
// Callers use the Is* predicates to branch on the failure class without
// importing driver-specific packages.
//
// Usage:
//
//	// In a store driver, wrap native errors:
//	return errs.Wrap(errs.ErrKindNotFound, "object missing", minioErr)
//
//	// In the catalog, decide how to degrade:
//	if errs.IsNotFound(err) {
//	    return placeholder(id)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing backend-specific codes.
// MinIO, S3, Postgres and MySQL all map their native errors onto one of
// these kinds.
type ErrKind int

const (
	ErrKindUnknown          ErrKind = iota
	ErrKindNotFound                 // no object, no bucket, no row
	ErrKindConnectionFailed         // cannot reach the backend
	ErrKindTimeout                  // context deadline / cancellation
	ErrKindReadFailed               // listing, download or query failed mid-flight
	ErrKindInvalidInput             // bad arguments from the caller
	ErrKindPermissionDenied         // access denied / auth failure
	ErrKindTooLarge                 // payload above the accepted size
	ErrKindParseFailed              // payload is not the expected format
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindReadFailed:
		return "read_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindTooLarge:
		return "too_large"
	case ErrKindParseFailed:
		return "parse_failed"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by lorelink subsystems.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original backend error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsNotFound reports whether err represents a missing object, bucket or row.
func IsNotFound(err error) bool {
	return KindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return KindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity failure.
func IsConnectionFailed(err error) bool {
	return KindOf(err) == ErrKindConnectionFailed
}

// IsReadFailed reports whether err is a backend read failure.
func IsReadFailed(err error) bool {
	return KindOf(err) == ErrKindReadFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return KindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return KindOf(err) == ErrKindPermissionDenied
}

// IsTooLarge reports whether err rejected an oversized payload.
func IsTooLarge(err error) bool {
	return KindOf(err) == ErrKindTooLarge
}

// IsParseFailed reports whether err came from decoding a payload.
func IsParseFailed(err error) bool {
	return KindOf(err) == ErrKindParseFailed
}

// KindOf extracts the ErrKind from any error in the chain.
// Bare context errors are reported as ErrKindTimeout.
func KindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if isContextErr(err) {
		return ErrKindTimeout
	}
	return ErrKindUnknown
}
