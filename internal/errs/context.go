package errs

import (
	"context"
	"errors"
)

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// FromContext wraps a context error as ErrKindTimeout, keeping the cause.
// It returns nil when err is not a context error.
func FromContext(err error, msg string) *Error {
	if err == nil || !isContextErr(err) {
		return nil
	}
	return Wrap(ErrKindTimeout, msg, err)
}
