package errs

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Format(t *testing.T) {
	plain := New(ErrKindNotFound, "object missing")
	assert.Equal(t, "[not_found] object missing", plain.Error())

	wrapped := Wrap(ErrKindReadFailed, "list failed", errors.New("socket closed"))
	assert.Equal(t, "[read_failed] list failed: socket closed", wrapped.Error())
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"not found", New(ErrKindNotFound, "x"), IsNotFound},
		{"timeout", New(ErrKindTimeout, "x"), IsTimeout},
		{"connection", New(ErrKindConnectionFailed, "x"), IsConnectionFailed},
		{"read", New(ErrKindReadFailed, "x"), IsReadFailed},
		{"invalid", New(ErrKindInvalidInput, "x"), IsInvalidInput},
		{"permission", New(ErrKindPermissionDenied, "x"), IsPermissionDenied},
		{"too large", New(ErrKindTooLarge, "x"), IsTooLarge},
		{"parse", New(ErrKindParseFailed, "x"), IsParseFailed},
		{"wrapped by fmt", fmt.Errorf("outer: %w", New(ErrKindNotFound, "x")), IsNotFound},
		{"bare context cancel", context.Canceled, IsTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.pred(tt.err))
		})
	}
}

func TestKindOf_Unknown(t *testing.T) {
	assert.Equal(t, ErrKindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, ErrKindUnknown, KindOf(nil))
}

func TestFromContext(t *testing.T) {
	assert.Nil(t, FromContext(nil, "x"))
	assert.Nil(t, FromContext(errors.New("other"), "x"))

	err := FromContext(context.DeadlineExceeded, "walk aborted")
	assert.True(t, IsTimeout(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
