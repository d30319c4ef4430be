package kafka

import (
	"errors"

	"service-delivery/internal/apperr"
)

// PermanentError marks a handler failure that redelivery cannot fix.
type PermanentError struct {
	Err error
}

func (e PermanentError) Error() string {
	if e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e PermanentError) Unwrap() error { return e.Err }

// Permanent wraps err so the consumer skips it without retrying. A nil err stays nil.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return PermanentError{Err: err}
}

// retryable reports whether handling the same event again may succeed.
// Domain rejections are final; store and network failures are not.
func retryable(err error) bool {
	var perm PermanentError
	switch {
	case err == nil, errors.As(err, &perm):
		return false
	case errors.Is(err, apperr.ErrTransient):
		return true
	case errors.Is(err, apperr.ErrInvalid),
		errors.Is(err, apperr.ErrNotFound),
		errors.Is(err, apperr.ErrPreconditionFailed),
		errors.Is(err, apperr.ErrConflict),
		errors.Is(err, apperr.ErrForbidden):
		return false
	default:
		return true
	}
}
