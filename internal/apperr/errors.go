package apperr

import (
	"errors"
	"fmt"
)

// Base error classes. Handlers map them onto HTTP statuses.
var (
	// ErrInvalid is returned when the input fails domain validation.
	ErrInvalid = errors.New("invalid input")
	// ErrNotFound indicates that the requested resource does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict indicates a uniqueness or state conflict (HTTP 409).
	ErrConflict = errors.New("conflict")
	// ErrForbidden indicates that the actor may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrPreconditionFailed indicates the resource is not in a state that allows the operation.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrTransient marks network, provider or store hiccups that may succeed on retry.
	ErrTransient = errors.New("transient failure")
	// ErrGeocoderAuth indicates the geocoding provider rejected our credentials.
	ErrGeocoderAuth = errors.New("geocoder authentication failed")
)

// Precondition failures with a dedicated user-facing message.
var (
	ErrMissingProof      = fmt.Errorf("%w: delivery proof photo is required before marking as delivered", ErrPreconditionFailed)
	ErrInvalidTransition = fmt.Errorf("%w: delivery status transition is not allowed", ErrPreconditionFailed)
	ErrOrderNotPayable   = fmt.Errorf("%w: order is not paid or confirmed", ErrPreconditionFailed)
	ErrAgentNotEligible  = fmt.Errorf("%w: delivery agent is not approved", ErrPreconditionFailed)
)

// NotFoundError reports a missing resource together with the last underlying
// error seen while looking for it.
type NotFoundError struct {
	Resource string
	ID       string
	Cause    error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("%s %q not found", e.Resource, e.ID)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Unwrap returns the underlying cause.
func (e *NotFoundError) Unwrap() error { return e.Cause }

// TransientError wraps an error that is worth retrying.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	if e.Err == nil {
		return ErrTransient.Error()
	}
	return "transient: " + e.Err.Error()
}

// Is makes errors.Is(err, ErrTransient) true.
func (e *TransientError) Is(target error) bool { return target == ErrTransient }

// Unwrap returns the wrapped error.
func (e *TransientError) Unwrap() error { return e.Err }

// Transient marks err as retryable. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// Code returns a stable machine-readable code for err.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingProof):
		return "MISSING_PROOF"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrOrderNotPayable):
		return "ORDER_NOT_PAYABLE"
	case errors.Is(err, ErrAgentNotEligible):
		return "AGENT_NOT_ELIGIBLE"
	case errors.Is(err, ErrPreconditionFailed):
		return "PRECONDITION_FAILED"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalid):
		return "INVALID_INPUT"
	case errors.Is(err, ErrConflict):
		return "CONFLICT"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrGeocoderAuth):
		return "GEOCODER_AUTH"
	case errors.Is(err, ErrTransient):
		return "TRANSIENT"
	default:
		return "INTERNAL"
	}
}
