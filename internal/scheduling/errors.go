package scheduling

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAvailabilityConfigured: the agent has no active weekly rules at all.
	ErrNoAvailabilityConfigured = errors.New("no availability configured")
	// ErrNoAvailability: booking found no free slot in the horizon. Terminal.
	ErrNoAvailability = errors.New("no available slot")
	// ErrPersistenceConflict: the store rejected the booking because the slot
	// was taken meanwhile. The only retryable condition.
	ErrPersistenceConflict = errors.New("slot no longer available")
	// ErrPersistenceFailure: the store failed for an unrelated reason.
	ErrPersistenceFailure = errors.New("persistence failure")
	// ErrInvalidRequest: the request itself is malformed.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrContactNotFound: the contact to book for does not exist.
	ErrContactNotFound = errors.New("contact not found")
)

// Outcome classifies the result of a booking attempt.
type Outcome int

const (
	OutcomeBooked Outcome = iota
	OutcomeNoAvailability
	OutcomeConflict
	OutcomeFailure
	OutcomeInvalidRequest
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBooked:
		return "booked"
	case OutcomeNoAvailability:
		return "no_availability"
	case OutcomeConflict:
		return "conflict"
	case OutcomeFailure:
		return "failure"
	case OutcomeInvalidRequest:
		return "invalid_request"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// BookingError is the typed failure of BookAppointment. It matches the
// sentinel of its Kind with errors.Is and unwraps to the underlying cause.
type BookingError struct {
	Kind Outcome
	Err  error
}

func (e *BookingError) Error() string {
	if e.Err == nil {
		return "booking " + e.Kind.String()
	}
	return fmt.Sprintf("booking %s: %v", e.Kind, e.Err)
}

func (e *BookingError) Unwrap() error { return e.Err }

func (e *BookingError) Is(target error) bool {
	switch target {
	case ErrNoAvailability:
		return e.Kind == OutcomeNoAvailability
	case ErrPersistenceConflict:
		return e.Kind == OutcomeConflict
	case ErrPersistenceFailure:
		return e.Kind == OutcomeFailure
	case ErrInvalidRequest:
		return e.Kind == OutcomeInvalidRequest
	}
	return false
}

// Retryable reports whether re-running the booking may succeed.
func (e *BookingError) Retryable() bool {
	return e.Kind == OutcomeConflict
}

// OutcomeOf classifies any error returned by BookAppointment. Errors that are
// not a *BookingError count as failures.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeBooked
	}
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind
	}
	return OutcomeFailure
}

func bookingErr(kind Outcome, err error) *BookingError {
	return &BookingError{Kind: kind, Err: err}
}
