package appointment

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the requested appointment does not exist.
	ErrNotFound = errors.New("appointment not found")
	// ErrPetNotFound means the referenced pet does not exist.
	ErrPetNotFound = errors.New("pet not found")
	// ErrForbidden means the caller may not perform the requested action.
	ErrForbidden = errors.New("forbidden")

	// ErrPastStartTime means the requested start is not in the future.
	ErrPastStartTime = errors.New("start time must be in the future")
	// ErrClinicClosed means the clinic is not accepting new bookings.
	ErrClinicClosed = errors.New("clinic is closed")
	// ErrUnknownServiceType means the service type is outside the fixed set.
	ErrUnknownServiceType = errors.New("unknown service type")
	// ErrSlotConflict means the requested interval overlaps an active
	// appointment.
	ErrSlotConflict = errors.New("time slot conflicts with an existing appointment")
	// ErrUnknownStatus means the requested target status is not a defined
	// state.
	ErrUnknownStatus = errors.New("unknown appointment status")
)

// TransitionError reports an illegal status edge, naming both states.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %s to %s", e.From, e.To)
}

// IsValidation reports whether err belongs to the business-rule class of
// failures, as opposed to not-found or authorization failures.
func IsValidation(err error) bool {
	var te *TransitionError
	if errors.As(err, &te) {
		return true
	}
	return errors.Is(err, ErrPastStartTime) ||
		errors.Is(err, ErrClinicClosed) ||
		errors.Is(err, ErrUnknownServiceType) ||
		errors.Is(err, ErrSlotConflict) ||
		errors.Is(err, ErrUnknownStatus)
}
