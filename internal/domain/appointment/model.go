package appointment

import (
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/auth"
)

// ServiceType is the kind of visit being booked. Each type has a fixed
// duration; the end time of an appointment is always derived from its start
// time and service type, never supplied by the caller.
type ServiceType string

const (
	ServiceVaccination ServiceType = "vaccination"
	ServiceRoutine     ServiceType = "routine"
	ServiceSurgery     ServiceType = "surgery"
	ServiceEmergency   ServiceType = "emergency"
)

var serviceDurations = map[ServiceType]time.Duration{
	ServiceVaccination: 30 * time.Minute,
	ServiceRoutine:     45 * time.Minute,
	ServiceSurgery:     120 * time.Minute,
	ServiceEmergency:   15 * time.Minute,
}

// defaultDuration applies to service types outside the known set. Callers
// that need strict validation check Known first; ResolveEnd itself never
// fails.
const defaultDuration = 30 * time.Minute

// Known reports whether the service type is in the fixed set.
func (s ServiceType) Known() bool {
	_, ok := serviceDurations[s]
	return ok
}

// Duration returns the visit length for the service type, falling back to
// the default for unknown types.
func (s ServiceType) Duration() time.Duration {
	if d, ok := serviceDurations[s]; ok {
		return d
	}
	return defaultDuration
}

// ResolveEnd computes the end instant of a visit starting at start.
func ResolveEnd(start time.Time, service ServiceType) time.Time {
	return start.Add(service.Duration())
}

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Known reports whether the status is one of the defined states.
func (s Status) Known() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Active reports whether the appointment occupies its time slot. Only
// active appointments participate in overlap checks.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type transition struct {
	from, to Status
}

// transitionRules is the full set of legal status edges and who may take
// them. Everything absent from this table, including same-state changes,
// is rejected. Adding a state or edge means adding a row here.
var transitionRules = map[transition]struct{ adminOnly bool }{
	{StatusPending, StatusConfirmed}:   {adminOnly: true},
	{StatusConfirmed, StatusCompleted}: {adminOnly: true},
	{StatusPending, StatusCancelled}:   {adminOnly: false},
	{StatusConfirmed, StatusCancelled}: {adminOnly: false},
}

// Authorize validates a requested status change against the transition
// table. An edge missing from the table fails with a TransitionError; a
// legal edge attempted by the wrong caller fails with ErrForbidden. For
// edges open to owners, ownerID must match the caller's user id.
func Authorize(from, to Status, caller auth.Caller, ownerID uuid.UUID) error {
	rule, ok := transitionRules[transition{from, to}]
	if !ok {
		return &TransitionError{From: from, To: to}
	}
	if caller.IsAdmin() {
		return nil
	}
	if rule.adminOnly {
		return ErrForbidden
	}
	if caller.UserID != ownerID.String() {
		return ErrForbidden
	}
	return nil
}

// Appointment maps to the appointments table. OwnerID is copied from the
// pet at creation time so list queries can scope by owner without a join;
// it is always derived server-side, never taken from the request.
type Appointment struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	PetID       uuid.UUID   `db:"pet_id" json:"pet_id"`
	OwnerID     uuid.UUID   `db:"owner_id" json:"owner_id"`
	StartTime   time.Time   `db:"start_time" json:"start_time"`
	EndTime     time.Time   `db:"end_time" json:"end_time"`
	ServiceType ServiceType `db:"service_type" json:"service_type"`
	Status      Status      `db:"status" json:"status"`
	Note        *string     `db:"note" json:"note,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}
