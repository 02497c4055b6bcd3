package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows a list query. Nil fields impose no constraint; From and To
// bound start_time inclusively on both ends. OwnerID is set by the service
// for pet-owner callers, never from request input.
type Filter struct {
	OwnerID *uuid.UUID
	Status  *Status
	From    *time.Time
	To      *time.Time
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error)
	// HasOverlap reports whether any active appointment occupies an
	// interval overlapping [start, end). excludeID, when non-nil uuid,
	// exempts the appointment being rescheduled.
	HasOverlap(ctx context.Context, start, end time.Time, excludeID uuid.UUID) (bool, error)
	// HasActiveForPet reports whether the pet has any pending or
	// confirmed appointment. Pet deletion is refused while it does.
	HasActiveForPet(ctx context.Context, petID uuid.UUID) (bool, error)
}

// PetDirectory resolves a pet to its owner. Implementations return
// ErrPetNotFound when the pet does not exist.
type PetDirectory interface {
	OwnerOf(ctx context.Context, petID uuid.UUID) (uuid.UUID, error)
}

// ClinicGate exposes the clinic's operating status to the booking path.
type ClinicGate interface {
	CurrentStatus(ctx context.Context) (string, error)
}

// TxRunner wraps an operation in a store transaction so check-then-write
// sequences are atomic against concurrent callers.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
