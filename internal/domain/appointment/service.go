package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/auth"
)

// clinicStatusClosed is the gate value that blocks new bookings. The
// closing_soon state warns clients but still accepts appointments.
const clinicStatusClosed = "close"

// Service coordinates appointment booking and lifecycle. All state lives in
// the store; the service itself is stateless and safe for concurrent use.
type Service struct {
	repo   Repository
	pets   PetDirectory
	clinic ClinicGate
	tx     TxRunner
	now    func() time.Time
}

func NewService(repo Repository, pets PetDirectory, clinic ClinicGate, tx TxRunner) *Service {
	return &Service{
		repo:   repo,
		pets:   pets,
		clinic: clinic,
		tx:     tx,
		now:    time.Now,
	}
}

// CreateInput carries a booking request. EndTime is absent on purpose; it
// is always derived from StartTime and ServiceType.
type CreateInput struct {
	PetID       uuid.UUID
	StartTime   time.Time
	ServiceType ServiceType
	Note        *string
}

// Create books a new appointment in pending status. Checks run in a fixed
// order: pet existence, caller authorization, future start, clinic gate,
// service type, slot conflict. The whole sequence runs inside one store
// transaction so two concurrent bookings for overlapping slots cannot
// both pass the conflict check and commit; the store's exclusion
// constraint backstops the application-level check.
func (s *Service) Create(ctx context.Context, in CreateInput, caller auth.Caller) (*Appointment, error) {
	var created *Appointment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		ownerID, err := s.pets.OwnerOf(ctx, in.PetID)
		if err != nil {
			return err
		}
		if !caller.IsAdmin() && caller.UserID != ownerID.String() {
			return ErrForbidden
		}
		if !in.StartTime.After(s.now()) {
			return ErrPastStartTime
		}

		status, err := s.clinic.CurrentStatus(ctx)
		if err != nil {
			return err
		}
		if status == clinicStatusClosed {
			return ErrClinicClosed
		}

		if !in.ServiceType.Known() {
			return ErrUnknownServiceType
		}
		end := ResolveEnd(in.StartTime, in.ServiceType)

		conflict, err := s.repo.HasOverlap(ctx, in.StartTime, end, uuid.Nil)
		if err != nil {
			return err
		}
		if conflict {
			return ErrSlotConflict
		}

		a := &Appointment{
			PetID:       in.PetID,
			OwnerID:     ownerID,
			StartTime:   in.StartTime,
			EndTime:     end,
			ServiceType: in.ServiceType,
			Status:      StatusPending,
			Note:        in.Note,
		}
		if err := s.repo.Create(ctx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// List returns the appointments the caller may see. Admins see everything
// matching the filter; pet owners see only their own pets' appointments.
func (s *Service) List(ctx context.Context, caller auth.Caller, f Filter, limit, offset int) ([]*Appointment, int, error) {
	if !caller.IsAdmin() {
		ownerID, err := uuid.Parse(caller.UserID)
		if err != nil {
			return nil, 0, ErrForbidden
		}
		f.OwnerID = &ownerID
	}
	return s.repo.List(ctx, f, limit, offset)
}

// Get returns a single appointment. Pet owners may only fetch their own.
func (s *Service) Get(ctx context.Context, id uuid.UUID, caller auth.Caller) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin() && caller.UserID != a.OwnerID.String() {
		return nil, ErrForbidden
	}
	return a, nil
}

// UpdateStatus moves an appointment along a legal edge of the transition
// table. Load and write share one transaction so concurrent updates of the
// same appointment serialize.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, to Status, caller auth.Caller) (*Appointment, error) {
	if !to.Known() {
		return nil, ErrUnknownStatus
	}
	var updated *Appointment
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := Authorize(a.Status, to, caller, a.OwnerID); err != nil {
			return err
		}
		a.Status = to
		if err := s.repo.Update(ctx, a); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Cancel is the *->cancelled edge exposed as its own operation. Cancelling
// an already terminal appointment fails; the row is kept with its status
// flipped rather than deleted, so history survives.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, caller auth.Caller) (*Appointment, error) {
	return s.UpdateStatus(ctx, id, StatusCancelled, caller)
}
