package pet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/auth"
)

type Service struct {
	repo     Repository
	schedule ScheduleChecker
	now      func() time.Time
}

func NewService(repo Repository, schedule ScheduleChecker) *Service {
	return &Service{repo: repo, schedule: schedule, now: time.Now}
}

func (s *Service) withStatus(p *Pet) *Pet {
	p.VaccinationStatus = VaccinationStatusAt(p.LastVaccination, s.now())
	return p
}

// authorize checks pet-level access: admins always pass, owners only for
// their own pets.
func authorize(caller auth.Caller, p *Pet) error {
	if caller.IsAdmin() || caller.UserID == p.OwnerID.String() {
		return nil
	}
	return ErrForbidden
}

// CreateInput carries a pet registration. OwnerID is taken from the caller
// for pet owners; admins may register on another user's behalf.
type CreateInput struct {
	OwnerID         *uuid.UUID
	Name            string
	Species         string
	Breed           *string
	Age             *int
	LastVaccination *time.Time
}

func (s *Service) Create(ctx context.Context, in CreateInput, caller auth.Caller) (*Pet, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if in.Species == "" {
		return nil, fmt.Errorf("species is required")
	}

	callerID, err := uuid.Parse(caller.UserID)
	if err != nil {
		return nil, ErrForbidden
	}
	ownerID := callerID
	if in.OwnerID != nil {
		if !caller.IsAdmin() && *in.OwnerID != callerID {
			return nil, ErrForbidden
		}
		ownerID = *in.OwnerID
	}

	p := &Pet{
		OwnerID:         ownerID,
		Name:            in.Name,
		Species:         in.Species,
		Breed:           in.Breed,
		Age:             in.Age,
		LastVaccination: in.LastVaccination,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.withStatus(p), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID, caller auth.Caller) (*Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, p); err != nil {
		return nil, err
	}
	return s.withStatus(p), nil
}

// List returns the caller's pets, or every pet for admins.
func (s *Service) List(ctx context.Context, caller auth.Caller, limit, offset int) ([]*Pet, int, error) {
	var (
		items []*Pet
		total int
		err   error
	)
	if caller.IsAdmin() {
		items, total, err = s.repo.ListAll(ctx, limit, offset)
	} else {
		ownerID, parseErr := uuid.Parse(caller.UserID)
		if parseErr != nil {
			return nil, 0, ErrForbidden
		}
		items, total, err = s.repo.ListByOwner(ctx, ownerID, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	for _, p := range items {
		s.withStatus(p)
	}
	return items, total, nil
}

// UpdateInput carries a partial pet update; nil fields stay unchanged.
type UpdateInput struct {
	Name            *string
	Species         *string
	Breed           *string
	Age             *int
	LastVaccination *time.Time
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput, caller auth.Caller) (*Pet, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(caller, p); err != nil {
		return nil, err
	}

	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("name cannot be empty")
		}
		p.Name = *in.Name
	}
	if in.Species != nil {
		if *in.Species == "" {
			return nil, fmt.Errorf("species cannot be empty")
		}
		p.Species = *in.Species
	}
	if in.Breed != nil {
		p.Breed = in.Breed
	}
	if in.Age != nil {
		p.Age = in.Age
	}
	if in.LastVaccination != nil {
		p.LastVaccination = in.LastVaccination
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.withStatus(p), nil
}

// Delete removes a pet. Refused while the pet has pending or confirmed
// appointments; those must be cancelled or completed first.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, caller auth.Caller) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(caller, p); err != nil {
		return err
	}

	active, err := s.schedule.HasActiveForPet(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return ErrHasActiveAppointments
	}
	return s.repo.Delete(ctx, id)
}
