package pet

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Pet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Pet, error)
	Update(ctx context.Context, p *Pet) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*Pet, int, error)
	ListAll(ctx context.Context, limit, offset int) ([]*Pet, int, error)
}

// ScheduleChecker answers whether a pet still has active appointments.
// Implemented by the appointment repository.
type ScheduleChecker interface {
	HasActiveForPet(ctx context.Context, petID uuid.UUID) (bool, error)
}
