package pet

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("pet not found")
	ErrForbidden = errors.New("forbidden")
	// ErrHasActiveAppointments blocks deletion while a pending or
	// confirmed appointment references the pet.
	ErrHasActiveAppointments = errors.New("pet has active appointments")
)

// VaccinationStatus is derived from the last vaccination date, never
// stored: valid within 365 days, expired beyond that, unknown when no date
// is recorded.
type VaccinationStatus string

const (
	VaccinationValid   VaccinationStatus = "valid"
	VaccinationExpired VaccinationStatus = "expired"
	VaccinationUnknown VaccinationStatus = "unknown"
)

const vaccinationValidity = 365 * 24 * time.Hour

// VaccinationStatusAt computes the status of a vaccination date relative
// to now.
func VaccinationStatusAt(lastVaccination *time.Time, now time.Time) VaccinationStatus {
	if lastVaccination == nil {
		return VaccinationUnknown
	}
	if lastVaccination.Before(now.Add(-vaccinationValidity)) {
		return VaccinationExpired
	}
	return VaccinationValid
}

// Pet maps to the pets table.
type Pet struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	OwnerID         uuid.UUID  `db:"owner_id" json:"owner_id"`
	Name            string     `db:"name" json:"name"`
	Species         string     `db:"species" json:"species"`
	Breed           *string    `db:"breed" json:"breed,omitempty"`
	Age             *int       `db:"age" json:"age,omitempty"`
	LastVaccination *time.Time `db:"last_vaccination" json:"last_vaccination,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`

	// VaccinationStatus is computed on read and carried only in API
	// responses.
	VaccinationStatus VaccinationStatus `db:"-" json:"vaccination_status"`
}
