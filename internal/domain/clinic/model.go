package clinic

import (
	"errors"
	"time"
)

var ErrUnknownStatus = errors.New("unknown clinic status")

// Status is the clinic's operating state. close blocks new bookings;
// closing_soon is advisory only.
type Status string

const (
	StatusOpen        Status = "open"
	StatusClose       Status = "close"
	StatusClosingSoon Status = "closing_soon"
)

func (s Status) Known() bool {
	switch s {
	case StatusOpen, StatusClose, StatusClosingSoon:
		return true
	}
	return false
}

// OperatingStatus is the clinic's single status row.
type OperatingStatus struct {
	Status    Status    `db:"status" json:"status"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
