package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/auth"
)

func TestResolveEnd_KnownServices(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		service ServiceType
		want    time.Duration
	}{
		{ServiceVaccination, 30 * time.Minute},
		{ServiceRoutine, 45 * time.Minute},
		{ServiceSurgery, 120 * time.Minute},
		{ServiceEmergency, 15 * time.Minute},
	}
	for _, tt := range tests {
		t.Run(string(tt.service), func(t *testing.T) {
			got := ResolveEnd(start, tt.service)
			if want := start.Add(tt.want); !got.Equal(want) {
				t.Errorf("ResolveEnd(%s) = %v, want %v", tt.service, got, want)
			}
		})
	}
}

func TestResolveEnd_UnknownServiceUsesDefault(t *testing.T) {
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	got := ResolveEnd(start, ServiceType("grooming"))
	if want := start.Add(30 * time.Minute); !got.Equal(want) {
		t.Errorf("ResolveEnd(grooming) = %v, want %v", got, want)
	}
}

func TestServiceType_Known(t *testing.T) {
	for _, s := range []ServiceType{ServiceVaccination, ServiceRoutine, ServiceSurgery, ServiceEmergency} {
		if !s.Known() {
			t.Errorf("expected %s to be known", s)
		}
	}
	if ServiceType("grooming").Known() {
		t.Error("expected grooming to be unknown")
	}
}

func TestStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() || StatusConfirmed.Terminal() {
		t.Error("pending and confirmed must not be terminal")
	}
	if !StatusCancelled.Terminal() || !StatusCompleted.Terminal() {
		t.Error("cancelled and completed must be terminal")
	}
}

func TestStatus_Active(t *testing.T) {
	if !StatusPending.Active() || !StatusConfirmed.Active() {
		t.Error("pending and confirmed must be active")
	}
	if StatusCancelled.Active() || StatusCompleted.Active() {
		t.Error("cancelled and completed must not be active")
	}
}

func TestAuthorize_TransitionMatrix(t *testing.T) {
	ownerID := uuid.New()
	admin := auth.Caller{UserID: uuid.NewString(), Role: auth.RoleAdmin}
	owner := auth.Caller{UserID: ownerID.String(), Role: auth.RolePetOwner}
	stranger := auth.Caller{UserID: uuid.NewString(), Role: auth.RolePetOwner}

	tests := []struct {
		name    string
		from    Status
		to      Status
		caller  auth.Caller
		wantErr error
	}{
		{"admin confirms pending", StatusPending, StatusConfirmed, admin, nil},
		{"owner cannot confirm", StatusPending, StatusConfirmed, owner, ErrForbidden},
		{"admin completes confirmed", StatusConfirmed, StatusCompleted, admin, nil},
		{"owner cannot complete", StatusConfirmed, StatusCompleted, owner, ErrForbidden},
		{"owner cancels pending", StatusPending, StatusCancelled, owner, nil},
		{"owner cancels confirmed", StatusConfirmed, StatusCancelled, owner, nil},
		{"admin cancels pending", StatusPending, StatusCancelled, admin, nil},
		{"stranger cannot cancel", StatusPending, StatusCancelled, stranger, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.from, tt.to, tt.caller, ownerID)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestAuthorize_IllegalEdges(t *testing.T) {
	ownerID := uuid.New()
	admin := auth.Caller{UserID: uuid.NewString(), Role: auth.RoleAdmin}

	illegal := []struct {
		from, to Status
	}{
		{StatusPending, StatusPending},
		{StatusConfirmed, StatusConfirmed},
		{StatusPending, StatusCompleted},
		{StatusCancelled, StatusConfirmed},
		{StatusCancelled, StatusPending},
		{StatusCancelled, StatusCancelled},
		{StatusCompleted, StatusCancelled},
		{StatusCompleted, StatusConfirmed},
		{StatusCompleted, StatusPending},
	}
	for _, tt := range illegal {
		err := Authorize(tt.from, tt.to, admin, ownerID)
		var te *TransitionError
		if !errors.As(err, &te) {
			t.Errorf("%s -> %s: expected TransitionError even for admin, got %v", tt.from, tt.to, err)
			continue
		}
		if te.From != tt.from || te.To != tt.to {
			t.Errorf("TransitionError names %s -> %s, want %s -> %s", te.From, te.To, tt.from, tt.to)
		}
	}
}

func TestTransitionError_Message(t *testing.T) {
	err := &TransitionError{From: StatusCancelled, To: StatusConfirmed}
	want := "illegal status transition from cancelled to confirmed"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	if !IsValidation(err) {
		t.Error("TransitionError must classify as validation failure")
	}
}
