package clinic

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRepo struct {
	status *OperatingStatus
}

func (m *mockRepo) Get(_ context.Context) (*OperatingStatus, error) {
	if m.status == nil {
		return &OperatingStatus{Status: StatusOpen}, nil
	}
	return m.status, nil
}

func (m *mockRepo) Set(_ context.Context, status Status) (*OperatingStatus, error) {
	m.status = &OperatingStatus{Status: status, UpdatedAt: time.Now()}
	return m.status, nil
}

func TestGet_DefaultsToOpen(t *testing.T) {
	svc := NewService(&mockRepo{})
	s, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Status != StatusOpen {
		t.Errorf("expected open by default, got %s", s.Status)
	}
}

func TestUpdate_ValidStatuses(t *testing.T) {
	svc := NewService(&mockRepo{})
	for _, status := range []Status{StatusOpen, StatusClose, StatusClosingSoon} {
		s, err := svc.Update(context.Background(), status)
		if err != nil {
			t.Fatalf("update to %s: unexpected error: %v", status, err)
		}
		if s.Status != status {
			t.Errorf("expected %s, got %s", status, s.Status)
		}
	}
}

func TestUpdate_UnknownStatus(t *testing.T) {
	svc := NewService(&mockRepo{})
	_, err := svc.Update(context.Background(), Status("half_open"))
	if !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestCurrentStatus(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	if _, err := svc.Update(context.Background(), StatusClose); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err := svc.CurrentStatus(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "close" {
		t.Errorf("expected close, got %s", got)
	}
}
