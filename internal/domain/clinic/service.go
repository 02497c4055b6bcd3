package clinic

import "context"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context) (*OperatingStatus, error) {
	return s.repo.Get(ctx)
}

// Update sets the operating status. Admin-only; the route layer enforces
// the role.
func (s *Service) Update(ctx context.Context, status Status) (*OperatingStatus, error) {
	if !status.Known() {
		return nil, ErrUnknownStatus
	}
	return s.repo.Set(ctx, status)
}

// CurrentStatus satisfies the booking path's gate interface.
func (s *Service) CurrentStatus(ctx context.Context) (string, error) {
	st, err := s.repo.Get(ctx)
	if err != nil {
		return "", err
	}
	return string(st.Status), nil
}
