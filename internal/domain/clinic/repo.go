package clinic

import "context"

type Repository interface {
	Get(ctx context.Context) (*OperatingStatus, error)
	Set(ctx context.Context, status Status) (*OperatingStatus, error)
}
