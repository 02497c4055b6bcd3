package clinic

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetclinic/vetclinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// The clinic_status table holds exactly one row, pinned by id = 1 in the
// schema. A missing row reads as open so a fresh database accepts
// bookings.
func (r *repoPG) Get(ctx context.Context) (*OperatingStatus, error) {
	var s OperatingStatus
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT status, updated_at FROM clinic_status WHERE id = 1`).Scan(&s.Status, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return &OperatingStatus{Status: StatusOpen}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repoPG) Set(ctx context.Context, status Status) (*OperatingStatus, error) {
	var s OperatingStatus
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO clinic_status (id, status)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING status, updated_at`, status).Scan(&s.Status, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
