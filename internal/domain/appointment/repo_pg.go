package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

const apptCols = `id, pet_id, owner_id, start_time, end_time, service_type, status, note, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PetID, &a.OwnerID, &a.StartTime, &a.EndTime,
		&a.ServiceType, &a.Status, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

// slotTaken maps storage-level conflict errors to ErrSlotConflict. The
// appointments table carries an exclusion constraint over active time
// ranges, and transactions run serializable; either can reject a write that
// passed the application-level overlap check under concurrency.
func slotTaken(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	// 23P01 exclusion_violation, 40001 serialization_failure
	return pgErr.Code == "23P01" || pgErr.Code == "40001"
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	row := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, pet_id, owner_id, start_time, end_time, service_type, status, note)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		a.ID, a.PetID, a.OwnerID, a.StartTime, a.EndTime, a.ServiceType, a.Status, a.Note)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if slotTaken(err) {
			return ErrSlotConflict
		}
		return err
	}
	return nil
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	a, err := scanAppointment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	row := r.conn(ctx).QueryRow(ctx, `
		UPDATE appointments
		SET start_time=$2, end_time=$3, service_type=$4, status=$5, note=$6, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		a.ID, a.StartTime, a.EndTime, a.ServiceType, a.Status, a.Note)
	if err := row.Scan(&a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if slotTaken(err) {
			return ErrSlotConflict
		}
		return err
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	query := `SELECT ` + apptCols + ` FROM appointments WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM appointments WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.OwnerID != nil {
		query += fmt.Sprintf(` AND owner_id = $%d`, idx)
		countQuery += fmt.Sprintf(` AND owner_id = $%d`, idx)
		args = append(args, *f.OwnerID)
		idx++
	}
	if f.Status != nil {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, *f.Status)
		idx++
	}
	if f.From != nil {
		query += fmt.Sprintf(` AND start_time >= $%d`, idx)
		countQuery += fmt.Sprintf(` AND start_time >= $%d`, idx)
		args = append(args, *f.From)
		idx++
	}
	if f.To != nil {
		query += fmt.Sprintf(` AND start_time <= $%d`, idx)
		countQuery += fmt.Sprintf(` AND start_time <= $%d`, idx)
		args = append(args, *f.To)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY start_time ASC, id ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) HasActiveForPet(ctx context.Context, petID uuid.UUID) (bool, error) {
	var active bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE pet_id = $1 AND status IN ('pending', 'confirmed')
		)`, petID).Scan(&active)
	if err != nil {
		return false, err
	}
	return active, nil
}

func (r *repoPG) HasOverlap(ctx context.Context, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	// Half-open intervals [s1,e1) and [s2,e2) overlap iff s1 < e2 and
	// s2 < e1. Cancelled and completed appointments never block a slot.
	var conflict bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE status IN ('pending', 'confirmed')
			  AND start_time < $2
			  AND $1 < end_time
			  AND id <> $3
		)`, start, end, excludeID).Scan(&conflict)
	if err != nil {
		return false, err
	}
	return conflict, nil
}
