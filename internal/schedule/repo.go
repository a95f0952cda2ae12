package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, s *Schedule) (string, error) {
	s.ID = uuid.NewString()
	_, err := r.DB.Exec(ctx, `
		INSERT INTO schedules(id, mass, date, month, year, weekday, hour, chapel, acolytes, servers)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.Mass, s.Date, s.Month, s.Year, s.Weekday, s.Hour, s.Chapel, s.Acolytes, s.Servers)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return "", fmt.Errorf("%w: %s on %s", ErrDuplicateSchedule, s.Mass, s.Date)
	}
	if err != nil {
		return "", err
	}
	return s.ID, nil
}

// List returns schedules newest first; month/year of zero means no filter.
func (r *Repo) List(ctx context.Context, month, year int) ([]Schedule, error) {
	q := `
		SELECT id, mass, date, month, year, weekday, hour, chapel, acolytes, servers, created_at
		FROM schedules`
	args := []any{}
	if month > 0 && year > 0 {
		q += ` WHERE month = $1 AND year = $2`
		args = append(args, month, year)
	}
	q += ` ORDER BY year DESC, month DESC, date DESC`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Schedule
	for rows.Next() {
		var s Schedule
		if err := rows.Scan(&s.ID, &s.Mass, &s.Date, &s.Month, &s.Year, &s.Weekday,
			&s.Hour, &s.Chapel, &s.Acolytes, &s.Servers, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id string) (*Schedule, error) {
	var s Schedule
	err := r.DB.QueryRow(ctx, `
		SELECT id, mass, date, month, year, weekday, hour, chapel, acolytes, servers, created_at
		FROM schedules WHERE id = $1`, id).
		Scan(&s.ID, &s.Mass, &s.Date, &s.Month, &s.Year, &s.Weekday,
			&s.Hour, &s.Chapel, &s.Acolytes, &s.Servers, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repo) Update(ctx context.Context, id string, s *Schedule) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE schedules
		SET mass = $2, date = $3, month = $4, year = $5, weekday = $6, hour = $7,
		    chapel = $8, acolytes = $9, servers = $10
		WHERE id = $1`,
		id, s.Mass, s.Date, s.Month, s.Year, s.Weekday, s.Hour, s.Chapel, s.Acolytes, s.Servers)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrScheduleNotFound, id)
	}
	return nil
}

// Members (the coroinhas/acolitos registries collapse into one table with a
// role column).

func (r *Repo) CreateMember(ctx context.Context, name, role string) (string, error) {
	if role != RoleServer && role != RoleAcolyte {
		return "", fmt.Errorf("unknown role %q", role)
	}
	id := uuid.NewString()
	_, err := r.DB.Exec(ctx, `INSERT INTO roster_members(id, name, role) VALUES ($1, $2, $3)`,
		id, name, role)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (r *Repo) ListMembers(ctx context.Context, role string) ([]Member, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, role FROM roster_members WHERE role = $1 ORDER BY name`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Role); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *Repo) RenameMember(ctx context.Context, id, name string) error {
	ct, err := r.DB.Exec(ctx, `UPDATE roster_members SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	return nil
}

func (r *Repo) DeleteMember(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM roster_members WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrMemberNotFound, id)
	}
	return nil
}
