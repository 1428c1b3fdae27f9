package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinetix/showtime-api/internal/schedule"
)

// CinemaRepo manages persistence for cinemas.
type CinemaRepo struct {
	db *sql.DB
}

// NewCinemaRepo constructs a CinemaRepo with the given DB handle.
func NewCinemaRepo(db *sql.DB) *CinemaRepo {
	return &CinemaRepo{db: db}
}

// Create inserts a new cinema and populates generated fields.
func (r *CinemaRepo) Create(ctx context.Context, c *schedule.Cinema) error {
	const q = `INSERT INTO cinemas (name, address, status) VALUES (?, ?, ?)`
	status := c.Status
	if status == "" {
		status = schedule.StatusActive
	}
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Address, status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	const sel = `SELECT id, name, address, status, created_at, updated_at FROM cinemas WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, c.ID).Scan(&c.ID, &c.Name, &c.Address, &c.Status, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID retrieves a cinema by id. Soft-deleted cinemas read as missing.
func (r *CinemaRepo) GetByID(ctx context.Context, id uint64) (*schedule.Cinema, error) {
	const q = `SELECT id, name, address, status, created_at, updated_at
	           FROM cinemas WHERE id = ? AND deleted = 0`
	var c schedule.Cinema
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.Name, &c.Address, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrCinemaNotFound
		}
		return nil, err
	}
	return &c, nil
}

// List returns all non-deleted cinemas ordered by name. When
// activeOnly is set, inactive cinemas are filtered out.
func (r *CinemaRepo) List(ctx context.Context, activeOnly bool) ([]schedule.Cinema, error) {
	q := `SELECT id, name, address, status, created_at, updated_at FROM cinemas WHERE deleted = 0`
	args := []any{}
	if activeOnly {
		q += ` AND status = ?`
		args = append(args, schedule.StatusActive)
	}
	q += ` ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []schedule.Cinema
	for rows.Next() {
		var c schedule.Cinema
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
