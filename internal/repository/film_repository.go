// Package repository contains the MySQL data access layer. Each
// repository wraps a *sql.DB handle and speaks raw SQL; rows are
// mapped onto the domain types of the schedule package and missing or
// soft-deleted rows surface as the schedule sentinel errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/cinetix/showtime-api/internal/schedule"
)

// FilmRepo manages persistence for films.
type FilmRepo struct {
	db *sql.DB
}

// NewFilmRepo constructs a FilmRepo with the given DB handle.
func NewFilmRepo(db *sql.DB) *FilmRepo {
	return &FilmRepo{db: db}
}

// Create inserts a new film and populates its generated id and
// DB-default fields.
func (r *FilmRepo) Create(ctx context.Context, f *schedule.Film) error {
	const q = `INSERT INTO films (title, available_formats, duration_min, age_rating, status)
	           VALUES (?, ?, ?, ?, ?)`
	status := f.Status
	if status == "" {
		status = schedule.StatusActive
	}
	res, err := r.db.ExecContext(ctx, q, f.Title, joinFormats(f.AvailableFormats), f.DurationMin, f.AgeRating, status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	const sel = `SELECT id, title, available_formats, duration_min, age_rating, status, created_at, updated_at
	             FROM films WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, f.ID).Scan(
		&f.ID, &f.Title, formatsScanner(&f.AvailableFormats), &f.DurationMin, &f.AgeRating, &f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
}

// GetByID retrieves a film by id. Soft-deleted films read as missing.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (*schedule.Film, error) {
	const q = `SELECT id, title, available_formats, duration_min, age_rating, status, created_at, updated_at
	           FROM films WHERE id = ? AND deleted = 0`
	var f schedule.Film
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.Title, formatsScanner(&f.AvailableFormats), &f.DurationMin, &f.AgeRating, &f.Status, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrFilmNotFound
		}
		return nil, err
	}
	return &f, nil
}

// List returns all non-deleted films ordered by title. When activeOnly
// is set, inactive films are filtered out.
func (r *FilmRepo) List(ctx context.Context, activeOnly bool) ([]schedule.Film, error) {
	q := `SELECT id, title, available_formats, duration_min, age_rating, status, created_at, updated_at
	      FROM films WHERE deleted = 0`
	args := []any{}
	if activeOnly {
		q += ` AND status = ?`
		args = append(args, schedule.StatusActive)
	}
	q += ` ORDER BY title`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []schedule.Film
	for rows.Next() {
		var f schedule.Film
		if err := rows.Scan(
			&f.ID, &f.Title, formatsScanner(&f.AvailableFormats), &f.DurationMin, &f.AgeRating, &f.Status, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// joinFormats packs a format list into the CSV column representation.
func joinFormats(formats []string) string {
	return strings.Join(formats, ",")
}

// splitFormats unpacks the CSV column into a format list.
func splitFormats(csv string) []string {
	if csv == "" {
		return nil
	}
	return strings.Split(csv, ",")
}

// csvScanner scans a CSV column into a []string destination.
type csvScanner struct {
	dst *[]string
}

func formatsScanner(dst *[]string) *csvScanner { return &csvScanner{dst: dst} }

func (s *csvScanner) Scan(v any) error {
	switch t := v.(type) {
	case nil:
		*s.dst = nil
	case []byte:
		*s.dst = splitFormats(string(t))
	case string:
		*s.dst = splitFormats(t)
	default:
		return errors.New("unsupported type for formats column")
	}
	return nil
}
