package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinetix/showtime-api/internal/schedule"
)

// RoomRepo manages persistence for rooms and their seat layouts. A
// room's layout lives in the room_seats table, one row per seat, and
// is loaded as a whole whenever the room is resolved so that callers
// always see the full layout.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a room together with its seat layout in one
// transaction so a room can never be observed without its seats.
// Layout invariants are validated by the caller beforehand.
func (r *RoomRepo) Create(ctx context.Context, room *schedule.Room) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	status := room.Status
	if status == "" {
		status = schedule.StatusActive
	}
	const qRoom = `INSERT INTO rooms (cinema_id, name, supported_formats, status) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qRoom, room.CinemaID, room.Name, joinFormats(room.SupportedFormats), status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)

	if err = insertRoomSeats(ctx, tx, room.ID, room.SeatLayout); err != nil {
		return err
	}

	const sel = `SELECT id, cinema_id, name, supported_formats, status, created_at, updated_at
	             FROM rooms WHERE id = ?`
	if err = tx.QueryRowContext(ctx, sel, room.ID).Scan(
		&room.ID, &room.CinemaID, &room.Name, formatsScanner(&room.SupportedFormats), &room.Status, &room.CreatedAt, &room.UpdatedAt,
	); err != nil {
		return err
	}
	return tx.Commit()
}

// insertRoomSeats bulk-inserts the seat layout rows for a room.
func insertRoomSeats(ctx context.Context, tx *sql.Tx, roomID uint64, layout []schedule.Seat) error {
	if len(layout) == 0 {
		return nil
	}
	query := `INSERT INTO room_seats (room_id, row_label, seat_number, seat_type, seat_key, partner_seat_key) VALUES `
	args := make([]any, 0, len(layout)*6)
	for i, s := range layout {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, roomID, s.Row, s.Number, s.Type, s.SeatKey, nullIfEmpty(s.PartnerSeatKey))
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// GetByID retrieves a room with its seat layout. Soft-deleted rooms
// read as missing.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*schedule.Room, error) {
	const q = `SELECT id, cinema_id, name, supported_formats, status, created_at, updated_at
	           FROM rooms WHERE id = ? AND deleted = 0`
	var room schedule.Room
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&room.ID, &room.CinemaID, &room.Name, formatsScanner(&room.SupportedFormats), &room.Status, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrRoomNotFound
		}
		return nil, err
	}
	layout, err := r.seatLayout(ctx, room.ID)
	if err != nil {
		return nil, err
	}
	room.SeatLayout = layout
	return &room, nil
}

// seatLayout loads all seats of a room ordered by row then number.
func (r *RoomRepo) seatLayout(ctx context.Context, roomID uint64) ([]schedule.Seat, error) {
	const q = `SELECT row_label, seat_number, seat_type, seat_key, COALESCE(partner_seat_key, '')
	           FROM room_seats
	           WHERE room_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []schedule.Seat
	for rows.Next() {
		var s schedule.Seat
		if err := rows.Scan(&s.Row, &s.Number, &s.Type, &s.SeatKey, &s.PartnerSeatKey); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByCinema returns all non-deleted rooms of a cinema without their
// seat layouts; use GetByID for the full room.
func (r *RoomRepo) ListByCinema(ctx context.Context, cinemaID uint64, activeOnly bool) ([]schedule.Room, error) {
	q := `SELECT id, cinema_id, name, supported_formats, status, created_at, updated_at
	      FROM rooms WHERE cinema_id = ? AND deleted = 0`
	args := []any{cinemaID}
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
	var out []schedule.Room
	for rows.Next() {
		var room schedule.Room
		if err := rows.Scan(
			&room.ID, &room.CinemaID, &room.Name, formatsScanner(&room.SupportedFormats), &room.Status, &room.CreatedAt, &room.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// nullIfEmpty maps "" to NULL for optional string columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
