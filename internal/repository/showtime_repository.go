package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinetix/showtime-api/internal/schedule"
)

// ShowtimeRepo persists showtimes together with their seat snapshots
// and per-seat-type fees. It implements schedule.Store.
//
// Create, Update and SoftDelete run inside a single transaction that
// first locks the room row with SELECT ... FOR UPDATE. Holding the
// room lock across the overlap scan and the write serialises all
// scheduling mutations per room, which closes the race where two
// concurrent creates both pass the conflict check and then both commit
// overlapping rows.
type ShowtimeRepo struct {
	db *sql.DB
}

// NewShowtimeRepo constructs a ShowtimeRepo with the given DB handle.
func NewShowtimeRepo(db *sql.DB) *ShowtimeRepo {
	return &ShowtimeRepo{db: db}
}

// DB exposes the underlying handle for callers that need to compose
// transactions across repositories.
func (r *ShowtimeRepo) DB() *sql.DB {
	return r.db
}

const qLockRoom = `SELECT id FROM rooms WHERE id = ? AND deleted = 0 FOR UPDATE`

// countOverlapping counts non-deleted showtimes in the room whose
// half-open interval intersects [start, end). Touching boundaries do
// not count. excludeID skips the showtime being edited; pass 0 on
// create.
func countOverlapping(ctx context.Context, tx *sql.Tx, roomID, excludeID uint64, st *schedule.Showtime) (int, error) {
	q := `SELECT COUNT(*) FROM showtimes
	      WHERE room_id = ? AND deleted = 0 AND starts_at < ? AND ends_at > ?`
	args := []any{roomID, st.EndsAt, st.StartsAt}
	if excludeID != 0 {
		q += ` AND id <> ?`
		args = append(args, excludeID)
	}
	var n int
	err := tx.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

// countBookedSeats counts seats of a showtime currently booked.
func countBookedSeats(ctx context.Context, tx *sql.Tx, showtimeID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM showtime_seats WHERE showtime_id = ? AND status = ?`
	var n int
	err := tx.QueryRowContext(ctx, q, showtimeID, schedule.SeatBooked).Scan(&n)
	return n, err
}

// Create inserts a showtime, its fee entries and its seat snapshot in
// one transaction. Returns schedule.ErrRoomNotFound when the room
// vanished and schedule.ErrTimeConflict when the interval overlaps an
// existing showtime in the same room.
func (r *ShowtimeRepo) Create(ctx context.Context, st *schedule.Showtime) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var roomID uint64
	if err = tx.QueryRowContext(ctx, qLockRoom, st.RoomID).Scan(&roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = schedule.ErrRoomNotFound
		}
		return err
	}
	var n int
	if n, err = countOverlapping(ctx, tx, st.RoomID, 0, st); err != nil {
		return err
	}
	if n > 0 {
		err = schedule.ErrTimeConflict
		return err
	}

	const qInsert = `INSERT INTO showtimes (film_id, cinema_id, room_id, starts_at, ends_at, format, base_price, status)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		st.FilmID, st.CinemaID, st.RoomID, st.StartsAt, st.EndsAt, st.Format, st.BasePrice, st.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	st.ID = uint64(id)

	if err = insertSeatFees(ctx, tx, st.ID, st.SeatFees); err != nil {
		return err
	}
	if err = insertShowtimeSeats(ctx, tx, st.ID, st.Seats); err != nil {
		return err
	}

	const sel = `SELECT created_at, updated_at FROM showtimes WHERE id = ?`
	if err = tx.QueryRowContext(ctx, sel, st.ID).Scan(&st.CreatedAt, &st.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// insertSeatFees bulk-inserts the per-seat-type fee entries.
func insertSeatFees(ctx context.Context, tx *sql.Tx, showtimeID uint64, fees []schedule.SeatTypeFee) error {
	if len(fees) == 0 {
		return nil
	}
	query := `INSERT INTO showtime_seat_fees (showtime_id, seat_type, extra_fee) VALUES `
	args := make([]any, 0, len(fees)*3)
	for i, f := range fees {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, showtimeID, f.Type, f.ExtraFee)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// insertShowtimeSeats bulk-inserts the seat snapshot rows.
func insertShowtimeSeats(ctx context.Context, tx *sql.Tx, showtimeID uint64, seats []schedule.ShowtimeSeat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO showtime_seats (showtime_id, row_label, seat_number, seat_type, seat_key, partner_seat_key, status) VALUES `
	args := make([]any, 0, len(seats)*7)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, showtimeID, s.Row, s.Number, s.Type, s.SeatKey, nullIfEmpty(s.PartnerSeatKey), s.Status)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// Update rewrites the mutable fields of a showtime (times, format,
// base price, fees, status). The seat snapshot and the film, cinema
// and room references are never touched. The booked-seat gate and the
// overlap scan are re-verified under the room lock inside the same
// transaction.
func (r *ShowtimeRepo) Update(ctx context.Context, st *schedule.Showtime) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qLockShowtime = `SELECT room_id FROM showtimes WHERE id = ? AND deleted = 0 FOR UPDATE`
	var roomID uint64
	if err = tx.QueryRowContext(ctx, qLockShowtime, st.ID).Scan(&roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = schedule.ErrShowtimeNotFound
		}
		return err
	}
	if err = tx.QueryRowContext(ctx, qLockRoom, roomID).Scan(&roomID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = schedule.ErrRoomNotFound
		}
		return err
	}
	var booked int
	if booked, err = countBookedSeats(ctx, tx, st.ID); err != nil {
		return err
	}
	if booked > 0 {
		err = schedule.ErrBookedSeats
		return err
	}
	var n int
	if n, err = countOverlapping(ctx, tx, roomID, st.ID, st); err != nil {
		return err
	}
	if n > 0 {
		err = schedule.ErrTimeConflict
		return err
	}

	const qUpdate = `UPDATE showtimes
	                 SET starts_at = ?, ends_at = ?, format = ?, base_price = ?, status = ?, updated_at = CURRENT_TIMESTAMP
	                 WHERE id = ?`
	if _, err = tx.ExecContext(ctx, qUpdate, st.StartsAt, st.EndsAt, st.Format, st.BasePrice, st.Status, st.ID); err != nil {
		return err
	}
	const qDropFees = `DELETE FROM showtime_seat_fees WHERE showtime_id = ?`
	if _, err = tx.ExecContext(ctx, qDropFees, st.ID); err != nil {
		return err
	}
	if err = insertSeatFees(ctx, tx, st.ID, st.SeatFees); err != nil {
		return err
	}
	const sel = `SELECT created_at, updated_at FROM showtimes WHERE id = ?`
	if err = tx.QueryRowContext(ctx, sel, st.ID).Scan(&st.CreatedAt, &st.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

// SoftDelete marks a showtime deleted, stamping deleted_at in the same
// statement so the flag and the timestamp can never disagree. Rejected
// with schedule.ErrBookedSeats while any seat is booked.
func (r *ShowtimeRepo) SoftDelete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const qLock = `SELECT id FROM showtimes WHERE id = ? AND deleted = 0 FOR UPDATE`
	var found uint64
	if err = tx.QueryRowContext(ctx, qLock, id).Scan(&found); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = schedule.ErrShowtimeNotFound
		}
		return err
	}
	var booked int
	if booked, err = countBookedSeats(ctx, tx, id); err != nil {
		return err
	}
	if booked > 0 {
		err = schedule.ErrBookedSeats
		return err
	}
	const qDelete = `UPDATE showtimes SET deleted = 1, deleted_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err = tx.ExecContext(ctx, qDelete, id); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID loads a showtime with its fees and full seat snapshot.
// Soft-deleted showtimes read as missing.
func (r *ShowtimeRepo) GetByID(ctx context.Context, id uint64) (*schedule.Showtime, error) {
	const q = `SELECT id, film_id, cinema_id, room_id, starts_at, ends_at, format, base_price, status, created_at, updated_at
	           FROM showtimes WHERE id = ? AND deleted = 0`
	var st schedule.Showtime
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&st.ID, &st.FilmID, &st.CinemaID, &st.RoomID, &st.StartsAt, &st.EndsAt,
		&st.Format, &st.BasePrice, &st.Status, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, schedule.ErrShowtimeNotFound
		}
		return nil, err
	}
	if st.SeatFees, err = r.seatFees(ctx, st.ID); err != nil {
		return nil, err
	}
	if st.Seats, err = r.seats(ctx, st.ID); err != nil {
		return nil, err
	}
	return &st, nil
}

func (r *ShowtimeRepo) seatFees(ctx context.Context, showtimeID uint64) ([]schedule.SeatTypeFee, error) {
	const q = `SELECT seat_type, extra_fee FROM showtime_seat_fees WHERE showtime_id = ? ORDER BY seat_type`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []schedule.SeatTypeFee
	for rows.Next() {
		var f schedule.SeatTypeFee
		if err := rows.Scan(&f.Type, &f.ExtraFee); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ShowtimeRepo) seats(ctx context.Context, showtimeID uint64) ([]schedule.ShowtimeSeat, error) {
	const q = `SELECT row_label, seat_number, seat_type, seat_key, COALESCE(partner_seat_key, ''), status
	           FROM showtime_seats
	           WHERE showtime_id = ?
	           ORDER BY row_label, seat_number`
	rows, err := r.db.QueryContext(ctx, q, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []schedule.ShowtimeSeat
	for rows.Next() {
		var s schedule.ShowtimeSeat
		if err := rows.Scan(&s.Row, &s.Number, &s.Type, &s.SeatKey, &s.PartnerSeatKey, &s.Status); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns showtime rows matching the filter, soft-deleted rows
// always excluded, ordered by start time ascending. Seat snapshots and
// fees are not loaded here; use GetByID for the full aggregate.
func (r *ShowtimeRepo) List(ctx context.Context, f schedule.ListFilter) ([]schedule.Showtime, error) {
	q := `SELECT id, film_id, cinema_id, room_id, starts_at, ends_at, format, base_price, status, created_at, updated_at
	      FROM showtimes WHERE deleted = 0`
	args := []any{}
	if f.FilmID != 0 {
		q += ` AND film_id = ?`
		args = append(args, f.FilmID)
	}
	if f.CinemaID != 0 {
		q += ` AND cinema_id = ?`
		args = append(args, f.CinemaID)
	}
	if f.RoomID != 0 {
		q += ` AND room_id = ?`
		args = append(args, f.RoomID)
	}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, f.Status)
	}
	if f.From != nil {
		q += ` AND starts_at >= ?`
		args = append(args, *f.From)
	}
	if f.To != nil {
		q += ` AND starts_at <= ?`
		args = append(args, *f.To)
	}
	q += ` ORDER BY starts_at ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []schedule.Showtime
	for rows.Next() {
		var st schedule.Showtime
		if err := rows.Scan(
			&st.ID, &st.FilmID, &st.CinemaID, &st.RoomID, &st.StartsAt, &st.EndsAt,
			&st.Format, &st.BasePrice, &st.Status, &st.CreatedAt, &st.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
