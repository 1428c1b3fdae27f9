package schedule

import (
	"context"
	"time"
)

// AuthContext carries the caller identity resolved by the auth
// middleware. It is passed explicitly into every lifecycle call;
// the scheduling core never reads ambient request state.
type AuthContext struct {
	UserID  uint64
	IsAdmin bool
}

// Catalog resolves film, cinema and room references. Implementations
// must treat soft-deleted rows as missing and return the matching
// sentinel error.
type Catalog interface {
	GetFilm(ctx context.Context, id uint64) (*Film, error)
	GetCinema(ctx context.Context, id uint64) (*Cinema, error)
	GetRoom(ctx context.Context, id uint64) (*Room, error)
}

// ListFilter narrows showtime listings. Zero id fields are ignored.
// Status is only honoured for admin callers; From/To bound StartsAt.
type ListFilter struct {
	FilmID   uint64
	CinemaID uint64
	RoomID   uint64
	Status   Status
	From     *time.Time
	To       *time.Time
}

// Store persists showtimes. Create and Update must apply their
// conflict scan and the final write atomically, serialised per room,
// so two concurrent calls cannot both pass the overlap check and
// commit overlapping rows. Update and SoftDelete must re-verify the
// booked-seat gate inside the same transaction.
type Store interface {
	Create(ctx context.Context, st *Showtime) error
	Update(ctx context.Context, st *Showtime) error
	SoftDelete(ctx context.Context, id uint64) error
	GetByID(ctx context.Context, id uint64) (*Showtime, error)
	List(ctx context.Context, f ListFilter) ([]Showtime, error)
}

// Service is the showtime lifecycle manager. It composes the catalog
// lookups, format check, interval validation, conflict detection and
// the seat snapshotter into the create/edit/delete/query operations.
type Service struct {
	catalog Catalog
	store   Store
}

// NewService builds a Service; both dependencies are required.
func NewService(catalog Catalog, store Store) *Service {
	if catalog == nil || store == nil {
		panic("nil dependency passed to schedule.NewService")
	}
	return &Service{catalog: catalog, store: store}
}

// CreateInput is the request payload for scheduling a showtime.
type CreateInput struct {
	FilmID    uint64
	CinemaID  uint64
	RoomID    uint64
	StartsAt  time.Time
	EndsAt    time.Time
	Format    string
	BasePrice int64
	SeatFees  []SeatTypeFee
	Status    Status // optional; defaults to active
}

// EditInput is a partial update. Nil fields keep their current value.
// Film, cinema, room and the seat snapshot are not editable.
type EditInput struct {
	StartsAt  *time.Time
	EndsAt    *time.Time
	Format    *string
	BasePrice *int64
	SeatFees  []SeatTypeFee
	Status    *Status
}

// Create validates every reference and rule, snapshots the room's seat
// layout and persists the showtime. Any failure aborts with no partial
// write; the store serialises the conflict check with the insert.
func (s *Service) Create(ctx context.Context, auth AuthContext, in CreateInput) (*Showtime, error) {
	if !auth.IsAdmin {
		return nil, ErrForbidden
	}
	if in.FilmID == 0 || in.CinemaID == 0 || in.RoomID == 0 {
		return nil, invalidf("filmId, cinemaId and roomId are required")
	}
	if !FormatAllowed(in.Format) {
		return nil, invalidf("format must be one of %v", AllowedFormats)
	}
	if err := ValidateInterval(in.StartsAt, in.EndsAt, true); err != nil {
		return nil, err
	}
	if err := ValidatePricing(in.BasePrice, in.SeatFees); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	if !status.Valid() {
		return nil, invalidf("status must be active or inactive")
	}

	room, err := s.catalog.GetRoom(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}
	film, err := s.catalog.GetFilm(ctx, in.FilmID)
	if err != nil {
		return nil, err
	}
	if _, err := s.catalog.GetCinema(ctx, in.CinemaID); err != nil {
		return nil, err
	}
	if room.CinemaID != in.CinemaID {
		return nil, ErrRoomMismatch
	}
	if err := CheckFormat(in.Format, room, film); err != nil {
		return nil, err
	}
	if len(room.SeatLayout) == 0 {
		return nil, invalidf("room %d has no seat layout", room.ID)
	}

	st := &Showtime{
		FilmID:    in.FilmID,
		CinemaID:  in.CinemaID,
		RoomID:    in.RoomID,
		StartsAt:  in.StartsAt,
		EndsAt:    in.EndsAt,
		Format:    in.Format,
		BasePrice: in.BasePrice,
		SeatFees:  in.SeatFees,
		Seats:     SnapshotSeats(room.SeatLayout),
		Status:    status,
	}
	if err := s.store.Create(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// Edit applies a partial update to a showtime. Once any seat is
// booked, every edit is rejected regardless of the requested fields.
// A format change is re-validated against the current room and film;
// a time change is re-validated and re-checked for conflicts with the
// showtime's own id excluded, so a no-op edit never conflicts with
// itself.
func (s *Service) Edit(ctx context.Context, auth AuthContext, id uint64, in EditInput) (*Showtime, error) {
	if !auth.IsAdmin {
		return nil, ErrForbidden
	}
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.HasBookedSeats() {
		return nil, ErrBookedSeats
	}

	upd := *cur
	if in.StartsAt != nil {
		upd.StartsAt = *in.StartsAt
	}
	if in.EndsAt != nil {
		upd.EndsAt = *in.EndsAt
	}
	if in.StartsAt != nil || in.EndsAt != nil {
		if err := ValidateInterval(upd.StartsAt, upd.EndsAt, false); err != nil {
			return nil, err
		}
	}
	if in.Format != nil && *in.Format != cur.Format {
		if !FormatAllowed(*in.Format) {
			return nil, invalidf("format must be one of %v", AllowedFormats)
		}
		room, err := s.catalog.GetRoom(ctx, cur.RoomID)
		if err != nil {
			return nil, err
		}
		film, err := s.catalog.GetFilm(ctx, cur.FilmID)
		if err != nil {
			return nil, err
		}
		if err := CheckFormat(*in.Format, room, film); err != nil {
			return nil, err
		}
		upd.Format = *in.Format
	}
	if in.BasePrice != nil {
		upd.BasePrice = *in.BasePrice
	}
	if in.SeatFees != nil {
		upd.SeatFees = in.SeatFees
	}
	if in.BasePrice != nil || in.SeatFees != nil {
		if err := ValidatePricing(upd.BasePrice, upd.SeatFees); err != nil {
			return nil, err
		}
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, invalidf("status must be active or inactive")
		}
		upd.Status = *in.Status
	}

	if err := s.store.Update(ctx, &upd); err != nil {
		return nil, err
	}
	return &upd, nil
}

// Delete soft-deletes a showtime. The row is retained for history and
// the operation is rejected outright while any seat is booked.
func (s *Service) Delete(ctx context.Context, auth AuthContext, id uint64) error {
	if !auth.IsAdmin {
		return ErrForbidden
	}
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cur.HasBookedSeats() {
		return ErrBookedSeats
	}
	return s.store.SoftDelete(ctx, id)
}

// List returns showtimes matching the filter, soft-deleted rows always
// excluded. Non-admin callers only see active showtimes; admins may
// filter by any status or see all of them.
func (s *Service) List(ctx context.Context, auth AuthContext, f ListFilter) ([]Showtime, error) {
	if !auth.IsAdmin {
		f.Status = StatusActive
	} else if f.Status != "" && !f.Status.Valid() {
		return nil, invalidf("status must be active or inactive")
	}
	return s.store.List(ctx, f)
}

// Get returns one showtime by id. Non-admin callers cannot see
// inactive showtimes; those read as not found.
func (s *Service) Get(ctx context.Context, auth AuthContext, id uint64) (*Showtime, error) {
	st, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.IsAdmin && st.Status != StatusActive {
		return nil, ErrShowtimeNotFound
	}
	return st, nil
}
