package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	adminCtx = AuthContext{UserID: 1, IsAdmin: true}
	userCtx  = AuthContext{UserID: 2}
)

// fakeCatalog serves fixed films, cinemas and rooms keyed by id.
type fakeCatalog struct {
	films   map[uint64]*Film
	cinemas map[uint64]*Cinema
	rooms   map[uint64]*Room
}

func (f *fakeCatalog) GetFilm(_ context.Context, id uint64) (*Film, error) {
	if v, ok := f.films[id]; ok {
		return v, nil
	}
	return nil, ErrFilmNotFound
}

func (f *fakeCatalog) GetCinema(_ context.Context, id uint64) (*Cinema, error) {
	if v, ok := f.cinemas[id]; ok {
		return v, nil
	}
	return nil, ErrCinemaNotFound
}

func (f *fakeCatalog) GetRoom(_ context.Context, id uint64) (*Room, error) {
	if v, ok := f.rooms[id]; ok {
		return v, nil
	}
	return nil, ErrRoomNotFound
}

// fakeStore keeps showtimes in memory and performs the same conflict
// scan the SQL store does, minus the locking.
type fakeStore struct {
	nextID    uint64
	showtimes map[uint64]*Showtime
}

func newFakeStore() *fakeStore {
	return &fakeStore{nextID: 1, showtimes: map[uint64]*Showtime{}}
}

func (s *fakeStore) conflicts(st *Showtime) bool {
	for _, other := range s.showtimes {
		if other.ID == st.ID || other.RoomID != st.RoomID {
			continue
		}
		if Overlaps(st.StartsAt, st.EndsAt, other.StartsAt, other.EndsAt) {
			return true
		}
	}
	return false
}

func (s *fakeStore) Create(_ context.Context, st *Showtime) error {
	if s.conflicts(st) {
		return ErrTimeConflict
	}
	st.ID = s.nextID
	s.nextID++
	cp := *st
	s.showtimes[st.ID] = &cp
	return nil
}

func (s *fakeStore) Update(_ context.Context, st *Showtime) error {
	if _, ok := s.showtimes[st.ID]; !ok {
		return ErrShowtimeNotFound
	}
	if s.conflicts(st) {
		return ErrTimeConflict
	}
	cp := *st
	s.showtimes[st.ID] = &cp
	return nil
}

func (s *fakeStore) SoftDelete(_ context.Context, id uint64) error {
	if _, ok := s.showtimes[id]; !ok {
		return ErrShowtimeNotFound
	}
	delete(s.showtimes, id)
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uint64) (*Showtime, error) {
	if st, ok := s.showtimes[id]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, ErrShowtimeNotFound
}

func (s *fakeStore) List(_ context.Context, f ListFilter) ([]Showtime, error) {
	var out []Showtime
	for _, st := range s.showtimes {
		if f.RoomID != 0 && st.RoomID != f.RoomID {
			continue
		}
		if f.FilmID != 0 && st.FilmID != f.FilmID {
			continue
		}
		if f.CinemaID != 0 && st.CinemaID != f.CinemaID {
			continue
		}
		if f.Status != "" && st.Status != f.Status {
			continue
		}
		if f.From != nil && st.StartsAt.Before(*f.From) {
			continue
		}
		if f.To != nil && st.StartsAt.After(*f.To) {
			continue
		}
		out = append(out, *st)
	}
	return out, nil
}

func testService() (*Service, *fakeStore) {
	catalog := &fakeCatalog{
		films: map[uint64]*Film{
			10: {ID: 10, Title: "Interstellar", AvailableFormats: []string{"2D", "IMAX"}, DurationMin: 169, Status: StatusActive},
			11: {ID: 11, Title: "Coraline", AvailableFormats: []string{"3D"}, DurationMin: 100, Status: StatusActive},
		},
		cinemas: map[uint64]*Cinema{
			20: {ID: 20, Name: "Downtown", Status: StatusActive},
			21: {ID: 21, Name: "Riverside", Status: StatusActive},
		},
		rooms: map[uint64]*Room{
			30: {ID: 30, CinemaID: 20, Name: "Room 1", SeatLayout: sampleLayout(), SupportedFormats: []string{"2D", "3D", "IMAX"}, Status: StatusActive},
			31: {ID: 31, CinemaID: 20, Name: "Room 2", SeatLayout: sampleLayout(), SupportedFormats: []string{"2D"}, Status: StatusActive},
			32: {ID: 32, CinemaID: 21, Name: "Empty", SupportedFormats: []string{"2D"}, Status: StatusActive},
		},
	}
	store := newFakeStore()
	return NewService(catalog, store), store
}

func validCreate() CreateInput {
	start := time.Now().Add(48 * time.Hour).Truncate(time.Minute)
	return CreateInput{
		FilmID:    10,
		CinemaID:  20,
		RoomID:    30,
		StartsAt:  start,
		EndsAt:    start.Add(170 * time.Minute),
		Format:    "IMAX",
		BasePrice: 120_000,
		SeatFees: []SeatTypeFee{
			{Type: SeatStandard, ExtraFee: 0},
			{Type: SeatVIP, ExtraFee: 40_000},
			{Type: SeatCouple, ExtraFee: 90_000},
		},
	}
}

func TestCreateShowtime(t *testing.T) {
	svc, store := testService()

	st, err := svc.Create(context.Background(), adminCtx, validCreate())
	require.NoError(t, err)
	require.NotNil(t, st)

	assert.NotZero(t, st.ID)
	assert.Equal(t, StatusActive, st.Status, "status defaults to active")
	require.Len(t, st.Seats, len(sampleLayout()), "snapshot copies every seat")
	for _, seat := range st.Seats {
		assert.Equal(t, SeatAvailable, seat.Status)
	}
	assert.Len(t, store.showtimes, 1)
}

func TestCreateRequiresAdmin(t *testing.T) {
	svc, store := testService()

	_, err := svc.Create(context.Background(), userCtx, validCreate())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, store.showtimes, "nothing persisted on rejection")
}

func TestCreateValidation(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	mutate := func(fn func(*CreateInput)) CreateInput {
		in := validCreate()
		fn(&in)
		return in
	}

	cases := []struct {
		name string
		in   CreateInput
		want error
	}{
		{"missing film id", mutate(func(in *CreateInput) { in.FilmID = 0 }), nil},
		{"unknown format", mutate(func(in *CreateInput) { in.Format = "5D" }), nil},
		{"end before start", mutate(func(in *CreateInput) { in.EndsAt = in.StartsAt.Add(-time.Hour) }), nil},
		{"too short", mutate(func(in *CreateInput) { in.EndsAt = in.StartsAt.Add(10 * time.Minute) }), nil},
		{"start in the past", mutate(func(in *CreateInput) {
			in.StartsAt = time.Now().Add(-2 * time.Hour)
			in.EndsAt = in.StartsAt.Add(2 * time.Hour)
		}), nil},
		{"base price too low", mutate(func(in *CreateInput) { in.BasePrice = 5_000 }), nil},
		{"no seat fees", mutate(func(in *CreateInput) { in.SeatFees = nil }), nil},
		{"bad status", mutate(func(in *CreateInput) { in.Status = "archived" }), nil},
		{"unknown film", mutate(func(in *CreateInput) { in.FilmID = 99 }), ErrFilmNotFound},
		{"unknown cinema", mutate(func(in *CreateInput) { in.CinemaID = 99 }), ErrCinemaNotFound},
		{"unknown room", mutate(func(in *CreateInput) { in.RoomID = 99 }), ErrRoomNotFound},
		{"room in other cinema", mutate(func(in *CreateInput) { in.CinemaID = 21 }), ErrRoomMismatch},
		{"room rejects format", mutate(func(in *CreateInput) { in.RoomID = 31 }), ErrRoomFormat},
		{"film rejects format", mutate(func(in *CreateInput) { in.FilmID = 11; in.Format = "3D" }), ErrFilmFormat},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, adminCtx, tc.in)
			require.Error(t, err)
			if tc.want != nil {
				assert.ErrorIs(t, err, tc.want)
			} else {
				assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
			}
		})
	}
}

func TestCreateEmptyRoomLayout(t *testing.T) {
	svc, _ := testService()

	in := validCreate()
	in.CinemaID = 21
	in.RoomID = 32
	in.Format = "2D"
	in.FilmID = 10

	_, err := svc.Create(context.Background(), adminCtx, in)
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestCreateTimeConflict(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	first, err := svc.Create(ctx, adminCtx, validCreate())
	require.NoError(t, err)

	// Overlapping interval in the same room is rejected.
	in := validCreate()
	in.StartsAt = first.StartsAt.Add(30 * time.Minute)
	in.EndsAt = in.StartsAt.Add(2 * time.Hour)
	_, err = svc.Create(ctx, adminCtx, in)
	assert.ErrorIs(t, err, ErrTimeConflict)

	// Back to back is fine: the intervals are half open.
	in = validCreate()
	in.StartsAt = first.EndsAt
	in.EndsAt = in.StartsAt.Add(2 * time.Hour)
	_, err = svc.Create(ctx, adminCtx, in)
	assert.NoError(t, err)

	// Same interval in a different room is fine too.
	in = validCreate()
	in.RoomID = 31
	in.Format = "2D"
	_, err = svc.Create(ctx, adminCtx, in)
	assert.NoError(t, err)
}

func TestEditShowtime(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	st, err := svc.Create(ctx, adminCtx, validCreate())
	require.NoError(t, err)

	newPrice := int64(150_000)
	newStatus := StatusInactive
	upd, err := svc.Edit(ctx, adminCtx, st.ID, EditInput{
		BasePrice: &newPrice,
		Status:    &newStatus,
	})
	require.NoError(t, err)
	assert.Equal(t, newPrice, upd.BasePrice)
	assert.Equal(t, StatusInactive, upd.Status)
	assert.Equal(t, st.StartsAt, upd.StartsAt, "unspecified fields keep their value")
}

func TestEditDoesNotConflictWithItself(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	st, err := svc.Create(ctx, adminCtx, validCreate())
	require.NoError(t, err)

	// Shift by 10 minutes; the new interval overlaps the old one, which
	// must be excluded from the conflict scan.
	newStart := st.StartsAt.Add(10 * time.Minute)
	newEnd := st.EndsAt.Add(10 * time.Minute)
	_, err = svc.Edit(ctx, adminCtx, st.ID, EditInput{StartsAt: &newStart, EndsAt: &newEnd})
	assert.NoError(t, err)
}

func TestEditFormatChangeRevalidated(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	st, err := svc.Create(ctx, adminCtx, validCreate())
	require.NoError(t, err)

	threeD := "3D"
	_, err = svc.Edit(ctx, adminCtx, st.ID, EditInput{Format: &threeD})
	assert.ErrorIs(t, err, ErrFilmFormat, "film 10 does not offer 3D")

	twoD := "2D"
	_, err = svc.Edit(ctx, adminCtx, st.ID, EditInput{Format: &twoD})
	assert.NoError(t, err)
}

func TestEditRejections(t *testing.T) {
	svc, store := testService()
	ctx := context.Background()

	st, err := svc.Create(ctx, adminCtx, validCreate())
	require.NoError(t, err)

	_, err = svc.Edit(ctx, userCtx, st.ID, EditInput{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Edit(ctx, adminCtx, 999, EditInput{})
	assert.ErrorIs(t, err, ErrShowtimeNotFound)

	badPrice := int64(1)
	_, err = svc.Edit(ctx, adminCtx, st.ID, EditInput{BasePrice: &badPrice})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	badStatus := Status("archived")
	_, err = svc.Edit(ctx, adminCtx, st.ID, EditInput{Status: &badStatus})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// Booked seats freeze the showtime entirely, even for benign edits.
	store.showtimes[st.ID].Seats[0].Status = SeatBooked
	okPrice := int64(200_000)
	_, err = svc.Edit(ctx, adminCtx, st.ID, EditInput{BasePrice: &okPrice})
	assert.ErrorIs(t, err, ErrBookedSeats)
}

func TestDeleteShowtime(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	st, err := svc.Create(ctx, adminCtx, validCreate())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, userCtx, st.ID), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, adminCtx, 999), ErrShowtimeNotFound)

	require.NoError(t, svc.Delete(ctx, adminCtx, st.ID))
	_, err = svc.Get(ctx, adminCtx, st.ID)
	assert.ErrorIs(t, err, ErrShowtimeNotFound)
}

func TestDeleteBookedShowtime(t *testing.T) {
	svc, store := testService()
	ctx := context.Background()

	st, err := svc.Create(ctx, adminCtx, validCreate())
	require.NoError(t, err)

	store.showtimes[st.ID].Seats[0].Status = SeatBooked
	assert.ErrorIs(t, svc.Delete(ctx, adminCtx, st.ID), ErrBookedSeats)
	assert.Len(t, store.showtimes, 1, "rejected delete leaves the row in place")
}

func TestListVisibility(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	st, err := svc.Create(ctx, adminCtx, validCreate())
	require.NoError(t, err)

	inactive := StatusInactive
	_, err = svc.Edit(ctx, adminCtx, st.ID, EditInput{Status: &inactive})
	require.NoError(t, err)

	in := validCreate()
	in.StartsAt = st.EndsAt.Add(time.Hour)
	in.EndsAt = in.StartsAt.Add(2 * time.Hour)
	active, err := svc.Create(ctx, adminCtx, in)
	require.NoError(t, err)

	// Non-admins only see active showtimes, whatever they ask for.
	got, err := svc.List(ctx, userCtx, ListFilter{Status: StatusInactive})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, active.ID, got[0].ID)

	// Admins see everything without a status filter.
	got, err = svc.List(ctx, adminCtx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.List(ctx, adminCtx, ListFilter{Status: StatusInactive})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, st.ID, got[0].ID)

	_, err = svc.List(ctx, adminCtx, ListFilter{Status: "archived"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))
}

func TestListDateRange(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	// Three showtimes in the same room, four hours apart.
	var starts []time.Time
	var ids []uint64
	for i := 0; i < 3; i++ {
		in := validCreate()
		in.StartsAt = in.StartsAt.Add(time.Duration(i) * 4 * time.Hour)
		in.EndsAt = in.StartsAt.Add(170 * time.Minute)
		st, err := svc.Create(ctx, adminCtx, in)
		require.NoError(t, err)
		starts = append(starts, st.StartsAt)
		ids = append(ids, st.ID)
	}

	listIDs := func(f ListFilter) []uint64 {
		got, err := svc.List(ctx, adminCtx, f)
		require.NoError(t, err)
		out := make([]uint64, 0, len(got))
		for _, st := range got {
			out = append(out, st.ID)
		}
		return out
	}

	// Both bounds are inclusive on the start time.
	assert.ElementsMatch(t, []uint64{ids[1]}, listIDs(ListFilter{From: &starts[1], To: &starts[1]}))
	assert.ElementsMatch(t, []uint64{ids[1], ids[2]}, listIDs(ListFilter{From: &starts[1]}))
	assert.ElementsMatch(t, []uint64{ids[0], ids[1]}, listIDs(ListFilter{To: &starts[1]}))
	assert.ElementsMatch(t, ids, listIDs(ListFilter{From: &starts[0], To: &starts[2]}))

	// A window before every showtime matches nothing.
	before := starts[0].Add(-time.Hour)
	earlier := before.Add(-time.Hour)
	assert.Empty(t, listIDs(ListFilter{From: &earlier, To: &before}))
}

func TestGetVisibility(t *testing.T) {
	svc, _ := testService()
	ctx := context.Background()

	st, err := svc.Create(ctx, adminCtx, validCreate())
	require.NoError(t, err)

	inactive := StatusInactive
	_, err = svc.Edit(ctx, adminCtx, st.ID, EditInput{Status: &inactive})
	require.NoError(t, err)

	_, err = svc.Get(ctx, userCtx, st.ID)
	assert.ErrorIs(t, err, ErrShowtimeNotFound, "inactive reads as missing for non-admins")

	got, err := svc.Get(ctx, adminCtx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, st.ID, got.ID)
}
