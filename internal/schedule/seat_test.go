package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLayout() []Seat {
	return []Seat{
		{Row: "A", Number: 1, Type: SeatStandard, SeatKey: "A1"},
		{Row: "A", Number: 2, Type: SeatVIP, SeatKey: "A2"},
		{Row: "B", Number: 1, Type: SeatCouple, SeatKey: "B1", PartnerSeatKey: "B2"},
		{Row: "B", Number: 2, Type: SeatCouple, SeatKey: "B2", PartnerSeatKey: "B1"},
	}
}

func TestSnapshotSeats(t *testing.T) {
	layout := sampleLayout()
	seats := SnapshotSeats(layout)

	require.Len(t, seats, len(layout))
	for i, s := range seats {
		assert.Equal(t, layout[i].Row, s.Row)
		assert.Equal(t, layout[i].Number, s.Number)
		assert.Equal(t, layout[i].Type, s.Type)
		assert.Equal(t, layout[i].SeatKey, s.SeatKey)
		assert.Equal(t, layout[i].PartnerSeatKey, s.PartnerSeatKey)
		assert.Equal(t, SeatAvailable, s.Status)
	}
}

func TestSnapshotSeatsEmptyLayout(t *testing.T) {
	seats := SnapshotSeats(nil)
	assert.Empty(t, seats)
}

func TestValidateSeatLayout(t *testing.T) {
	assert.NoError(t, ValidateSeatLayout(sampleLayout()))
}

func TestValidateSeatLayoutRejects(t *testing.T) {
	cases := []struct {
		name   string
		layout []Seat
	}{
		{"empty layout", nil},
		{"empty row", []Seat{{Row: "", Number: 1, Type: SeatStandard, SeatKey: "A1"}}},
		{"row too long", []Seat{{Row: "AAAA", Number: 1, Type: SeatStandard, SeatKey: "AAAA1"}}},
		{"seat number zero", []Seat{{Row: "A", Number: 0, Type: SeatStandard, SeatKey: "A0"}}},
		{"seat number too large", []Seat{{Row: "A", Number: 51, Type: SeatStandard, SeatKey: "A51"}}},
		{"unknown seat type", []Seat{{Row: "A", Number: 1, Type: "recliner", SeatKey: "A1"}}},
		{"empty seat key", []Seat{{Row: "A", Number: 1, Type: SeatStandard}}},
		{"duplicate seat key", []Seat{
			{Row: "A", Number: 1, Type: SeatStandard, SeatKey: "A1"},
			{Row: "A", Number: 2, Type: SeatStandard, SeatKey: "A1"},
		}},
		{"couple without partner", []Seat{
			{Row: "B", Number: 1, Type: SeatCouple, SeatKey: "B1"},
		}},
		{"couple is own partner", []Seat{
			{Row: "B", Number: 1, Type: SeatCouple, SeatKey: "B1", PartnerSeatKey: "B1"},
		}},
		{"partner does not exist", []Seat{
			{Row: "B", Number: 1, Type: SeatCouple, SeatKey: "B1", PartnerSeatKey: "B9"},
		}},
		{"asymmetric partners", []Seat{
			{Row: "B", Number: 1, Type: SeatCouple, SeatKey: "B1", PartnerSeatKey: "B2"},
			{Row: "B", Number: 2, Type: SeatCouple, SeatKey: "B2", PartnerSeatKey: "B3"},
			{Row: "B", Number: 3, Type: SeatCouple, SeatKey: "B3", PartnerSeatKey: "B2"},
		}},
		{"standard with partner", []Seat{
			{Row: "A", Number: 1, Type: SeatStandard, SeatKey: "A1", PartnerSeatKey: "A2"},
			{Row: "A", Number: 2, Type: SeatStandard, SeatKey: "A2"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSeatLayout(tc.layout)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
		})
	}
}

func TestHasBookedSeats(t *testing.T) {
	st := &Showtime{Seats: SnapshotSeats(sampleLayout())}
	assert.False(t, st.HasBookedSeats())

	st.Seats[1].Status = SeatLocked
	assert.False(t, st.HasBookedSeats(), "locked seats do not freeze the showtime")

	st.Seats[2].Status = SeatBooked
	assert.True(t, st.HasBookedSeats())
}
