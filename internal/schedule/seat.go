// Package schedule implements the showtime scheduling core: seat layout
// snapshots, time-conflict detection, format compatibility and the
// showtime lifecycle. It owns no I/O; persistence and catalog lookups
// are injected through the Store and Catalog interfaces.
package schedule

import "fmt"

// SeatType classifies a seat within a room layout.
type SeatType string

const (
	SeatStandard SeatType = "standard"
	SeatVIP      SeatType = "vip"
	SeatCouple   SeatType = "couple"
)

// Valid reports whether t is one of the known seat types.
func (t SeatType) Valid() bool {
	switch t {
	case SeatStandard, SeatVIP, SeatCouple:
		return true
	}
	return false
}

// SeatStatus is the per-showtime booking state of a seat. Transitions
// between locked/booked/available belong to the booking flow; this
// service only writes the initial available state and reads the rest.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "available"
	SeatLocked    SeatStatus = "locked"
	SeatBooked    SeatStatus = "booked"
)

// Valid reports whether s is a known seat status.
func (s SeatStatus) Valid() bool {
	switch s {
	case SeatAvailable, SeatLocked, SeatBooked:
		return true
	}
	return false
}

// Seat is one position in a room's layout. SeatKey identifies the seat
// within its room (row plus number, e.g. "A1"). PartnerSeatKey is set
// only for couple seats and names the adjoining half.
type Seat struct {
	Row            string   `json:"row"`
	Number         uint32   `json:"number"`
	Type           SeatType `json:"type"`
	SeatKey        string   `json:"seatKey"`
	PartnerSeatKey string   `json:"partnerSeatKey,omitempty"`
}

// ShowtimeSeat is the per-showtime copy of a room seat plus its booking
// status. The layout fields are frozen at snapshot time.
type ShowtimeSeat struct {
	Row            string     `json:"row"`
	Number         uint32     `json:"number"`
	Type           SeatType   `json:"type"`
	SeatKey        string     `json:"seatKey"`
	PartnerSeatKey string     `json:"partnerSeatKey,omitempty"`
	Status         SeatStatus `json:"status"`
}

// SnapshotSeats copies a room layout into showtime seats, one output
// seat per input seat, every status initialised to available. The
// function is pure; it never reorders, drops or merges seats.
func SnapshotSeats(layout []Seat) []ShowtimeSeat {
	out := make([]ShowtimeSeat, 0, len(layout))
	for _, s := range layout {
		out = append(out, ShowtimeSeat{
			Row:            s.Row,
			Number:         s.Number,
			Type:           s.Type,
			SeatKey:        s.SeatKey,
			PartnerSeatKey: s.PartnerSeatKey,
			Status:         SeatAvailable,
		})
	}
	return out
}

// ValidateSeatLayout checks the room-level seat invariants: a non-empty
// layout, unique seat keys, and couple seats paired symmetrically
// (A.partner == B and B.partner == A). Non-couple seats must not carry
// a partner reference.
func ValidateSeatLayout(layout []Seat) error {
	if len(layout) == 0 {
		return invalidf("seat layout must not be empty")
	}
	keys := make(map[string]bool, len(layout))
	partners := make(map[string]string)
	for _, s := range layout {
		if s.Row == "" || len(s.Row) > 3 {
			return invalidf("seat row must be 1-3 characters")
		}
		if s.Number == 0 || s.Number > 50 {
			return invalidf("seat number must be between 1 and 50")
		}
		if !s.Type.Valid() {
			return invalidf("unknown seat type %q", s.Type)
		}
		if s.SeatKey == "" {
			return invalidf("seat key must not be empty")
		}
		if keys[s.SeatKey] {
			return invalidf("duplicate seat key %q", s.SeatKey)
		}
		keys[s.SeatKey] = true
		if s.Type == SeatCouple {
			if s.PartnerSeatKey == "" {
				return invalidf("couple seat %q must reference a partner seat", s.SeatKey)
			}
			if s.PartnerSeatKey == s.SeatKey {
				return invalidf("seat %q cannot be its own partner", s.SeatKey)
			}
			partners[s.SeatKey] = s.PartnerSeatKey
		} else if s.PartnerSeatKey != "" {
			return invalidf("seat %q is %s and must not reference a partner", s.SeatKey, s.Type)
		}
	}
	for key, partner := range partners {
		if !keys[partner] {
			return invalidf("partner seat %q of seat %q does not exist", partner, key)
		}
		if back, ok := partners[partner]; !ok || back != key {
			return invalidf("couple seats %q and %q are not symmetric partners", key, partner)
		}
	}
	return nil
}

// invalidf builds a *ValidationError with a formatted message.
func invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
