package schedule

import "time"

// Status is the lifecycle state shared by catalog entities and
// showtimes. Inactive rows stay persisted but are hidden from
// non-admin callers.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// SeatTypeFee is the extra fee charged on top of the base price for a
// given seat type. A showtime carries at most one entry per type.
type SeatTypeFee struct {
	Type     SeatType `json:"type"`
	ExtraFee int64    `json:"extraFee"`
}

// Film is the catalog view of a film consumed by the scheduler. Only
// the fields the scheduling checks need are present here.
type Film struct {
	ID               uint64    `json:"id"`
	Title            string    `json:"title"`
	AvailableFormats []string  `json:"availableFormats"`
	DurationMin      uint32    `json:"durationMin"`
	AgeRating        string    `json:"ageRating"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Cinema is a venue owning rooms.
type Cinema struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Room is a screening room with its seat layout and the presentation
// formats its hardware supports.
type Room struct {
	ID               uint64    `json:"id"`
	CinemaID         uint64    `json:"cinemaId"`
	Name             string    `json:"name"`
	SeatLayout       []Seat    `json:"seatLayout"`
	SupportedFormats []string  `json:"supportedFormats"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Showtime is the scheduled screening aggregate: an interval in a room,
// pricing, and the seat snapshot taken from the room at creation time.
// Film, cinema and room references are immutable once the showtime is
// persisted; only times, format, pricing and status may change, and
// nothing may change once a seat is booked.
type Showtime struct {
	ID        uint64         `json:"id"`
	FilmID    uint64         `json:"filmId"`
	CinemaID  uint64         `json:"cinemaId"`
	RoomID    uint64         `json:"roomId"`
	StartsAt  time.Time      `json:"startTime"`
	EndsAt    time.Time      `json:"endTime"`
	Format    string         `json:"format"`
	BasePrice int64          `json:"basePrice"`
	SeatFees  []SeatTypeFee  `json:"seatTypes"`
	Seats     []ShowtimeSeat `json:"seats,omitempty"`
	Status    Status         `json:"status"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// HasBookedSeats reports whether any seat of the snapshot is booked.
// It is the gate that freezes edits and deletes.
func (s *Showtime) HasBookedSeats() bool {
	for i := range s.Seats {
		if s.Seats[i].Status == SeatBooked {
			return true
		}
	}
	return false
}
