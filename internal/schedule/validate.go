package schedule

import "time"

// Presentation formats accepted anywhere in the system. A room or film
// may support a subset; a showtime format must be in both subsets.
var AllowedFormats = []string{"2D", "3D", "IMAX", "4DX"}

// Showtime duration bounds in minutes.
const (
	MinDurationMin = 30
	MaxDurationMin = 300
)

// Base price and per-seat-type extra fee bounds (VND).
const (
	MinBasePrice = 10_000
	MaxBasePrice = 1_000_000
	MaxExtraFee  = 500_000
)

// FormatAllowed reports whether format is one of AllowedFormats.
func FormatAllowed(format string) bool {
	for _, f := range AllowedFormats {
		if f == format {
			return true
		}
	}
	return false
}

// ValidateInterval checks the scheduling interval: end strictly after
// start and a duration between 30 minutes and 5 hours. When
// requireFuture is set (creation), the start must also lie in the
// future; edits may move showtimes that have already passed.
func ValidateInterval(start, end time.Time, requireFuture bool) error {
	if start.IsZero() || end.IsZero() {
		return invalidf("startTime and endTime are required")
	}
	if !end.After(start) {
		return invalidf("endTime must be after startTime")
	}
	d := end.Sub(start)
	if d < MinDurationMin*time.Minute {
		return invalidf("showtime must run at least %d minutes", MinDurationMin)
	}
	if d > MaxDurationMin*time.Minute {
		return invalidf("showtime must not exceed %d minutes", MaxDurationMin)
	}
	if requireFuture && start.Before(time.Now()) {
		return invalidf("startTime must be in the future")
	}
	return nil
}

// ValidatePricing checks the base price bounds and the per-seat-type
// fee list: at least one entry, no duplicate types, every fee within
// [0, MaxExtraFee].
func ValidatePricing(basePrice int64, fees []SeatTypeFee) error {
	if basePrice < MinBasePrice || basePrice > MaxBasePrice {
		return invalidf("basePrice must be between %d and %d", MinBasePrice, MaxBasePrice)
	}
	if len(fees) == 0 {
		return invalidf("at least one seat type fee is required")
	}
	seen := make(map[SeatType]bool, len(fees))
	for _, f := range fees {
		if !f.Type.Valid() {
			return invalidf("unknown seat type %q", f.Type)
		}
		if seen[f.Type] {
			return invalidf("duplicate seat type %q", f.Type)
		}
		seen[f.Type] = true
		if f.ExtraFee < 0 || f.ExtraFee > MaxExtraFee {
			return invalidf("extra fee for %s must be between 0 and %d", f.Type, MaxExtraFee)
		}
	}
	return nil
}

// CheckFormat validates a showtime format against the room's supported
// formats and the film's available formats. Both sides are checked
// independently so the caller can surface which reference rejected it.
func CheckFormat(format string, room *Room, film *Film) error {
	if !contains(room.SupportedFormats, format) {
		return ErrRoomFormat
	}
	if !contains(film.AvailableFormats, format) {
		return ErrFilmFormat
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
