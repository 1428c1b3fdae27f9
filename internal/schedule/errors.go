// Sentinel errors shared between the scheduling service, the storage
// layer and the HTTP handlers. Handlers translate them into stable
// status codes; none of them is retried because each one reports a
// caller-input problem or a business rule, not a transient fault.
package schedule

import "errors"

// Reference resolution failures. A soft-deleted row counts as missing.
var (
	ErrFilmNotFound     = errors.New("film not found")
	ErrCinemaNotFound   = errors.New("cinema not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrShowtimeNotFound = errors.New("showtime not found")
)

// ErrRoomMismatch is returned when the requested cinema does not own
// the requested room.
var ErrRoomMismatch = errors.New("room does not belong to cinema")

// Format incompatibility, reported per side so the caller can tell
// which reference rejected the format.
var (
	ErrRoomFormat = errors.New("format not supported by room")
	ErrFilmFormat = errors.New("format not available for film")
)

// ErrTimeConflict is returned when a showtime interval overlaps another
// non-deleted showtime in the same room.
var ErrTimeConflict = errors.New("showtime overlaps another showtime in the same room")

// ErrBookedSeats guards structural edits and deletes: once any seat of
// a showtime is booked, the showtime can no longer be modified or
// removed through this service.
var ErrBookedSeats = errors.New("showtime has booked seats")

// ErrForbidden is returned when the caller lacks the role required for
// an operation.
var ErrForbidden = errors.New("forbidden")

// ValidationError reports a malformed or out-of-range request field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
