// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names shared by the publisher and the consumer. Both sides
// declare them durable so messages survive broker restarts.
const (
	QueueShowtimeScheduled = "showtime.scheduled"
	QueueShowtimeCancelled = "showtime.cancelled"
)

// ShowtimeScheduledEvent is published when a showtime has been created
// and its seat inventory snapshotted. It carries enough information for
// downstream consumers to log or notify without querying the primary
// database. Timestamps are RFC3339 strings in UTC.
type ShowtimeScheduledEvent struct {
	ShowtimeID  uint64 `json:"showtime_id"`
	FilmID      uint64 `json:"film_id"`
	CinemaID    uint64 `json:"cinema_id"`
	RoomID      uint64 `json:"room_id"`
	StartsAt    string `json:"starts_at"`
	EndsAt      string `json:"ends_at"`
	Format      string `json:"format"`
	BasePrice   int64  `json:"base_price"`
	SeatCount   int    `json:"seat_count"`
	ScheduledAt string `json:"scheduled_at"`
}

// ShowtimeCancelledEvent is published when an administrator soft
// deletes a showtime.
type ShowtimeCancelledEvent struct {
	ShowtimeID  uint64 `json:"showtime_id"`
	CancelledAt string `json:"cancelled_at"`
}
