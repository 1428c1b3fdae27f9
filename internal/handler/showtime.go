package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/showtime-api/internal/queue"
	"github.com/cinetix/showtime-api/internal/schedule"
	queue_publisher "github.com/cinetix/showtime-api/internal/service"
)

// ShowtimeHandler exposes the showtime lifecycle over HTTP. All
// mutations additionally sit behind the ADMIN role middleware; the
// service re-checks the role from the AuthContext regardless.
type ShowtimeHandler struct {
	Svc *schedule.Service
}

// NewShowtimeHandler constructs a ShowtimeHandler.
func NewShowtimeHandler(svc *schedule.Service) *ShowtimeHandler {
	if svc == nil {
		panic("nil service passed to NewShowtimeHandler")
	}
	return &ShowtimeHandler{Svc: svc}
}

// parseTime accepts RFC3339 timestamps and plain dates.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// Create handles POST /v1/showtimes.
func (h *ShowtimeHandler) Create(c echo.Context) error {
	var body struct {
		FilmID    uint64                 `json:"filmId"`
		CinemaID  uint64                 `json:"cinemaId"`
		RoomID    uint64                 `json:"roomId"`
		StartTime string                 `json:"startTime"`
		EndTime   string                 `json:"endTime"`
		Format    string                 `json:"format"`
		BasePrice int64                  `json:"basePrice"`
		SeatTypes []schedule.SeatTypeFee `json:"seatTypes"`
		Status    string                 `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(body.StartTime) == "" || strings.TrimSpace(body.EndTime) == "" {
		return badRequest(c, "startTime and endTime are required")
	}
	start, err := parseTime(body.StartTime)
	if err != nil {
		return badRequest(c, "invalid startTime format")
	}
	end, err := parseTime(body.EndTime)
	if err != nil {
		return badRequest(c, "invalid endTime format")
	}

	st, err := h.Svc.Create(c.Request().Context(), authFromContext(c), schedule.CreateInput{
		FilmID:    body.FilmID,
		CinemaID:  body.CinemaID,
		RoomID:    body.RoomID,
		StartsAt:  start,
		EndsAt:    end,
		Format:    body.Format,
		BasePrice: body.BasePrice,
		SeatFees:  body.SeatTypes,
		Status:    schedule.Status(body.Status),
	})
	if err != nil {
		return respondError(c, err)
	}

	// Best effort: scheduling already committed, a publish failure is
	// logged by the publisher and must not fail the request.
	_ = queue_publisher.PublishShowtimeScheduled(c.Request().Context(), queue.ShowtimeScheduledEvent{
		ShowtimeID:  st.ID,
		FilmID:      st.FilmID,
		CinemaID:    st.CinemaID,
		RoomID:      st.RoomID,
		StartsAt:    st.StartsAt.UTC().Format(time.RFC3339),
		EndsAt:      st.EndsAt.UTC().Format(time.RFC3339),
		Format:      st.Format,
		BasePrice:   st.BasePrice,
		SeatCount:   len(st.Seats),
		ScheduledAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.JSON(http.StatusCreated, st)
}

// Edit handles PATCH /v1/showtimes/:id. Only times, format, base
// price, seat type fees and status are editable; attempts to reassign
// the film, cinema, room or the seat snapshot are rejected outright.
func (h *ShowtimeHandler) Edit(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var body struct {
		FilmID    *uint64                `json:"filmId"`
		CinemaID  *uint64                `json:"cinemaId"`
		RoomID    *uint64                `json:"roomId"`
		Seats     json.RawMessage        `json:"seats"`
		StartTime *string                `json:"startTime"`
		EndTime   *string                `json:"endTime"`
		Format    *string                `json:"format"`
		BasePrice *int64                 `json:"basePrice"`
		SeatTypes []schedule.SeatTypeFee `json:"seatTypes"`
		Status    *string                `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	if body.FilmID != nil || body.CinemaID != nil || body.RoomID != nil || len(body.Seats) > 0 {
		return badRequest(c, "filmId, cinemaId, roomId and seats cannot be changed")
	}

	var in schedule.EditInput
	if body.StartTime != nil {
		t, err := parseTime(*body.StartTime)
		if err != nil {
			return badRequest(c, "invalid startTime format")
		}
		in.StartsAt = &t
	}
	if body.EndTime != nil {
		t, err := parseTime(*body.EndTime)
		if err != nil {
			return badRequest(c, "invalid endTime format")
		}
		in.EndsAt = &t
	}
	in.Format = body.Format
	in.BasePrice = body.BasePrice
	in.SeatFees = body.SeatTypes
	if body.Status != nil {
		s := schedule.Status(strings.ToLower(strings.TrimSpace(*body.Status)))
		in.Status = &s
	}

	st, err := h.Svc.Edit(c.Request().Context(), authFromContext(c), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// Delete handles DELETE /v1/showtimes/:id (soft delete).
func (h *ShowtimeHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	if err := h.Svc.Delete(c.Request().Context(), authFromContext(c), id); err != nil {
		return respondError(c, err)
	}
	_ = queue_publisher.PublishShowtimeCancelled(c.Request().Context(), queue.ShowtimeCancelledEvent{
		ShowtimeID:  id,
		CancelledAt: time.Now().UTC().Format(time.RFC3339),
	})
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/showtimes with optional filters filmId,
// cinemaId, roomId, startDate, endDate and, for admins, status.
func (h *ShowtimeHandler) List(c echo.Context) error {
	var f schedule.ListFilter
	var err error
	if f.FilmID, err = queryID(c, "filmId"); err != nil {
		return badRequest(c, "invalid filmId")
	}
	if f.CinemaID, err = queryID(c, "cinemaId"); err != nil {
		return badRequest(c, "invalid cinemaId")
	}
	if f.RoomID, err = queryID(c, "roomId"); err != nil {
		return badRequest(c, "invalid roomId")
	}
	f.Status = schedule.Status(c.QueryParam("status"))
	if v := c.QueryParam("startDate"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return badRequest(c, "invalid startDate format")
		}
		f.From = &t
	}
	if v := c.QueryParam("endDate"); v != "" {
		t, err := parseTime(v)
		if err != nil {
			return badRequest(c, "invalid endDate format")
		}
		f.To = &t
	}

	items, err := h.Svc.List(c.Request().Context(), authFromContext(c), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Get handles GET /v1/showtimes/:id including the seat snapshot.
func (h *ShowtimeHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	st, err := h.Svc.Get(c.Request().Context(), authFromContext(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, st)
}

// queryID parses an optional numeric query parameter; absent means 0.
func queryID(c echo.Context, name string) (uint64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseUint(v, 10, 64)
}
