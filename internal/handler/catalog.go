package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/showtime-api/internal/repository"
	"github.com/cinetix/showtime-api/internal/schedule"
)

// CatalogHandler manages the reference data the scheduler resolves
// against: films, cinemas and rooms. Creation is admin only; reads are
// public with the same soft-delete and status visibility rules as
// showtimes.
type CatalogHandler struct {
	Catalog *repository.Catalog
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(cat *repository.Catalog) *CatalogHandler {
	if cat == nil {
		panic("nil catalog passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: cat}
}

// validFormatList checks a supported/available format list against the
// global whitelist.
func validFormatList(formats []string) error {
	if len(formats) == 0 {
		return &schedule.ValidationError{Msg: "at least one format is required"}
	}
	for _, f := range formats {
		if !schedule.FormatAllowed(f) {
			return &schedule.ValidationError{Msg: "format " + f + " is not supported"}
		}
	}
	return nil
}

// CreateFilm handles POST /v1/films.
func (h *CatalogHandler) CreateFilm(c echo.Context) error {
	var body struct {
		Title            string   `json:"title"`
		AvailableFormats []string `json:"availableFormats"`
		DurationMin      uint32   `json:"durationMin"`
		AgeRating        string   `json:"ageRating"`
		Status           string   `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return badRequest(c, "title is required")
	}
	if err := validFormatList(body.AvailableFormats); err != nil {
		return respondError(c, err)
	}
	status := schedule.Status(body.Status)
	if status != "" && !status.Valid() {
		return badRequest(c, "status must be active or inactive")
	}

	film := &schedule.Film{
		Title:            title,
		AvailableFormats: body.AvailableFormats,
		DurationMin:      body.DurationMin,
		AgeRating:        body.AgeRating,
		Status:           status,
	}
	if err := h.Catalog.Films.Create(c.Request().Context(), film); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, film)
}

// ListFilms handles GET /v1/films.
func (h *CatalogHandler) ListFilms(c echo.Context) error {
	auth := authFromContext(c)
	films, err := h.Catalog.Films.List(c.Request().Context(), !auth.IsAdmin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": films})
}

// GetFilm handles GET /v1/films/:id.
func (h *CatalogHandler) GetFilm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	film, err := h.Catalog.Films.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !authFromContext(c).IsAdmin && film.Status != schedule.StatusActive {
		return respondError(c, schedule.ErrFilmNotFound)
	}
	return c.JSON(http.StatusOK, film)
}

// CreateCinema handles POST /v1/cinemas.
func (h *CatalogHandler) CreateCinema(c echo.Context) error {
	var body struct {
		Name    string `json:"name"`
		Address string `json:"address"`
		Status  string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return badRequest(c, "name is required")
	}
	status := schedule.Status(body.Status)
	if status != "" && !status.Valid() {
		return badRequest(c, "status must be active or inactive")
	}

	cinema := &schedule.Cinema{Name: name, Address: strings.TrimSpace(body.Address), Status: status}
	if err := h.Catalog.Cinemas.Create(c.Request().Context(), cinema); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, cinema)
}

// ListCinemas handles GET /v1/cinemas.
func (h *CatalogHandler) ListCinemas(c echo.Context) error {
	auth := authFromContext(c)
	cinemas, err := h.Catalog.Cinemas.List(c.Request().Context(), !auth.IsAdmin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": cinemas})
}

// CreateRoom handles POST /v1/rooms. The seat layout is validated for
// the room-level invariants (unique seat keys, couple partner
// symmetry) before anything is written; the snapshotter relies on
// these invariants holding for every persisted room.
func (h *CatalogHandler) CreateRoom(c echo.Context) error {
	var body struct {
		CinemaID         uint64          `json:"cinemaId"`
		Name             string          `json:"name"`
		SeatLayout       []schedule.Seat `json:"seatLayout"`
		SupportedFormats []string        `json:"supportedFormats"`
		Status           string          `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "invalid request body")
	}
	name := strings.TrimSpace(body.Name)
	if len(name) < 2 || len(name) > 50 {
		return badRequest(c, "name must be 2-50 characters")
	}
	if body.CinemaID == 0 {
		return badRequest(c, "cinemaId is required")
	}
	if err := schedule.ValidateSeatLayout(body.SeatLayout); err != nil {
		return respondError(c, err)
	}
	if err := validFormatList(body.SupportedFormats); err != nil {
		return respondError(c, err)
	}
	status := schedule.Status(body.Status)
	if status != "" && !status.Valid() {
		return badRequest(c, "status must be active or inactive")
	}
	if _, err := h.Catalog.Cinemas.GetByID(c.Request().Context(), body.CinemaID); err != nil {
		return respondError(c, err)
	}

	room := &schedule.Room{
		CinemaID:         body.CinemaID,
		Name:             name,
		SeatLayout:       body.SeatLayout,
		SupportedFormats: body.SupportedFormats,
		Status:           status,
	}
	if err := h.Catalog.Rooms.Create(c.Request().Context(), room); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// ListRooms handles GET /v1/cinemas/:id/rooms.
func (h *CatalogHandler) ListRooms(c echo.Context) error {
	cinemaID, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid cinema id")
	}
	auth := authFromContext(c)
	rooms, err := h.Catalog.Rooms.ListByCinema(c.Request().Context(), cinemaID, !auth.IsAdmin)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": rooms})
}

// GetRoom handles GET /v1/rooms/:id including the seat layout.
func (h *CatalogHandler) GetRoom(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, "invalid id")
	}
	room, err := h.Catalog.Rooms.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if !authFromContext(c).IsAdmin && room.Status != schedule.StatusActive {
		return respondError(c, schedule.ErrRoomNotFound)
	}
	return c.JSON(http.StatusOK, room)
}
