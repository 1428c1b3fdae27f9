// Package handler contains the HTTP handlers. Handlers stay thin:
// they bind and parse request payloads, call the scheduling service or
// a repository, and translate domain errors into JSON responses with
// stable codes.
package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cinetix/showtime-api/internal/schedule"
)

// authFromContext builds the explicit AuthContext passed into every
// scheduling call from the identity the JWT middleware stored on the
// request. Unauthenticated requests yield a zero (non-admin) context.
func authFromContext(c echo.Context) schedule.AuthContext {
	var auth schedule.AuthContext
	switch v := c.Get("user_id").(type) {
	case uint64:
		auth.UserID = v
	case float64:
		auth.UserID = uint64(v)
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			auth.UserID = n
		}
	}
	if role, ok := c.Get("role").(string); ok {
		auth.IsAdmin = role == "ADMIN"
	}
	return auth
}

// errorBody is the uniform error payload: a human-readable message and
// a stable machine code.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError maps domain errors onto HTTP responses. Reference
// failures are 404, business-rule and validation failures are 400, and
// anything unexpected is logged and returned as a generic 500 without
// leaking internals.
func respondError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, schedule.ErrFilmNotFound):
		return c.JSON(http.StatusNotFound, errorBody{err.Error(), "FILM_NOT_FOUND"})
	case errors.Is(err, schedule.ErrCinemaNotFound):
		return c.JSON(http.StatusNotFound, errorBody{err.Error(), "CINEMA_NOT_FOUND"})
	case errors.Is(err, schedule.ErrRoomNotFound):
		return c.JSON(http.StatusNotFound, errorBody{err.Error(), "ROOM_NOT_FOUND"})
	case errors.Is(err, schedule.ErrShowtimeNotFound):
		return c.JSON(http.StatusNotFound, errorBody{err.Error(), "SHOWTIME_NOT_FOUND"})
	case errors.Is(err, schedule.ErrForbidden):
		return c.JSON(http.StatusForbidden, errorBody{err.Error(), "FORBIDDEN"})
	case errors.Is(err, schedule.ErrRoomMismatch):
		return c.JSON(http.StatusBadRequest, errorBody{err.Error(), "ROOM_MISMATCH"})
	case errors.Is(err, schedule.ErrRoomFormat):
		return c.JSON(http.StatusBadRequest, errorBody{err.Error(), "ROOM_FORMAT_UNSUPPORTED"})
	case errors.Is(err, schedule.ErrFilmFormat):
		return c.JSON(http.StatusBadRequest, errorBody{err.Error(), "FILM_FORMAT_UNSUPPORTED"})
	case errors.Is(err, schedule.ErrTimeConflict):
		return c.JSON(http.StatusBadRequest, errorBody{err.Error(), "TIME_CONFLICT"})
	case errors.Is(err, schedule.ErrBookedSeats):
		return c.JSON(http.StatusBadRequest, errorBody{err.Error(), "BOOKED_SEATS_LOCKED"})
	case schedule.IsValidation(err):
		return c.JSON(http.StatusBadRequest, errorBody{err.Error(), "VALIDATION_ERROR"})
	default:
		log.Printf("handler: %s %s failed: %v", c.Request().Method, c.Path(), err)
		return c.JSON(http.StatusInternalServerError, errorBody{"server error", "SERVER_ERROR"})
	}
}

// badRequest is a shorthand for a field-level validation response.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorBody{msg, "VALIDATION_ERROR"})
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
