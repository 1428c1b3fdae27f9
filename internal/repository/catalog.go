package repository

import (
	"context"
	"database/sql"

	"github.com/cinetix/showtime-api/internal/schedule"
)

// Catalog bundles the reference-data repositories behind the read-only
// lookup interface the scheduling core consumes (schedule.Catalog).
type Catalog struct {
	Films   *FilmRepo
	Cinemas *CinemaRepo
	Rooms   *RoomRepo
}

// NewCatalog constructs the catalog facade over one DB handle.
func NewCatalog(db *sql.DB) *Catalog {
	return &Catalog{
		Films:   NewFilmRepo(db),
		Cinemas: NewCinemaRepo(db),
		Rooms:   NewRoomRepo(db),
	}
}

// GetFilm resolves a film reference.
func (c *Catalog) GetFilm(ctx context.Context, id uint64) (*schedule.Film, error) {
	return c.Films.GetByID(ctx, id)
}

// GetCinema resolves a cinema reference.
func (c *Catalog) GetCinema(ctx context.Context, id uint64) (*schedule.Cinema, error) {
	return c.Cinemas.GetByID(ctx, id)
}

// GetRoom resolves a room reference including its seat layout.
func (c *Catalog) GetRoom(ctx context.Context, id uint64) (*schedule.Room, error) {
	return c.Rooms.GetByID(ctx, id)
}
