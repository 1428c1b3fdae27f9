// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cinetix/showtime-api/internal/config"
	"github.com/cinetix/showtime-api/internal/handler"
	"github.com/cinetix/showtime-api/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterShowtimes registers the showtime scheduling endpoints.
// Mutations require an ADMIN token; reads are public but see only
// active showtimes unless the caller is an admin. Public reads are
// rate limited and cached through Redis when available.
func RegisterShowtimes(e *echo.Echo, h *handler.ShowtimeHandler, jwtSecret string, rdb *redis.Client) {
	admin := e.Group("/v1/showtimes")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("", h.Create)
	admin.PATCH("/:id", h.Edit)
	admin.DELETE("/:id", h.Delete)

	public := e.Group("/v1/showtimes")
	public.Use(middleware.OptionalJWT(jwtSecret))
	public.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	public.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))
	public.GET("", h.List)
	public.GET("/:id", h.Get)
}

// RegisterCatalog registers the film, cinema and room endpoints that
// the scheduler depends on. Creation is admin-only; listings are
// public.
func RegisterCatalog(e *echo.Echo, h *handler.CatalogHandler, jwtSecret string, rdb *redis.Client) {
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/films", h.CreateFilm)
	admin.POST("/cinemas", h.CreateCinema)
	admin.POST("/rooms", h.CreateRoom)

	public := e.Group("/v1")
	public.Use(middleware.OptionalJWT(jwtSecret))
	public.Use(middleware.RateLimit(config.LoadRateLimitConfig(), rdb))
	public.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))
	public.GET("/films", h.ListFilms)
	public.GET("/films/:id", h.GetFilm)
	public.GET("/cinemas", h.ListCinemas)
	public.GET("/cinemas/:id/rooms", h.ListRooms)
	public.GET("/rooms/:id", h.GetRoom)
}
