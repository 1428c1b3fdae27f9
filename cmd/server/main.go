package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cinetix/showtime-api/internal/config"
	"github.com/cinetix/showtime-api/internal/database"
	"github.com/cinetix/showtime-api/internal/handler"
	"github.com/cinetix/showtime-api/internal/queue"
	"github.com/cinetix/showtime-api/internal/repository"
	"github.com/cinetix/showtime-api/internal/router"
	"github.com/cinetix/showtime-api/internal/schedule"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	catalog := repository.NewCatalog(db)
	store := repository.NewShowtimeRepo(db)
	svc := schedule.NewService(catalog, store)

	showtimes := handler.NewShowtimeHandler(svc)
	catalogH := handler.NewCatalogHandler(catalog)

	e := echo.New()
	e.HideBanner = true

	router.RegisterRoutes(e)
	router.RegisterShowtimes(e, showtimes, cfg.JWTSecret, rdb)
	router.RegisterCatalog(e, catalogH, cfg.JWTSecret, rdb)

	// Background consumer keeps running across broker restarts.
	go func() {
		if err := queue.StartShowtimeConsumer(); err != nil {
			log.Printf("showtime consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
