package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/movigo/show-booking/internal/config"
	"github.com/movigo/show-booking/internal/database"
	"github.com/movigo/show-booking/internal/handler"
	"github.com/movigo/show-booking/internal/queue"
	"github.com/movigo/show-booking/internal/repository"
	"github.com/movigo/show-booking/internal/reservation"
	"github.com/movigo/show-booking/internal/router"
)

func main() {
	// Load .env if present; real deployments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and response cache disabled")
	}

	movieRepo := repository.NewMovieRepo(db)
	showRepo := repository.NewShowRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)

	engine := reservation.NewEngine(showRepo, bookingRepo,
		reservation.WithRetry(cfg.BookAttempts, cfg.BookRetryBase))

	authHandler := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	movieHandler := handler.NewMovieHandler(movieRepo, showRepo)
	showHandler := handler.NewShowHandler(showRepo, movieRepo)
	bookingHandler := handler.NewBookingHandler(engine, showRepo, movieRepo)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterCatalog(e, movieHandler, showHandler, cfg.JWTSecret, config.LoadCacheConfig(), rdb)
	router.RegisterBooking(e, bookingHandler, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)

	// Consume booking events in the background; the consumer reconnects
	// on its own if the broker goes away.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
