package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/movigo/show-booking/internal/config"
	"github.com/movigo/show-booking/internal/handler"
	"github.com/movigo/show-booking/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterCatalog registers the public movie/show browse endpoints and
// the admin-only catalog management endpoints.  Catalog GETs sit behind
// the Redis response cache; availability does not belong here because
// it must always be recomputed from the ledger.
func RegisterCatalog(e *echo.Echo, m *handler.MovieHandler, s *handler.ShowHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	e.GET("/v1/movies", m.List, cache)
	e.GET("/v1/movies/:id", m.Get, cache)
	e.GET("/v1/movies/:id/shows", m.Shows, cache)
	e.GET("/v1/shows", s.List, cache)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN"))
	admin.POST("/movies", m.Create)
	admin.POST("/shows", s.Create)
}

// RegisterBooking registers the reservation endpoints.  Mutating routes
// require a JWT and sit behind the Redis token-bucket rate limiter;
// availability is public and never cached.
func RegisterBooking(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	limit := middleware.NewTokenBucket(rlCfg, rdb)

	e.GET("/v1/shows/:id/availability", b.Availability)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "CUSTOMER"))
	auth.POST("/shows/:id/book", b.Book, limit)
	auth.POST("/bookings/:id/cancel", b.Cancel, limit)
	auth.GET("/my/bookings", b.MyBookings)
}
