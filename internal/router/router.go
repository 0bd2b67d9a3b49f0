package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/pwalcz/cinema-ticket-booking/internal/config"
	"github.com/pwalcz/cinema-ticket-booking/internal/handler"
	"github.com/pwalcz/cinema-ticket-booking/internal/middleware"
	"github.com/pwalcz/cinema-ticket-booking/internal/model"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Auth        *handler.AuthHandler
	Movie       *handler.MovieHandler
	Hall        *handler.HallHandler
	Show        *handler.ShowHandler
	Reservation *handler.ReservationHandler
	Payment     *handler.PaymentHandler
}

// Register mounts all routes on the Echo instance.
//
// The API splits into three tiers:
//   - open:          health check, register, login
//   - authenticated: everything touching booking data, behind JWTAuth
//     and the region middleware (region query parameter selects the
//     regional database)
//   - staff:         venue and schedule mutations plus global listings,
//     additionally behind RequireRole(EMPLOYEE, ADMIN)
//   - admin:         reservation hard-delete, behind RequireRole(ADMIN)
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	e.GET("/healthz", handler.Health)

	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/auth/me", h.Auth.Me)

	staffOnly := middleware.RequireRole(model.RoleEmployee, model.RoleAdmin)
	adminOnly := middleware.RequireRole(model.RoleAdmin)
	auth.GET("/users", h.Auth.ListUsers, staffOnly)

	// regional routes; ?region= picks the database
	region := auth.Group("", middleware.RequireRegion(cfg.Regions))

	region.GET("/movies", h.Movie.List)
	region.GET("/movies/:id", h.Movie.Get)
	region.POST("/movies", h.Movie.Create, staffOnly)
	region.DELETE("/movies/:id", h.Movie.Delete, staffOnly)

	region.GET("/halls", h.Hall.List)
	region.GET("/halls/:id/seats", h.Hall.Seats)
	region.POST("/halls", h.Hall.Create, staffOnly)
	region.DELETE("/halls/:id", h.Hall.Delete, staffOnly)

	region.GET("/shows", h.Show.List)
	region.GET("/shows/:id", h.Show.Get)
	region.POST("/shows", h.Show.Create, staffOnly)
	region.POST("/shows/check-conflict", h.Show.CheckConflict, staffOnly)
	region.DELETE("/shows/:id", h.Show.Delete, staffOnly)

	region.POST("/reservations", h.Reservation.Create)
	region.POST("/reservations/for-user", h.Reservation.CreateForUser, staffOnly)
	region.GET("/reservations", h.Reservation.ListMine)
	region.GET("/reservations/all", h.Reservation.ListAll, staffOnly)
	region.GET("/reservations/:id", h.Reservation.Get)
	region.DELETE("/reservations/:id", h.Reservation.Delete, adminOnly)

	region.POST("/reservations/:id/payment", h.Payment.Create)
	region.GET("/payments", h.Payment.ListAll, staffOnly)
}
