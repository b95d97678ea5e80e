package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/flight-seat-reservation/internal/handler"
	"github.com/iliyamo/flight-seat-reservation/internal/middleware"
	"github.com/iliyamo/flight-seat-reservation/internal/utils"
)

// RegisterRoutes registers routes that do not require authentication and
// do not touch the database.  The fare table is constant, so it goes
// through the response cache.
func RegisterRoutes(e *echo.Echo, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/prices", handler.GetPrices, cache)
}

// RegisterReservation registers the passenger booking endpoints.  Only the
// booking submission is rate limited; reading the chart is cheap.
func RegisterReservation(e *echo.Echo, h *handler.ReservationHandler, limit echo.MiddlewareFunc) {
	g := e.Group("/v1")
	g.GET("/reserve", h.GetChart)
	g.POST("/reserve", h.Reserve, limit)
	g.GET("/tickets/:ticket", h.GetTicket)
}

// RegisterAdmin registers the admin login (public, rate limited) and the
// dashboard (requires an ADMIN access token).
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1/admin")
	g.POST("/login", h.Login, limit)
	g.GET("/dashboard", h.Dashboard, middleware.JWTAuth(jwtSecret), middleware.RequireRole(utils.RoleAdmin))
}
