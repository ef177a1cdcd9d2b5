package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/hu6r1s/tickitecking/internal/handler"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints under /v1/auth.
// These operate without an existing session: they create accounts and
// issue or exchange tokens.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
}

// RegisterPublic registers unauthenticated browse endpoints.  Guests can
// list concerts and inspect a concert's seat map before signing in; the
// seat map marks every coordinate that cannot be reserved right now.
func RegisterPublic(e *echo.Echo, ch *handler.ConcertHandler, rh *handler.ReservationHandler) {
	e.GET("/v1/concerts", ch.ListConcerts)
	e.GET("/v1/concerts/:id", ch.GetConcert)
	e.GET("/v1/concerts/:id/seats", rh.SeatMap)
}
