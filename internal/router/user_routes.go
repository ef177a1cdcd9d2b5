package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hu6r1s/tickitecking/internal/handler"
	"github.com/hu6r1s/tickitecking/internal/middleware"
	"github.com/hu6r1s/tickitecking/internal/model"
)

// RegisterUser registers the reservation lifecycle endpoints under /v1.
// All routes require a valid JWT with the USER role.  A user reserves a
// seat by coordinate, cancels a reservation they own, and lists their
// own reservations.
func RegisterUser(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleUser),
	)
	// Note: GET /v1/concerts/:id/seats is registered on the public
	// router so that guests can view availability before signing up.
	g.POST("/concerts/:id/reservations", h.Reserve)
	g.DELETE("/reservations/:id", h.Cancel)
	g.GET("/my-reservations", h.MyReservations)
}
