package router

import (
	"github.com/labstack/echo/v4"

	"github.com/hu6r1s/tickitecking/internal/handler"
	"github.com/hu6r1s/tickitecking/internal/middleware"
	"github.com/hu6r1s/tickitecking/internal/model"
)

// RegisterCompany registers the auditorium and concert management
// endpoints under /v1.  All routes require a valid JWT with the COMPANY
// role; ownership of the targeted resource is enforced in the service
// layer.
func RegisterCompany(e *echo.Echo, h *handler.ConcertHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCompany),
	)
	g.POST("/auditoriums", h.CreateAuditorium)
	g.GET("/auditoriums", h.ListAuditoriums)
	g.POST("/concerts", h.CreateConcert)
	g.PUT("/concerts/:id", h.UpdateConcert)
	g.DELETE("/concerts/:id", h.DeleteConcert)
	g.PATCH("/concerts/:id/seats/:seatId", h.BlockSeat)
}
