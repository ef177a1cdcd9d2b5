package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hu6r1s/tickitecking/internal/model"
	"github.com/hu6r1s/tickitecking/internal/service"
)

// ConcertHandler exposes concert and auditorium management for company
// users plus public browse endpoints.
type ConcertHandler struct {
	Concerts *service.ConcertService
}

// NewConcertHandler constructs a ConcertHandler.
func NewConcertHandler(concerts *service.ConcertService) *ConcertHandler {
	if concerts == nil {
		panic("nil service passed to NewConcertHandler")
	}
	return &ConcertHandler{Concerts: concerts}
}

// concertView is the API shape of a concert.
type concertView struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	StartTime    string `json:"start_time"`
	AuditoriumID uint64 `json:"auditorium_id"`
}

func toConcertView(c *model.Concert) concertView {
	return concertView{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		StartTime:    c.StartTime.UTC().Format(time.RFC3339),
		AuditoriumID: c.AuditoriumID,
	}
}

// CreateAuditorium handles POST /v1/auditoriums (COMPANY only).
func (h *ConcertHandler) CreateAuditorium(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name          string `json:"name"`
		Address       string `json:"address"`
		MaxHorizontal string `json:"max_horizontal"`
		MaxVertical   string `json:"max_vertical"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	aud := &model.Auditorium{
		Name:          body.Name,
		Address:       body.Address,
		MaxHorizontal: strings.ToUpper(strings.TrimSpace(body.MaxHorizontal)),
		MaxVertical:   strings.TrimSpace(body.MaxVertical),
	}
	if err := h.Concerts.CreateAuditorium(c.Request().Context(), userID, aud); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seating bounds"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": aud.ID})
}

// ListAuditoriums handles GET /v1/auditoriums (COMPANY only).
func (h *ConcertHandler) ListAuditoriums(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	auds, err := h.Concerts.ListAuditoriums(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, auds)
}

// CreateConcert handles POST /v1/concerts (COMPANY only).  The seat
// grid is generated from the auditorium bounds at creation time.
func (h *ConcertHandler) CreateConcert(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name         string `json:"name"`
		Description  string `json:"description"`
		StartTime    string `json:"start_time"`
		AuditoriumID uint64 `json:"auditorium_id"`
		Grade        string `json:"grade"`
		PriceCents   uint32 `json:"price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Name) == "" || body.AuditoriumID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and auditorium_id are required"})
	}
	startTime, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC3339"})
	}
	grade := strings.ToUpper(strings.TrimSpace(body.Grade))
	if grade == "" {
		grade = "S"
	}

	concert, err := h.Concerts.CreateConcert(c.Request().Context(), userID, body.AuditoriumID, service.ConcertInput{
		Name:        body.Name,
		Description: body.Description,
		StartTime:   startTime,
	}, grade, body.PriceCents)
	if err != nil {
		if errors.Is(err, service.ErrAuditoriumNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "auditorium not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, toConcertView(concert))
}

// GetConcert handles GET /v1/concerts/:id (public).
func (h *ConcertHandler) GetConcert(c echo.Context) error {
	concertID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}
	concert, err := h.Concerts.GetConcert(c.Request().Context(), concertID)
	if err != nil {
		if errors.Is(err, service.ErrConcertNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toConcertView(concert))
}

// ListConcerts handles GET /v1/concerts (public).
func (h *ConcertHandler) ListConcerts(c echo.Context) error {
	concerts, err := h.Concerts.ListConcerts(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	views := make([]concertView, 0, len(concerts))
	for i := range concerts {
		views = append(views, toConcertView(&concerts[i]))
	}
	return c.JSON(http.StatusOK, views)
}

// UpdateConcert handles PUT /v1/concerts/:id (COMPANY only, owner only).
func (h *ConcertHandler) UpdateConcert(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	concertID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		StartTime   string `json:"start_time"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	startTime, err := time.Parse(time.RFC3339, body.StartTime)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC3339"})
	}

	err = h.Concerts.UpdateConcert(c.Request().Context(), userID, concertID, service.ConcertInput{
		Name:        body.Name,
		Description: body.Description,
		StartTime:   startTime,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConcertNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
		case errors.Is(err, service.ErrNotOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteConcert handles DELETE /v1/concerts/:id (COMPANY only, owner
// only).  Refused while active reservations exist.
func (h *ConcertHandler) DeleteConcert(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	concertID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}
	err = h.Concerts.DeleteConcert(c.Request().Context(), userID, concertID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConcertNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
		case errors.Is(err, service.ErrNotOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, service.ErrConcertHasReservations):
			return c.JSON(http.StatusConflict, echo.Map{"error": "concert has active reservations"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// BlockSeat handles PATCH /v1/concerts/:id/seats/:seatId (COMPANY only,
// owner only).  Toggles the administrative reservable flag.
func (h *ConcertHandler) BlockSeat(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	concertID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}
	seatID, ok := pathID(c, "seatId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	var body struct {
		Reservable *bool `json:"reservable"`
	}
	if err := c.Bind(&body); err != nil || body.Reservable == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "reservable is required"})
	}

	err = h.Concerts.BlockSeat(c.Request().Context(), userID, concertID, seatID, *body.Reservable)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConcertNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
		case errors.Is(err, service.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, service.ErrNotOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.NoContent(http.StatusNoContent)
}
