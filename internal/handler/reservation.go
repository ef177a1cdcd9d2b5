package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hu6r1s/tickitecking/internal/service"
)

// ReservationHandler exposes the seat reservation lifecycle and the
// seat-availability map over HTTP.  Every service failure kind maps to
// exactly one HTTP status; no internal error detail crosses this
// boundary.
type ReservationHandler struct {
	Reservations *service.ReservationService
}

// NewReservationHandler constructs a ReservationHandler.
func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	if reservations == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations}
}

// reservationView is the API shape of a reservation.
type reservationView struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"user_id"`
	ConcertID uint64 `json:"concert_id"`
	SeatID    uint64 `json:"seat_id"`
	Status    string `json:"status"`
}

// Reserve handles POST /v1/concerts/:id/reservations.  The body names a
// coordinate; exactly one of any number of concurrent requests for the
// same coordinate succeeds.  Contention returns 409 immediately and is
// not retried server-side.
func (h *ReservationHandler) Reserve(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	concertID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}
	var body struct {
		Horizontal string `json:"horizontal"`
		Vertical   string `json:"vertical"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Horizontal = strings.TrimSpace(body.Horizontal)
	body.Vertical = strings.TrimSpace(body.Vertical)
	if body.Horizontal == "" || body.Vertical == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "horizontal and vertical are required"})
	}

	res, err := h.Reservations.Reserve(c.Request().Context(), userID, concertID, body.Horizontal, body.Vertical)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSeatAlreadyClaimed):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already claimed"})
		case errors.Is(err, service.ErrReservationConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already reserved"})
		case errors.Is(err, service.ErrSeatNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		case errors.Is(err, service.ErrSeatNotReservable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat not reservable"})
		case errors.Is(err, service.ErrStoreUnavailable):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, reservationView{
		ID:        res.ID,
		UserID:    res.UserID,
		ConcertID: res.ConcertID,
		SeatID:    res.SeatID,
		Status:    res.Status,
	})
}

// Cancel handles DELETE /v1/reservations/:id.  Only the owner may
// cancel; the seat becomes claimable again once the call returns.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	reservationID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	if err := h.Reservations.Cancel(c.Request().Context(), userID, reservationID); err != nil {
		switch {
		case errors.Is(err, service.ErrReservationNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case errors.Is(err, service.ErrNotOwner):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, service.ErrStoreUnavailable):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

// MyReservations handles GET /v1/my-reservations and lists the caller's
// reservations, cancelled ones included.
func (h *ReservationHandler) MyReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Reservations.MyReservations(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	views := make([]reservationView, 0, len(list))
	for _, res := range list {
		views = append(views, reservationView{
			ID:        res.ID,
			UserID:    res.UserID,
			ConcertID: res.ConcertID,
			SeatID:    res.SeatID,
			Status:    res.Status,
		})
	}
	return c.JSON(http.StatusOK, views)
}

// SeatMap handles GET /v1/concerts/:id/seats.  The view is derived from
// the catalog and the ledger; in-flight claims are not consulted, so a
// just-claimed seat may briefly appear free.
func (h *ReservationHandler) SeatMap(c echo.Context) error {
	concertID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid concert id"})
	}
	view, err := h.Reservations.SeatMap(c.Request().Context(), concertID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConcertNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "concert not found"})
		case errors.Is(err, service.ErrStoreUnavailable):
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "service unavailable"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, view)
}
