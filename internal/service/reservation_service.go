package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hu6r1s/tickitecking/internal/model"
	"github.com/hu6r1s/tickitecking/internal/queue"
	"github.com/hu6r1s/tickitecking/internal/repository"
)

// SeatClaimer is the coordination primitive serializing concurrent
// reservation attempts per coordinate.  Acquire must be a single
// indivisible create-if-absent operation of the backing store; for any
// set of concurrent acquires on one coordinate exactly one caller wins.
type SeatClaimer interface {
	Acquire(ctx context.Context, concertID uint64, horizontal, vertical string) (bool, error)
	Confirm(ctx context.Context, concertID uint64, horizontal, vertical string) error
	Release(ctx context.Context, concertID uint64, horizontal, vertical string) error
}

// SeatCatalog is the authoritative, read-only list of seats per concert.
type SeatCatalog interface {
	FindByCoordinate(ctx context.Context, concertID uint64, horizontal, vertical string) (*model.Seat, error)
	FindByID(ctx context.Context, seatID uint64) (*model.Seat, error)
	Capacity(ctx context.Context, concertID uint64) (model.Capacity, error)
	UnreservableCoordinates(ctx context.Context, concertID uint64) ([]model.SeatCoordinate, error)
}

// ReservationLedger is the durable record of confirmed reservations and
// the source of truth for who holds which seat.
type ReservationLedger interface {
	Insert(ctx context.Context, res *model.Reservation) error
	FindByID(ctx context.Context, id uint64) (*model.Reservation, error)
	FindActiveCoordinates(ctx context.Context, concertID uint64) ([]model.SeatCoordinate, error)
	MarkCancelled(ctx context.Context, id uint64) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
}

// ConcertReader resolves concert identifiers for the seat map.
type ConcertReader interface {
	FindByID(ctx context.Context, id uint64) (*model.Concert, error)
}

// EventPublisher emits reservation events after the ledger write.
type EventPublisher interface {
	PublishReservationConfirmed(ctx context.Context, event queue.ReservationConfirmedEvent) error
}

// SeatMapView is the availability projection for one concert: the grid
// bounds plus every coordinate a user cannot reserve right now, whether
// because of an active reservation or a cleared catalog flag.
type SeatMapView struct {
	ConcertID         uint64                 `json:"concert_id"`
	MaxHorizontal     string                 `json:"max_horizontal"`
	MaxVertical       string                 `json:"max_vertical"`
	UnreservableSeats []model.SeatCoordinate `json:"unreservable_seats"`
}

// ReservationService orchestrates the claim → persist → confirm protocol
// and its reverse on cancellation.  Correctness relies on two
// independent mechanisms guarding the same invariant: the claim store's
// atomic create-if-absent on the fast path and the ledger's uniqueness
// constraint underneath.  The service holds no per-request state and no
// in-process lock; all methods are safe for concurrent use.
type ReservationService struct {
	claims  SeatClaimer
	catalog SeatCatalog
	ledger  ReservationLedger
	concert ConcertReader
	events  EventPublisher
}

// NewReservationService wires the service's collaborators.  events may
// be nil to disable publishing; everything else must be non-nil.
func NewReservationService(claims SeatClaimer, catalog SeatCatalog, ledger ReservationLedger, concert ConcertReader, events EventPublisher) *ReservationService {
	if claims == nil || catalog == nil || ledger == nil || concert == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{
		claims:  claims,
		catalog: catalog,
		ledger:  ledger,
		concert: concert,
		events:  events,
	}
}

// Reserve claims the coordinate, verifies it against the catalog and
// writes an ACTIVE reservation to the ledger.  Losing the claim returns
// ErrSeatAlreadyClaimed immediately; the service is non-blocking on
// contention and never retries.  Every failure after a won claim
// releases it (compensating action), except success: a confirmed claim
// is kept for the lifetime of the reservation so the coordinate cannot
// be re-claimed until Cancel deletes it.
func (s *ReservationService) Reserve(ctx context.Context, userID, concertID uint64, horizontal, vertical string) (*model.Reservation, error) {
	won, err := s.claims.Acquire(ctx, concertID, horizontal, vertical)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !won {
		return nil, ErrSeatAlreadyClaimed
	}

	seat, err := s.catalog.FindByCoordinate(ctx, concertID, horizontal, vertical)
	if err != nil {
		s.releaseClaim(ctx, concertID, horizontal, vertical)
		if errors.Is(err, repository.ErrSeatNotFound) {
			return nil, ErrSeatNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !seat.Reservable {
		s.releaseClaim(ctx, concertID, horizontal, vertical)
		return nil, ErrSeatNotReservable
	}

	res := &model.Reservation{
		UserID:    userID,
		ConcertID: concertID,
		SeatID:    seat.ID,
		Status:    model.ReservationActive,
	}
	if err := s.ledger.Insert(ctx, res); err != nil {
		s.releaseClaim(ctx, concertID, horizontal, vertical)
		if errors.Is(err, repository.ErrDuplicateReservation) {
			return nil, ErrReservationConflict
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// The reservation is durable; stripping the claim TTL is an
	// optimization, not a correctness requirement.  If it fails the
	// token expires and the ledger constraint still rejects a second
	// booking.
	if err := s.claims.Confirm(ctx, concertID, horizontal, vertical); err != nil {
		log.Printf("reservation %d: confirm claim failed: %v", res.ID, err)
	}

	if s.events != nil {
		ev := queue.ReservationConfirmedEvent{
			ReservationID: res.ID,
			UserID:        res.UserID,
			ConcertID:     res.ConcertID,
			SeatID:        seat.ID,
			Horizontal:    seat.Horizontal,
			Vertical:      seat.Vertical,
			Grade:         seat.Grade,
			PriceCents:    seat.PriceCents,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.events.PublishReservationConfirmed(ctx, ev); err != nil {
			log.Printf("reservation %d: publish event failed: %v", res.ID, err)
		}
	}
	return res, nil
}

// Cancel marks the caller's reservation CANCELLED and frees the
// coordinate.  The ledger update happens before the claim token is
// deleted: between the two a new claimant is falsely rejected rather
// than double-booked, which is the chosen safe side.
func (s *ReservationService) Cancel(ctx context.Context, userID, reservationID uint64) error {
	res, err := s.ledger.FindByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if res.UserID != userID {
		return ErrNotOwner
	}
	if res.Status != model.ReservationActive {
		return ErrReservationNotFound
	}

	seat, err := s.catalog.FindByID(ctx, res.SeatID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := s.ledger.MarkCancelled(ctx, reservationID); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			// Lost a race with another cancel of the same reservation.
			return ErrReservationNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.claims.Release(ctx, res.ConcertID, seat.Horizontal, seat.Vertical); err != nil {
		// The reservation is cancelled; a stranded token only delays
		// re-claiming until an operator clears it.
		log.Printf("reservation %d: release claim failed: %v", reservationID, err)
	}
	return nil
}

// SeatMap builds the availability view for a concert from the catalog
// and the ledger.  It is read-only and eventually consistent with
// respect to in-flight claims: a claimed-but-unconfirmed seat may
// transiently appear free.
func (s *ReservationService) SeatMap(ctx context.Context, concertID uint64) (*SeatMapView, error) {
	if _, err := s.concert.FindByID(ctx, concertID); err != nil {
		if errors.Is(err, repository.ErrConcertNotFound) {
			return nil, ErrConcertNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	cap, err := s.catalog.Capacity(ctx, concertID)
	if err != nil {
		if errors.Is(err, repository.ErrConcertNotFound) {
			return nil, ErrConcertNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	taken, err := s.ledger.FindActiveCoordinates(ctx, concertID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	blocked, err := s.catalog.UnreservableCoordinates(ctx, concertID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	// Union of taken and administratively blocked coordinates.
	seen := make(map[model.SeatCoordinate]struct{}, len(taken)+len(blocked))
	merged := make([]model.SeatCoordinate, 0, len(taken)+len(blocked))
	for _, c := range append(taken, blocked...) {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		merged = append(merged, c)
	}

	return &SeatMapView{
		ConcertID:         concertID,
		MaxHorizontal:     cap.MaxHorizontal,
		MaxVertical:       cap.MaxVertical,
		UnreservableSeats: merged,
	}, nil
}

// MyReservations lists the caller's reservations, cancelled ones
// included, newest first.
func (s *ReservationService) MyReservations(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	list, err := s.ledger.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return list, nil
}

// releaseClaim is the compensating action of the reserve saga.  A
// failure here is logged and absorbed: the claim TTL guarantees the
// coordinate recovers on its own.
func (s *ReservationService) releaseClaim(ctx context.Context, concertID uint64, horizontal, vertical string) {
	if err := s.claims.Release(ctx, concertID, horizontal, vertical); err != nil {
		log.Printf("release claim %d/%s%s failed: %v", concertID, horizontal, vertical, err)
	}
}
