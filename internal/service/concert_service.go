package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hu6r1s/tickitecking/internal/model"
	"github.com/hu6r1s/tickitecking/internal/repository"
)

// ConcertStore persists concerts.
type ConcertStore interface {
	Create(ctx context.Context, c *model.Concert) error
	FindByID(ctx context.Context, id uint64) (*model.Concert, error)
	FindAll(ctx context.Context) ([]model.Concert, error)
	Update(ctx context.Context, c *model.Concert) error
	Delete(ctx context.Context, id uint64) error
}

// AuditoriumStore persists auditoriums.
type AuditoriumStore interface {
	Create(ctx context.Context, a *model.Auditorium) error
	FindByID(ctx context.Context, id uint64) (*model.Auditorium, error)
	ListByCompany(ctx context.Context, companyUserID uint64) ([]model.Auditorium, error)
}

// SeatWriter materializes and administers a concert's seat grid.
type SeatWriter interface {
	CreateBulk(ctx context.Context, seats []model.Seat) error
	SetReservable(ctx context.Context, seatID uint64, reservable bool) error
}

// ReservationCounter reports active reservations, used to guard
// concert deletion.
type ReservationCounter interface {
	CountActiveByConcert(ctx context.Context, concertID uint64) (int, error)
}

// ConcertInput carries the user-editable fields of a concert.
type ConcertInput struct {
	Name        string
	Description string
	StartTime   time.Time
}

// ConcertService manages concerts and auditoriums on behalf of company
// users.  Ownership is enforced here: mutations are rejected with
// ErrNotOwner unless the caller created the resource.
type ConcertService struct {
	concerts     ConcertStore
	auditoriums  AuditoriumStore
	seats        SeatWriter
	reservations ReservationCounter
}

// NewConcertService wires the service's collaborators; all must be non-nil.
func NewConcertService(concerts ConcertStore, auditoriums AuditoriumStore, seats SeatWriter, reservations ReservationCounter) *ConcertService {
	if concerts == nil || auditoriums == nil || seats == nil || reservations == nil {
		panic("nil dependency passed to NewConcertService")
	}
	return &ConcertService{
		concerts:     concerts,
		auditoriums:  auditoriums,
		seats:        seats,
		reservations: reservations,
	}
}

// CreateAuditorium registers a venue for the company user.  The grid
// bounds are validated so that later seat generation cannot fail.
func (s *ConcertService) CreateAuditorium(ctx context.Context, companyUserID uint64, a *model.Auditorium) error {
	if _, ok := gridCoordinates(a.MaxHorizontal, a.MaxVertical); !ok {
		return fmt.Errorf("invalid seating bounds %q x %q", a.MaxHorizontal, a.MaxVertical)
	}
	a.CompanyUserID = companyUserID
	return s.auditoriums.Create(ctx, a)
}

// ListAuditoriums returns the venues registered by the company user.
func (s *ConcertService) ListAuditoriums(ctx context.Context, companyUserID uint64) ([]model.Auditorium, error) {
	return s.auditoriums.ListByCompany(ctx, companyUserID)
}

// CreateConcert validates the auditorium, inserts the concert and
// materializes its seat grid from the auditorium bounds.  Every seat
// starts reservable with the given grade and price; individual seats
// can be blocked afterwards via BlockSeat.
func (s *ConcertService) CreateConcert(ctx context.Context, companyUserID, auditoriumID uint64, in ConcertInput, grade string, priceCents uint32) (*model.Concert, error) {
	aud, err := s.auditoriums.FindByID(ctx, auditoriumID)
	if err != nil {
		if errors.Is(err, repository.ErrAuditoriumNotFound) {
			return nil, ErrAuditoriumNotFound
		}
		return nil, err
	}

	concert := &model.Concert{
		Name:          in.Name,
		Description:   in.Description,
		StartTime:     in.StartTime,
		CompanyUserID: companyUserID,
		AuditoriumID:  aud.ID,
	}
	if err := s.concerts.Create(ctx, concert); err != nil {
		return nil, err
	}

	coords, _ := gridCoordinates(aud.MaxHorizontal, aud.MaxVertical)
	seats := make([]model.Seat, 0, len(coords))
	for _, c := range coords {
		seats = append(seats, model.Seat{
			ConcertID:  concert.ID,
			Horizontal: c[0],
			Vertical:   c[1],
			Grade:      grade,
			PriceCents: priceCents,
			Reservable: true,
		})
	}
	if err := s.seats.CreateBulk(ctx, seats); err != nil {
		return nil, err
	}
	return concert, nil
}

// GetConcert returns one concert by id.
func (s *ConcertService) GetConcert(ctx context.Context, concertID uint64) (*model.Concert, error) {
	c, err := s.concerts.FindByID(ctx, concertID)
	if err != nil {
		if errors.Is(err, repository.ErrConcertNotFound) {
			return nil, ErrConcertNotFound
		}
		return nil, err
	}
	return c, nil
}

// ListConcerts returns every concert for browsing.
func (s *ConcertService) ListConcerts(ctx context.Context) ([]model.Concert, error) {
	return s.concerts.FindAll(ctx)
}

// UpdateConcert rewrites the editable fields after an ownership check.
func (s *ConcertService) UpdateConcert(ctx context.Context, companyUserID, concertID uint64, in ConcertInput) error {
	concert, err := s.GetConcert(ctx, concertID)
	if err != nil {
		return err
	}
	if concert.CompanyUserID != companyUserID {
		return ErrNotOwner
	}
	concert.Name = in.Name
	concert.Description = in.Description
	concert.StartTime = in.StartTime
	return s.concerts.Update(ctx, concert)
}

// DeleteConcert removes a concert and its seats.  Refused while any
// active reservation references the concert.
func (s *ConcertService) DeleteConcert(ctx context.Context, companyUserID, concertID uint64) error {
	concert, err := s.GetConcert(ctx, concertID)
	if err != nil {
		return err
	}
	if concert.CompanyUserID != companyUserID {
		return ErrNotOwner
	}
	n, err := s.reservations.CountActiveByConcert(ctx, concertID)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrConcertHasReservations
	}
	return s.concerts.Delete(ctx, concertID)
}

// BlockSeat clears (or restores) the administrative reservable flag of
// a seat in one of the caller's concerts.
func (s *ConcertService) BlockSeat(ctx context.Context, companyUserID, concertID, seatID uint64, reservable bool) error {
	concert, err := s.GetConcert(ctx, concertID)
	if err != nil {
		return err
	}
	if concert.CompanyUserID != companyUserID {
		return ErrNotOwner
	}
	if err := s.seats.SetReservable(ctx, seatID, reservable); err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return ErrSeatNotFound
		}
		return err
	}
	return nil
}
