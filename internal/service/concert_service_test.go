package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hu6r1s/tickitecking/internal/model"
	"github.com/hu6r1s/tickitecking/internal/repository"
)

type fakeConcertStore struct {
	nextID uint64
	byID   map[uint64]*model.Concert
}

func newFakeConcertStore() *fakeConcertStore {
	return &fakeConcertStore{byID: make(map[uint64]*model.Concert)}
}

func (f *fakeConcertStore) Create(_ context.Context, c *model.Concert) error {
	f.nextID++
	c.ID = f.nextID
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeConcertStore) FindByID(_ context.Context, id uint64) (*model.Concert, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrConcertNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeConcertStore) FindAll(_ context.Context) ([]model.Concert, error) {
	out := make([]model.Concert, 0, len(f.byID))
	for _, c := range f.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeConcertStore) Update(_ context.Context, c *model.Concert) error {
	if _, ok := f.byID[c.ID]; !ok {
		return repository.ErrConcertNotFound
	}
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeConcertStore) Delete(_ context.Context, id uint64) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrConcertNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeAuditoriumStore struct {
	byID map[uint64]*model.Auditorium
}

func (f *fakeAuditoriumStore) Create(_ context.Context, a *model.Auditorium) error {
	a.ID = uint64(len(f.byID) + 1)
	f.byID[a.ID] = a
	return nil
}

func (f *fakeAuditoriumStore) FindByID(_ context.Context, id uint64) (*model.Auditorium, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrAuditoriumNotFound
	}
	return a, nil
}

func (f *fakeAuditoriumStore) ListByCompany(_ context.Context, companyUserID uint64) ([]model.Auditorium, error) {
	out := make([]model.Auditorium, 0)
	for _, a := range f.byID {
		if a.CompanyUserID == companyUserID {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeSeatWriter struct {
	created    []model.Seat
	reservable map[uint64]bool
}

func (f *fakeSeatWriter) CreateBulk(_ context.Context, seats []model.Seat) error {
	f.created = append(f.created, seats...)
	return nil
}

func (f *fakeSeatWriter) SetReservable(_ context.Context, seatID uint64, reservable bool) error {
	if f.reservable == nil {
		f.reservable = make(map[uint64]bool)
	}
	f.reservable[seatID] = reservable
	return nil
}

type fakeCounter struct{ active int }

func (f *fakeCounter) CountActiveByConcert(_ context.Context, _ uint64) (int, error) {
	return f.active, nil
}

const companyID = 10

func newConcertFixture() (*ConcertService, *fakeConcertStore, *fakeSeatWriter, *fakeCounter) {
	concerts := newFakeConcertStore()
	auditoriums := &fakeAuditoriumStore{byID: map[uint64]*model.Auditorium{
		1: {ID: 1, Name: "Main Hall", MaxHorizontal: "B", MaxVertical: "2", CompanyUserID: companyID},
	}}
	seats := &fakeSeatWriter{}
	counter := &fakeCounter{}
	return NewConcertService(concerts, auditoriums, seats, counter), concerts, seats, counter
}

func TestCreateConcertGeneratesSeatGrid(t *testing.T) {
	svc, _, seats, _ := newConcertFixture()

	concert, err := svc.CreateConcert(context.Background(), companyID, 1, ConcertInput{
		Name:      "Summer Night",
		StartTime: time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC),
	}, "S", 5000)
	require.NoError(t, err)
	require.NotZero(t, concert.ID)

	require.Len(t, seats.created, 4)
	coords := make([]string, 0, 4)
	for _, s := range seats.created {
		assert.Equal(t, concert.ID, s.ConcertID)
		assert.True(t, s.Reservable)
		coords = append(coords, s.Horizontal+s.Vertical)
	}
	assert.ElementsMatch(t, []string{"A1", "A2", "B1", "B2"}, coords)
}

func TestCreateConcertUnknownAuditorium(t *testing.T) {
	svc, _, _, _ := newConcertFixture()
	_, err := svc.CreateConcert(context.Background(), companyID, 99, ConcertInput{Name: "x"}, "S", 100)
	assert.ErrorIs(t, err, ErrAuditoriumNotFound)
}

func TestUpdateConcertOwnership(t *testing.T) {
	svc, concerts, _, _ := newConcertFixture()
	ctx := context.Background()

	concert, err := svc.CreateConcert(ctx, companyID, 1, ConcertInput{Name: "before"}, "S", 100)
	require.NoError(t, err)

	err = svc.UpdateConcert(ctx, companyID+1, concert.ID, ConcertInput{Name: "hijack"})
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.UpdateConcert(ctx, companyID, concert.ID, ConcertInput{Name: "after"}))
	got, err := concerts.FindByID(ctx, concert.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
}

func TestDeleteConcertGuardedByReservations(t *testing.T) {
	svc, concerts, _, counter := newConcertFixture()
	ctx := context.Background()

	concert, err := svc.CreateConcert(ctx, companyID, 1, ConcertInput{Name: "x"}, "S", 100)
	require.NoError(t, err)

	counter.active = 2
	err = svc.DeleteConcert(ctx, companyID, concert.ID)
	assert.ErrorIs(t, err, ErrConcertHasReservations)

	counter.active = 0
	require.NoError(t, svc.DeleteConcert(ctx, companyID, concert.ID))
	_, err = concerts.FindByID(ctx, concert.ID)
	assert.ErrorIs(t, err, repository.ErrConcertNotFound)
}

func TestBlockSeatOwnership(t *testing.T) {
	svc, _, seats, _ := newConcertFixture()
	ctx := context.Background()

	concert, err := svc.CreateConcert(ctx, companyID, 1, ConcertInput{Name: "x"}, "S", 100)
	require.NoError(t, err)

	err = svc.BlockSeat(ctx, companyID+1, concert.ID, 3, false)
	assert.ErrorIs(t, err, ErrNotOwner)

	require.NoError(t, svc.BlockSeat(ctx, companyID, concert.ID, 3, false))
	assert.Equal(t, false, seats.reservable[3])
}

func TestCreateAuditoriumValidatesBounds(t *testing.T) {
	svc, _, _, _ := newConcertFixture()
	err := svc.CreateAuditorium(context.Background(), companyID, &model.Auditorium{
		Name: "bad", MaxHorizontal: "5", MaxVertical: "2",
	})
	assert.Error(t, err)
}
