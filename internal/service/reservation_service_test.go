package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hu6r1s/tickitecking/internal/model"
	"github.com/hu6r1s/tickitecking/internal/queue"
	"github.com/hu6r1s/tickitecking/internal/repository"
)

// fakeClaimer mimics the Redis claim store: an atomic create-if-absent
// map with a TTL that tests can expire by hand.
type fakeClaimer struct {
	mu      sync.Mutex
	held    map[string]time.Time // key -> expiry; zero time = confirmed, never expires
	acquire error                // injected Acquire failure
	ttl     time.Duration
}

func newFakeClaimer() *fakeClaimer {
	return &fakeClaimer{held: make(map[string]time.Time), ttl: time.Minute}
}

func claimKey(concertID uint64, h, v string) string {
	return fmt.Sprintf("%d:%s:%s", concertID, h, v)
}

func (f *fakeClaimer) Acquire(_ context.Context, concertID uint64, h, v string) (bool, error) {
	if f.acquire != nil {
		return false, f.acquire
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := claimKey(concertID, h, v)
	if exp, ok := f.held[key]; ok {
		if exp.IsZero() || time.Now().Before(exp) {
			return false, nil
		}
		// expired, fall through and re-claim
	}
	f.held[key] = time.Now().Add(f.ttl)
	return true, nil
}

func (f *fakeClaimer) Confirm(_ context.Context, concertID uint64, h, v string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.held[claimKey(concertID, h, v)] = time.Time{}
	return nil
}

func (f *fakeClaimer) Release(_ context.Context, concertID uint64, h, v string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.held, claimKey(concertID, h, v))
	return nil
}

func (f *fakeClaimer) holds(concertID uint64, h, v string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.held[claimKey(concertID, h, v)]
	return ok
}

// expire pretends the TTL of every unconfirmed claim has elapsed.
func (f *fakeClaimer) expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, exp := range f.held {
		if !exp.IsZero() {
			f.held[k] = time.Now().Add(-time.Second)
		}
	}
}

// fakeCatalog serves seats from an in-memory grid.
type fakeCatalog struct {
	byCoord map[string]*model.Seat
	byID    map[uint64]*model.Seat
	cap     model.Capacity
}

func newFakeCatalog(concertID uint64, rows []string, cols []string) *fakeCatalog {
	c := &fakeCatalog{
		byCoord: make(map[string]*model.Seat),
		byID:    make(map[uint64]*model.Seat),
		cap:     model.Capacity{MaxHorizontal: rows[len(rows)-1], MaxVertical: cols[len(cols)-1]},
	}
	var id uint64
	for _, h := range rows {
		for _, v := range cols {
			id++
			s := &model.Seat{ID: id, ConcertID: concertID, Horizontal: h, Vertical: v, Grade: "S", PriceCents: 5000, Reservable: true}
			c.byCoord[h+":"+v] = s
			c.byID[id] = s
		}
	}
	return c
}

func (c *fakeCatalog) FindByCoordinate(_ context.Context, _ uint64, h, v string) (*model.Seat, error) {
	s, ok := c.byCoord[h+":"+v]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	return s, nil
}

func (c *fakeCatalog) FindByID(_ context.Context, id uint64) (*model.Seat, error) {
	s, ok := c.byID[id]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	return s, nil
}

func (c *fakeCatalog) Capacity(_ context.Context, _ uint64) (model.Capacity, error) {
	return c.cap, nil
}

func (c *fakeCatalog) UnreservableCoordinates(_ context.Context, _ uint64) ([]model.SeatCoordinate, error) {
	out := make([]model.SeatCoordinate, 0)
	for _, s := range c.byID {
		if !s.Reservable {
			out = append(out, model.SeatCoordinate{Horizontal: s.Horizontal, Vertical: s.Vertical})
		}
	}
	return out, nil
}

// fakeLedger enforces the uniqueness invariant the way the MySQL schema
// does: at most one ACTIVE row per (concert, seat).
type fakeLedger struct {
	mu      sync.Mutex
	nextID  uint64
	byID    map[uint64]*model.Reservation
	active  map[string]uint64 // concert:seat -> reservation id
	catalog *fakeCatalog
	insert  error // injected Insert failure
}

func newFakeLedger(catalog *fakeCatalog) *fakeLedger {
	return &fakeLedger{byID: make(map[uint64]*model.Reservation), active: make(map[string]uint64), catalog: catalog}
}

func (l *fakeLedger) Insert(_ context.Context, res *model.Reservation) error {
	if l.insert != nil {
		return l.insert
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	key := fmt.Sprintf("%d:%d", res.ConcertID, res.SeatID)
	if _, ok := l.active[key]; ok {
		return repository.ErrDuplicateReservation
	}
	l.nextID++
	res.ID = l.nextID
	res.CreatedAt = time.Now().UTC()
	cp := *res
	l.byID[res.ID] = &cp
	l.active[key] = res.ID
	return nil
}

func (l *fakeLedger) FindByID(_ context.Context, id uint64) (*model.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	res, ok := l.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *res
	return &cp, nil
}

func (l *fakeLedger) FindActiveCoordinates(_ context.Context, concertID uint64) ([]model.SeatCoordinate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.SeatCoordinate, 0)
	for _, id := range l.active {
		res := l.byID[id]
		if res.ConcertID != concertID {
			continue
		}
		seat := l.catalog.byID[res.SeatID]
		out = append(out, model.SeatCoordinate{Horizontal: seat.Horizontal, Vertical: seat.Vertical})
	}
	return out, nil
}

func (l *fakeLedger) ListByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.Reservation, 0)
	for _, res := range l.byID {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (l *fakeLedger) MarkCancelled(_ context.Context, id uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	res, ok := l.byID[id]
	if !ok || res.Status != model.ReservationActive {
		return repository.ErrReservationNotFound
	}
	res.Status = model.ReservationCancelled
	delete(l.active, fmt.Sprintf("%d:%d", res.ConcertID, res.SeatID))
	return nil
}

type fakeConcerts struct {
	byID map[uint64]*model.Concert
}

func (f *fakeConcerts) FindByID(_ context.Context, id uint64) (*model.Concert, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrConcertNotFound
	}
	return c, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []queue.ReservationConfirmedEvent
}

func (p *recordingPublisher) PublishReservationConfirmed(_ context.Context, ev queue.ReservationConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

const concertID = 7

func newTestService() (*ReservationService, *fakeClaimer, *fakeCatalog, *fakeLedger, *recordingPublisher) {
	claimer := newFakeClaimer()
	catalog := newFakeCatalog(concertID, []string{"A", "B"}, []string{"1", "2"})
	ledger := newFakeLedger(catalog)
	concerts := &fakeConcerts{byID: map[uint64]*model.Concert{concertID: {ID: concertID}}}
	pub := &recordingPublisher{}
	svc := NewReservationService(claimer, catalog, ledger, concerts, pub)
	return svc, claimer, catalog, ledger, pub
}

func TestReserveMutualExclusion(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	const attempts = 32
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(user uint64) {
			defer wg.Done()
			_, err := svc.Reserve(ctx, user, concertID, "A", "1")
			results <- err
		}(uint64(i + 1))
	}
	wg.Wait()
	close(results)

	var wins, losses int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, ErrSeatAlreadyClaimed), errors.Is(err, ErrReservationConflict):
			losses++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, attempts-1, losses)
}

func TestReserveSuccessKeepsClaim(t *testing.T) {
	svc, claimer, _, _, pub := newTestService()
	ctx := context.Background()

	res, err := svc.Reserve(ctx, 1, concertID, "A", "1")
	require.NoError(t, err)
	assert.Equal(t, model.ReservationActive, res.Status)
	assert.True(t, claimer.holds(concertID, "A", "1"))

	// The coordinate stays locked for the reservation's lifetime.
	_, err = svc.Reserve(ctx, 2, concertID, "A", "1")
	assert.ErrorIs(t, err, ErrSeatAlreadyClaimed)

	require.Len(t, pub.events, 1)
	assert.Equal(t, res.ID, pub.events[0].ReservationID)
	assert.Equal(t, "A", pub.events[0].Horizontal)
}

func TestReserveUnknownSeatReleasesClaim(t *testing.T) {
	svc, claimer, _, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Reserve(ctx, 1, concertID, "Z", "9")
	assert.ErrorIs(t, err, ErrSeatNotFound)
	assert.False(t, claimer.holds(concertID, "Z", "9"))
}

func TestReserveBlockedSeatReleasesClaim(t *testing.T) {
	svc, claimer, catalog, _, _ := newTestService()
	ctx := context.Background()
	catalog.byCoord["A:1"].Reservable = false

	_, err := svc.Reserve(ctx, 1, concertID, "A", "1")
	assert.ErrorIs(t, err, ErrSeatNotReservable)
	assert.False(t, claimer.holds(concertID, "A", "1"))
}

func TestReserveLedgerConflictReleasesClaim(t *testing.T) {
	svc, claimer, catalog, ledger, _ := newTestService()
	ctx := context.Background()

	// An active reservation exists in the ledger without a claim token,
	// as after a claim-store flush.  The uniqueness constraint must
	// still prevent the double booking.
	seat := catalog.byCoord["A:1"]
	require.NoError(t, ledger.Insert(ctx, &model.Reservation{
		UserID: 1, ConcertID: concertID, SeatID: seat.ID, Status: model.ReservationActive,
	}))

	_, err := svc.Reserve(ctx, 2, concertID, "A", "1")
	assert.ErrorIs(t, err, ErrReservationConflict)
	assert.False(t, claimer.holds(concertID, "A", "1"))
}

func TestReserveClaimStoreDown(t *testing.T) {
	svc, claimer, _, _, _ := newTestService()
	claimer.acquire = errors.New("connection refused")

	_, err := svc.Reserve(context.Background(), 1, concertID, "A", "1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestExpiredClaimIsReclaimable(t *testing.T) {
	svc, claimer, _, _, _ := newTestService()
	ctx := context.Background()

	// Simulate a crashed request: claim acquired, never confirmed.
	won, err := claimer.Acquire(ctx, concertID, "B", "2")
	require.NoError(t, err)
	require.True(t, won)

	_, err = svc.Reserve(ctx, 1, concertID, "B", "2")
	assert.ErrorIs(t, err, ErrSeatAlreadyClaimed)

	claimer.expire()

	res, err := svc.Reserve(ctx, 1, concertID, "B", "2")
	require.NoError(t, err)
	assert.Equal(t, model.ReservationActive, res.Status)
}

func TestCancelFreesCoordinate(t *testing.T) {
	svc, claimer, _, _, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Reserve(ctx, 1, concertID, "A", "1")
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, 1, res.ID))
	assert.False(t, claimer.holds(concertID, "A", "1"))

	// A different user can now take the seat.
	res2, err := svc.Reserve(ctx, 2, concertID, "A", "1")
	require.NoError(t, err)
	assert.NotEqual(t, res.ID, res2.ID)
}

func TestCancelNotOwnerMutatesNothing(t *testing.T) {
	svc, claimer, _, ledger, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Reserve(ctx, 1, concertID, "A", "1")
	require.NoError(t, err)

	err = svc.Cancel(ctx, 99, res.ID)
	assert.ErrorIs(t, err, ErrNotOwner)

	got, err := ledger.FindByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationActive, got.Status)
	assert.True(t, claimer.holds(concertID, "A", "1"))
}

func TestCancelUnknownReservation(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	err := svc.Cancel(context.Background(), 1, 12345)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCancelTwice(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	res, err := svc.Reserve(ctx, 1, concertID, "A", "1")
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, 1, res.ID))

	err = svc.Cancel(ctx, 1, res.ID)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestMyReservationsIncludesCancelled(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	r1, err := svc.Reserve(ctx, 1, concertID, "A", "1")
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, 1, concertID, "A", "2")
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, 2, concertID, "B", "1")
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, 1, r1.ID))

	list, err := svc.MyReservations(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	statuses := []string{list[0].Status, list[1].Status}
	assert.ElementsMatch(t, []string{model.ReservationActive, model.ReservationCancelled}, statuses)
}

func TestSeatMapUnknownConcert(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	_, err := svc.SeatMap(context.Background(), 999)
	assert.ErrorIs(t, err, ErrConcertNotFound)
}

func TestSeatMapTracksReservationsAndCancellations(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	r1, err := svc.Reserve(ctx, 1, concertID, "A", "1")
	require.NoError(t, err)
	_, err = svc.Reserve(ctx, 2, concertID, "B", "2")
	require.NoError(t, err)

	view, err := svc.SeatMap(ctx, concertID)
	require.NoError(t, err)
	assert.Equal(t, "B", view.MaxHorizontal)
	assert.Equal(t, "2", view.MaxVertical)
	assert.ElementsMatch(t, []model.SeatCoordinate{
		{Horizontal: "A", Vertical: "1"},
		{Horizontal: "B", Vertical: "2"},
	}, view.UnreservableSeats)

	require.NoError(t, svc.Cancel(ctx, 1, r1.ID))

	view, err = svc.SeatMap(ctx, concertID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.SeatCoordinate{
		{Horizontal: "B", Vertical: "2"},
	}, view.UnreservableSeats)
}

func TestSeatMapIncludesBlockedSeatsOnce(t *testing.T) {
	svc, _, catalog, _, _ := newTestService()
	ctx := context.Background()

	// (A,2) is blocked administratively; (A,1) is both reserved and
	// blocked and must appear exactly once.
	catalog.byCoord["A:2"].Reservable = false
	_, err := svc.Reserve(ctx, 1, concertID, "A", "1")
	require.NoError(t, err)
	catalog.byCoord["A:1"].Reservable = false

	view, err := svc.SeatMap(ctx, concertID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.SeatCoordinate{
		{Horizontal: "A", Vertical: "1"},
		{Horizontal: "A", Vertical: "2"},
	}, view.UnreservableSeats)
}

func TestTwoUsersRaceScenario(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	ctx := context.Background()

	type outcome struct {
		res *model.Reservation
		err error
	}
	results := make(chan outcome, 2)
	var wg sync.WaitGroup
	for _, user := range []uint64{1, 2} {
		wg.Add(1)
		go func(u uint64) {
			defer wg.Done()
			r, err := svc.Reserve(ctx, u, concertID, "A", "1")
			results <- outcome{r, err}
		}(user)
	}
	wg.Wait()
	close(results)

	var winner *model.Reservation
	var loserErr error
	for o := range results {
		if o.err == nil {
			require.Nil(t, winner, "both attempts succeeded")
			winner = o.res
		} else {
			loserErr = o.err
		}
	}
	require.NotNil(t, winner)
	assert.ErrorIs(t, loserErr, ErrSeatAlreadyClaimed)

	view, err := svc.SeatMap(ctx, concertID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.SeatCoordinate{
		{Horizontal: "A", Vertical: "1"},
	}, view.UnreservableSeats)
}
