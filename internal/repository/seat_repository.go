package repository // repository defines data access for the seat catalog

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons

	"github.com/hu6r1s/tickitecking/internal/model"
)

// SeatRepo provides read access to the seat catalog and bulk generation
// of seat grids when a concert is created.  Seat rows are immutable
// except for the reservable flag; reservation state never lives here.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// FindByCoordinate resolves a seat by its position within a concert's
// grid.  Returns ErrSeatNotFound when no seat exists at the coordinate.
func (r *SeatRepo) FindByCoordinate(ctx context.Context, concertID uint64, horizontal, vertical string) (*model.Seat, error) {
	const q = `SELECT id, concert_id, horizontal, vertical, grade, price_cents, reservable, created_at
	           FROM seats
	           WHERE concert_id = ? AND horizontal = ? AND vertical = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, concertID, horizontal, vertical).
		Scan(&s.ID, &s.ConcertID, &s.Horizontal, &s.Vertical, &s.Grade, &s.PriceCents, &s.Reservable, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByID resolves a seat by primary key.  Used on the cancel path to
// recover the coordinate whose claim token must be released.
func (r *SeatRepo) FindByID(ctx context.Context, id uint64) (*model.Seat, error) {
	const q = `SELECT id, concert_id, horizontal, vertical, grade, price_cents, reservable, created_at
	           FROM seats WHERE id = ?`
	var s model.Seat
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.ConcertID, &s.Horizontal, &s.Vertical, &s.Grade, &s.PriceCents, &s.Reservable, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSeatNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Capacity returns the seating bounds of the auditorium hosting the
// concert.  Returns ErrConcertNotFound when the concert is unknown.
func (r *SeatRepo) Capacity(ctx context.Context, concertID uint64) (model.Capacity, error) {
	const q = `SELECT a.max_horizontal, a.max_vertical
	           FROM concerts c
	           JOIN auditoriums a ON a.id = c.auditorium_id
	           WHERE c.id = ?`
	var cap model.Capacity
	err := r.db.QueryRowContext(ctx, q, concertID).Scan(&cap.MaxHorizontal, &cap.MaxVertical)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Capacity{}, ErrConcertNotFound
		}
		return model.Capacity{}, err
	}
	return cap, nil
}

// UnreservableCoordinates lists the coordinates of catalog seats whose
// reservable flag has been administratively cleared.  These are merged
// with active-reservation coordinates when rendering the seat map.
func (r *SeatRepo) UnreservableCoordinates(ctx context.Context, concertID uint64) ([]model.SeatCoordinate, error) {
	const q = `SELECT horizontal, vertical FROM seats
	           WHERE concert_id = ? AND reservable = FALSE
	           ORDER BY horizontal, vertical`
	rows, err := r.db.QueryContext(ctx, q, concertID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	coords := make([]model.SeatCoordinate, 0)
	for rows.Next() {
		var c model.SeatCoordinate
		if err := rows.Scan(&c.Horizontal, &c.Vertical); err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return coords, nil
}

// CreateBulk inserts multiple seats in a single statement.  Used when a
// concert is created to materialize the auditorium's grid.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (concert_id, horizontal, vertical, grade, price_cents, reservable) VALUES `
	args := make([]interface{}, 0, len(seats)*6)
	for i, s := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?)"
		args = append(args, s.ConcertID, s.Horizontal, s.Vertical, s.Grade, s.PriceCents, s.Reservable)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// SetReservable flips the administrative reservable flag of one seat.
// Returns ErrSeatNotFound when the seat does not exist.
func (r *SeatRepo) SetReservable(ctx context.Context, seatID uint64, reservable bool) error {
	const q = `UPDATE seats SET reservable = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, reservable, seatID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// RowsAffected is also 0 when the flag already holds the value;
		// re-check existence so idempotent updates do not report errors.
		var one int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM seats WHERE id = ?`, seatID).Scan(&one); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSeatNotFound
			}
			return err
		}
	}
	return nil
}
