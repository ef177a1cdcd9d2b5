package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"github.com/hu6r1s/tickitecking/internal/model"
)

// mysqlDuplicateEntry is the server error number MySQL reports when an
// insert violates a unique index.
const mysqlDuplicateEntry = 1062

// ReservationRepo is the durable reservation ledger.  It is the source
// of truth for who holds which seat.  The schema carries a generated
// column that is the seat_id for ACTIVE rows and NULL otherwise, with a
// unique index over (concert_id, active_seat_id); this is the second,
// independent line of defense behind the Redis claim store, so a
// coordination failure alone can never double-book a seat.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// Insert writes a new ACTIVE reservation and populates ID and the
// timestamps on the provided record.  A uniqueness violation on the
// active-seat index is reported as ErrDuplicateReservation.
func (r *ReservationRepo) Insert(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (user_id, concert_id, seat_id, status) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.UserID, res.ConcertID, res.SeatID, res.Status)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrDuplicateReservation
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	const sel = `SELECT id, user_id, concert_id, seat_id, status, created_at, updated_at
	             FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(
		&res.ID, &res.UserID, &res.ConcertID, &res.SeatID, &res.Status,
		&res.CreatedAt, &res.UpdatedAt,
	)
}

// FindByID retrieves a reservation by primary key.  Returns
// ErrReservationNotFound when no row exists.
func (r *ReservationRepo) FindByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT id, user_id, concert_id, seat_id, status, created_at, updated_at
	           FROM reservations WHERE id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.UserID, &res.ConcertID, &res.SeatID, &res.Status,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// FindActiveCoordinates returns the grid coordinates of every seat with
// an ACTIVE reservation for the concert.  The seat map treats the
// ledger as authoritative for "taken"; in-flight claims are not
// consulted.
func (r *ReservationRepo) FindActiveCoordinates(ctx context.Context, concertID uint64) ([]model.SeatCoordinate, error) {
	const q = `SELECT s.horizontal, s.vertical
	           FROM reservations r
	           JOIN seats s ON s.id = r.seat_id
	           WHERE r.concert_id = ? AND r.status = ?
	           ORDER BY s.horizontal, s.vertical`
	rows, err := r.db.QueryContext(ctx, q, concertID, model.ReservationActive)
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

// MarkCancelled flips an ACTIVE reservation to CANCELLED.  The status
// predicate makes the operation idempotent at the ledger level: a row
// that is already cancelled (or absent) matches nothing and the caller
// receives ErrReservationNotFound.
func (r *ReservationRepo) MarkCancelled(ctx context.Context, id uint64) error {
	const q = `UPDATE reservations SET status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, model.ReservationCancelled, id, model.ReservationActive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// CountActiveByConcert reports how many ACTIVE reservations reference
// the concert.  Concert deletion is refused while this is non-zero.
func (r *ReservationRepo) CountActiveByConcert(ctx context.Context, concertID uint64) (int, error) {
	const q = `SELECT COUNT(*) FROM reservations WHERE concert_id = ? AND status = ?`
	var n int
	if err := r.db.QueryRowContext(ctx, q, concertID, model.ReservationActive).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListByUser returns all reservations of a user, newest first.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
	const q = `SELECT id, user_id, concert_id, seat_id, status, created_at, updated_at
	           FROM reservations
	           WHERE user_id = ?
	           ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Reservation, 0)
	for rows.Next() {
		var res model.Reservation
		if err := rows.Scan(
			&res.ID, &res.UserID, &res.ConcertID, &res.SeatID, &res.Status,
			&res.CreatedAt, &res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
