package model

import "time"

// Reservation statuses. A seat counts as taken only while an ACTIVE
// reservation references it; cancelled rows are kept for audit.
const (
	ReservationActive    = "ACTIVE"
	ReservationCancelled = "CANCELLED"
)

// Reservation records that a user holds one seat for one concert.
// The ledger enforces that at most one ACTIVE reservation exists per
// (concert, seat) pair at any instant; the claim store independently
// guards the same invariant on the fast path. A reservation is never
// re-pointed at a different seat.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – user who made the reservation.
//  ConcertID – concert being reserved.
//  SeatID    – seat that has been reserved.
//  Status    – ACTIVE or CANCELLED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Reservation struct {
	ID        uint64    // reservations.id
	UserID    uint64    // reservations.user_id
	ConcertID uint64    // reservations.concert_id
	SeatID    uint64    // reservations.seat_id
	Status    string    // reservations.status
	CreatedAt time.Time // reservations.created_at
	UpdatedAt time.Time // reservations.updated_at
}
