package model

import "time"

// Seat is a catalog fact: the position, grade and price of one seat
// for a concert. Seats are immutable once generated except for the
// Reservable flag, which is set administratively. Whether a seat is
// currently taken is never stored here; it is derived from the
// reservation ledger and the claim store.
//
// Fields:
//  ID         – primary key identifier.
//  ConcertID  – concert this seat belongs to.
//  Horizontal – row label within the grid (e.g. "A").
//  Vertical   – column label within the grid (e.g. "1").
//  Grade      – pricing class (e.g. S, A, B).
//  PriceCents – price in cents for this seat.
//  Reservable – administrative flag; false blocks all reservations.
//  CreatedAt  – creation timestamp.
type Seat struct {
	ID         uint64    // seats.id
	ConcertID  uint64    // seats.concert_id
	Horizontal string    // seats.horizontal
	Vertical   string    // seats.vertical
	Grade      string    // seats.grade
	PriceCents uint32    // seats.price_cents
	Reservable bool      // seats.reservable
	CreatedAt  time.Time // seats.created_at
}

// SeatCoordinate identifies a position in a concert's seating grid
// without carrying the rest of the seat record. The seat map and the
// claim store both work in terms of coordinates.
type SeatCoordinate struct {
	Horizontal string `json:"horizontal"`
	Vertical   string `json:"vertical"`
}

// Capacity holds the seating bounds of a concert's auditorium.
type Capacity struct {
	MaxHorizontal string `json:"max_horizontal"`
	MaxVertical   string `json:"max_vertical"`
}
