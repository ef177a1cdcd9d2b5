// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published when a seat reservation reaches
// the ledger.  It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	UserID        uint64 `json:"user_id"`
	ConcertID     uint64 `json:"concert_id"`
	SeatID        uint64 `json:"seat_id"`
	Horizontal    string `json:"horizontal"`
	Vertical      string `json:"vertical"`
	Grade         string `json:"grade"`
	PriceCents    uint32 `json:"price_cents"`
	ConfirmedAt   string `json:"confirmed_at"`
}
