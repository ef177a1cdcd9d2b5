// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// services to distinguish between different failure scenarios without
// inspecting driver-specific errors. ErrDuplicateReservation in
// particular is the ledger-level safety net behind the claim store: it
// surfaces the MySQL uniqueness violation on active (concert, seat)
// pairs as a typed error the service can convert into a conflict.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat lookup yields no rows.
var ErrSeatNotFound = errors.New("seat not found")

// ErrConcertNotFound is returned when a concert lookup yields no rows.
var ErrConcertNotFound = errors.New("concert not found")

// ErrAuditoriumNotFound is returned when an auditorium lookup yields no rows.
var ErrAuditoriumNotFound = errors.New("auditorium not found")

// ErrReservationNotFound is returned when a reservation lookup yields no
// rows, or when MarkCancelled matches no ACTIVE row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrDuplicateReservation is returned by Insert when the unique index on
// active (concert_id, seat_id) rejects a second ACTIVE reservation for
// the same seat.
var ErrDuplicateReservation = errors.New("duplicate active reservation")

// ErrEmailExists is returned when registering a user with a taken email.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a concert that still
// has active reservations. Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")
