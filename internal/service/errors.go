// Package service implements the reservation lifecycle, the seat map
// projection and concert management.  Failures that callers are
// expected to handle are exposed as sentinel errors; handlers map them
// 1:1 onto HTTP error codes and no internal detail crosses that
// boundary.
package service

import "errors"

// ErrSeatAlreadyClaimed reports that another request holds the claim on
// the coordinate.  Contention is expected and frequent under load; the
// service never retries internally, the human user re-selects a seat.
var ErrSeatAlreadyClaimed = errors.New("seat already claimed")

// ErrSeatNotFound reports that no catalog seat exists at the coordinate.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatNotReservable reports that the seat's administrative
// reservable flag is cleared.
var ErrSeatNotReservable = errors.New("seat not reservable")

// ErrReservationConflict reports that the ledger's uniqueness constraint
// rejected the write.  Rare when the claim store is healthy, but it is
// the second line of defense and is handled, not treated as fatal.
var ErrReservationConflict = errors.New("reservation conflict")

// ErrReservationNotFound reports an unknown or already-cancelled
// reservation.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrNotOwner reports that the caller does not own the resource.  No
// information about the actual owner is leaked.
var ErrNotOwner = errors.New("not owner")

// ErrConcertNotFound reports an unknown concert identifier.
var ErrConcertNotFound = errors.New("concert not found")

// ErrAuditoriumNotFound reports an unknown auditorium identifier.
var ErrAuditoriumNotFound = errors.New("auditorium not found")

// ErrConcertHasReservations blocks deletion of a concert while active
// reservations reference it.
var ErrConcertHasReservations = errors.New("concert has active reservations")

// ErrStoreUnavailable wraps connectivity failures of the claim store or
// the ledger.  These are fatal to the individual request and surface as
// a service-unavailable class at the boundary.
var ErrStoreUnavailable = errors.New("store unavailable")
