// Package lock implements the seat claim store, the mutual-exclusion
// primitive behind concurrent reservation attempts.  A claim is a Redis
// key derived from a (concert, coordinate) triple; SET NX creates it in
// a single indivisible round trip, so for any set of concurrent
// acquires exactly one caller observes "absent" and wins.  No process
// ever emulates this with separate read and write steps.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// claimed is the sentinel value stored under a claim key.  Existence of
// the key is what matters; the value is only useful when inspecting
// Redis by hand.
const claimed = "1"

// ClaimStore coordinates seat claims through Redis.  An acquired claim
// carries a TTL so that a holder that dies before confirming cannot
// strand the coordinate; Confirm removes the TTL once the reservation
// is durable, and Release deletes the key when it is cancelled or the
// reserve flow rolls back.
type ClaimStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewClaimStore builds a ClaimStore.  ttl bounds the lifetime of
// unconfirmed claims and must exceed the worst-case reserve flow
// (catalog lookup plus ledger write) with margin.
func NewClaimStore(rdb *redis.Client, ttl time.Duration) *ClaimStore {
	return &ClaimStore{rdb: rdb, prefix: "claim", ttl: ttl}
}

func (s *ClaimStore) key(concertID uint64, horizontal, vertical string) string {
	return fmt.Sprintf("%s:%d:%s:%s", s.prefix, concertID, horizontal, vertical)
}

// Acquire attempts an atomic create-if-absent claim on the coordinate.
// It returns true when this caller won the claim and false when the key
// already existed.  Errors indicate the store is unreachable, never
// contention.
func (s *ClaimStore) Acquire(ctx context.Context, concertID uint64, horizontal, vertical string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, s.key(concertID, horizontal, vertical), claimed, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("claim acquire: %w", err)
	}
	return ok, nil
}

// Confirm strips the TTL from a held claim so it lives for the lifetime
// of the active reservation.  If this fails the TTL simply runs out and
// the ledger's uniqueness constraint remains the backstop, so callers
// may treat the error as non-fatal.
func (s *ClaimStore) Confirm(ctx context.Context, concertID uint64, horizontal, vertical string) error {
	if err := s.rdb.Persist(ctx, s.key(concertID, horizontal, vertical)).Err(); err != nil {
		return fmt.Errorf("claim confirm: %w", err)
	}
	return nil
}

// Release deletes the claim key, making the coordinate claimable again.
// Deleting an absent key is a no-op, so Release is safe to call on the
// rollback path even when the claim has already expired.
func (s *ClaimStore) Release(ctx context.Context, concertID uint64, horizontal, vertical string) error {
	if err := s.rdb.Del(ctx, s.key(concertID, horizontal, vertical)).Err(); err != nil {
		return fmt.Errorf("claim release: %w", err)
	}
	return nil
}
