package lock

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireWinsWhenAbsent(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewClaimStore(rdb, 30*time.Second)

	mock.ExpectSetNX("claim:7:A:1", "1", 30*time.Second).SetVal(true)

	won, err := store.Acquire(context.Background(), 7, "A", "1")
	require.NoError(t, err)
	assert.True(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAcquireLosesWhenPresent(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewClaimStore(rdb, 30*time.Second)

	mock.ExpectSetNX("claim:7:A:1", "1", 30*time.Second).SetVal(false)

	won, err := store.Acquire(context.Background(), 7, "A", "1")
	require.NoError(t, err)
	assert.False(t, won)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmPersistsClaim(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewClaimStore(rdb, 30*time.Second)

	mock.ExpectPersist("claim:7:B:2").SetVal(true)

	require.NoError(t, store.Confirm(context.Background(), 7, "B", "2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseDeletesClaim(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewClaimStore(rdb, 30*time.Second)

	mock.ExpectDel("claim:7:A:1").SetVal(1)

	require.NoError(t, store.Release(context.Background(), 7, "A", "1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKeyEncodesCoordinate(t *testing.T) {
	store := NewClaimStore(nil, time.Second)
	assert.Equal(t, "claim:42:AA:10", store.key(42, "AA", "10"))
}
