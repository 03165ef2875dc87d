package booking

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storesUnderTest(t *testing.T) map[string]PendingStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return map[string]PendingStore{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client),
	}
}

func TestPendingStoreRoundTrip(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := Key("9", 42)

			got, err := store.Get(ctx, key)
			require.NoError(t, err)
			assert.Nil(t, got)

			record := &PendingBooking{
				Status:    StatusPending,
				CreatedAt: time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC),
				Details:   SchedulingDetails{CustomerName: "Ravi", ServiceType: "Office Relocation"},
			}
			require.NoError(t, store.Put(ctx, key, record))

			got, err = store.Get(ctx, key)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "Ravi", got.Details.CustomerName)
			assert.Equal(t, StatusPending, got.Status)

			require.NoError(t, store.Delete(ctx, key))
			got, err = store.Get(ctx, key)
			require.NoError(t, err)
			assert.Nil(t, got)

			// Deleting again must not fail.
			require.NoError(t, store.Delete(ctx, key))
		})
	}
}

func TestPendingStoreSweep(t *testing.T) {
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			cutoff := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

			stale := &PendingBooking{Status: StatusPending, CreatedAt: cutoff.Add(-2 * time.Hour)}
			fresh := &PendingBooking{Status: StatusPending, CreatedAt: cutoff.Add(time.Minute)}
			confirmed := &PendingBooking{Status: StatusConfirmed, CreatedAt: cutoff.Add(-2 * time.Hour)}

			require.NoError(t, store.Put(ctx, Key("1", 1), stale))
			require.NoError(t, store.Put(ctx, Key("1", 2), fresh))
			require.NoError(t, store.Put(ctx, Key("1", 3), confirmed))

			removed, err := store.DeletePendingOlderThan(ctx, cutoff)
			require.NoError(t, err)
			assert.Equal(t, 1, removed)

			got, err := store.Get(ctx, Key("1", 1))
			require.NoError(t, err)
			assert.Nil(t, got)

			got, err = store.Get(ctx, Key("1", 2))
			require.NoError(t, err)
			assert.NotNil(t, got)

			got, err = store.Get(ctx, Key("1", 3))
			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	key := Key("1", 5)

	record := &PendingBooking{Status: StatusPending, Details: SchedulingDetails{CustomerName: "Ravi"}}
	require.NoError(t, store.Put(ctx, key, record))
	record.Details.CustomerName = "mutated"

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", got.Details.CustomerName)

	got.Details.CustomerName = "also mutated"
	again, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Ravi", again.Details.CustomerName)
}
