package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*miniredis.Miniredis, *LeaseStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, NewLeaseStore(client, 30*time.Minute)
}

func TestAcquireIsCreateOnly(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()

	ok, err := store.Acquire(ctx, 42)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 30*time.Minute, mr.TTL(OrderKey(42)))

	// a later acquire never resets the countdown
	mr.FastForward(10 * time.Minute)
	ok, err = store.Acquire(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 20*time.Minute, mr.TTL(OrderKey(42)))
}

func TestReleaseDropsLease(t *testing.T) {
	mr, store := newStore(t)
	ctx := context.Background()

	_, err := store.Acquire(ctx, 42)
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, 42))
	assert.False(t, mr.Exists(OrderKey(42)))

	// releasing an absent lease is fine
	assert.NoError(t, store.Release(ctx, 42))
}

func TestParseOrderKey(t *testing.T) {
	id, ok := ParseOrderKey("order:42")
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	for _, key := range []string{"session:42", "order:", "order:abc", "42"} {
		_, ok := ParseOrderKey(key)
		assert.False(t, ok, key)
	}
}
