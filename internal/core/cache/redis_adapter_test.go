package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) *RedisAdapter {
	t.Helper()
	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return adapter
}

func TestRedisAdapter_GetSet(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	key := "test_key"
	value := []byte("test_value")

	err := adapter.Set(ctx, key, value, 10*time.Second)
	assert.NoError(t, err)

	retrievedValue, err := adapter.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, value, retrievedValue)
}

func TestRedisAdapter_GetNotFound(t *testing.T) {
	adapter := newTestAdapter(t)

	_, err := adapter.Get(context.Background(), "non_existent_key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "key not found")
}

func TestRedisAdapter_Delete(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	key := "delete_test"
	err := adapter.Set(ctx, key, []byte("value"), 0)
	require.NoError(t, err)

	err = adapter.Delete(ctx, key)
	assert.NoError(t, err)

	_, err = adapter.Get(ctx, key)
	assert.Error(t, err)
}

func TestRedisAdapter_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	defer mr.Close()

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	defer adapter.Close()

	ctx := context.Background()

	key := "ttl_test"
	err = adapter.Set(ctx, key, []byte("expires_soon"), 1*time.Second)
	require.NoError(t, err)

	_, err = adapter.Get(ctx, key)
	assert.NoError(t, err)

	// Fast forward time in miniredis
	mr.FastForward(2 * time.Second)

	_, err = adapter.Get(ctx, key)
	assert.Error(t, err)
}

func TestRedisAdapter_PushToList(t *testing.T) {
	adapter := newTestAdapter(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		err := adapter.PushToList(ctx, "donations", []byte(fmt.Sprintf("entry-%d", i)), 3)
		require.NoError(t, err)
	}

	entries, err := adapter.ListRange(ctx, "donations", 0, -1)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first, trimmed to the cap.
	assert.Equal(t, []byte("entry-4"), entries[0])
	assert.Equal(t, []byte("entry-3"), entries[1])
	assert.Equal(t, []byte("entry-2"), entries[2])
}

func TestRedisAdapter_ListRange_MissingKey(t *testing.T) {
	adapter := newTestAdapter(t)

	entries, err := adapter.ListRange(context.Background(), "no_such_list", 0, -1)
	assert.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRedisAdapter_Ping(t *testing.T) {
	adapter := newTestAdapter(t)
	assert.NoError(t, adapter.Ping(context.Background()))
}

func TestRedisAdapter_InvalidURL(t *testing.T) {
	_, err := NewRedisAdapter("invalid://url")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse Redis URL")
}
