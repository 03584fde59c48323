package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-solo/testing/suite"
)

type keyValueStore interface {
	GetJSON(ctx context.Context, key string, dst any) error
	SetJSON(ctx context.Context, key string, value any) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStorage(t *testing.T) {
	testKeyValueStore(t, context.Background(), NewMemoryStorage())
}

func TestRedisStorage(t *testing.T) {
	ctx, st := suite.New(t)

	testKeyValueStore(t, ctx, NewRedisStorageFromClient(st.Client, suite.KeyPrefix))
}

func TestRedisStorage_ClearKeepsForeignKeys(t *testing.T) {
	ctx, st := suite.New(t)

	store := NewRedisStorageFromClient(st.Client, suite.KeyPrefix)

	// Given: one key under the prefix and one written by someone else
	require.NoError(t, store.SetJSON(ctx, "mine", record{Name: "a"}))
	require.NoError(t, st.Client.Set(ctx, "other:key", "1", 0).Err())

	// When: clearing the storage
	require.NoError(t, store.Clear(ctx))

	// Then: only the prefixed key is gone
	err := store.GetJSON(ctx, "mine", &record{})
	require.ErrorIs(t, err, ErrNotFound)

	value, err := st.Client.Get(ctx, "other:key").Result()
	require.NoError(t, err)
	assert.Equal(t, "1", value)
}

func testKeyValueStore(t *testing.T, ctx context.Context, store keyValueStore) {
	t.Helper()

	t.Run("SetJSON then GetJSON returns the value", func(t *testing.T) {
		// Given: a stored record
		require.NoError(t, store.SetJSON(ctx, "record", record{Name: "X", Count: 3}))

		// When: reading it back
		var got record
		err := store.GetJSON(ctx, "record", &got)

		// Then: the same record is returned
		require.NoError(t, err)
		assert.Equal(t, record{Name: "X", Count: 3}, got)
	})

	t.Run("SetJSON overwrites", func(t *testing.T) {
		require.NoError(t, store.SetJSON(ctx, "record", record{Name: "X", Count: 1}))
		require.NoError(t, store.SetJSON(ctx, "record", record{Name: "O", Count: 2}))

		var got record
		require.NoError(t, store.GetJSON(ctx, "record", &got))
		assert.Equal(t, record{Name: "O", Count: 2}, got)
	})

	t.Run("GetJSON on a missing key returns ErrNotFound", func(t *testing.T) {
		// When: reading a key that was never written
		err := store.GetJSON(ctx, "missing", &record{})

		// Then: ErrNotFound is returned
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Remove deletes the key", func(t *testing.T) {
		// Given: a stored record
		require.NoError(t, store.SetJSON(ctx, "removable", record{Name: "X"}))

		// When: removing it
		require.NoError(t, store.Remove(ctx, "removable"))

		// Then: it can no longer be read
		require.ErrorIs(t, store.GetJSON(ctx, "removable", &record{}), ErrNotFound)
	})

	t.Run("Remove on a missing key is not an error", func(t *testing.T) {
		require.NoError(t, store.Remove(ctx, "never-written"))
	})

	t.Run("Clear removes every key", func(t *testing.T) {
		// Given: two stored records
		require.NoError(t, store.SetJSON(ctx, "first", record{Name: "X"}))
		require.NoError(t, store.SetJSON(ctx, "second", record{Name: "O"}))

		// When: clearing the storage
		require.NoError(t, store.Clear(ctx))

		// Then: both are gone
		require.ErrorIs(t, store.GetJSON(ctx, "first", &record{}), ErrNotFound)
		require.ErrorIs(t, store.GetJSON(ctx, "second", &record{}), ErrNotFound)
	})
}

func TestNewRedisStorage(t *testing.T) {
	t.Run("Connects and pings", func(t *testing.T) {
		ctx, st := suite.New(t)

		store, err := NewRedisStorage(ctx, st.Addr, suite.KeyPrefix)
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })

		require.NoError(t, store.SetJSON(ctx, "ping", record{Name: "pong"}))

		exists, err := st.Client.Exists(ctx, suite.KeyPrefix+"ping").Result()
		require.NoError(t, err)
		assert.Equal(t, int64(1), exists)
	})

	t.Run("Fails on an unreachable server", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_, err := NewRedisStorage(ctx, "127.0.0.1:1", suite.KeyPrefix)

		require.Error(t, err)
	})
}
