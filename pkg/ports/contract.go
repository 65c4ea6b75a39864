package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunCacheStoreContract runs a suite of tests to verify that a CacheStore
// implementation adheres to the defined interface contract.
func RunCacheStoreContract(t *testing.T, store CacheStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		err := store.Set(ctx, key, []byte(`{"title":"hello"}`))
		require.NoError(t, err, "Set should not return error")

		value, ok, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		require.True(t, ok, "Get should find the key just set")
		assert.Equal(t, []byte(`{"title":"hello"}`), value)
	})

	t.Run("Get Missing Key", func(t *testing.T) {
		value, ok, err := store.Get(ctx, "missing-"+key)
		require.NoError(t, err, "a missing key is not an error")
		assert.False(t, ok)
		assert.Nil(t, value)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte("v1")))
		require.NoError(t, store.Set(ctx, key, []byte("v2")))

		value, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("v2"), value)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte("doomed")))
		require.NoError(t, store.Delete(ctx, key))

		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, "Get after Delete should miss")

		// Deleting a missing key is a no-op, not an error.
		assert.NoError(t, store.Delete(ctx, "missing-"+key))
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key+"-1", []byte("a")))
		require.NoError(t, store.Set(ctx, key+"-2", []byte("b")))

		require.NoError(t, store.Clear(ctx))

		_, ok, err := store.Get(ctx, key+"-1")
		require.NoError(t, err)
		assert.False(t, ok)
		_, ok, err = store.Get(ctx, key+"-2")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
