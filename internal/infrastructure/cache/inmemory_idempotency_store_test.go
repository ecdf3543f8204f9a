package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	t.Run("first mark succeeds, second is rejected", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		fresh, err := store.MarkProcessed(context.Background(), "payments:doc-1:key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = store.MarkProcessed(context.Background(), "payments:doc-1:key-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("different keys do not collide", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		fresh, err := store.MarkProcessed(context.Background(), "payments:doc-1:key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = store.MarkProcessed(context.Background(), "payments:doc-1:key-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("expired key can be marked again", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()

		fresh, err := store.MarkProcessed(context.Background(), "payments:doc-2:key-1", time.Millisecond)
		require.NoError(t, err)
		assert.True(t, fresh)

		time.Sleep(5 * time.Millisecond)

		fresh, err = store.MarkProcessed(context.Background(), "payments:doc-2:key-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, fresh)
	})
}

func TestInMemoryIdempotencyStore_IsProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()

	processed, err := store.IsProcessed(context.Background(), "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, err = store.MarkProcessed(context.Background(), "known", time.Hour)
	require.NoError(t, err)

	processed, err = store.IsProcessed(context.Background(), "known")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_Close(t *testing.T) {
	store := NewInMemoryIdempotencyStore()

	require.NoError(t, store.Close())
	// Close is idempotent
	require.NoError(t, store.Close())
}
