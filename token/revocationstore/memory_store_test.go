package revocationstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reforged/reforged/token/revocationstore"
)

func TestMemoryStoreRevoke(t *testing.T) {
	store := revocationstore.NewMemoryStore()
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Hour))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryStoreDropsExpiredEntries(t *testing.T) {
	store := revocationstore.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "jti-stale", -time.Second))
	require.NoError(t, store.Revoke(ctx, "jti-live", time.Hour))
	assert.Equal(t, 2, store.Len())

	revoked, err := store.IsRevoked(ctx, "jti-stale")
	require.NoError(t, err)
	assert.False(t, revoked)

	// The lookup evicted the stale entry, only the live one remains.
	assert.Equal(t, 1, store.Len())

	revoked, err = store.IsRevoked(ctx, "jti-live")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 1, store.Len())
}
