package securestore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dastanbekov/jumushtap1/internal/config"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := NewRedisStore(config.RedisConfig{
		Addr:      mr.Addr(),
		KeyPrefix: "test:session",
	}, "test-passphrase", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store, mr
}

func TestRedisStore_WriteReadRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Write(ctx, KeyAccessToken, "a1"))

	access, err := store.Read(ctx, KeyAccessToken)
	require.NoError(t, err)
	require.Equal(t, "a1", access)

	// Values at rest are sealed, not plaintext.
	raw, err := mr.Get("test:session:" + KeyAccessToken)
	require.NoError(t, err)
	require.NotContains(t, raw, "a1")
}

func TestRedisStore_ReadAbsentKey(t *testing.T) {
	store, _ := newRedisStore(t)

	_, err := store.Read(context.Background(), KeyUserType)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_DeleteAll(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)

	require.NoError(t, store.Write(ctx, KeyAccessToken, "a1"))
	require.NoError(t, store.Write(ctx, KeyRefreshToken, "r1"))
	require.NoError(t, store.Write(ctx, KeyUserType, "worker"))

	require.NoError(t, store.DeleteAll(ctx))

	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyUserType} {
		_, err := store.Read(ctx, key)
		require.ErrorIs(t, err, ErrNotFound)
	}
	// The salt survives so an existing passphrase still opens the store.
	require.True(t, mr.Exists("test:session:salt"))
}
