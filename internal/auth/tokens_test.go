package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewTokenStore(rdb, nil), mr
}

func TestRefreshTokenSingleUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRefresh(ctx, "tok1", "u1", time.Hour))

	userID, err := store.ConsumeRefresh(ctx, "tok1")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	// A replay of the same token must fail.
	userID, err = store.ConsumeRefresh(ctx, "tok1")
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestConsumeUnknownRefresh(t *testing.T) {
	store, _ := newTestStore(t)
	userID, err := store.ConsumeRefresh(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestRevokeRefresh(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRefresh(ctx, "tok1", "u1", time.Hour))
	require.NoError(t, store.RevokeRefresh(ctx, "tok1"))

	userID, err := store.ConsumeRefresh(ctx, "tok1")
	require.NoError(t, err)
	assert.Empty(t, userID)

	// Revoking again is a no-op.
	require.NoError(t, store.RevokeRefresh(ctx, "tok1"))
}

func TestRefreshTokenExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRefresh(ctx, "tok1", "u1", time.Minute))
	mr.FastForward(2 * time.Minute)

	userID, err := store.ConsumeRefresh(ctx, "tok1")
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestResetTokenSingleUse(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveReset(ctx, "rst1", "u1", time.Hour))

	userID, err := store.ConsumeReset(ctx, "rst1")
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)

	userID, err = store.ConsumeReset(ctx, "rst1")
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestTokenNamespacesAreIndependent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRefresh(ctx, "tok", "u1", time.Hour))
	require.NoError(t, store.SaveReset(ctx, "tok", "u2", time.Hour))
	require.NoError(t, store.SaveVerify(ctx, "tok", "u3", time.Hour))

	refresh, err := store.ConsumeRefresh(ctx, "tok")
	require.NoError(t, err)
	reset, err := store.ConsumeReset(ctx, "tok")
	require.NoError(t, err)
	verify, err := store.ConsumeVerify(ctx, "tok")
	require.NoError(t, err)

	assert.Equal(t, "u1", refresh)
	assert.Equal(t, "u2", reset)
	assert.Equal(t, "u3", verify)
}

func TestNewOpaqueToken(t *testing.T) {
	a, err := NewOpaqueToken()
	require.NoError(t, err)
	b, err := NewOpaqueToken()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
