package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/session"
)

func newTestCache(t *testing.T) (*session.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return session.NewCache(client, 24*time.Hour), mr
}

func TestSnapshotRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	got, err := cache.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got, "miss before Set")

	snap := session.Snapshot{Role: domain.RoleTAS, Status: domain.StatusVerified}
	require.NoError(t, cache.Set(ctx, "user-1", snap))

	got, err = cache.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap, *got)
}

func TestSnapshotInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "user-1", session.Snapshot{
		Role:   domain.RoleTAS,
		Status: domain.StatusPending,
	}))
	require.NoError(t, cache.Invalidate(ctx, "user-1"))

	got, err := cache.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSnapshotExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "user-1", session.Snapshot{
		Role:   domain.RoleTAS,
		Status: domain.StatusVerified,
	}))

	mr.FastForward(session.SnapshotTTL + time.Second)

	got, err := cache.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRevocationWatermark(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	now := time.Now()

	revoked, err := cache.Revoked(ctx, "user-1", now)
	require.NoError(t, err)
	assert.False(t, revoked, "no watermark yet")

	require.NoError(t, cache.Revoke(ctx, "user-1", now))

	// Token issued before the watermark is dead.
	revoked, err = cache.Revoked(ctx, "user-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, revoked)

	// A token issued after a fresh login is still good.
	revoked, err = cache.Revoked(ctx, "user-1", now.Add(time.Minute))
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCacheUnavailable(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	_, err := cache.Get(ctx, "user-1")
	assert.ErrorIs(t, err, session.ErrUnavailable)

	_, err = cache.Revoked(ctx, "user-1", time.Now())
	assert.ErrorIs(t, err, session.ErrUnavailable)
}
