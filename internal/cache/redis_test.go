package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/painel/internal/model"
)

func newTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	s := NewRedisStore(RedisConfig{Addr: srv.Addr()})
	t.Cleanup(func() { _ = s.Close() })
	return s, srv
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestRedis(t)

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.Set(ctx, KeySnapshot, []byte(`{"timestamp":1}`)))

	// stored compressed under the prefixed key
	assert.True(t, srv.Exists("painel:dashboard_data_cache"))
	raw, err := srv.Get("painel:dashboard_data_cache")
	require.NoError(t, err)
	assert.NotEqual(t, `{"timestamp":1}`, raw)

	v, found, err := s.Get(ctx, KeySnapshot)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `{"timestamp":1}`, string(v))
}

func TestRedisStore_Missing(t *testing.T) {
	s, _ := newTestRedis(t)

	v, found, err := s.Get(context.Background(), KeySyncedBefore)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, v)
}

func TestRedisStore_Delete(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestRedis(t)

	require.NoError(t, s.Set(ctx, KeySyncedBefore, []byte("true")))
	require.NoError(t, s.Delete(ctx, KeySyncedBefore))
	assert.False(t, srv.Exists("painel:has_synced_before"))
	assert.NoError(t, s.Delete(ctx, KeySyncedBefore))
}

func TestRedisStore_GarbageValue(t *testing.T) {
	s, srv := newTestRedis(t)
	require.NoError(t, srv.Set("painel:dashboard_data_cache", "not gzip"))

	_, _, err := s.Get(context.Background(), KeySnapshot)
	assert.ErrorIs(t, err, model.ErrCacheCorrupt)
}

func TestSnapshotCache_GarbageRedisValueIsCorrupt(t *testing.T) {
	ctx := context.Background()
	s, srv := newTestRedis(t)
	c := NewSnapshotCache(s, time.Hour)
	require.NoError(t, srv.Set("painel:dashboard_data_cache", "not gzip"))

	info, err := c.Inspect(ctx)
	require.NoError(t, err)
	assert.True(t, info.Present)
	assert.True(t, info.Corrupt)

	_, err = c.Load(ctx)
	assert.ErrorIs(t, err, model.ErrCacheCorrupt)
}

func TestRedisStore_ServerDown(t *testing.T) {
	s, srv := newTestRedis(t)
	srv.Close()

	_, _, err := s.Get(context.Background(), KeySnapshot)
	assert.Error(t, err)
	assert.Error(t, s.Ping(context.Background()))
}
