package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dm/painel/internal/cache/mocks"
	"github.com/dm/painel/internal/client"
	"github.com/dm/painel/internal/model"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(t *testing.T) (*SnapshotCache, *FileStore, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)}
	store := NewFileStoreFS(memfs.New())
	return NewSnapshotCache(store, 24*time.Hour, WithClock(clock.Now)), store, clock
}

func testSnapshot() *model.Snapshot {
	ano := 2020
	return &model.Snapshot{
		Timestamp: time.Date(2024, 5, 10, 7, 59, 0, 0, time.UTC),
		Datasets: map[model.DatasetName][]json.RawMessage{
			model.ObitosRaca: {json.RawMessage(`{"raca_desc":"Parda","total_obitos":10}`)},
		},
		Period: client.Period{AnoInicio: &ano},
	}
}

func TestSnapshotCache_EmptyIsMiss(t *testing.T) {
	c, _, _ := newTestCache(t)

	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, model.ErrCacheMiss)
}

func TestSnapshotCache_SaveLoad(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)

	require.NoError(t, c.Save(ctx, testSnapshot()))
	snap, err := c.Load(ctx)
	require.NoError(t, err)

	assert.Len(t, snap.Records(model.ObitosRaca), 1)
	require.NotNil(t, snap.Period.AnoInicio)
	assert.Equal(t, 2020, *snap.Period.AnoInicio)
	assert.Nil(t, snap.Period.AnoFim)
	// every catalog dataset present after load
	for _, spec := range model.Catalog {
		assert.NotNil(t, snap.Datasets[spec.Name], spec.Name)
	}
}

func TestSnapshotCache_Staleness(t *testing.T) {
	ctx := context.Background()
	c, _, clock := newTestCache(t)
	require.NoError(t, c.Save(ctx, testSnapshot()))

	clock.Advance(24*time.Hour - time.Millisecond)
	_, err := c.Load(ctx)
	require.NoError(t, err, "just under max age is fresh")

	clock.Advance(time.Millisecond)
	_, err = c.Load(ctx)
	assert.ErrorIs(t, err, model.ErrCacheMiss, "exactly max age is stale")

	clock.Advance(time.Hour)
	_, err = c.Load(ctx)
	assert.ErrorIs(t, err, model.ErrCacheMiss)
}

func TestSnapshotCache_EnvelopeShape(t *testing.T) {
	ctx := context.Background()
	c, store, clock := newTestCache(t)
	require.NoError(t, c.Save(ctx, testSnapshot()))

	raw, found, err := store.Get(ctx, KeySnapshot)
	require.NoError(t, err)
	require.True(t, found)

	var entry model.CacheEntry
	require.NoError(t, json.Unmarshal(raw, &entry))
	assert.Equal(t, clock.Now().UnixMilli(), entry.Timestamp)
	assert.Equal(t, checksum(entry.Data), entry.Checksum)
	assert.Len(t, entry.Checksum, 16)
}

func TestSnapshotCache_CorruptEntries(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"missing data", `{"timestamp":` + jsonInt(now.UnixMilli()) + `}`},
		{"missing timestamp", `{"data":{"datasets":{}}}`},
		{"bad checksum", `{"timestamp":` + jsonInt(now.UnixMilli()) + `,"data":{"datasets":{}},"checksum":"deadbeefdeadbeef"}`},
		{"data not an object", `{"timestamp":` + jsonInt(now.UnixMilli()) + `,"data":[1,2]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store, _ := newTestCache(t)
			require.NoError(t, store.Set(ctx, KeySnapshot, []byte(tt.raw)))

			_, err := c.Load(ctx)
			assert.ErrorIs(t, err, model.ErrCacheCorrupt)
		})
	}
}

func TestSnapshotCache_AcceptsEntryWithoutChecksum(t *testing.T) {
	ctx := context.Background()
	c, store, clock := newTestCache(t)

	raw := `{"timestamp":` + jsonInt(clock.Now().Add(-time.Hour).UnixMilli()) +
		`,"data":{"timestamp":"2024-05-10T07:00:00Z","datasets":{"obitosLocal":[{"x":1}]},"periodoDados":{}}}`
	require.NoError(t, store.Set(ctx, KeySnapshot, []byte(raw)))

	snap, err := c.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Records(model.ObitosLocal), 1)
}

func TestSnapshotCache_SyncedFlag(t *testing.T) {
	ctx := context.Background()
	c, store, _ := newTestCache(t)

	synced, err := c.HasSynced(ctx)
	require.NoError(t, err)
	assert.False(t, synced)

	require.NoError(t, c.MarkSynced(ctx))
	synced, err = c.HasSynced(ctx)
	require.NoError(t, err)
	assert.True(t, synced)

	v, _, _ := store.Get(ctx, KeySyncedBefore)
	assert.Equal(t, "true", string(v))
}

func TestSnapshotCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, _, _ := newTestCache(t)
	require.NoError(t, c.Save(ctx, testSnapshot()))
	require.NoError(t, c.MarkSynced(ctx))

	require.NoError(t, c.Clear(ctx))

	_, err := c.Load(ctx)
	assert.ErrorIs(t, err, model.ErrCacheMiss)
	synced, err := c.HasSynced(ctx)
	require.NoError(t, err)
	assert.False(t, synced)
}

func TestSnapshotCache_Inspect(t *testing.T) {
	ctx := context.Background()
	c, store, clock := newTestCache(t)

	info, err := c.Inspect(ctx)
	require.NoError(t, err)
	assert.False(t, info.Present)

	require.NoError(t, c.Save(ctx, testSnapshot()))
	clock.Advance(25 * time.Hour)

	info, err = c.Inspect(ctx)
	require.NoError(t, err)
	assert.True(t, info.Present)
	assert.False(t, info.Fresh)
	assert.Equal(t, 25*time.Hour, info.Age)
	assert.Equal(t, 1, info.Counts[model.ObitosRaca])
	assert.Equal(t, 0, info.Counts[model.ObitosLocal])

	require.NoError(t, store.Set(ctx, KeySnapshot, []byte("garbage")))
	info, err = c.Inspect(ctx)
	require.NoError(t, err)
	assert.True(t, info.Corrupt)
}

func TestSnapshotCache_StoreErrors(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	boom := errors.New("disk full")

	c := NewSnapshotCache(store, 0)
	assert.Equal(t, DefaultMaxAge, c.MaxAge())

	store.EXPECT().Set(gomock.Any(), KeySnapshot, gomock.Any()).Return(boom)
	assert.ErrorIs(t, c.Save(ctx, testSnapshot()), boom)

	store.EXPECT().Get(gomock.Any(), KeySnapshot).Return(nil, false, boom)
	_, err := c.Load(ctx)
	assert.ErrorIs(t, err, boom)

	store.EXPECT().Get(gomock.Any(), KeySyncedBefore).Return(nil, false, boom)
	_, err = c.HasSynced(ctx)
	assert.ErrorIs(t, err, boom)

	store.EXPECT().Delete(gomock.Any(), KeySnapshot).Return(boom)
	assert.ErrorIs(t, c.Clear(ctx), boom)
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
