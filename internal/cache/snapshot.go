package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"

	"github.com/dm/painel/internal/model"
)

// DefaultMaxAge is how long a cached snapshot stays fresh.
const DefaultMaxAge = 24 * time.Hour

// SnapshotCache stores whole snapshots in a Store behind a timestamped,
// checksummed envelope. An entry whose age reaches maxAge is never returned.
type SnapshotCache struct {
	store  Store
	maxAge time.Duration
	now    func() time.Time

	mu sync.Mutex // serialises writes
}

// Option configures a SnapshotCache.
type Option func(*SnapshotCache)

// WithClock overrides the wall clock used for envelope timestamps and
// staleness checks.
func WithClock(now func() time.Time) Option {
	return func(c *SnapshotCache) { c.now = now }
}

// NewSnapshotCache wraps store. A non-positive maxAge uses DefaultMaxAge.
func NewSnapshotCache(store Store, maxAge time.Duration, opts ...Option) *SnapshotCache {
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	c := &SnapshotCache{store: store, maxAge: maxAge, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// MaxAge returns the staleness window.
func (c *SnapshotCache) MaxAge() time.Duration { return c.maxAge }

func checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Load returns the cached snapshot. Absent and stale entries yield
// model.ErrCacheMiss; unparsable or checksum-mismatched entries yield
// model.ErrCacheCorrupt. Store failures are returned as-is.
func (c *SnapshotCache) Load(ctx context.Context) (*model.Snapshot, error) {
	entry, err := c.read(ctx)
	if err != nil {
		return nil, err
	}

	age := c.now().Sub(time.UnixMilli(entry.Timestamp))
	if age >= c.maxAge {
		return nil, zerr.With(zerr.Wrap(model.ErrCacheMiss, "cache entry stale"), "age", age.String())
	}

	var snap model.Snapshot
	if err := json.Unmarshal(entry.Data, &snap); err != nil {
		return nil, zerr.Wrap(model.ErrCacheCorrupt, "failed to decode snapshot")
	}
	fillMissing(&snap)
	return &snap, nil
}

func (c *SnapshotCache) read(ctx context.Context) (*model.CacheEntry, error) {
	raw, found, err := c.store.Get(ctx, KeySnapshot)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, zerr.Wrap(model.ErrCacheMiss, "no cached snapshot")
	}

	var entry model.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, zerr.Wrap(model.ErrCacheCorrupt, "failed to decode cache envelope")
	}
	if len(entry.Data) == 0 || entry.Timestamp <= 0 {
		return nil, zerr.Wrap(model.ErrCacheCorrupt, "cache envelope incomplete")
	}
	// Entries written without a checksum are accepted.
	if entry.Checksum != "" && entry.Checksum != checksum(entry.Data) {
		return nil, zerr.Wrap(model.ErrCacheCorrupt, "cache checksum mismatch")
	}
	return &entry, nil
}

// fillMissing gives every catalog dataset an entry.
func fillMissing(snap *model.Snapshot) {
	if snap.Datasets == nil {
		snap.Datasets = make(map[model.DatasetName][]json.RawMessage, len(model.Catalog))
	}
	for _, spec := range model.Catalog {
		if snap.Datasets[spec.Name] == nil {
			snap.Datasets[spec.Name] = []json.RawMessage{}
		}
	}
}

// Save replaces the cached snapshot. The envelope is stamped with the cache
// clock, not the snapshot's own timestamp.
func (c *SnapshotCache) Save(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return zerr.Wrap(err, "failed to encode snapshot")
	}
	raw, err := json.Marshal(model.CacheEntry{
		Timestamp: c.now().UnixMilli(),
		Data:      data,
		Checksum:  checksum(data),
	})
	if err != nil {
		return zerr.Wrap(err, "failed to encode cache envelope")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Set(ctx, KeySnapshot, raw)
}

// MarkSynced records that at least one synchronisation has completed.
func (c *SnapshotCache) MarkSynced(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Set(ctx, KeySyncedBefore, []byte("true"))
}

// HasSynced reports whether MarkSynced was ever called on this store.
func (c *SnapshotCache) HasSynced(ctx context.Context) (bool, error) {
	v, found, err := c.store.Get(ctx, KeySyncedBefore)
	if err != nil {
		return false, err
	}
	return found && string(v) == "true", nil
}

// Clear removes the snapshot and the first-run flag.
func (c *SnapshotCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(ctx, KeySnapshot); err != nil {
		return err
	}
	return c.store.Delete(ctx, KeySyncedBefore)
}

// Info describes the cached entry for maintenance commands.
type Info struct {
	Present  bool
	Corrupt  bool
	SavedAt  time.Time
	Age      time.Duration
	Fresh    bool
	Synced   bool
	Counts   map[model.DatasetName]int
	Snapshot *model.Snapshot
}

// Inspect reports on the cached entry without applying the staleness rule.
func (c *SnapshotCache) Inspect(ctx context.Context) (Info, error) {
	var info Info
	synced, err := c.HasSynced(ctx)
	if err != nil {
		return info, err
	}
	info.Synced = synced

	entry, err := c.read(ctx)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrCacheMiss):
		return info, nil
	case errors.Is(err, model.ErrCacheCorrupt):
		info.Present, info.Corrupt = true, true
		return info, nil
	default:
		return info, err
	}

	info.Present = true
	info.SavedAt = time.UnixMilli(entry.Timestamp)
	info.Age = c.now().Sub(info.SavedAt)
	info.Fresh = info.Age < c.maxAge

	var snap model.Snapshot
	if err := json.Unmarshal(entry.Data, &snap); err != nil {
		info.Corrupt = true
		return info, nil
	}
	fillMissing(&snap)
	info.Snapshot = &snap
	info.Counts = make(map[model.DatasetName]int, len(snap.Datasets))
	for name, recs := range snap.Datasets {
		info.Counts[name] = len(recs)
	}
	return info, nil
}
