// Package cache implements the local cache store for dashboard snapshots.
package cache

import "context"

// Keys used by the dashboard.
const (
	KeySnapshot     = "dashboard_data_cache"
	KeySyncedBefore = "has_synced_before"
)

// Store is a string-keyed byte store. Writes replace the whole value.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type Store interface {
	// Get returns the value for key. A missing key is not an error:
	// found is false and err is nil.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
