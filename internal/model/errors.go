package model

import "go.trai.ch/zerr"

var (
	// ErrAssemblyFailed is returned when a synchronisation cannot produce or
	// persist a snapshot at all. Per-dataset failures never surface as this.
	ErrAssemblyFailed = zerr.New("snapshot assembly failed")

	// ErrCacheMiss is returned by cache reads that find no usable entry.
	ErrCacheMiss = zerr.New("cache miss")

	// ErrCacheCorrupt marks an entry that failed to parse or verify.
	ErrCacheCorrupt = zerr.New("cache entry corrupt")
)
