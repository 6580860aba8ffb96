package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"go.trai.ch/zerr"

	"github.com/dm/painel/internal/model"
)

const redisKeyPrefix = "painel:"

// RedisConfig holds the connection settings for RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

// RedisStore implements Store on a Redis server. Values are gzip-compressed
// and kept without expiry; staleness is decided by SnapshotCache.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore. No connection is made until first use.
func NewRedisStore(cfg RedisConfig) *RedisStore {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return &RedisStore{client: redis.NewClient(opts)}
}

// Ping checks that the server is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return zerr.Wrap(err, "redis ping failed")
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	} else if err != nil {
		return nil, false, zerr.With(zerr.Wrap(err, "redis get failed"), "key", key)
	}

	decompressed, err := decompress(val)
	if err != nil {
		return nil, false, zerr.With(zerr.Wrap(fmt.Errorf("%w: %w", model.ErrCacheCorrupt, err), "failed to decompress"), "key", key)
	}
	return decompressed, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	compressed, err := compress(value)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to compress"), "key", key)
	}

	if err := r.client.Set(ctx, redisKeyPrefix+key, compressed, 0).Err(); err != nil {
		return zerr.With(zerr.Wrap(err, "redis set failed"), "key", key)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return zerr.With(zerr.Wrap(err, "redis del failed"), "key", key)
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
