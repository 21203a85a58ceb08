// Package cache stores rendered mesh artifacts between runs.
//
// Three backends implement [Cache]: [FileCache] for the CLI, [RedisCache]
// for hosts that share a cache across processes, and [NullCache] when
// caching is disabled. [Open] picks one from the [config.CacheConfig].
//
// Keys come from a [Keyer] and are built from a hash of the layout text plus
// whatever options change the output, so a cached artifact is never served
// for a different layout or render setting.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/hapticfloor/pkg/config"
	"github.com/matzehuels/hapticfloor/pkg/observability"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Open returns the cache backend selected by cfg.
func Open(ctx context.Context, cfg config.CacheConfig) (Cache, error) {
	switch cfg.Backend {
	case "", "file":
		dir := cfg.Dir
		if dir == "" {
			d, err := Dir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case "redis":
		rc, err := NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return rc, nil
	case "none":
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// Instrumented reports hits, misses and writes of c to
// [observability.Cache], labelled by the key's type prefix.
func Instrumented(c Cache) Cache {
	return &instrumented{Cache: c}
}

type instrumented struct {
	Cache
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.Cache.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, KeyType(key))
		} else {
			observability.Cache().OnCacheMiss(ctx, KeyType(key))
		}
	}
	return data, ok, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, KeyType(key), len(data))
	return nil
}

// KeyType returns the prefix of key up to the first colon, or "unknown".
func KeyType(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "unknown"
}
