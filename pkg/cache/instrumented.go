package cache

import (
	"context"
	"time"

	"github.com/matzehuels/boxsvg/pkg/observability"
)

// Instrumented reports hits, misses and writes of an inner cache to the
// registered [observability.CacheHooks].
type Instrumented struct {
	inner   Cache
	keyType string
}

// WithHooks wraps c. keyType labels the events ("artifact", "resource").
func WithHooks(c Cache, keyType string) *Instrumented {
	return &Instrumented{inner: c, keyType: keyType}
}

// Get implements Cache.
func (c *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err == nil {
		if ok {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, ok, err
}

// Set implements Cache.
func (c *Instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.inner.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	return nil
}

// Delete implements Cache.
func (c *Instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

// Close implements Cache.
func (c *Instrumented) Close() error {
	return c.inner.Close()
}

var _ Cache = (*Instrumented)(nil)
