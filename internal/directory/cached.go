package directory

import (
	"context"
	"time"

	"staffbot/core/cache"
)

// CachedResolver memoizes Resolve results for a short TTL so every button
// tap does not hit the database. Role changes become visible after the next
// sync and cache expiry; Invalidate flushes the cache immediately after a
// successful sync round.
type CachedResolver struct {
	inner Resolver
	cache *cache.TTL[string, *Principal]
}

// NewCachedResolver wraps a resolver with a TTL cache. The clock is
// injectable for tests; pass nil for time.Now.
func NewCachedResolver(inner Resolver, ttl time.Duration, now cache.Clock) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: cache.NewTTL[string, *Principal](ttl, now),
	}
}

// Resolve returns the cached principal when fresh, consulting the inner
// resolver otherwise. Negative results (unknown handle) are cached too.
func (c *CachedResolver) Resolve(ctx context.Context, handle string) (*Principal, error) {
	if p, ok := c.cache.Get(handle); ok {
		return p, nil
	}
	p, err := c.inner.Resolve(ctx, handle)
	if err != nil {
		return nil, err
	}
	c.cache.Put(handle, p)
	return p, nil
}

// Invalidate drops every cached resolution.
func (c *CachedResolver) Invalidate() {
	c.cache.InvalidateAll()
}
