// Package cache holds the process-local TTL cache used for admin stats and
// e-mail settings. Eligibility data is never cached.
package cache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/kirankshetty/Hackathon-sub000/internal/metrics"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLCache wraps a ttlcache instance with hit/miss metrics. Entries also carry
// an expiry taken from the injected clock so callers with a fake clock see
// the same lifetime as wall time.
type TTLCache[V any] struct {
	name  string
	ttl   time.Duration
	now   func() time.Time
	items *ttlcache.Cache[string, entry[V]]
}

func New[V any](name string, ttl time.Duration, now func() time.Time) *TTLCache[V] {
	if now == nil {
		now = time.Now
	}
	return &TTLCache[V]{
		name: name,
		ttl:  ttl,
		now:  now,
		items: ttlcache.New[string, entry[V]](
			ttlcache.WithTTL[string, entry[V]](ttl),
			ttlcache.WithDisableTouchOnHit[string, entry[V]](),
		),
	}
}

func (c *TTLCache[V]) Get(key string) (V, bool) {
	item := c.items.Get(key)
	if item == nil || !c.now().Before(item.Value().expiresAt) {
		if item != nil {
			c.items.Delete(key)
		}
		metrics.CacheMisses.WithLabelValues(c.name).Inc()
		var zero V
		return zero, false
	}
	metrics.CacheHits.WithLabelValues(c.name).Inc()
	return item.Value().value, true
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.items.Set(key, entry[V]{value: value, expiresAt: c.now().Add(c.ttl)}, ttlcache.DefaultTTL)
}

// GetOrLoad returns the cached value or stores the result of load.
// Errors from load are returned without caching.
func (c *TTLCache[V]) GetOrLoad(key string, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Invalidate drops the given keys, or every key when none are given.
func (c *TTLCache[V]) Invalidate(keys ...string) {
	if len(keys) == 0 {
		c.items.DeleteAll()
		return
	}
	for _, k := range keys {
		c.items.Delete(k)
	}
}

// Len reports stored entries, expired ones included until they are read.
func (c *TTLCache[V]) Len() int {
	return c.items.Len()
}
