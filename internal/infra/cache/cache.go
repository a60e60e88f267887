package cache

import (
	"context"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const DefaultFreshness = 5 * time.Minute

var cacheLookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	},
	[]string{"result"},
)

// Fetcher computes the value on a miss. It is the expensive path the cache
// exists to avoid.
type Fetcher func(ctx context.Context) ([]byte, error)

type Result struct {
	Payload  []byte    `json:"payload"`
	IsStale  bool      `json:"is_stale"`
	CachedAt time.Time `json:"cached_at"`
}

type Cache struct {
	kv    KV
	fresh time.Duration // soft staleness window, always computed client-side
	now   func() time.Time
}

func New(kv KV, softFreshness time.Duration) *Cache {
	if softFreshness <= 0 {
		softFreshness = DefaultFreshness
	}
	return &Cache{kv: kv, fresh: softFreshness, now: time.Now}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	e, err := c.kv.Get(ctx, key)
	if err != nil || e == nil {
		return nil, false, err
	}
	return e.Payload, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	now := c.now()
	return c.kv.Put(ctx, Entry{
		Key:       key,
		Payload:   payload,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	})
}

func (c *Cache) Invalidate(ctx context.Context, key string) (bool, error) {
	return c.kv.Delete(ctx, key)
}

func (c *Cache) InvalidatePattern(ctx context.Context, prefix string) (int, error) {
	return c.kv.DeletePrefix(ctx, prefix)
}

func (c *Cache) GetLastUpdated(ctx context.Context, key string) (time.Time, bool, error) {
	e, err := c.kv.Get(ctx, key)
	if err != nil || e == nil {
		return time.Time{}, false, err
	}
	return e.CreatedAt, true, nil
}

func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	e, err := c.kv.Get(ctx, key)
	return e != nil, err
}

// GetOrFetch serves the cached value while it is within the soft freshness
// window, refetching otherwise. When the refetch fails and a stored value is
// still within its hard TTL, the stale value is served with IsStale set
// rather than failing the read.
func (c *Cache) GetOrFetch(ctx context.Context, key string, ttl time.Duration, fetch Fetcher) (*Result, error) {
	e, err := c.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if e != nil && c.now().Sub(e.CreatedAt) <= c.fresh {
		cacheLookups.WithLabelValues("hit").Inc()
		return &Result{Payload: e.Payload, CachedAt: e.CreatedAt}, nil
	}

	payload, fetchErr := fetch(ctx)
	if fetchErr != nil {
		if e != nil {
			cacheLookups.WithLabelValues("stale").Inc()
			log.Printf("WARNING: cache refetch for %q failed, serving stale: %v", key, fetchErr)
			return &Result{Payload: e.Payload, IsStale: true, CachedAt: e.CreatedAt}, nil
		}
		cacheLookups.WithLabelValues("error").Inc()
		return nil, fetchErr
	}

	cacheLookups.WithLabelValues("miss").Inc()
	if err := c.Set(ctx, key, payload, ttl); err != nil {
		// The value is good even if the write-back is not.
		log.Printf("WARNING: cache write-back for %q failed: %v", key, err)
	}
	return &Result{Payload: payload, CachedAt: c.now()}, nil
}

// Refresh bypasses the cache entirely and stores a fresh value. This is the
// explicit force-refresh path.
func (c *Cache) Refresh(ctx context.Context, key string, ttl time.Duration, fetch Fetcher) (*Result, error) {
	payload, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Set(ctx, key, payload, ttl); err != nil {
		return nil, err
	}
	return &Result{Payload: payload, CachedAt: c.now()}, nil
}
