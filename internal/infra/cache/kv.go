// Package cache reduces read amplification on expensive aggregate queries.
// It layers a soft, client-computed freshness window on top of the backing
// store's hard per-item expiry: the hard TTL bounds storage cost, the soft
// window bounds how old displayed data may get.
package cache

import (
	"context"
	"time"
)

type Entry struct {
	Key       string
	Payload   []byte
	CreatedAt time.Time
	ExpiresAt time.Time // hard expiry; the entry is gone past this point
}

// KV is the backing key-value store: composite string key, opaque payload,
// hard expiry. Implementations must treat hard-expired entries as absent.
type KV interface {
	Get(ctx context.Context, key string) (*Entry, error) // (nil, nil) when absent
	Put(ctx context.Context, e Entry) error              // overwrites
	Delete(ctx context.Context, key string) (bool, error)
	// DeletePrefix removes every entry whose key starts with prefix and
	// returns the count. The store has no prefix index, so this is a
	// scan+filter, cheap at this cache's size.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
}
