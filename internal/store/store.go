// Package store caches discovery results keyed by canonical website host, so
// repeated batch runs over overlapping company lists do not re-crawl.
package store

import (
	"context"
	"time"

	"github.com/sells-group/leadscout/internal/model"
)

// CachedResult is one cache row: a completed discovery result plus its
// freshness metadata.
type CachedResult struct {
	Host      string                `json:"host"`
	Result    model.DiscoveryResult `json:"result"`
	CachedAt  time.Time             `json:"cached_at"`
	ExpiresAt time.Time             `json:"expires_at"`
}

// Store is the cache persistence interface. Get returns (nil, nil) on a
// miss, including an expired row; misses are not errors.
type Store interface {
	Get(ctx context.Context, host string) (*CachedResult, error)
	Set(ctx context.Context, host string, result model.DiscoveryResult, ttl time.Duration) error
	DeleteExpired(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}
