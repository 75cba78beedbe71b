package infra

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates and validates a go-redis client connection. Redis backs
// the worker job queue, the public catalog cache, and the dashboard cache.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

// Cache key builders. Writers (services, handlers) and the invalidation
// worker must agree on these, so they live here rather than in either side.

// DashboardCacheKey is the per-user price dashboard payload.
func DashboardCacheKey(userID string) string {
	return "cache:dashboard:" + userID
}

// CatalogCacheKey is the public catalog listing for one owner username
// ("" for the global listing).
func CatalogCacheKey(username string) string {
	return "cache:catalog:" + username
}

// CatalogProductCacheKey is the public detail payload for one product.
func CatalogProductCacheKey(productID string) string {
	return "cache:catalog:product:" + productID
}
