package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// keyPrefix namespaces cache keys so the service can share a Redis
// database with other tools.
const keyPrefix = "tickersvc:query:"

// QueryCache implements domain.QueryCache on plain Redis strings with
// per-entry TTLs.
type QueryCache struct {
	rdb *redis.Client
}

// NewQueryCache creates a QueryCache backed by the given Client.
func NewQueryCache(c *Client) *QueryCache {
	return &QueryCache{rdb: c.Underlying()}
}

// Get returns the cached value for key, or domain.ErrNotFound on a miss.
func (q *QueryCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := q.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return data, nil
}

// Set stores val under key for ttl.
func (q *QueryCache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if err := q.rdb.Set(ctx, keyPrefix+key, val, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.QueryCache = (*QueryCache)(nil)
