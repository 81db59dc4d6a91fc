package domain

import (
	"context"
	"time"
)

// QueryCache is a short-lived result cache for facade queries. Values are
// pre-marshaled JSON keyed by query kind and arguments. Implementations
// return ErrNotFound on a miss or an expired entry.
type QueryCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}
