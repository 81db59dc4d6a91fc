// Package memory implements the query-result cache as an in-process map
// with per-entry TTLs and a size cap. It is the default backend for
// single-replica deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

type entry struct {
	val     []byte
	expires time.Time
}

// QueryCache implements domain.QueryCache in process memory.
type QueryCache struct {
	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	clock      domain.Clock
}

// New creates a QueryCache holding at most maxEntries values.
func New(maxEntries int, clock domain.Clock) *QueryCache {
	return &QueryCache{
		entries:    make(map[string]entry, maxEntries),
		maxEntries: maxEntries,
		clock:      clock,
	}
}

// Get returns the cached value for key, or domain.ErrNotFound on a miss
// or an expired entry. Expired entries are reaped on the next Set.
func (q *QueryCache) Get(_ context.Context, key string) ([]byte, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	e, ok := q.entries[key]
	if !ok || q.clock.Now().After(e.expires) {
		return nil, domain.ErrNotFound
	}
	return e.val, nil
}

// Set stores val under key for ttl, evicting expired entries first and
// then arbitrary ones if the cache is still at capacity.
func (q *QueryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	now := q.clock.Now()

	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.entries[key]; !exists && len(q.entries) >= q.maxEntries {
		for k, e := range q.entries {
			if now.After(e.expires) {
				delete(q.entries, k)
			}
		}
		for k := range q.entries {
			if len(q.entries) < q.maxEntries {
				break
			}
			delete(q.entries, k)
		}
	}

	q.entries[key] = entry{val: val, expires: now.Add(ttl)}
	return nil
}

// Compile-time interface check.
var _ domain.QueryCache = (*QueryCache)(nil)
