// Package blockcache fronts the block endpoints with a short-lived read cache.
// Reads for the same date range within the TTL share one response. A
// successful write drops everything.
package blockcache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/julianstephens/blockytime/internal/constants"
	"github.com/julianstephens/blockytime/internal/logger"
	"github.com/julianstephens/blockytime/internal/models"
)

// Backend is the subset of the API client the cache wraps.
type Backend interface {
	GetBlocks(ctx context.Context, start, end string) ([]models.Block, error)
	UpdateBlocks(ctx context.Context, items []models.BlockUpdate) error
}

type entry struct {
	blocks     []models.Block
	validUntil time.Time
}

// Cache is safe for concurrent use.
type Cache struct {
	backend Backend
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]entry
	// generation advances on every invalidation. A fetch started under an
	// older generation must not populate the cache.
	generation uint64

	group singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides the entry lifetime. Zero disables caching.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl >= 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// New wraps backend.
func New(backend Backend, opts ...Option) *Cache {
	c := &Cache{
		backend: backend,
		ttl:     constants.BlockCacheTTL,
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key is the cache key for a date range.
func Key(start, end string) string {
	return start + "-" + end
}

// GetBlocksByDateString returns the blocks between two YYYY-MM-DD dates,
// from the cache when the entry is still fresh. Failures are never cached.
func (c *Cache) GetBlocksByDateString(ctx context.Context, start, end string) ([]models.Block, error) {
	key := Key(start, end)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.validUntil) {
		c.mu.Unlock()
		logger.Debug("block cache hit", "key", key)
		return e.blocks, nil
	}
	gen := c.generation
	c.mu.Unlock()

	logger.Debug("block cache miss", "key", key)

	flightKey := fmt.Sprintf("%d/%s", gen, key)
	v, err, shared := c.group.Do(flightKey, func() (interface{}, error) {
		blocks, err := c.backend.GetBlocks(ctx, start, end)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.generation == gen && c.ttl > 0 {
			c.entries[key] = entry{blocks: blocks, validUntil: c.now().Add(c.ttl)}
		}
		return blocks, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetching blocks %s: %w", key, err)
	}
	if shared {
		logger.Debug("block fetch shared", "key", key)
	}
	return v.([]models.Block), nil
}

// UpdateBlocks forwards one batch to the server. On success every cached
// range is dropped, since any of them may overlap the written dates. On
// failure the cache is left as it was.
func (c *Cache) UpdateBlocks(ctx context.Context, items []models.BlockUpdate) error {
	if err := c.backend.UpdateBlocks(ctx, items); err != nil {
		logger.Warn("block update failed, cache kept", "items", len(items), "error", err)
		return err
	}
	c.Invalidate()
	logger.Debug("block update applied", "items", len(items))
	return nil
}

// Invalidate drops every entry and fences off fetches already in flight.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.generation++
}

// Len returns the number of cached ranges, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
