package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/perimetra/console/pkg/apiclient"
)

// Cache memoizes membership lookups. Keys are scoped per user upstream, so
// implementations never leak one user's memberships to another.
type Cache interface {
	Get(ctx context.Context, key string) (*apiclient.Workspace, bool)
	Set(ctx context.Context, key string, ws *apiclient.Workspace, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

const defaultCacheSize = 1000

type memoryCache struct {
	mu      sync.Mutex
	items   map[string]cacheEntry
	maxSize int
}

type cacheEntry struct {
	ws        *apiclient.Workspace
	expiresAt time.Time
}

// NewMemoryCache creates the default in-memory membership cache. Expired
// entries are dropped lazily on access; when full, the entry closest to
// expiry is evicted.
func NewMemoryCache() Cache {
	return &memoryCache{
		items:   make(map[string]cacheEntry),
		maxSize: defaultCacheSize,
	}
}

func (c *memoryCache) Get(ctx context.Context, key string) (*apiclient.Workspace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.items, key)
		return nil, false
	}
	return entry.ws, true
}

func (c *memoryCache) Set(ctx context.Context, key string, ws *apiclient.Workspace, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.items[key]; !ok && len(c.items) >= c.maxSize {
		c.evictLocked()
	}
	c.items[key] = cacheEntry{ws: ws, expiresAt: time.Now().Add(ttl)}
}

func (c *memoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *memoryCache) evictLocked() {
	now := time.Now()
	var victim string
	var victimExpiry time.Time
	for key, entry := range c.items {
		if now.After(entry.expiresAt) {
			delete(c.items, key)
			return
		}
		if victim == "" || entry.expiresAt.Before(victimExpiry) {
			victim = key
			victimExpiry = entry.expiresAt
		}
	}
	if victim != "" {
		delete(c.items, victim)
	}
}

// NopCache disables membership caching.
type NopCache struct{}

func (NopCache) Get(ctx context.Context, key string) (*apiclient.Workspace, bool) { return nil, false }
func (NopCache) Set(ctx context.Context, key string, ws *apiclient.Workspace, ttl time.Duration) {
}
func (NopCache) Delete(ctx context.Context, key string) {}
