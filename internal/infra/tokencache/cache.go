package tokencache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

// Cache stores OAuth2 tokens until shortly before they expire.
type Cache interface {
	Get(ctx context.Context, key string) (*oauth2.Token, bool, error)
	Set(ctx context.Context, key string, token *oauth2.Token, ttl time.Duration) error
}

type memoryEntry struct {
	token     *oauth2.Token
	expiresAt time.Time
}

// MemoryCache keeps tokens in process memory.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryCache constructs an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry), now: time.Now}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (*oauth2.Token, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false, nil
	}
	return entry.token, true, nil
}

// Set implements Cache. Non-positive ttl is ignored.
func (c *MemoryCache) Set(_ context.Context, key string, token *oauth2.Token, ttl time.Duration) error {
	if ttl <= 0 || token == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{token: token, expiresAt: c.now().Add(ttl)}
	return nil
}
