package erapi

import "sync"

// Cache stores nickname to user number lookups.
type Cache interface {
	Get(nickname string) (int64, bool)
	Set(nickname string, userNum int64)
}

// MemoryCache is an in-process Cache. Entries are never evicted; a session
// only ever sees a few dozen players.
type MemoryCache struct {
	mu    sync.RWMutex
	users map[string]int64
}

// NewMemoryCache creates an empty cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{users: make(map[string]int64)}
}

// Get returns the cached user number for nickname.
func (c *MemoryCache) Get(nickname string) (int64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.users[nickname]
	return n, ok
}

// Set caches userNum for nickname.
func (c *MemoryCache) Set(nickname string, userNum int64) {
	c.mu.Lock()
	c.users[nickname] = userNum
	c.mu.Unlock()
}

// Len returns the number of cached nicknames.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.users)
}
