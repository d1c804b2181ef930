package mysql

import "sync"

// ConnectionCache remembers the connection result found for each identity.
// Entries never expire.
type ConnectionCache struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewConnectionCache returns an empty cache.
func NewConnectionCache() *ConnectionCache {
	return &ConnectionCache{entries: make(map[string]string)}
}

// Get returns the cached result for identity.
func (c *ConnectionCache) Get(identity string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[identity]
	return result, ok
}

// Set stores result for identity, keeping any result already stored.
func (c *ConnectionCache) Set(identity, result string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]string)
	}
	if existing, ok := c.entries[identity]; ok {
		return existing
	}
	c.entries[identity] = result
	return result
}

// Len returns the number of cached identities.
func (c *ConnectionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
