package enrichment

import (
	"sync"
)

// MatchCache memoizes keyword scans over free text. Inventories repeat the same
// descriptions and model names many times, so a scan is done once per distinct text.
type MatchCache struct {
	enabled bool
	data    map[string]string
	mutex   sync.RWMutex
	stats   CacheStats
}

// CacheStats cache statistics
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// NewMatchCache creates a cache; a disabled cache always misses
func NewMatchCache(enabled bool) *MatchCache {
	return &MatchCache{
		enabled: enabled,
		data:    make(map[string]string),
	}
}

// Get returns the cached match ("" means the text matched nothing)
func (c *MatchCache) Get(key string) (string, bool) {
	if !c.enabled {
		c.mutex.Lock()
		c.stats.Misses++
		c.mutex.Unlock()
		return "", false
	}

	c.mutex.RLock()
	value, exists := c.data[key]
	c.mutex.RUnlock()

	c.mutex.Lock()
	if exists {
		c.stats.Hits++
	} else {
		c.stats.Misses++
	}
	c.mutex.Unlock()

	return value, exists
}

// Set stores a match result
func (c *MatchCache) Set(key, value string) {
	if !c.enabled {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = value
	c.stats.Size = len(c.data)
}

// Clear drops all entries and resets counters
func (c *MatchCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data = make(map[string]string)
	c.stats = CacheStats{}
}

// GetStats returns a copy of the statistics
func (c *MatchCache) GetStats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := c.stats
	stats.Size = len(c.data)
	return stats
}
