package brreg

import (
	"hash/fnv"
	"strings"
	"sync"
	"time"
)

// Cache stores decoded results keyed by request fingerprint. Implementations
// must be safe for concurrent use; writes to the same key are last-write-wins.
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
	// Invalidate removes every entry whose fingerprint contains pattern as a
	// substring and returns the number removed. An empty pattern matches all.
	Invalidate(pattern string) int
	Stats() CacheStats
	Clear()
}

// CacheStats is a point-in-time snapshot of cache state.
type CacheStats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// cacheEntry pairs a decoded value with its expiry. Entries are created whole
// on a successful response and never partially updated.
type cacheEntry struct {
	value     any
	expiresAt time.Time
}

type cacheShard struct {
	mu    sync.RWMutex
	store map[string]*cacheEntry
}

// InMemoryCache is a sharded in-memory TTL cache. Expiry is checked lazily on
// read; an expired entry is never returned.
type InMemoryCache struct {
	shards    []*cacheShard
	numShards int

	mu     sync.Mutex
	hits   uint64
	misses uint64
}

// NewInMemoryCache creates an empty in-memory cache.
func NewInMemoryCache() *InMemoryCache {
	numShards := 16
	shards := make([]*cacheShard, numShards)
	for i := range shards {
		shards[i] = &cacheShard{
			store: make(map[string]*cacheEntry),
		}
	}
	return &InMemoryCache{
		shards:    shards,
		numShards: numShards,
	}
}

func (c *InMemoryCache) getShard(key string) *cacheShard {
	hash := fnv.New32a()
	hash.Write([]byte(key))
	return c.shards[hash.Sum32()%uint32(c.numShards)]
}

// Get returns the live value for key, if any. Expired entries are removed.
func (c *InMemoryCache) Get(key string) (any, bool) {
	shard := c.getShard(key)
	now := time.Now()

	shard.mu.RLock()
	entry, exists := shard.store[key]
	shard.mu.RUnlock()

	if exists && now.After(entry.expiresAt) {
		shard.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have replaced it.
		if cur, ok := shard.store[key]; ok && cur == entry {
			delete(shard.store, key)
		}
		shard.mu.Unlock()
		exists = false
	}

	c.mu.Lock()
	if exists {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()

	if !exists {
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key with the given TTL.
func (c *InMemoryCache) Set(key string, value any, ttl time.Duration) {
	shard := c.getShard(key)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	shard.store[key] = &cacheEntry{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// Invalidate removes entries whose key contains pattern as a substring and
// returns the number removed. Substring matching follows the documented
// fingerprint scheme, so "enhet_" clears all entity lookups.
func (c *InMemoryCache) Invalidate(pattern string) int {
	removed := 0
	for _, shard := range c.shards {
		shard.mu.Lock()
		for key := range shard.store {
			if strings.Contains(key, pattern) {
				delete(shard.store, key)
				removed++
			}
		}
		shard.mu.Unlock()
	}
	return removed
}

// Stats returns a snapshot of live entry count and hit/miss counters. Entries
// already past their TTL are not counted.
func (c *InMemoryCache) Stats() CacheStats {
	now := time.Now()
	entries := 0
	for _, shard := range c.shards {
		shard.mu.RLock()
		for _, entry := range shard.store {
			if !now.After(entry.expiresAt) {
				entries++
			}
		}
		shard.mu.RUnlock()
	}

	c.mu.Lock()
	stats := CacheStats{
		Entries: entries,
		Hits:    c.hits,
		Misses:  c.misses,
	}
	c.mu.Unlock()
	return stats
}

// Clear removes all entries.
func (c *InMemoryCache) Clear() {
	for _, shard := range c.shards {
		shard.mu.Lock()
		shard.store = make(map[string]*cacheEntry)
		shard.mu.Unlock()
	}
}
