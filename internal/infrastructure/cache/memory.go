package cache

import (
	"context"
	"sync"
	"time"

	"github.com/specforms/backend/internal/domain"
)

const cleanupInterval = 10 * time.Minute

// fingerprintItem represents a single fingerprint in the cache with expiration
type fingerprintItem struct {
	Value      domain.Fingerprint
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory fingerprint index with TTL support
type MemoryCache struct {
	data  map[string]fingerprintItem
	mutex sync.RWMutex
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new in-memory fingerprint index
func NewMemoryCache() *MemoryCache {
	cache := &MemoryCache{
		data: make(map[string]fingerprintItem),
		stop: make(chan struct{}),
	}

	go cache.cleanupExpired(cleanupInterval)

	return cache
}

// Get retrieves the fingerprint stored for a location
func (c *MemoryCache) Get(ctx context.Context, location string) (domain.Fingerprint, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[location]
	if !exists || time.Now().After(item.Expiration) {
		return domain.Fingerprint{}, domain.ErrCacheMiss
	}

	return item.Value, nil
}

// Set stores a fingerprint with TTL
func (c *MemoryCache) Set(ctx context.Context, location string, fp domain.Fingerprint, ttl time.Duration) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[location] = fingerprintItem{
		Value:      fp,
		Expiration: time.Now().Add(ttl),
	}

	return nil
}

// Delete removes a fingerprint from the cache
func (c *MemoryCache) Delete(ctx context.Context, location string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, location)
	return nil
}

// Exists checks if a location has a fingerprint that is not expired
func (c *MemoryCache) Exists(ctx context.Context, location string) (bool, error) {
	_, err := c.Get(ctx, location)
	return err == nil, nil
}

// Close stops the background cleanup goroutine
func (c *MemoryCache) Close() {
	c.once.Do(func() { close(c.stop) })
}

// cleanupExpired removes expired entries from the cache periodically
func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.removeExpired(time.Now())
		}
	}
}

func (c *MemoryCache) removeExpired(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for key, item := range c.data {
		if now.After(item.Expiration) {
			delete(c.data, key)
		}
	}
}

// Size returns the current number of items in the cache (for debugging/monitoring)
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.data = make(map[string]fingerprintItem)
}
