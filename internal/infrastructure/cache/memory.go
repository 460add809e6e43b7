package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryCache is an in-process cache with per-entry TTL. It serves
// single-instance deployments where Redis is not configured; entries
// are evicted lazily on read.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

// Get returns the cached payload, or nil on a miss or expired entry
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	return entry.value, nil
}

// Set stores the payload under the key for the given TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// MemoryPresenceRegistry implements chat.PresenceRegistry in process
type MemoryPresenceRegistry struct {
	mu       sync.RWMutex
	deadline map[uuid.UUID]time.Time
}

// NewMemoryPresenceRegistry creates an empty presence registry
func NewMemoryPresenceRegistry() *MemoryPresenceRegistry {
	return &MemoryPresenceRegistry{deadline: make(map[uuid.UUID]time.Time)}
}

// SetOnline marks the user online for the TTL
func (r *MemoryPresenceRegistry) SetOnline(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	r.mu.Lock()
	r.deadline[userID] = time.Now().Add(ttl)
	r.mu.Unlock()
	return nil
}

// SetOffline removes the user's presence mark
func (r *MemoryPresenceRegistry) SetOffline(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	delete(r.deadline, userID)
	r.mu.Unlock()
	return nil
}

// IsOnline reports whether the user's mark exists and has not lapsed
func (r *MemoryPresenceRegistry) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	r.mu.RLock()
	deadline, ok := r.deadline[userID]
	r.mu.RUnlock()
	return ok && time.Now().Before(deadline), nil
}
