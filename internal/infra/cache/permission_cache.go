package cache

import (
	"strings"
	"sync"
	"time"
)

// PermissionCacheEntry represents a cached permission check result
type PermissionCacheEntry struct {
	Allowed    bool
	ExpiryTime time.Time
}

// PermissionCache provides thread-safe caching for RBAC permission checks
type PermissionCache struct {
	cache map[string]PermissionCacheEntry
	mutex sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
}

// NewPermissionCache creates a cache whose entries live for ttl. A zero ttl
// disables caching.
func NewPermissionCache(ttl time.Duration) *PermissionCache {
	return &PermissionCache{
		cache: make(map[string]PermissionCacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a permission check result from cache if not expired
func (c *PermissionCache) Get(key string) (bool, bool) {
	c.mutex.RLock()
	entry, found := c.cache[key]
	c.mutex.RUnlock()

	if found && c.now().Before(entry.ExpiryTime) {
		return entry.Allowed, true
	}

	return false, false
}

// Set stores a permission check result for the cache's ttl
func (c *PermissionCache) Set(key string, allowed bool) {
	if c.ttl <= 0 {
		return
	}
	c.mutex.Lock()
	c.cache[key] = PermissionCacheEntry{
		Allowed:    allowed,
		ExpiryTime: c.now().Add(c.ttl),
	}
	c.mutex.Unlock()
}

// InvalidateSubject drops every entry for userID in orgID. Called when the
// user's assignments change.
func (c *PermissionCache) InvalidateSubject(userID, orgID string) {
	prefix := subjectPrefix(userID, orgID)
	c.mutex.Lock()
	for key := range c.cache {
		if strings.HasPrefix(key, prefix) {
			delete(c.cache, key)
		}
	}
	c.mutex.Unlock()
}

// InvalidateOrganization drops every entry for orgID.
func (c *PermissionCache) InvalidateOrganization(orgID string) {
	marker := ":" + orgID + ":"
	c.mutex.Lock()
	for key := range c.cache {
		if strings.Contains(key, marker) {
			delete(c.cache, key)
		}
	}
	c.mutex.Unlock()
}

// Clear removes expired entries from cache
func (c *PermissionCache) Clear() {
	now := c.now()
	c.mutex.Lock()
	for key, entry := range c.cache {
		if now.After(entry.ExpiryTime) {
			delete(c.cache, key)
		}
	}
	c.mutex.Unlock()
}

// Len returns the number of stored entries, expired or not
func (c *PermissionCache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.cache)
}

// BuildCacheKey creates a cache key from subject, organization, resource, and action
func BuildCacheKey(userID, orgID, resource, action string) string {
	return subjectPrefix(userID, orgID) + resource + ":" + action
}

func subjectPrefix(userID, orgID string) string {
	return userID + ":" + orgID + ":"
}
