package cache

import (
	"encoding/json"
	"time"
)

// PageEntry represents a cached page.
type PageEntry struct {
	// Records is the JSON-encoded page
	Records json.RawMessage `json:"records"`

	// Count is the number of records in the page
	Count int `json:"count"`

	// Expires is when the entry becomes stale
	Expires time.Time `json:"expires"`

	// CachedAt is when the page was cached
	CachedAt time.Time `json:"cached_at"`
}

// IsExpired returns true if the cache entry has expired.
func (e *PageEntry) IsExpired() bool {
	return time.Now().After(e.Expires)
}

// TTL returns the time until expiration.
// Returns 0 if already expired.
func (e *PageEntry) TTL() time.Duration {
	ttl := time.Until(e.Expires)
	if ttl < 0 {
		return 0
	}
	return ttl
}
