package cache

import (
	"time"

	"github.com/Sternrassler/favlist-duration/pkg/client"
)

// PageEntry represents a cached page.
type PageEntry struct {
	Items   []client.Item `json:"items"`
	HasMore bool          `json:"has_more"`

	// Expires is when the entry becomes stale.
	Expires time.Time `json:"expires"`

	// CachedAt is when the page was stored.
	CachedAt time.Time `json:"cached_at"`
}

// NewPageEntry wraps a fetched page with an expiry ttl from now.
func NewPageEntry(page *client.Page, ttl time.Duration) *PageEntry {
	now := time.Now()
	return &PageEntry{
		Items:    page.Items,
		HasMore:  page.HasMore,
		Expires:  now.Add(ttl),
		CachedAt: now,
	}
}

// Page converts the entry back into a client page.
func (e *PageEntry) Page() *client.Page {
	return &client.Page{Items: e.Items, HasMore: e.HasMore}
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
