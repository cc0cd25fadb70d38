package cache

import (
	"fmt"
)

// KeyPrefix namespaces all cache keys.
const KeyPrefix = "favlist"

// PageKey identifies one cached page.
type PageKey struct {
	CollectionID string
	Page         int
	PageSize     int
}

// String generates a deterministic cache key string.
// Format: favlist:{collection_id}:pn={page}:ps={page_size}
//
// Example:
//
//	favlist:1052622027:pn=2:ps=20
func (k PageKey) String() string {
	return fmt.Sprintf("%s:%s:pn=%d:ps=%d", KeyPrefix, k.CollectionID, k.Page, k.PageSize)
}
