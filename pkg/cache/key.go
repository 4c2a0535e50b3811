package cache

import (
	"fmt"
	"sort"
	"strings"
)

// KeyPrefix namespaces every key written by the page cache.
const KeyPrefix = "lazylist"

// PageKey identifies a cached page.
type PageKey struct {
	// Object is the record collection (e.g., "contacts")
	Object string

	// Limit and Offset are the page window
	Limit  int
	Offset int

	// Filters narrow the collection (e.g., {"account": "Acme"})
	Filters map[string]string
}

// String generates a deterministic cache key string.
// Format: lazylist:object:limit=5:offset=10:filter1=val1
//
// Example:
//
//	lazylist:contacts:limit=5:offset=10:account=Acme
func (k PageKey) String() string {
	parts := []string{KeyPrefix, strings.ToLower(strings.Trim(k.Object, "/ "))}
	parts = append(parts,
		fmt.Sprintf("limit=%d", k.Limit),
		fmt.Sprintf("offset=%d", k.Offset),
	)

	// Filters sorted for determinism
	if len(k.Filters) > 0 {
		keys := make([]string, 0, len(k.Filters))
		for key := range k.Filters {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s=%s", key, k.Filters[key]))
		}
	}

	return strings.Join(parts, ":")
}

// ObjectPattern returns the SCAN pattern matching every page of object.
func ObjectPattern(object string) string {
	return fmt.Sprintf("%s:%s:*", KeyPrefix, strings.ToLower(strings.Trim(object, "/ ")))
}
