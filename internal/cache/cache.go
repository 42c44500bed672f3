// Package cache provides the TTL key-value store the catalog keeps its
// derived views in (children listings, path mappings, item indexes, the leaf
// category list and rendered content).
//
// The catalog receives a Cache explicitly, so an in-process LRU and a
// distributed cache are interchangeable.
package cache

import "time"

// Kind names one family of cached values.
type Kind string

const (
	KindChildren Kind = "children"
	KindPath     Kind = "path"
	KindIndex    Kind = "index"
	KindLeaves   Kind = "leaves"
	KindContent  Kind = "content"

	// Kinds used by the link service in front of the providers.
	KindSuggestions Kind = "suggestions"
	KindLinkContent Kind = "link_content"
)

// Key scopes a cached value to a provider and a kind. Sub is the normalized
// path, id or query the value was derived from.
type Key struct {
	Provider string
	Kind     Kind
	Sub      string
}

// String renders the key as "provider:kind:sub".
func (k Key) String() string {
	return k.Provider + ":" + string(k.Kind) + ":" + k.Sub
}

// Cache is a TTL key-value store. Values are treated as immutable once set.
// A nil value is a legitimate entry (it records a known absence).
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the live value for key. Expired entries report false.
	Get(key Key) (any, bool)

	// Set stores value under key until ttl elapses. A non-positive ttl
	// stores nothing.
	Set(key Key, value any, ttl time.Duration)
}
