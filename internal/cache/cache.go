// Package cache holds the two caching layers of the pipeline: a pluggable
// key/value cache for rewritten playlist text (memory LRU or Redis, behind
// a provider factory) and the on-disk Store that materializes playlists
// and segments for local playback.
package cache

// EvictCallback is called when an entry is evicted from the playlist cache.
// Not all providers support eviction callbacks (Redis relies on server-side TTL expiry).
type EvictCallback func(key string, text string)

// Logger receives error reports from cache operations. Kept minimal so the
// package does not depend on a concrete logging library.
type Logger interface {
	Error(msg string, err error)
}

// TextCache is a bounded cache of rewritten playlist text keyed by
// "provider|sourceURL". It accelerates repeat resolves; the disk Store
// stays authoritative for what the player is handed.
type TextCache interface {
	// Get retrieves the text for a key. Returns the text and true if found,
	// or "" and false if not.
	Get(key string) (string, bool)

	// Set stores text under the given key, overwriting any previous value.
	Set(key string, text string)

	// Contains checks whether a key exists without affecting LRU ordering.
	Contains(key string) bool

	// Len returns the number of entries currently cached.
	// For external backends like Redis this may reflect the server-side count.
	Len() int

	// Close releases any resources held by the cache (e.g., network connections).
	// For in-memory caches, this is a no-op.
	Close() error
}
