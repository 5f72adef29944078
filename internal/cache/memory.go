package cache

import (
	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache wraps hashicorp/golang-lru/v2/expirable to implement TextCache.
type memoryCache struct {
	inner *lru.LRU[string, string]
}

func newMemoryCache(cfg ProviderConfig) (TextCache, error) {
	var onEvict func(string, string)
	if cfg.OnEvict != nil {
		onEvict = func(key string, text string) {
			cfg.OnEvict(key, text)
		}
	}
	return &memoryCache{
		inner: lru.NewLRU[string, string](cfg.Size, onEvict, cfg.TTL),
	}, nil
}

func (m *memoryCache) Get(key string) (string, bool) {
	return m.inner.Get(key)
}

func (m *memoryCache) Set(key string, text string) {
	m.inner.Add(key, text)
}

func (m *memoryCache) Contains(key string) bool {
	return m.inner.Contains(key)
}

func (m *memoryCache) Len() int {
	return m.inner.Len()
}

func (m *memoryCache) Close() error {
	return nil
}
