package title

import (
	"container/list"
	"sync"
)

// DefaultCacheSize is the default bound for the title cache.
const DefaultCacheSize = 128

// cacheKeyLen caps how much memo text participates in the cache key.
const cacheKeyLen = 100

// Cache is a bounded LRU for generated titles, keyed by memo kind plus
// the first 100 characters of text. It is a pure performance
// optimization: titles are deterministic in fallback mode, so a stale
// entry can never be wrong. Construct one per process and inject it;
// the package keeps no ambient state.
type Cache struct {
	mu    sync.Mutex
	max   int
	ll    *list.List
	items map[string]*list.Element
}

type cacheEntry struct {
	key   string
	title string
}

// NewCache creates a cache bounded to max entries. Non-positive max
// falls back to DefaultCacheSize.
func NewCache(max int) *Cache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &Cache{
		max:   max,
		ll:    list.New(),
		items: make(map[string]*list.Element),
	}
}

// Get returns the cached title for (kind, text) if present.
func (c *Cache) Get(kind Kind, text string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[cacheKey(kind, text)]
	if !ok {
		return "", false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).title, true
}

// Put stores a title, evicting the oldest entry when full.
func (c *Cache) Put(kind Kind, text, title string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(kind, text)
	if el, ok := c.items[key]; ok {
		el.Value.(*cacheEntry).title = title
		c.ll.MoveToFront(el)
		return
	}

	c.items[key] = c.ll.PushFront(&cacheEntry{key: key, title: title})
	if c.ll.Len() > c.max {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry).key)
	}
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func cacheKey(kind Kind, text string) string {
	if len(text) > cacheKeyLen {
		text = text[:cacheKeyLen]
	}
	return string(kind) + "|" + text
}
