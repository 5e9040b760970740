package template

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

type parsed struct {
	tree Value
	err  error
}

// Cache memoizes parsed templates. Keys must change whenever the template
// text changes; callers use the mock id plus its update timestamp. Cached
// trees are shared, which is safe because materialization never mutates them.
type Cache struct {
	entries *lru.Cache[string, parsed]

	// OnLookup, when set, is told whether each Parse was served from the cache.
	OnLookup func(hit bool)
}

// NewCache returns a cache holding up to size parsed templates. A size of
// zero or less disables caching.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return &Cache{}, nil
	}
	entries, err := lru.New[string, parsed](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Parse returns the parsed form of raw, consulting the cache under key.
// Parse failures are cached too so a broken template is not re-parsed on
// every request.
func (c *Cache) Parse(key, raw string) (Value, error) {
	if c == nil || c.entries == nil {
		return Parse([]byte(raw))
	}
	if hit, ok := c.entries.Get(key); ok {
		c.observe(true)
		return hit.tree, hit.err
	}
	c.observe(false)
	tree, err := Parse([]byte(raw))
	c.entries.Add(key, parsed{tree: tree, err: err})
	return tree, err
}

func (c *Cache) observe(hit bool) {
	if c.OnLookup != nil {
		c.OnLookup(hit)
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	if c == nil || c.entries == nil {
		return 0
	}
	return c.entries.Len()
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	if c == nil || c.entries == nil {
		return
	}
	c.entries.Purge()
}
