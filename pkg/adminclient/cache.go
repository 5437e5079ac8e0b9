package adminclient

import "sync"

// listCache holds decoded list responses keyed by resource and the canonical
// query key of the filter state that produced them. Each resource carries a
// generation counter bumped on every invalidation; a fetch that started
// before the bump is discarded on store, so a slow response can never
// resurrect data a later write already invalidated.
type listCache struct {
	mu      sync.Mutex
	gens    map[string]uint64
	entries map[string]map[string]any
}

func newListCache() *listCache {
	return &listCache{
		gens:    make(map[string]uint64),
		entries: make(map[string]map[string]any),
	}
}

// generation returns the resource's current generation. Callers read it
// before fetching and pass it back to put.
func (c *listCache) generation(resource string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[resource]
}

func (c *listCache) get(resource, key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[resource][key]
	return v, ok
}

// put stores a list response unless the resource was invalidated since gen
// was read.
func (c *listCache) put(resource, key string, gen uint64, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gens[resource] != gen {
		return
	}
	m := c.entries[resource]
	if m == nil {
		m = make(map[string]any)
		c.entries[resource] = m
	}
	m[key] = v
}

// invalidate drops every cached page of a resource and bumps its generation.
func (c *listCache) invalidate(resource string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[resource]++
	delete(c.entries, resource)
}

func (c *listCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for r := range c.entries {
		c.gens[r]++
	}
	c.entries = make(map[string]map[string]any)
}
