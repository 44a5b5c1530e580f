package shader

import "sync"

// Cache memoizes composed variants by canonical key string. Composition
// is pure, so the cache composes outside the lock and lets the first
// writer win when two goroutines race on the same key.
type Cache struct {
	composer *Composer

	mu       sync.RWMutex
	variants map[string]*CompiledVariant
}

func NewCache(c *Composer) *Cache {
	return &Cache{
		composer: c,
		variants: make(map[string]*CompiledVariant),
	}
}

// GetOrCompose returns the cached variant for key, composing and
// inserting it on first use. The second result reports whether the
// variant was already cached. Invalid keys are never inserted.
func (c *Cache) GetOrCompose(key VariantKey) (*CompiledVariant, bool, error) {
	id := key.String()

	c.mu.RLock()
	v, ok := c.variants[id]
	c.mu.RUnlock()
	if ok {
		return v, true, nil
	}

	composed, err := c.composer.Compose(key)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.variants[id]; ok {
		return v, true, nil
	}
	c.variants[id] = composed
	return composed, false, nil
}

// Drop evicts the variant for key and reports whether it was present.
// The viewer calls this when the driver rejects a composed source, so
// a later request re-composes instead of replaying the bad program.
func (c *Cache) Drop(key VariantKey) bool {
	id := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.variants[id]; !ok {
		return false
	}
	delete(c.variants, id)
	return true
}

// Clear evicts everything.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.variants = make(map[string]*CompiledVariant)
	c.mu.Unlock()
}

// Len reports the number of cached variants.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.variants)
}
