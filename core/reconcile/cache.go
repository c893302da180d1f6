package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// cachedPlan is a plan together with the time it was built.
type cachedPlan struct {
	plan  Plan
	built time.Time
}

// ViewCache holds recently reconciled plans per user so that repeated reads do
// not hit the store. A zero TTL disables caching.
type ViewCache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	plans map[string]cachedPlan
	sf    singleflight.Group
	now   func() time.Time

	// gens and epoch are bumped by Invalidate and InvalidateAll. A build only
	// stores its plan if neither changed while it ran.
	gens  map[string]uint64
	epoch uint64
}

// NewViewCache creates an empty cache.
func NewViewCache(ttl time.Duration) *ViewCache {
	return &ViewCache{
		ttl:   ttl,
		plans: make(map[string]cachedPlan),
		now:   time.Now,
		gens:  make(map[string]uint64),
	}
}

func (c *ViewCache) fresh(key string) (Plan, bool) {
	c.mu.RLock()
	entry, ok := c.plans[key]
	c.mu.RUnlock()

	if !ok || c.ttl <= 0 || c.now().Sub(entry.built) > c.ttl {
		return Plan{}, false
	}
	return entry.plan, true
}

// GetOrBuild returns the cached plan for key, or builds a new one if it doesn't
// exist or has expired. Concurrent builds for the same key are collapsed.
func (c *ViewCache) GetOrBuild(ctx context.Context, key string, build func(ctx context.Context) (Plan, error)) (Plan, error) {
	// Fast path
	if plan, ok := c.fresh(key); ok {
		return plan, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		if plan, ok := c.fresh(key); ok {
			return plan, nil
		}

		c.mu.RLock()
		gen, epoch := c.gens[key], c.epoch
		c.mu.RUnlock()

		plan, err := build(ctx)
		if err != nil {
			return nil, err
		}

		if c.ttl > 0 {
			c.mu.Lock()
			if c.gens[key] == gen && c.epoch == epoch {
				c.plans[key] = cachedPlan{plan: plan, built: c.now()}
			}
			c.mu.Unlock()
		}
		return plan, nil
	})
	if err != nil {
		return Plan{}, err
	}

	return result.(Plan), nil
}

// Invalidate removes the cached plan for key. A build in flight for key is not
// cached, and later callers do not join it.
func (c *ViewCache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.plans, key)
	c.gens[key]++
	c.mu.Unlock()
	c.sf.Forget(key)
}

// InvalidateAll drops every cached plan.
func (c *ViewCache) InvalidateAll() {
	c.mu.Lock()
	c.plans = make(map[string]cachedPlan)
	c.epoch++
	c.mu.Unlock()
}
