package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/davedeals/davedeals-server/internal/domain"
)

// Snapshot is an immutable view of the catalog at one point in time.
// Consumers must not mutate its slices.
type Snapshot struct {
	Products   []domain.Product
	Categories []domain.Category

	bySlug map[string]*domain.Category
}

// NewSnapshot builds a snapshot with its slug index.
func NewSnapshot(products []domain.Product, categories []domain.Category) *Snapshot {
	s := &Snapshot{
		Products:   products,
		Categories: categories,
		bySlug:     make(map[string]*domain.Category, len(categories)),
	}
	for i := range categories {
		s.bySlug[categories[i].Slug] = &categories[i]
	}
	return s
}

// CategoryBySlug returns the category with the given slug, or nil.
func (s *Snapshot) CategoryBySlug(slug string) *domain.Category {
	return s.bySlug[slug]
}

// ProductsByCategory returns the products whose CategorySlug matches.
func (s *Snapshot) ProductsByCategory(slug string) []domain.Product {
	out := []domain.Product{}
	for _, p := range s.Products {
		if p.CategorySlug == slug {
			out = append(out, p)
		}
	}
	return out
}

// Loader produces a fresh snapshot, typically from the store.
type Loader func(ctx context.Context) (*Snapshot, error)

// Cache holds one snapshot with an explicit TTL and invalidation. It
// replaces hidden module-level caching: the owner constructs it, passes
// it where needed, and decides when to invalidate (writes, file
// watcher, admin action).
type Cache struct {
	loader Loader
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	snap    *Snapshot
	fetched time.Time
}

// NewCache creates a snapshot cache. A non-positive ttl caches forever
// (until Invalidate).
func NewCache(loader Loader, ttl time.Duration) *Cache {
	return &Cache{
		loader: loader,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get returns the cached snapshot, reloading it when missing or
// expired. Concurrent callers share a single reload.
func (c *Cache) Get(ctx context.Context) (*Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap != nil && (c.ttl <= 0 || c.now().Sub(c.fetched) < c.ttl) {
		return c.snap, nil
	}

	snap, err := c.loader(ctx)
	if err != nil {
		// Serve the stale snapshot, if any, rather than failing a
		// storefront render.
		if c.snap != nil {
			return c.snap, nil
		}
		return nil, err
	}

	c.snap = snap
	c.fetched = c.now()
	return c.snap, nil
}

// Invalidate drops the cached snapshot; the next Get reloads.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = nil
}
