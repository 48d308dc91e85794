package render

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedRenderer wraps a Renderer with a bounded snapshot cache keyed by URL.
// A cyclic next-link that points back to an already-rendered page is served
// from the cache instead of hitting the browser runtime again.
type CachedRenderer struct {
	inner Renderer
	cache *lru.Cache[string, *PageSnapshot]
}

// NewCachedRenderer wraps inner with an LRU cache of at most size snapshots.
func NewCachedRenderer(inner Renderer, size int) (*CachedRenderer, error) {
	cache, err := lru.New[string, *PageSnapshot](size)
	if err != nil {
		return nil, err
	}
	return &CachedRenderer{inner: inner, cache: cache}, nil
}

// Render returns the cached snapshot for url when present, rendering and
// caching it otherwise. Partial snapshots are not cached so a later visit
// gets another chance at a full render.
func (r *CachedRenderer) Render(ctx context.Context, url string, wait WaitCondition) (*PageSnapshot, error) {
	if snap, ok := r.cache.Get(url); ok {
		return snap, nil
	}

	snap, err := r.inner.Render(ctx, url, wait)
	if err != nil {
		return nil, err
	}
	if !snap.Partial {
		r.cache.Add(url, snap)
	}
	return snap, nil
}

// Close closes the wrapped renderer.
func (r *CachedRenderer) Close() error {
	r.cache.Purge()
	return r.inner.Close()
}
