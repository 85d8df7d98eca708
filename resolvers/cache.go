package resolvers

import (
	"context"
	"sync"

	"github.com/wraplang/goclient"
)

// ResultCache stores successful resolution results keyed by Uri.
// Implementations back ResolutionResultCacheResolver; the default is
// MemoryCache. See resolvers/rediscache for a process-external
// backend.
type ResultCache interface {
	Get(uri wrap.Uri) (wrap.UriPackageOrWrapper, bool)
	Put(uri wrap.Uri, result wrap.UriPackageOrWrapper)
}

// MemoryCache is a permanent-within-process, success-only
// ResultCache. It never evicts; callers wanting bounded memory should
// supply a different ResultCache implementation.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[wrap.Uri]wrap.UriPackageOrWrapper
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[wrap.Uri]wrap.UriPackageOrWrapper)}
}

// Get implements ResultCache.
func (c *MemoryCache) Get(uri wrap.Uri) (wrap.UriPackageOrWrapper, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[uri]
	return v, ok
}

// Put implements ResultCache.
func (c *MemoryCache) Put(uri wrap.Uri, result wrap.UriPackageOrWrapper) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[uri] = result
}

// Cache wraps inner with a ResultCache: a cache hit short-circuits
// inner entirely and records a single "cache hit" history step; a
// miss delegates to inner through a sub-context and, on success only,
// seeds the cache under every Uri in the sub-context's resolution
// path — so intermediate redirect sources are memoized too, not just
// the terminal Uri. Failures are never cached. Grounded on
// registry/proxy/proxyblobstore.go's local-then-remote,
// write-through-on-success Get.
type Cache struct {
	inner    wrap.UriResolver
	store    ResultCache
	onLookup func(hit bool)
}

// NewCache returns a ResolutionResultCacheResolver wrapping inner,
// backed by store.
func NewCache(inner wrap.UriResolver, store ResultCache) wrap.UriResolver {
	return &Cache{inner: inner, store: store}
}

// NewCacheWithMetrics is NewCache plus an onLookup callback invoked
// with true on every cache hit and false on every miss, for callers
// (invoker) that want to publish cache-hit-ratio metrics without the
// cache itself depending on a metrics library.
func NewCacheWithMetrics(inner wrap.UriResolver, store ResultCache, onLookup func(hit bool)) wrap.UriResolver {
	return &Cache{inner: inner, store: store, onLookup: onLookup}
}

func (c *Cache) TryResolveUri(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.UriPackageOrWrapper, error) {
	if cached, ok := c.store.Get(uri); ok {
		if c.onLookup != nil {
			c.onLookup(true)
		}
		rctx.AppendStep(wrap.UriResolutionStep{
			SourceUri:   uri,
			Result:      cached,
			Description: "cache hit",
		})
		return cached, nil
	}
	if c.onLookup != nil {
		c.onLookup(false)
	}

	sub := rctx.CreateSubContext()
	result, err := c.inner.TryResolveUri(ctx, uri, invoker, sub)

	if err == nil {
		path := sub.Path()
		if len(path) == 0 {
			path = []wrap.Uri{uri}
		}
		for _, seeded := range path {
			c.store.Put(seeded, result)
		}
	}

	rctx.AppendStep(wrap.UriResolutionStep{
		SourceUri:   uri,
		Result:      result,
		Err:         err,
		Description: "cache miss",
		SubHistory:  sub.History(),
	})

	return result, err
}
