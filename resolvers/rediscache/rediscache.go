// Package rediscache provides a redigo-backed resolvers.ResultCache,
// grounded on the same local-then-remote write-through shape as
// registry/proxy/proxyblobstore.go, but sharing resolution results
// across processes the way the teacher's storage drivers share
// blobs across registry instances. It is still success-only and
// never evicts; eviction is the backing Redis instance's problem
// (e.g. a maxmemory policy), not this package's.
package rediscache

import (
	"encoding/json"

	"github.com/gomodule/redigo/redis"

	"github.com/wraplang/goclient"
	"github.com/wraplang/goclient/manifest"
	"github.com/wraplang/goclient/resolvers"
)

// Cache is a resolvers.ResultCache backed by a redigo connection
// pool. Keys are namespaced under prefix to let several caches share
// one Redis instance.
type Cache struct {
	pool   *redis.Pool
	prefix string
}

var _ resolvers.ResultCache = (*Cache)(nil)

// New returns a Cache using pool, namespacing keys under prefix
// (e.g. "wrapclient:resolve:").
func New(pool *redis.Pool, prefix string) *Cache {
	return &Cache{pool: pool, prefix: prefix}
}

// cachedEntry is the JSON-serializable projection of a
// wrap.UriPackageOrWrapper that a Redis-backed cache stores. Only the
// "resolved to another uri" case is written and read back: a live
// Package or Wrapper handle cannot be serialized, so Put skips those
// results and Get reports a miss for them. The IsPackage and
// PackageUri fields are never set by Put.
type cachedEntry struct {
	Authority  string `json:"authority"`
	Path       string `json:"path"`
	ResultUri  string `json:"result_uri,omitempty"`
	IsPackage  bool   `json:"is_package,omitempty"`
	PackageUri string `json:"package_uri,omitempty"`
}

// Get implements resolvers.ResultCache.
func (c *Cache) Get(uri wrap.Uri) (wrap.UriPackageOrWrapper, bool) {
	conn := c.pool.Get()
	defer conn.Close()

	raw, err := redis.Bytes(conn.Do("GET", c.key(uri)))
	if err != nil {
		return wrap.UriPackageOrWrapper{}, false
	}

	var entry cachedEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return wrap.UriPackageOrWrapper{}, false
	}

	switch {
	case entry.ResultUri != "":
		next, err := wrap.ParseUri(entry.ResultUri)
		if err != nil {
			return wrap.UriPackageOrWrapper{}, false
		}
		return wrap.FromUri(next), true
	default:
		// Package/Wrapper results are not reconstructible from bytes
		// alone without a loader; treat as absent.
		return wrap.UriPackageOrWrapper{}, false
	}
}

// Put implements resolvers.ResultCache. Only the "redirected to
// another uri" case is durable across this backend; other cases are
// accepted silently (matching the in-process MemoryCache's
// unconditional write) but produce no retrievable entry.
func (c *Cache) Put(uri wrap.Uri, result wrap.UriPackageOrWrapper) {
	next, ok := result.IsUri()
	if !ok {
		return
	}

	entry := cachedEntry{
		Authority: uri.Authority(),
		Path:      uri.Path(),
		ResultUri: next.String(),
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}

	conn := c.pool.Get()
	defer conn.Close()
	_, _ = conn.Do("SET", c.key(uri), raw)
}

// key namespaces uri under prefix using manifest.Fingerprint rather
// than uri.String() directly, so an authority/path containing
// characters Redis key conventions discourage never reaches the wire,
// and every key has a fixed, predictable length regardless of uri
// length.
func (c *Cache) key(uri wrap.Uri) string {
	return c.prefix + manifest.Fingerprint(uri)
}
