package wrap

import "sync"

// UriResolutionStep is one entry in a resolution history tree: what a
// resolver produced (or failed to produce) for SourceUri, optionally
// with a sub-history recorded by a composite resolver's children.
type UriResolutionStep struct {
	SourceUri   Uri
	Result      UriPackageOrWrapper
	Err         error
	Description string
	SubHistory  []UriResolutionStep
}

// Ok reports whether this step succeeded.
func (s UriResolutionStep) Ok() bool { return s.Err == nil }

// ResolutionContext is the mutable per-invocation ledger threaded
// through every resolver call on one resolution branch: the
// in-flight visited set (cycle detection), the ordered path actually
// traversed, and the flat history list recorded at this context's
// root.
//
// A ResolutionContext is not safe for concurrent use by itself — per
// spec §5.1, it is mutated only by the worker running the invocation
// or its synchronous sub-invocations, which are sequential by
// construction. The mutex here guards the rarer case of a resolver
// (e.g. ResolutionResultCacheResolver) spinning up a sub-context
// concurrently with history appends from a sibling branch sharing the
// same backing cache.
type ResolutionContext struct {
	mu        sync.Mutex
	visited   map[Uri]struct{}
	path      []Uri
	history   []UriResolutionStep
}

// NewResolutionContext returns a fresh, empty root context.
func NewResolutionContext() *ResolutionContext {
	return &ResolutionContext{visited: make(map[Uri]struct{})}
}

// CreateSubContext returns a new context for a sub-resolution branch:
// it inherits (clones) the visited set so cycle detection still spans
// the parent branch, but starts with a fresh history list, per spec
// §3 ("creating a sub-context inherits... the visited set but creates
// a fresh history list").
func (c *ResolutionContext) CreateSubContext() *ResolutionContext {
	c.mu.Lock()
	defer c.mu.Unlock()

	visited := make(map[Uri]struct{}, len(c.visited))
	for u := range c.visited {
		visited[u] = struct{}{}
	}
	return &ResolutionContext{visited: visited}
}

// EnterVisited adds uri to the visited set, returning InfiniteLoop if
// it was already present on this branch.
func (c *ResolutionContext) EnterVisited(uri Uri) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.visited[uri]; ok {
		return InfiniteLoop{Uri: uri}
	}
	c.visited[uri] = struct{}{}
	c.path = append(c.path, uri)
	return nil
}

// ExitVisited removes uri from the visited set. The resolution path
// is left intact.
func (c *ResolutionContext) ExitVisited(uri Uri) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.visited, uri)
}

// IsVisited reports whether uri is currently in flight on this
// branch.
func (c *ResolutionContext) IsVisited(uri Uri) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.visited[uri]
	return ok
}

// Path returns the ordered list of Uris actually traversed on this
// branch so far.
func (c *ResolutionContext) Path() []Uri {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Uri, len(c.path))
	copy(out, c.path)
	return out
}

// AppendStep records step at the root of this context's history.
func (c *ResolutionContext) AppendStep(step UriResolutionStep) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = append(c.history, step)
}

// History returns the flat, ordered list of steps recorded at this
// context's root.
func (c *ResolutionContext) History() []UriResolutionStep {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]UriResolutionStep, len(c.history))
	copy(out, c.history)
	return out
}
