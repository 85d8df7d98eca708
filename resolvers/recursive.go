package resolvers

import (
	"context"

	"github.com/wraplang/goclient"
)

// Recursive wraps inner so that whenever inner resolves uri to
// another Uri, the chain is followed — through Recursive itself, not
// just inner — until it terminates in a Package/Wrapper, reaches a
// fixed point (next == uri), or a cycle is detected on this branch.
type Recursive struct {
	inner wrap.UriResolver
}

// NewRecursive returns a UriResolver that chases redirect chains
// produced by inner to termination or InfiniteLoop.
func NewRecursive(inner wrap.UriResolver) wrap.UriResolver {
	return &Recursive{inner: inner}
}

func (r *Recursive) TryResolveUri(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.UriPackageOrWrapper, error) {
	if err := rctx.EnterVisited(uri); err != nil {
		return wrap.UriPackageOrWrapper{}, err
	}
	defer rctx.ExitVisited(uri)

	result, err := r.inner.TryResolveUri(ctx, uri, invoker, rctx)
	if err != nil {
		return wrap.UriPackageOrWrapper{}, err
	}

	if next, ok := result.IsUri(); ok && !next.Equals(uri) {
		return r.TryResolveUri(ctx, next, invoker, rctx)
	}

	return result, nil
}
