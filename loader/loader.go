// Package loader drives a UriResolver to completion and converts its
// terminal result into a Wrapper, per spec.md §4.4.
package loader

import (
	"context"
	"errors"

	"github.com/wraplang/goclient"
)

// Loader owns the root resolver of a resolution pipeline and knows
// how to turn whatever it terminates in into a Wrapper.
type Loader struct {
	resolver wrap.UriResolver
}

var _ wrap.LoaderHandle = (*Loader)(nil)

// New returns a Loader driven by resolver. resolver may be nil, to be
// filled in later with SetResolver — see package client, which must
// construct a Loader before the resolver tree it will drive can be
// built, since nodes of that tree (ExtensionWrapperResolver) hold a
// LoaderHandle back-reference to this Loader.
func New(resolver wrap.UriResolver) *Loader {
	return &Loader{resolver: resolver}
}

// SetResolver binds (or rebinds) the resolver this Loader drives. It
// exists solely for the one-time late-binding client.Bootstrap
// performs while wiring the Invoker/Loader/Resolver cycle together;
// callers outside that wiring step should treat a Loader's resolver as
// fixed for its lifetime.
func (l *Loader) SetResolver(resolver wrap.UriResolver) {
	l.resolver = resolver
}

// Resolver returns the resolver this Loader currently drives, for
// callers (client.Client.TryResolveUri) that want to resolve a Uri
// without materializing a Wrapper.
func (l *Loader) Resolver() wrap.UriResolver {
	return l.resolver
}

// LoadWrapper resolves uri through the root resolver and
// post-processes the result: a Wrapper is returned as-is; a Package
// has CreateWrapper called on it; a bare Uri (resolution did not
// terminate) is a LoadWrapperError. A tree that reports ErrNotFound is
// also turned into a LoadWrapperError, so the sentinel never leaves
// the loader.
func (l *Loader) LoadWrapper(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.Wrapper, error) {
	result, err := l.resolver.TryResolveUri(ctx, uri, invoker, rctx)
	if err != nil {
		if errors.Is(err, wrap.ErrNotFound) {
			return nil, wrap.LoadWrapperError{Uri: uri, Message: "no resolver could resolve the uri"}
		}
		return nil, err
	}

	if w, ok := result.IsWrapper(); ok {
		return w, nil
	}

	if pkg, ok := result.IsPackage(); ok {
		w, err := pkg.CreateWrapper(ctx)
		if err != nil {
			return nil, wrap.LoadWrapperError{Uri: uri, Message: "package failed to create wrapper: " + err.Error()}
		}
		return w, nil
	}

	return nil, wrap.LoadWrapperError{Uri: uri, Message: "resolution did not yield a wrapper or package"}
}
