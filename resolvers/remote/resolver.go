package remote

import (
	"context"
	"errors"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/manifest"
	"github.com/wraplang/goclient/resolvers"
)

// Resolver adapts a Fetcher into a wrap.UriResolver: it fetches the
// manifest and module at uri, parses and verifies the manifest
// against the module's content digest, and hands the verified pair to
// build. A Fetcher reporting ErrObjectNotFound becomes wrap.ErrNotFound
// so this Resolver composes under UriResolverAggregator like any
// other leaf.
type Resolver struct {
	fetcher Fetcher
	build   PackageBuilder
}

// NewResolver returns a UriResolver backed by fetcher, wrapped so it
// records a history step on every call.
func NewResolver(fetcher Fetcher, build PackageBuilder) wrap.UriResolver {
	return resolvers.WithHistory(&Resolver{fetcher: fetcher, build: build}, "remote")
}

func (r *Resolver) TryResolveUri(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.UriPackageOrWrapper, error) {
	manifestBytes, moduleBytes, err := r.fetcher.Fetch(ctx, uri)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return wrap.UriPackageOrWrapper{}, wrap.ErrNotFound
		}
		return wrap.UriPackageOrWrapper{}, wrap.ResolutionError{SourceUri: uri, Message: "remote fetch failed", Cause: err}
	}

	mf, err := manifest.Parse(manifestBytes)
	if err != nil {
		return wrap.UriPackageOrWrapper{}, err
	}
	if err := mf.VerifyModule(moduleBytes); err != nil {
		return wrap.UriPackageOrWrapper{}, err
	}

	pkg, err := r.build(manifestBytes, moduleBytes)
	if err != nil {
		return wrap.UriPackageOrWrapper{}, wrap.ResolutionError{SourceUri: uri, Message: "could not build package", Cause: err}
	}

	return wrap.FromPackage(uri, pkg), nil
}
