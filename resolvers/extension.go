package resolvers

import (
	"context"
	"sync"

	"github.com/wraplang/goclient"
)

// PackageBuilder constructs a wrap.WrapPackage from the manifest and
// module bytes returned by a resolver-wrapper's tryResolveUri method.
// It is the seam where the (out-of-scope) WebAssembly engine plugs
// in: a real implementation compiles moduleBytes and wires it to a
// Wrapper whose GetManifest reflects manifestBytes.
type PackageBuilder func(manifestBytes, moduleBytes []byte) (wrap.WrapPackage, error)

// extensionResolveArgs is the structured argument passed to the
// resolver-wrapper's tryResolveUri method.
type extensionResolveArgs struct {
	Authority string `json:"authority"`
	Path      string `json:"path"`
}

// extensionResolveResult is the structured result decoded from the
// resolver-wrapper's tryResolveUri method: either Uri, or Manifest
// together with Module, or nothing (not-found). Uri takes precedence
// when it is set.
type extensionResolveResult struct {
	Uri      string `json:"uri,omitempty"`
	Manifest []byte `json:"manifest,omitempty"`
	Module   []byte `json:"module,omitempty"`
}

// ExtensionWrapper resolves uri by invoking the tryResolveUri method
// of a user-supplied resolver-wrapper, itself a wrap.Wrapper. The
// resolver-wrapper is loaded lazily (on first use) through loader,
// which lets the cyclic construction in spec §9 resolve: the client
// late-binds loader/invoker after constructing this resolver.
type ExtensionWrapper struct {
	ResolverWrapperUri wrap.Uri
	Loader             wrap.LoaderHandle
	Codec              wrap.Codec
	Build              PackageBuilder

	loadOnce sync.Once
	wrapper  wrap.Wrapper
	loadErr  error
}

// NewExtensionWrapper returns a UriResolver for resolverWrapperUri,
// wrapped so it records a history step on every call.
func NewExtensionWrapper(resolverWrapperUri wrap.Uri, loader wrap.LoaderHandle, codec wrap.Codec, build PackageBuilder) wrap.UriResolver {
	return WithHistory(&ExtensionWrapper{
		ResolverWrapperUri: resolverWrapperUri,
		Loader:             loader,
		Codec:              codec,
		Build:              build,
	}, "extension-wrapper")
}

func (e *ExtensionWrapper) TryResolveUri(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.UriPackageOrWrapper, error) {
	w, err := e.resolverWrapper(ctx, invoker, rctx)
	if err != nil {
		return wrap.UriPackageOrWrapper{}, wrap.ResolutionError{SourceUri: uri, Message: "could not load resolver-wrapper", Cause: err}
	}

	argBytes, err := e.Codec.Encode(extensionResolveArgs{Authority: uri.Authority(), Path: uri.Path()})
	if err != nil {
		return wrap.UriPackageOrWrapper{}, wrap.ResolutionError{SourceUri: uri, Message: "could not encode tryResolveUri args", Cause: err}
	}

	resultBytes, err := invoker.InvokeWrapper(ctx, w, e.ResolverWrapperUri, "tryResolveUri", argBytes, nil, rctx)
	if err != nil {
		return wrap.UriPackageOrWrapper{}, wrap.ResolutionError{SourceUri: uri, Message: "resolver-wrapper invocation failed", Cause: err}
	}

	var result extensionResolveResult
	if err := e.Codec.Decode(resultBytes, &result); err != nil {
		return wrap.UriPackageOrWrapper{}, wrap.ResolutionError{SourceUri: uri, Message: "could not decode tryResolveUri result", Cause: err}
	}

	switch {
	case result.Uri != "":
		next, err := wrap.ParseUri(result.Uri)
		if err != nil {
			return wrap.UriPackageOrWrapper{}, wrap.ResolutionError{SourceUri: uri, Message: "resolver-wrapper returned an invalid uri", Cause: err}
		}
		return wrap.FromUri(next), nil
	case len(result.Manifest) > 0:
		pkg, err := e.Build(result.Manifest, result.Module)
		if err != nil {
			return wrap.UriPackageOrWrapper{}, wrap.ResolutionError{SourceUri: uri, Message: "could not build package", Cause: err}
		}
		return wrap.FromPackage(uri, pkg), nil
	default:
		return wrap.UriPackageOrWrapper{}, wrap.ErrNotFound
	}
}

func (e *ExtensionWrapper) resolverWrapper(ctx context.Context, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.Wrapper, error) {
	e.loadOnce.Do(func() {
		e.wrapper, e.loadErr = e.Loader.LoadWrapper(ctx, e.ResolverWrapperUri, invoker, rctx)
	})
	return e.wrapper, e.loadErr
}
