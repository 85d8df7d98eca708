package wrap

import "context"

// UriResolver maps a Uri to a UriPackageOrWrapper given a resolution
// context. Implementations must be safe for concurrent read; any
// mutable internal state (notably caches) must serialize its own
// writes (spec §5.2).
//
// Returning ErrNotFound means "not mine" — only UriResolverAggregator
// recovers from it; every other caller treats it as a real failure.
type UriResolver interface {
	TryResolveUri(ctx context.Context, uri Uri, invoker InvokerHandle, rctx *ResolutionContext) (UriPackageOrWrapper, error)
}

// InvokerHandle is the restricted invoker capability a UriResolver
// needs: enough to run a resolver-wrapper's own method during
// resolution (ExtensionWrapperResolver) without giving resolvers the
// full Client surface.
type InvokerHandle interface {
	InvokeWrapper(ctx context.Context, w Wrapper, uri Uri, method string, args []byte, env []byte, rctx *ResolutionContext) ([]byte, error)
	GetImplementations(interfaceUri Uri) []Uri
}

// LoaderHandle is the restricted loader capability a UriResolver
// needs to materialize a Wrapper from a Uri it does not itself know
// how to resolve directly (ExtensionWrapperResolver lazily loading
// its own resolver-wrapper).
type LoaderHandle interface {
	LoadWrapper(ctx context.Context, uri Uri, invoker InvokerHandle, rctx *ResolutionContext) (Wrapper, error)
}
