// Package resolvers provides the composable UriResolver
// implementations described in spec.md §4: leaf resolvers (redirect,
// static, extension-wrapper) and composite resolvers (aggregator,
// recursive, result-cache), plus the ResolverWithHistory decorator
// that is the sole site where "leaf" resolvers record history steps.
package resolvers

import (
	"context"

	"github.com/wraplang/goclient"
)

// WithHistory wraps inner so that every TryResolveUri call appends a
// UriResolutionStep to rctx.History() describing what inner produced,
// then returns inner's result verbatim. This is the only site at
// which history is written for leaf resolvers; composite resolvers
// either write their own composite step or delegate per-child to a
// WithHistory-wrapped child.
func WithHistory(inner wrap.UriResolver, description string) wrap.UriResolver {
	return &historyResolver{inner: inner, description: description}
}

type historyResolver struct {
	inner       wrap.UriResolver
	description string
}

func (h *historyResolver) TryResolveUri(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.UriPackageOrWrapper, error) {
	result, err := h.inner.TryResolveUri(ctx, uri, invoker, rctx)

	step := wrap.UriResolutionStep{
		SourceUri:   uri,
		Description: h.description,
	}
	if err != nil {
		step.Err = err
	} else {
		step.Result = result
	}
	rctx.AppendStep(step)

	return result, err
}
