package resolvers

import (
	"context"
	"errors"

	"github.com/wraplang/goclient"
)

// Aggregator tries an ordered list of child resolvers and returns the
// first non-ErrNotFound result. If every child returns ErrNotFound,
// the aggregator itself returns ErrNotFound (not an error) — this is
// the only site in the whole resolver tree that recovers from
// ErrNotFound (spec §7).
type Aggregator struct {
	children []wrap.UriResolver
}

// NewAggregator returns a UriResolverAggregator over children, in
// order. The aggregator records one composite history step whose
// SubHistory is the concatenation of each child's sub-history.
func NewAggregator(children ...wrap.UriResolver) wrap.UriResolver {
	return &Aggregator{children: children}
}

func (a *Aggregator) TryResolveUri(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.UriPackageOrWrapper, error) {
	sub := rctx.CreateSubContext()

	for _, child := range a.children {
		result, err := child.TryResolveUri(ctx, uri, invoker, sub)
		if err == nil {
			rctx.AppendStep(wrap.UriResolutionStep{
				SourceUri:   uri,
				Result:      result,
				Description: "aggregator",
				SubHistory:  sub.History(),
			})
			return result, nil
		}
		if errors.Is(err, wrap.ErrNotFound) {
			continue
		}

		rctx.AppendStep(wrap.UriResolutionStep{
			SourceUri:   uri,
			Err:         err,
			Description: "aggregator",
			SubHistory:  sub.History(),
		})
		return wrap.UriPackageOrWrapper{}, err
	}

	rctx.AppendStep(wrap.UriResolutionStep{
		SourceUri:   uri,
		Err:         wrap.ErrNotFound,
		Description: "aggregator",
		SubHistory:  sub.History(),
	})
	return wrap.UriPackageOrWrapper{}, wrap.ErrNotFound
}
