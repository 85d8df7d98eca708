package resolvers

import (
	"context"

	"github.com/wraplang/goclient"
)

// Redirect resolves exactly one from->to mapping: if uri equals From,
// it returns FromUri(To); otherwise ErrNotFound.
type Redirect struct {
	From wrap.Uri
	To   wrap.Uri
}

// NewRedirect returns a UriResolver for a single redirect entry,
// wrapped so it records a history step on every call.
func NewRedirect(r wrap.UriRedirect) wrap.UriResolver {
	return WithHistory(&Redirect{From: r.From, To: r.To}, "redirect")
}

func (r *Redirect) TryResolveUri(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.UriPackageOrWrapper, error) {
	if uri.Equals(r.From) {
		return wrap.FromUri(r.To), nil
	}
	return wrap.UriPackageOrWrapper{}, wrap.ErrNotFound
}

// Static resolves from a fixed, caller-supplied mapping of Uri to
// UriPackageOrWrapper — the terminal case for test fixtures and
// hand-wired configuration.
type Static struct {
	entries map[wrap.Uri]wrap.UriPackageOrWrapper
}

// NewStatic returns a UriResolver backed by entries, wrapped so it
// records a history step on every call.
func NewStatic(entries map[wrap.Uri]wrap.UriPackageOrWrapper) wrap.UriResolver {
	cp := make(map[wrap.Uri]wrap.UriPackageOrWrapper, len(entries))
	for k, v := range entries {
		cp[k] = v
	}
	return WithHistory(&Static{entries: cp}, "static")
}

func (s *Static) TryResolveUri(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.UriPackageOrWrapper, error) {
	if v, ok := s.entries[uri]; ok {
		return v, nil
	}
	return wrap.UriPackageOrWrapper{}, wrap.ErrNotFound
}
