package resolvers

import (
	"context"
	"errors"
	"testing"

	wrap "github.com/wraplang/goclient"
)

type countingResolver struct {
	result wrap.UriPackageOrWrapper
	err    error
	calls  int
}

func (c *countingResolver) TryResolveUri(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.UriPackageOrWrapper, error) {
	c.calls++
	return c.result, c.err
}

func TestRedirectChainTerminates(t *testing.T) {
	a := wrap.MustParseUri("wrap://test/a")
	b := wrap.MustParseUri("wrap://test/b")
	w := wrap.MustParseUri("wrap://test/wrapper")

	tree := NewRecursive(NewAggregator(
		NewRedirect(wrap.UriRedirect{From: a, To: b}),
		NewRedirect(wrap.UriRedirect{From: b, To: w}),
		NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{w: wrap.FromWrapper(w, nil)}),
	))

	rctx := wrap.NewResolutionContext()
	result, err := tree.TryResolveUri(context.Background(), a, nil, rctx)
	if err != nil {
		t.Fatalf("TryResolveUri: %v", err)
	}
	if got, ok := result.IsWrapper(); !ok || got != nil {
		t.Fatalf("expected terminal wrapper case, got %+v", result)
	}

	path := rctx.Path()
	want := []wrap.Uri{a, b, w}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i, u := range want {
		if !path[i].Equals(u) {
			t.Fatalf("path[%d] = %s, want %s", i, path[i], u)
		}
	}
}

func TestCycleRejected(t *testing.T) {
	a := wrap.MustParseUri("wrap://test/a")
	b := wrap.MustParseUri("wrap://test/b")

	tree := NewRecursive(NewAggregator(
		NewRedirect(wrap.UriRedirect{From: a, To: b}),
		NewRedirect(wrap.UriRedirect{From: b, To: a}),
	))

	rctx := wrap.NewResolutionContext()
	_, err := tree.TryResolveUri(context.Background(), a, nil, rctx)

	var loop wrap.InfiniteLoop
	if !errors.As(err, &loop) {
		t.Fatalf("expected InfiniteLoop, got %v", err)
	}
}

func TestAggregatorFirstMatchWins(t *testing.T) {
	u := wrap.MustParseUri("wrap://test/u")
	w1 := wrap.MustParseUri("wrap://test/first")
	w2 := wrap.MustParseUri("wrap://test/second")

	agg := NewAggregator(
		NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{u: wrap.FromUri(w1)}),
		NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{u: wrap.FromUri(w2)}),
	)

	rctx := wrap.NewResolutionContext()
	result, err := agg.TryResolveUri(context.Background(), u, nil, rctx)
	if err != nil {
		t.Fatalf("TryResolveUri: %v", err)
	}
	got, ok := result.IsUri()
	if !ok || !got.Equals(w1) {
		t.Fatalf("got %+v, want redirect to %s", result, w1)
	}
}

func TestAggregatorAllNotFound(t *testing.T) {
	u := wrap.MustParseUri("wrap://test/u")
	other := wrap.MustParseUri("wrap://test/other")

	agg := NewAggregator(
		NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{other: wrap.FromUri(other)}),
	)

	rctx := wrap.NewResolutionContext()
	_, err := agg.TryResolveUri(context.Background(), u, nil, rctx)
	if !errors.Is(err, wrap.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCacheHitAvoidsInnerResolution(t *testing.T) {
	u := wrap.MustParseUri("wrap://test/u")
	w := wrap.MustParseUri("wrap://test/w")
	inner := &countingResolver{result: wrap.FromWrapper(w, nil)}

	cached := NewCache(inner, NewMemoryCache())

	rctx1 := wrap.NewResolutionContext()
	if _, err := cached.TryResolveUri(context.Background(), u, nil, rctx1); err != nil {
		t.Fatalf("first resolve: %v", err)
	}

	rctx2 := wrap.NewResolutionContext()
	if _, err := cached.TryResolveUri(context.Background(), u, nil, rctx2); err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if inner.calls != 1 {
		t.Fatalf("inner resolver called %d times, want 1", inner.calls)
	}
}

func TestCacheSeedsWholeResolutionPath(t *testing.T) {
	a := wrap.MustParseUri("wrap://test/a")
	b := wrap.MustParseUri("wrap://test/b")
	w := wrap.MustParseUri("wrap://test/w")

	inner := NewRecursive(NewAggregator(
		NewRedirect(wrap.UriRedirect{From: a, To: b}),
		NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{b: wrap.FromWrapper(w, nil)}),
	))
	store := NewMemoryCache()
	cached := NewCache(inner, store)

	rctx := wrap.NewResolutionContext()
	if _, err := cached.TryResolveUri(context.Background(), a, nil, rctx); err != nil {
		t.Fatalf("resolve a: %v", err)
	}

	if _, ok := store.Get(b); !ok {
		t.Fatalf("expected intermediate uri %s to be seeded in the cache", b)
	}
}

func TestCacheDoesNotCacheFailure(t *testing.T) {
	u := wrap.MustParseUri("wrap://test/u")
	inner := &countingResolver{err: wrap.ErrNotFound}
	cached := NewCache(inner, NewMemoryCache())

	rctx := wrap.NewResolutionContext()
	if _, err := cached.TryResolveUri(context.Background(), u, nil, rctx); !errors.Is(err, wrap.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	rctx2 := wrap.NewResolutionContext()
	if _, err := cached.TryResolveUri(context.Background(), u, nil, rctx2); !errors.Is(err, wrap.ErrNotFound) {
		t.Fatalf("expected ErrNotFound again, got %v", err)
	}
	if inner.calls != 2 {
		t.Fatalf("inner resolver called %d times, want 2 (failures not cached)", inner.calls)
	}
}

func TestHistoryRecordsTopLevelUri(t *testing.T) {
	u := wrap.MustParseUri("wrap://test/u")
	w := wrap.MustParseUri("wrap://test/w")

	resolver := NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{u: wrap.FromWrapper(w, nil)})

	rctx := wrap.NewResolutionContext()
	if _, err := resolver.TryResolveUri(context.Background(), u, nil, rctx); err != nil {
		t.Fatalf("TryResolveUri: %v", err)
	}

	history := rctx.History()
	if len(history) == 0 {
		t.Fatal("expected at least one history step")
	}
	if !history[0].SourceUri.Equals(u) {
		t.Fatalf("history[0].SourceUri = %s, want %s", history[0].SourceUri, u)
	}
}
