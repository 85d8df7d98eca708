// Package client is the facade an application links against: it wires
// the Invoker, Loader, and a caller-supplied resolver tree together
// and exposes the top-level operations spec.md §4 describes, the way
// registry/handlers.App binds configuration, storage, and the access
// controller into the one object every request goes through.
package client

import (
	"context"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/events"
	"github.com/wraplang/goclient/invoker"
	"github.com/wraplang/goclient/loader"
)

// Config supplies the pieces of client state that exist independently
// of the resolver tree: per-uri env overrides, registered interface
// implementations, the client-level redirect list, and an optional
// event bus.
type Config struct {
	Redirects  []wrap.UriRedirect
	Envs       *wrap.EnvMap
	Interfaces *wrap.InterfaceImplementations
	Bus        *events.Bus
}

// ResolverBuilder constructs the resolver tree a Client will drive.
// It receives an InvokerHandle and a LoaderHandle bound to the Client
// under construction, for resolver nodes (ExtensionWrapperResolver)
// that need to invoke or load wrappers mid-resolution — see
// Bootstrap for why this must be a callback rather than a plain
// parameter.
type ResolverBuilder func(invokerHandle wrap.InvokerHandle, loaderHandle wrap.LoaderHandle) wrap.UriResolver

// Client is the bound Invoker + Loader + resolver tree. The zero
// value is not usable; construct with Bootstrap.
type Client struct {
	invoker *invoker.Invoker
	loader  *loader.Loader
	bus     *events.Bus
}

// Bootstrap resolves the Invoker/Loader/Resolver construction cycle
// (spec §9): it first constructs a Loader with no resolver and an
// Invoker bound to that Loader, then calls build with both as
// capability handles so the resolver tree's ExtensionWrapperResolver
// nodes can hold real references to them, and finally binds the
// finished tree onto the Loader. Neither handle is usable for
// resolution until Bootstrap returns; build must not invoke anything
// through them synchronously.
func Bootstrap(build ResolverBuilder, cfg Config) *Client {
	ld := loader.New(nil)
	inv := invoker.New(ld, cfg.Envs, cfg.Interfaces, cfg.Redirects, cfg.Bus)

	resolver := build(inv, ld)
	ld.SetResolver(resolver)

	return &Client{invoker: inv, loader: ld, bus: cfg.Bus}
}

// Invoke runs method on the wrapper at uri, applying client redirects
// and the registered env for uri unless env is supplied explicitly.
func (c *Client) Invoke(ctx context.Context, uri wrap.Uri, method string, args []byte, env []byte) ([]byte, error) {
	return c.invoker.Invoke(ctx, uri, method, args, env, nil)
}

// InvokeWrapper runs method on an already-resolved w, without
// re-applying redirects or env lookup.
func (c *Client) InvokeWrapper(ctx context.Context, w wrap.Wrapper, uri wrap.Uri, method string, args []byte, env []byte) ([]byte, error) {
	return c.invoker.InvokeWrapper(ctx, w, uri, method, args, env, nil)
}

// LoadWrapper resolves uri and returns the Wrapper it terminates in,
// without invoking any method on it.
func (c *Client) LoadWrapper(ctx context.Context, uri wrap.Uri) (wrap.Wrapper, error) {
	return c.loader.LoadWrapper(ctx, uri, c.invoker, wrap.NewResolutionContext())
}

// TryResolveUri resolves uri one step through the client's resolver
// tree, returning the raw tagged result rather than materializing a
// Wrapper.
func (c *Client) TryResolveUri(ctx context.Context, uri wrap.Uri) (wrap.UriPackageOrWrapper, error) {
	rctx := wrap.NewResolutionContext()
	return c.loader.Resolver().TryResolveUri(ctx, uri, c.invoker, rctx)
}

// ResolveWithHistory is TryResolveUri plus the resolution history
// tree recorded along the way, for callers (wrapctl resolve, a debug
// server) that want to show their work rather than just the final
// result.
func (c *Client) ResolveWithHistory(ctx context.Context, uri wrap.Uri) (wrap.UriPackageOrWrapper, []wrap.UriResolutionStep, error) {
	rctx := wrap.NewResolutionContext()
	result, err := c.loader.Resolver().TryResolveUri(ctx, uri, c.invoker, rctx)
	return result, rctx.History(), err
}

// GetImplementations returns the ordered implementation list
// registered for interfaceUri.
func (c *Client) GetImplementations(interfaceUri wrap.Uri) []wrap.Uri {
	return c.invoker.GetImplementations(interfaceUri)
}

// GetInterfaces returns every interface Uri with a registered
// implementation list.
func (c *Client) GetInterfaces() []wrap.Uri {
	return c.invoker.GetInterfaces()
}

// GetEnvByUri returns the env registered for uri, before redirects.
func (c *Client) GetEnvByUri(uri wrap.Uri) ([]byte, bool) {
	return c.invoker.GetEnvByUri(uri)
}

// GetRedirects returns the client's configured redirect list.
func (c *Client) GetRedirects() []wrap.UriRedirect {
	return c.invoker.GetRedirects()
}

// Close releases the client's event bus, if one was configured.
func (c *Client) Close() error {
	if c.bus == nil {
		return nil
	}
	return c.bus.Close()
}
