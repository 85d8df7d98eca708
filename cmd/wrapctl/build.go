package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gomodule/redigo/redis"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/client"
	"github.com/wraplang/goclient/codec"
	"github.com/wraplang/goclient/configuration"
	"github.com/wraplang/goclient/events"
	"github.com/wraplang/goclient/invoker"
	"github.com/wraplang/goclient/resolvers"
	"github.com/wraplang/goclient/resolvers/rediscache"
	"github.com/wraplang/goclient/resolvers/remote"
	"github.com/wraplang/goclient/resolvers/remote/factory"
)

// newRemoteLeaf adapts a factory-constructed remote.Fetcher into a
// resolver tree leaf, wired to the same engine-less PackageBuilder
// every resolver in this binary shares.
func newRemoteLeaf(fetcher remote.Fetcher) wrap.UriResolver {
	return remote.NewResolver(fetcher, buildPackage)
}

// buildClient wires a client.Client from a Configuration the same way
// NewRegistry wires a handlers.App from a distribution Configuration:
// env and redirect entries first, then client.Bootstrap, which creates
// the invoker/loader pair and calls back into buildResolverTree to
// build the tree (leaves -> aggregator -> cache).
func buildClient(cfg *configuration.Configuration) (*client.Client, error) {
	var bus *events.Bus
	if cfg.Debug.Metrics || cfg.Debug.Addr != "" {
		bus = events.NewBus()
	}

	envs := wrap.NewEnvMap()
	for _, e := range cfg.Env {
		uri, err := wrap.ParseUri(e.Uri)
		if err != nil {
			return nil, fmt.Errorf("env entry %q: %w", e.Uri, err)
		}
		envs.Set(uri, []byte(e.Value))
	}

	redirects := make([]wrap.UriRedirect, 0, len(cfg.Redirects))
	for _, r := range cfg.Redirects {
		from, err := wrap.ParseUri(r.From)
		if err != nil {
			return nil, fmt.Errorf("redirect from %q: %w", r.From, err)
		}
		to, err := wrap.ParseUri(r.To)
		if err != nil {
			return nil, fmt.Errorf("redirect to %q: %w", r.To, err)
		}
		redirects = append(redirects, wrap.UriRedirect{From: from, To: to})
	}

	c := client.Bootstrap(func(invokerHandle wrap.InvokerHandle, loaderHandle wrap.LoaderHandle) wrap.UriResolver {
		tree, err := buildResolverTree(cfg, invokerHandle, loaderHandle)
		if err != nil {
			// Bootstrap's build callback has no error return (spec §9's
			// cyclic construction is synchronous); a misconfigured
			// resolver pipeline is a startup-time fatal, same as
			// resolveConfiguration failing in cmd/registry/main.go.
			fmt.Fprintf(os.Stderr, "wrapctl: %v\n", err)
			os.Exit(1)
		}
		return tree
	}, client.Config{
		Redirects:  redirects,
		Envs:       envs,
		Interfaces: wrap.NewInterfaceImplementations(),
		Bus:        bus,
	})

	return c, nil
}

func buildResolverTree(cfg *configuration.Configuration, invokerHandle wrap.InvokerHandle, loaderHandle wrap.LoaderHandle) (wrap.UriResolver, error) {
	children := make([]wrap.UriResolver, 0, len(cfg.Resolvers)+len(cfg.Redirects))

	for _, r := range cfg.Redirects {
		from, err := wrap.ParseUri(r.From)
		if err != nil {
			return nil, err
		}
		to, err := wrap.ParseUri(r.To)
		if err != nil {
			return nil, err
		}
		children = append(children, resolvers.NewRedirect(wrap.UriRedirect{From: from, To: to}))
	}

	for _, rc := range cfg.Resolvers {
		switch rc.Kind {
		case "redirect":
			fromStr, _ := rc.Parameters["from"].(string)
			toStr, _ := rc.Parameters["to"].(string)
			from, err := wrap.ParseUri(fromStr)
			if err != nil {
				return nil, fmt.Errorf("resolver %q: %w", rc.Kind, err)
			}
			to, err := wrap.ParseUri(toStr)
			if err != nil {
				return nil, fmt.Errorf("resolver %q: %w", rc.Kind, err)
			}
			children = append(children, resolvers.NewRedirect(wrap.UriRedirect{From: from, To: to}))
		case "extension-wrapper":
			uriStr, _ := rc.Parameters["uri"].(string)
			uri, err := wrap.ParseUri(uriStr)
			if err != nil {
				return nil, fmt.Errorf("resolver %q: %w", rc.Kind, err)
			}
			children = append(children, resolvers.NewExtensionWrapper(uri, loaderHandle, codec.JSON{}, buildPackage))
		default:
			fetcher, err := factory.Create(rc.Kind, rc.Parameters)
			if err != nil {
				return nil, err
			}
			children = append(children, newRemoteLeaf(fetcher))
		}
	}

	var tree wrap.UriResolver = resolvers.NewAggregator(children...)

	if cfg.Cache != nil {
		store, err := buildCache(*cfg.Cache)
		if err != nil {
			return nil, err
		}

		// onLookup is only non-nil when invokerHandle is the concrete
		// *invoker.Invoker Bootstrap constructed — true for every
		// production build of this binary — so the cache_hits/
		// cache_misses counters declared in invoker/metrics.go actually
		// increment instead of NewCacheWithMetrics silently degrading
		// to NewCache.
		var onLookup func(bool)
		if recorder, ok := invokerHandle.(invoker.CacheMetricsRecorder); ok {
			onLookup = recorder.CacheMetrics()
		}

		tree = resolvers.NewCacheWithMetrics(tree, store, onLookup)
	}

	return resolvers.WithHistory(tree, "root"), nil
}

func buildCache(params configuration.Parameters) (resolvers.ResultCache, error) {
	kind, _ := params["kind"].(string)
	switch kind {
	case "", "memory":
		return resolvers.NewMemoryCache(), nil
	case "redis":
		return buildRedisCache(params)
	default:
		return nil, fmt.Errorf("cache: unknown kind %q", kind)
	}
}

func buildRedisCache(params configuration.Parameters) (resolvers.ResultCache, error) {
	addr, _ := params["addr"].(string)
	if addr == "" {
		return nil, fmt.Errorf("cache: redis kind requires an addr parameter")
	}
	prefix, _ := params["prefix"].(string)
	if prefix == "" {
		prefix = "wrapclient:resolve:"
	}

	pool := &redis.Pool{
		MaxIdle:     3,
		IdleTimeout: 240 * time.Second,
		Dial:        func() (redis.Conn, error) { return redis.Dial("tcp", addr) },
	}

	return rediscache.New(pool, prefix), nil
}
