// Package invoker implements the invocation orchestration described
// in spec.md §4.5-§4.6: env/interface lookup, method dispatch, and
// the HostHandle surface a running Wrapper calls back into.
package invoker

import (
	"context"
	"time"

	"github.com/wraplang/goclient"
	"github.com/wraplang/goclient/errcode"
	"github.com/wraplang/goclient/events"
)

// Loader is the subset of loader.Loader an Invoker needs.
type Loader interface {
	LoadWrapper(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.Wrapper, error)
}

// Invoker orchestrates top-level and sub-invocations: it applies the
// client's redirect list, selects per-uri env, drives the loader, and
// constructs the HostHandle a wrapper uses to call back in.
type Invoker struct {
	loader       Loader
	envs         *wrap.EnvMap
	interfaces   *wrap.InterfaceImplementations
	redirects    []wrap.UriRedirect
	bus          *events.Bus
	metrics      *metricsSet
}

var _ wrap.InvokerHandle = (*Invoker)(nil)

// New returns an Invoker. Any of envs/interfaces/bus may be nil.
func New(ld Loader, envs *wrap.EnvMap, interfaces *wrap.InterfaceImplementations, redirects []wrap.UriRedirect, bus *events.Bus) *Invoker {
	if envs == nil {
		envs = wrap.NewEnvMap()
	}
	if interfaces == nil {
		interfaces = wrap.NewInterfaceImplementations()
	}
	return &Invoker{
		loader:     ld,
		envs:       envs,
		interfaces: interfaces,
		redirects:  redirects,
		bus:        bus,
		metrics:    newMetricsSet(),
	}
}

// CacheMetricsRecorder is the optional capability an InvokerHandle may
// satisfy to expose its CacheMetrics hook to the resolver-tree builder
// that holds it — an embedder (cmd/wrapctl buildResolverTree) type-asserts
// its wrap.InvokerHandle to this interface rather than the core
// InvokerHandle capability growing an ambient metrics method.
type CacheMetricsRecorder interface {
	CacheMetrics() func(hit bool)
}

var _ CacheMetricsRecorder = (*Invoker)(nil)

// CacheMetrics returns callbacks suitable for
// resolvers.NewCacheWithMetrics, wiring cache hit/miss counts into
// this Invoker's published metrics.
func (inv *Invoker) CacheMetrics() func(hit bool) {
	return func(hit bool) {
		if hit {
			inv.metrics.cacheHits.Inc()
		} else {
			inv.metrics.cacheMisses.Inc()
		}
	}
}

// Invoke implements spec.md §4.5 steps 1-6.
func (inv *Invoker) Invoke(ctx context.Context, uri wrap.Uri, method string, args []byte, env []byte, rctx *wrap.ResolutionContext) ([]byte, error) {
	start := time.Now()

	if rctx == nil {
		rctx = wrap.NewResolutionContext()
	}

	uri, err := inv.applyRedirects(uri)
	if err != nil {
		inv.recordInvoke(uri, method, start, rctx, err)
		return nil, err
	}

	if env == nil {
		if e, ok := inv.envs.Get(uri); ok {
			env = e
		}
	}

	w, err := inv.loader.LoadWrapper(ctx, uri, inv, rctx)
	if err != nil {
		inv.recordInvoke(uri, method, start, rctx, err)
		return nil, err
	}

	result, err := inv.InvokeWrapper(ctx, w, uri, method, args, env, rctx)
	inv.recordInvoke(uri, method, start, rctx, err)
	return result, err
}

// InvokeWrapper skips redirect application, env lookup, and loading —
// used when the caller already holds a resolved Wrapper (e.g. a
// sub-invoke, or a caller that resolved once and wants to invoke
// several methods on the result).
func (inv *Invoker) InvokeWrapper(ctx context.Context, w wrap.Wrapper, uri wrap.Uri, method string, args []byte, env []byte, rctx *wrap.ResolutionContext) ([]byte, error) {
	if rctx == nil {
		rctx = wrap.NewResolutionContext()
	}
	host := newHostHandle(inv, uri, method, env, rctx)
	return w.Invoke(ctx, method, args, env, host)
}

// GetImplementations implements wrap.InvokerHandle and the client
// surface: the ordered implementation list for interfaceUri, or nil.
func (inv *Invoker) GetImplementations(interfaceUri wrap.Uri) []wrap.Uri {
	return inv.interfaces.Get(interfaceUri)
}

// GetInterfaces returns every interface Uri with a registered
// implementation list.
func (inv *Invoker) GetInterfaces() []wrap.Uri {
	return inv.interfaces.Interfaces()
}

// GetEnvByUri returns the env registered for uri, if any, before
// redirects are applied — callers wanting the post-redirect lookup
// should resolve the uri themselves first.
func (inv *Invoker) GetEnvByUri(uri wrap.Uri) ([]byte, bool) {
	return inv.envs.Get(uri)
}

// GetRedirects returns the client's configured redirect list.
func (inv *Invoker) GetRedirects() []wrap.UriRedirect {
	out := make([]wrap.UriRedirect, len(inv.redirects))
	copy(out, inv.redirects)
	return out
}

// applyRedirects walks the redirect list to a fixed point, detecting
// cycles with the same visited-set mechanism resolvers use.
func (inv *Invoker) applyRedirects(uri wrap.Uri) (wrap.Uri, error) {
	visited := map[wrap.Uri]struct{}{}

	for {
		if _, ok := visited[uri]; ok {
			return wrap.Uri{}, wrap.InfiniteLoop{Uri: uri}
		}
		visited[uri] = struct{}{}

		next, matched := firstMatchingRedirect(inv.redirects, uri)
		if !matched || next.Equals(uri) {
			return uri, nil
		}
		uri = next
	}
}

func firstMatchingRedirect(redirects []wrap.UriRedirect, uri wrap.Uri) (wrap.Uri, bool) {
	for _, r := range redirects {
		if uri.Equals(r.From) {
			return r.To, true
		}
	}
	return wrap.Uri{}, false
}

// recordInvoke publishes metrics and — per SPEC_FULL §11.4 — a
// StepEvent for every UriResolutionStep recorded in rctx.History()
// (recursively through each step's SubHistory) followed by the
// InvokeEvent for this call, the way notifications/bridge.go
// fans a domain event out to every sink after the operation it
// describes completes. It runs at the end of every Invoke, so a
// sub-invocation publishes its own events before its parent does.
func (inv *Invoker) recordInvoke(uri wrap.Uri, method string, start time.Time, rctx *wrap.ResolutionContext, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
		inv.metrics.invokeErrors.WithValues(errCode(err)).Inc()
	}
	inv.metrics.resolutionDuration.WithValues(outcome).UpdateSince(start)

	if inv.bus != nil {
		if rctx != nil {
			publishSteps(inv.bus, rctx.History())
		}
		inv.bus.PublishInvoke(events.InvokeEvent{
			Uri:      uri.String(),
			Method:   method,
			Duration: time.Since(start),
			Err:      err,
		})
	}
}

// publishSteps walks steps depth-first, publishing a StepEvent for
// each one before descending into its SubHistory, so a live
// subscriber sees parent steps ahead of the children that produced
// them.
func publishSteps(bus *events.Bus, steps []wrap.UriResolutionStep) {
	for _, step := range steps {
		bus.PublishStep(events.StepEvent{
			SourceUri:   step.SourceUri.String(),
			Description: step.Description,
			Err:         step.Err,
		})
		publishSteps(bus, step.SubHistory)
	}
}

func errCode(err error) string {
	if coder, ok := err.(errcode.Coder); ok {
		return errcode.Describe(coder.ErrorCode()).Value
	}
	return "UNKNOWN"
}
