package invoker

import (
	"context"

	"github.com/wraplang/goclient"
)

// hostHandle implements wrap.HostHandle for one running Wrapper
// invocation. It captures the Invoker (for sub-invoke re-entry), the
// env supplied to this invocation, and the ResolutionContext a child
// sub-invoke's sub-resolution should attach to.
type hostHandle struct {
	inv    *Invoker
	uri    wrap.Uri
	method string
	env    []byte
	rctx   *wrap.ResolutionContext
}

func newHostHandle(inv *Invoker, uri wrap.Uri, method string, env []byte, rctx *wrap.ResolutionContext) *hostHandle {
	return &hostHandle{inv: inv, uri: uri, method: method, env: env, rctx: rctx}
}

var _ wrap.HostHandle = (*hostHandle)(nil)

// SubInvoke re-enters the invoker for uri.method, attaching a child
// resolution sub-context so the parent step's sub-history records the
// sub-resolution (spec §4.6). The env applied is determined by the
// sub-invoked uri's own env mapping, never by this handle's env
// (spec §4.6 "Environment inheritance rule") — Invoke always performs
// that lookup itself when called with env == nil.
func (h *hostHandle) SubInvoke(ctx context.Context, uri wrap.Uri, method string, args []byte) ([]byte, error) {
	sub := h.rctx.CreateSubContext()

	result, err := h.inv.Invoke(ctx, uri, method, args, nil, sub)
	if err != nil {
		err = wrap.SubinvocationError{Uri: uri, Method: method, Cause: err}
	}

	h.rctx.AppendStep(wrap.UriResolutionStep{
		SourceUri:   uri,
		Description: "sub-invoke",
		SubHistory:  sub.History(),
		Err:         err,
	})

	return result, err
}

// GetImplementations implements wrap.HostHandle.
func (h *hostHandle) GetImplementations(interfaceUri wrap.Uri) []wrap.Uri {
	return h.inv.GetImplementations(interfaceUri)
}

// GetEnv implements wrap.HostHandle.
func (h *hostHandle) GetEnv() []byte {
	return h.env
}

// Abort implements wrap.HostHandle.
func (h *hostHandle) Abort(message string) error {
	return wrap.WrapperError{Uri: h.uri, Method: h.method, Message: message}
}
