// Package context supplies the client's request-scoped context and
// logger plumbing, grounded on distribution's own context package:
// a thin wrapper that lets structured fields (uri, method, request
// id) ride alongside a stdlib context.Context without every
// call site threading them through explicit parameters.
package context

import (
	gocontext "context"
)

// Context is a local alias for the stdlib context.Context, kept as
// its own named type so this package's value-carrying helpers read
// naturally against it.
type Context = gocontext.Context

// Background returns a non-nil, empty Context.
func Background() Context {
	return gocontext.Background()
}

// WithValue returns a copy of parent in which the value associated
// with key is val.
func WithValue(parent Context, key, val interface{}) Context {
	return gocontext.WithValue(parent, key, val)
}

// stringMapContext proxies Value lookups through a map before
// falling back to its parent, for WithValues.
type stringMapContext struct {
	gocontext.Context
	m map[string]interface{}
}

// WithValues returns a context that resolves string keys from m
// before falling back to ctx. Used to attach several fields (uri,
// method, outcome) to a context in one call ahead of logging.
func WithValues(ctx Context, m map[string]interface{}) Context {
	mo := make(map[string]interface{}, len(m))
	for k, v := range m {
		mo[k] = v
	}
	return stringMapContext{Context: ctx, m: mo}
}

func (smc stringMapContext) Value(key interface{}) interface{} {
	if ks, ok := key.(string); ok {
		if v, ok := smc.m[ks]; ok {
			return v
		}
	}
	return smc.Context.Value(key)
}
