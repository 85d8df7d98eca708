package invoker

import (
	"context"
	"errors"
	"testing"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/internal/testwrapper"
)

// staticLoader resolves every uri against a fixed map, ignoring ctx
// bookkeeping beyond what Invoker itself threads through.
type staticLoader struct {
	wrappers map[wrap.Uri]wrap.Wrapper
}

func (l *staticLoader) LoadWrapper(ctx context.Context, uri wrap.Uri, invoker wrap.InvokerHandle, rctx *wrap.ResolutionContext) (wrap.Wrapper, error) {
	w, ok := l.wrappers[uri]
	if !ok {
		return nil, wrap.LoadWrapperError{Uri: uri, Message: "no wrapper registered"}
	}
	return w, nil
}

func TestSubInvokeEnvIsNeverOverriddenByParent(t *testing.T) {
	parentUri := wrap.MustParseUri("wrap://test/parent")
	childUri := wrap.MustParseUri("wrap://test/child")

	var observedChildEnv []byte
	child := testwrapper.New(childUri, map[string]testwrapper.Method{
		"methodRequireEnv": func(ctx context.Context, args []byte, host wrap.HostHandle) ([]byte, error) {
			observedChildEnv = host.GetEnv()
			return host.GetEnv(), nil
		},
	})

	parent := testwrapper.New(parentUri, map[string]testwrapper.Method{
		"callChildRequireEnv": func(ctx context.Context, args []byte, host wrap.HostHandle) ([]byte, error) {
			return host.SubInvoke(ctx, childUri, "methodRequireEnv", nil)
		},
	})

	envs := wrap.NewEnvMap()
	envs.Set(parentUri, []byte("E_parent"))
	envs.Set(childUri, []byte("E_child"))

	ld := &staticLoader{wrappers: map[wrap.Uri]wrap.Wrapper{parentUri: parent, childUri: child}}
	inv := New(ld, envs, nil, nil, nil)

	result, err := inv.Invoke(context.Background(), parentUri, "callChildRequireEnv", nil, nil, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(observedChildEnv) != "E_child" {
		t.Fatalf("child observed env %q, want %q", observedChildEnv, "E_child")
	}
	if string(result) != "E_child" {
		t.Fatalf("result = %q, want %q", result, "E_child")
	}
}

func TestMissingEnvAbortsAsWrapperError(t *testing.T) {
	uri := wrap.MustParseUri("wrap://test/u")

	w := testwrapper.New(uri, map[string]testwrapper.Method{
		"methodRequireEnv": func(ctx context.Context, args []byte, host wrap.HostHandle) ([]byte, error) {
			if len(host.GetEnv()) == 0 {
				return nil, host.Abort("Environment is not set, and it is required")
			}
			return host.GetEnv(), nil
		},
	})

	ld := &staticLoader{wrappers: map[wrap.Uri]wrap.Wrapper{uri: w}}
	inv := New(ld, nil, nil, nil, nil)

	_, err := inv.Invoke(context.Background(), uri, "methodRequireEnv", nil, nil, nil)

	var wrapErr wrap.WrapperError
	if !errors.As(err, &wrapErr) {
		t.Fatalf("expected WrapperError, got %v", err)
	}
	if wrapErr.Message != "Environment is not set, and it is required" {
		t.Fatalf("message = %q", wrapErr.Message)
	}
}

func TestSubInvokeErrorWrapsAsSubinvocationError(t *testing.T) {
	parentUri := wrap.MustParseUri("wrap://test/parent")
	missingChildUri := wrap.MustParseUri("wrap://test/missing")

	parent := testwrapper.New(parentUri, map[string]testwrapper.Method{
		"delegate": func(ctx context.Context, args []byte, host wrap.HostHandle) ([]byte, error) {
			return host.SubInvoke(ctx, missingChildUri, "anything", nil)
		},
	})

	ld := &staticLoader{wrappers: map[wrap.Uri]wrap.Wrapper{parentUri: parent}}
	inv := New(ld, nil, nil, nil, nil)

	_, err := inv.Invoke(context.Background(), parentUri, "delegate", nil, nil, nil)

	var subErr wrap.SubinvocationError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubinvocationError, got %v", err)
	}
	if !subErr.Uri.Equals(missingChildUri) {
		t.Fatalf("SubinvocationError.Uri = %s, want %s", subErr.Uri, missingChildUri)
	}
}

func TestRedirectCycleDetected(t *testing.T) {
	a := wrap.MustParseUri("wrap://test/a")
	b := wrap.MustParseUri("wrap://test/b")

	redirects := []wrap.UriRedirect{
		{From: a, To: b},
		{From: b, To: a},
	}

	ld := &staticLoader{wrappers: map[wrap.Uri]wrap.Wrapper{}}
	inv := New(ld, nil, nil, redirects, nil)

	_, err := inv.Invoke(context.Background(), a, "m", nil, nil, nil)

	var loop wrap.InfiniteLoop
	if !errors.As(err, &loop) {
		t.Fatalf("expected InfiniteLoop, got %v", err)
	}
}
