package client

import (
	"context"
	"testing"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/configuration"
	"github.com/wraplang/goclient/internal/testwrapper"
	"github.com/wraplang/goclient/resolvers"
)

func newTestClient(t *testing.T, uri wrap.Uri, w *testwrapper.Wrapper) *Client {
	t.Helper()
	return Bootstrap(func(invokerHandle wrap.InvokerHandle, loaderHandle wrap.LoaderHandle) wrap.UriResolver {
		return resolvers.NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{
			uri: wrap.FromWrapper(uri, w),
		})
	}, Config{})
}

func TestWrapReportingNoConfigIsPassthrough(t *testing.T) {
	uri := wrap.MustParseUri("wrap://test/echo")
	w := testwrapper.New(uri, map[string]testwrapper.Method{
		"echo": func(ctx context.Context, args []byte, host wrap.HostHandle) ([]byte, error) {
			return args, nil
		},
	})
	c := newTestClient(t, uri, w)
	defer c.Close()

	r := WrapReporting(c, configuration.Reporting{})
	if r.agent != nil {
		t.Fatal("expected no gorelic agent when newrelic config is blank")
	}

	result, err := r.Invoke(context.Background(), uri, "echo", []byte("hello"), nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(result) != "hello" {
		t.Fatalf("got %q, want %q", result, "hello")
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestWrapReportingPropagatesError(t *testing.T) {
	uri := wrap.MustParseUri("wrap://test/fail")
	w := testwrapper.New(uri, map[string]testwrapper.Method{})
	c := newTestClient(t, uri, w)
	defer c.Close()

	r := WrapReporting(c, configuration.Reporting{})

	_, err := r.Invoke(context.Background(), uri, "missing", nil, nil)
	if err == nil {
		t.Fatal("expected an error invoking an undeclared method")
	}
	if _, ok := err.(wrap.MethodNotFound); !ok {
		t.Fatalf("got error of type %T, want wrap.MethodNotFound", err)
	}
}
