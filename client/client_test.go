package client

import (
	"context"
	"testing"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/internal/testwrapper"
	"github.com/wraplang/goclient/resolvers"
)

func echoWrapper(uri wrap.Uri) *testwrapper.Wrapper {
	return testwrapper.New(uri, map[string]testwrapper.Method{
		"echo": func(ctx context.Context, args []byte, host wrap.HostHandle) ([]byte, error) {
			out := make([]byte, len(args))
			copy(out, args)
			return out, nil
		},
		"env": func(ctx context.Context, args []byte, host wrap.HostHandle) ([]byte, error) {
			return host.GetEnv(), nil
		},
		"delegate": func(ctx context.Context, args []byte, host wrap.HostHandle) ([]byte, error) {
			return host.SubInvoke(context.Background(), wrap.MustParseUri("wrap://test/leaf"), "echo", args)
		},
	})
}

func TestClientInvokeStaticWrapper(t *testing.T) {
	uri := wrap.MustParseUri("wrap://test/leaf")
	w := echoWrapper(uri)

	c := Bootstrap(func(inv wrap.InvokerHandle, ld wrap.LoaderHandle) wrap.UriResolver {
		return resolvers.NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{uri: wrap.FromWrapper(uri, w)})
	}, Config{})

	result, err := c.Invoke(context.Background(), uri, "echo", []byte("hello"), nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(result) != "hello" {
		t.Fatalf("got %q, want %q", result, "hello")
	}
}

func TestClientEnvLookup(t *testing.T) {
	uri := wrap.MustParseUri("wrap://test/leaf")
	w := echoWrapper(uri)

	envs := wrap.NewEnvMap()
	envs.Set(uri, []byte("configured-env"))

	c := Bootstrap(func(inv wrap.InvokerHandle, ld wrap.LoaderHandle) wrap.UriResolver {
		return resolvers.NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{uri: wrap.FromWrapper(uri, w)})
	}, Config{Envs: envs})

	result, err := c.Invoke(context.Background(), uri, "env", nil, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(result) != "configured-env" {
		t.Fatalf("got %q, want %q", result, "configured-env")
	}
}

func TestClientSubInvoke(t *testing.T) {
	leafUri := wrap.MustParseUri("wrap://test/leaf")
	rootUri := wrap.MustParseUri("wrap://test/root")
	leaf := echoWrapper(leafUri)
	root := echoWrapper(rootUri)

	c := Bootstrap(func(inv wrap.InvokerHandle, ld wrap.LoaderHandle) wrap.UriResolver {
		return resolvers.NewAggregator(
			resolvers.NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{leafUri: wrap.FromWrapper(leafUri, leaf)}),
			resolvers.NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{rootUri: wrap.FromWrapper(rootUri, root)}),
		)
	}, Config{})

	result, err := c.Invoke(context.Background(), rootUri, "delegate", []byte("sub"), nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if string(result) != "sub" {
		t.Fatalf("got %q, want %q", result, "sub")
	}
}

func TestClientResolveWithHistory(t *testing.T) {
	uri := wrap.MustParseUri("wrap://test/leaf")
	w := echoWrapper(uri)

	c := Bootstrap(func(inv wrap.InvokerHandle, ld wrap.LoaderHandle) wrap.UriResolver {
		return resolvers.NewStatic(map[wrap.Uri]wrap.UriPackageOrWrapper{uri: wrap.FromWrapper(uri, w)})
	}, Config{})

	result, history, err := c.ResolveWithHistory(context.Background(), uri)
	if err != nil {
		t.Fatalf("ResolveWithHistory: %v", err)
	}
	if len(history) == 0 {
		t.Fatal("expected at least one recorded history step")
	}
	if _, ok := result.IsWrapper(); !ok {
		t.Fatal("expected the result to be a wrapper")
	}
}
