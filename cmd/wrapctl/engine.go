package main

import (
	"context"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/manifest"
)

// buildPackage is the default resolvers.PackageBuilder/remote.PackageBuilder
// wrapctl wires into every resolver that terminates in manifest+module
// bytes. It parses and exposes the manifest unconditionally (so
// `wrapctl resolve` and GetManifest always work against real fetched
// content) but its Wrapper refuses every Invoke: wiring an actual
// WebAssembly engine is the one seam spec.md leaves to the embedding
// application, and wrapctl ships none. Embedders linking a real engine
// replace this func, not any resolver or loader code.
func buildPackage(manifestBytes, moduleBytes []byte) (wrap.WrapPackage, error) {
	mf, err := manifest.Parse(manifestBytes)
	if err != nil {
		return nil, err
	}
	return &noEnginePackage{manifest: mf, moduleBytes: moduleBytes}, nil
}

type noEnginePackage struct {
	manifest    *manifest.Manifest
	moduleBytes []byte
}

var _ wrap.WrapPackage = (*noEnginePackage)(nil)

func (p *noEnginePackage) GetManifest(ctx context.Context) (wrap.Manifest, error) {
	return p.manifest, nil
}

func (p *noEnginePackage) CreateWrapper(ctx context.Context) (wrap.Wrapper, error) {
	return &noEngineWrapper{manifest: p.manifest}, nil
}

type noEngineWrapper struct {
	manifest *manifest.Manifest
}

var _ wrap.Wrapper = (*noEngineWrapper)(nil)

func (w *noEngineWrapper) Invoke(ctx context.Context, method string, args []byte, env []byte, host wrap.HostHandle) ([]byte, error) {
	found := false
	for _, m := range w.manifest.Methods() {
		if m == method {
			found = true
			break
		}
	}
	if !found {
		return nil, wrap.MethodNotFound{Uri: wrap.Uri{}, Method: method}
	}
	return nil, wrap.WrapperError{Method: method, Message: "no WebAssembly execution engine is linked into this build of wrapctl"}
}
