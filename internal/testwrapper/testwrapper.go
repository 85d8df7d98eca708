// Package testwrapper is an in-memory Wrapper/WrapPackage reference
// implementation for tests, backed by plain Go funcs instead of a
// WebAssembly engine. Intended solely for test purposes, the way
// registry/storage/driver/inmemory is a StorageDriver backed by a
// local map instead of real storage.
package testwrapper

import (
	"context"
	"sync"

	wrap "github.com/wraplang/goclient"
)

// Method is the test-double shape of one exported wrap method: given
// its raw args and the host callback surface, produce raw result
// bytes or fail.
type Method func(ctx context.Context, args []byte, host wrap.HostHandle) ([]byte, error)

// Wrapper is a Wrapper backed by a fixed set of Go funcs. Invoking a
// method not present in Methods returns MethodNotFound, matching the
// real dispatch contract an engine-backed Wrapper must honor.
type Wrapper struct {
	Uri     wrap.Uri
	Methods map[string]Method

	mu       sync.Mutex
	lastEnv  []byte
	invoked  []string
}

var _ wrap.Wrapper = (*Wrapper)(nil)

// New returns a Wrapper exposing methods.
func New(uri wrap.Uri, methods map[string]Method) *Wrapper {
	return &Wrapper{Uri: uri, Methods: methods}
}

// Invoke implements wrap.Wrapper.
func (w *Wrapper) Invoke(ctx context.Context, method string, args []byte, env []byte, host wrap.HostHandle) ([]byte, error) {
	fn, ok := w.Methods[method]
	if !ok {
		return nil, wrap.MethodNotFound{Uri: w.Uri, Method: method}
	}

	w.mu.Lock()
	w.lastEnv = env
	w.invoked = append(w.invoked, method)
	w.mu.Unlock()

	return fn(ctx, args, host)
}

// Invoked returns the method names invoked so far, in call order.
func (w *Wrapper) Invoked() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.invoked))
	copy(out, w.invoked)
	return out
}

// LastEnv returns the env bytes supplied to the most recent Invoke.
func (w *Wrapper) LastEnv() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastEnv
}

// Manifest is the minimal wrap.Manifest a testwrapper.Package
// describes itself with.
type Manifest struct {
	PackageName string
	MethodNames []string
}

var _ wrap.Manifest = (*Manifest)(nil)

// Name implements wrap.Manifest.
func (m *Manifest) Name() string { return m.PackageName }

// Methods implements wrap.Manifest.
func (m *Manifest) Methods() []string { return m.MethodNames }

// Package is a WrapPackage that always produces the same Wrapper,
// for tests that resolve to a Package rather than a ready Wrapper.
type Package struct {
	Manifest *Manifest
	Wrapper  *Wrapper
}

var _ wrap.WrapPackage = (*Package)(nil)

// GetManifest implements wrap.WrapPackage.
func (p *Package) GetManifest(ctx context.Context) (wrap.Manifest, error) {
	return p.Manifest, nil
}

// CreateWrapper implements wrap.WrapPackage.
func (p *Package) CreateWrapper(ctx context.Context) (wrap.Wrapper, error) {
	return p.Wrapper, nil
}
