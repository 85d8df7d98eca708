// Package remote resolves a uri by fetching a manifest and module
// from a remote storage backend (S3, Azure, Swift, Aliyun OSS, GCS,
// plain HTTP, or IPFS) rather than from a resolver-wrapper. Each
// backend is a Fetcher registered with package factory, grounded on
// registry/storage/driver/factory.go's name -> Create(parameters)
// pattern.
package remote

import (
	"context"
	"errors"

	wrap "github.com/wraplang/goclient"
)

// ErrObjectNotFound is returned by a Fetcher when the manifest or the
// module for uri does not exist. Resolver translates it to
// wrap.ErrNotFound so UriResolverAggregator can try the next backend.
var ErrObjectNotFound = errors.New("remote: object not found")

// Fetcher retrieves the raw manifest and module bytes a uri maps to
// within one storage backend. Each backend derives its keys from uri;
// the fetchers in this module use "<authority>/<path>/manifest.yaml"
// and ".../module.wasm" (ipfsfetch maps uri to a root CID instead).
// The backend itself (bucket, container, endpoint) is fixed at
// construction.
type Fetcher interface {
	Fetch(ctx context.Context, uri wrap.Uri) (manifestBytes, moduleBytes []byte, err error)
}

// PackageBuilder constructs a wrap.WrapPackage from verified manifest
// and module bytes, mirroring resolvers.PackageBuilder — the seam
// where the (out-of-scope) execution engine plugs in.
type PackageBuilder func(manifestBytes, moduleBytes []byte) (wrap.WrapPackage, error)
