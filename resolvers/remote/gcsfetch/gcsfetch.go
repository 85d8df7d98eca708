// Package gcsfetch fetches manifest/module pairs from Google Cloud
// Storage using the generated google.golang.org/api/storage/v1 client
// authenticated through golang.org/x/oauth2/google, the lighter-weight
// equivalent of registry/storage/driver/gcs's keyfile/credentials/
// default-token-source selection (that driver additionally pulls in
// cloud.google.com/go/storage, which this module does not depend on).
package gcsfetch

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/resolvers/remote"
	"github.com/wraplang/goclient/resolvers/remote/factory"
)

const backendName = "gcs"

const scopeFullControl = "https://www.googleapis.com/auth/devstorage.full_control"

func init() {
	factory.Register(backendName, &fetcherFactory{})
}

type fetcherFactory struct{}

func (fetcherFactory) Create(parameters map[string]interface{}) (remote.Fetcher, error) {
	return FromParameters(context.Background(), parameters)
}

// Fetcher fetches "<uri.Authority()>/<uri.Path()>/manifest.yaml" and
// "...module.wasm" objects from one GCS bucket.
type Fetcher struct {
	svc    *gcs.Service
	bucket string
}

var _ remote.Fetcher = (*Fetcher)(nil)

// FromParameters builds a Fetcher from a backend parameter bag. With
// no "keyfile" parameter, credentials fall back to the environment's
// application-default token source, as gcs.FromParameters does in
// its no-keyfile/no-credentials branch.
func FromParameters(ctx context.Context, parameters map[string]interface{}) (*Fetcher, error) {
	bucket, _ := parameters["bucket"].(string)
	if bucket == "" {
		return nil, fmt.Errorf("gcsfetch: no bucket parameter provided")
	}

	var client *gcs.Service
	if keyfile, ok := parameters["keyfile"].(string); ok && keyfile != "" {
		jsonKey, err := os.ReadFile(keyfile)
		if err != nil {
			return nil, err
		}
		jwtConf, err := google.JWTConfigFromJSON(jsonKey, scopeFullControl)
		if err != nil {
			return nil, err
		}
		svc, err := gcs.NewService(ctx, option.WithHTTPClient(jwtConf.Client(ctx)))
		if err != nil {
			return nil, err
		}
		client = svc
	} else {
		ts, err := google.DefaultTokenSource(ctx, scopeFullControl)
		if err != nil {
			return nil, err
		}
		svc, err := gcs.NewService(ctx, option.WithTokenSource(ts))
		if err != nil {
			return nil, err
		}
		client = svc
	}

	return &Fetcher{svc: client, bucket: bucket}, nil
}

// Fetch implements remote.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, uri wrap.Uri) ([]byte, []byte, error) {
	manifestBytes, err := f.get(ctx, f.key(uri, "manifest.yaml"))
	if err != nil {
		return nil, nil, err
	}
	moduleBytes, err := f.get(ctx, f.key(uri, "module.wasm"))
	if err != nil {
		return nil, nil, err
	}
	return manifestBytes, moduleBytes, nil
}

func (f *Fetcher) key(uri wrap.Uri, file string) string {
	return fmt.Sprintf("%s/%s/%s", uri.Authority(), uri.Path(), file)
}

func (f *Fetcher) get(ctx context.Context, object string) ([]byte, error) {
	resp, err := f.svc.Objects.Get(f.bucket, object).Context(ctx).Download()
	if err != nil {
		return nil, translateErr(err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func translateErr(err error) error {
	if gerr, ok := err.(*googleapi.Error); ok && gerr.Code == 404 {
		return remote.ErrObjectNotFound
	}
	return err
}
