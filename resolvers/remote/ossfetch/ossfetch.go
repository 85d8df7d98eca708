// Package ossfetch fetches manifest/module pairs from Aliyun OSS,
// leveraging denverdino/aliyungo/oss the way
// registry/storage/driver/oss builds an oss.Client from access-key,
// region, and bucket parameters.
package ossfetch

import (
	"context"
	"fmt"

	"github.com/denverdino/aliyungo/oss"
	"github.com/mitchellh/mapstructure"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/resolvers/remote"
	"github.com/wraplang/goclient/resolvers/remote/factory"
)

const backendName = "oss"

func init() {
	factory.Register(backendName, &fetcherFactory{})
}

type fetcherFactory struct{}

func (fetcherFactory) Create(parameters map[string]interface{}) (remote.Fetcher, error) {
	return FromParameters(parameters)
}

// Params configures Fetcher, decoded via mapstructure the same way
// the oss driver's ALIYUN_ACCESS_KEY_ID/OSS_BUCKET/OSS_REGION
// environment variables are consumed in its own test setup.
type Params struct {
	AccessKeyID     string `mapstructure:"accesskeyid"`
	AccessKeySecret string `mapstructure:"accesskeysecret"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Internal        bool   `mapstructure:"internal"`
	Secure          bool   `mapstructure:"secure"`
}

// Fetcher fetches "<uri.Authority()>/<uri.Path()>/manifest.yaml" and
// "...module.wasm" objects from one OSS bucket.
type Fetcher struct {
	bucket *oss.Bucket
}

var _ remote.Fetcher = (*Fetcher)(nil)

// FromParameters builds a Fetcher from a backend parameter bag.
func FromParameters(parameters map[string]interface{}) (*Fetcher, error) {
	var p Params
	if err := mapstructure.Decode(parameters, &p); err != nil {
		return nil, err
	}
	if p.AccessKeyID == "" || p.AccessKeySecret == "" {
		return nil, fmt.Errorf("ossfetch: accesskeyid/accesskeysecret parameters are required")
	}
	if p.Bucket == "" {
		return nil, fmt.Errorf("ossfetch: no bucket parameter provided")
	}
	if p.Region == "" {
		return nil, fmt.Errorf("ossfetch: no region parameter provided")
	}

	client := oss.NewOSSClient(oss.Region(p.Region), p.Internal, p.AccessKeyID, p.AccessKeySecret, p.Secure)
	return &Fetcher{bucket: client.Bucket(p.Bucket)}, nil
}

// Fetch implements remote.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, uri wrap.Uri) ([]byte, []byte, error) {
	manifestBytes, err := f.get(f.key(uri, "manifest.yaml"))
	if err != nil {
		return nil, nil, err
	}
	moduleBytes, err := f.get(f.key(uri, "module.wasm"))
	if err != nil {
		return nil, nil, err
	}
	return manifestBytes, moduleBytes, nil
}

func (f *Fetcher) key(uri wrap.Uri, file string) string {
	return fmt.Sprintf("%s/%s/%s", uri.Authority(), uri.Path(), file)
}

func (f *Fetcher) get(key string) ([]byte, error) {
	data, err := f.bucket.Get(key)
	if err != nil {
		if ossErr, ok := err.(*oss.Error); ok && ossErr.StatusCode == 404 {
			return nil, remote.ErrObjectNotFound
		}
		return nil, err
	}
	return data, nil
}
