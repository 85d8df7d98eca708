// Package httpfetch fetches manifest/module pairs over plain HTTP(S),
// using hashicorp/go-retryablehttp the way a CDN-fronted registry
// client retries transient 5xx/network failures rather than failing a
// resolution outright.
package httpfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/mitchellh/mapstructure"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/resolvers/remote"
	"github.com/wraplang/goclient/resolvers/remote/factory"
)

const backendName = "http"

func init() {
	factory.Register(backendName, &fetcherFactory{})
}

type fetcherFactory struct{}

func (fetcherFactory) Create(parameters map[string]interface{}) (remote.Fetcher, error) {
	return FromParameters(parameters)
}

// Params configures Fetcher, decoded from a configuration.Parameters
// map via mapstructure, the same way storagedriver/swift.FromParameters
// decodes its options.
type Params struct {
	BaseURL string `mapstructure:"baseurl"`
}

// Fetcher fetches "<BaseURL>/<uri.Authority()>/<uri.Path()>/manifest.yaml"
// and "...module.wasm" over HTTP.
type Fetcher struct {
	baseURL string
	client  *retryablehttp.Client
}

var _ remote.Fetcher = (*Fetcher)(nil)

// FromParameters builds a Fetcher from a backend parameter bag.
func FromParameters(parameters map[string]interface{}) (*Fetcher, error) {
	var p Params
	if err := mapstructure.Decode(parameters, &p); err != nil {
		return nil, err
	}
	if p.BaseURL == "" {
		return nil, fmt.Errorf("httpfetch: no baseurl parameter provided")
	}

	client := retryablehttp.NewClient()
	client.Logger = nil

	return &Fetcher{baseURL: p.BaseURL, client: client}, nil
}

// Fetch implements remote.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, uri wrap.Uri) ([]byte, []byte, error) {
	manifestBytes, err := f.get(ctx, uri, "manifest.yaml")
	if err != nil {
		return nil, nil, err
	}
	moduleBytes, err := f.get(ctx, uri, "module.wasm")
	if err != nil {
		return nil, nil, err
	}
	return manifestBytes, moduleBytes, nil
}

func (f *Fetcher) get(ctx context.Context, uri wrap.Uri, file string) ([]byte, error) {
	url := fmt.Sprintf("%s/%s/%s/%s", f.baseURL, uri.Authority(), uri.Path(), file)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, remote.ErrObjectNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpfetch: unexpected status %s fetching %s", resp.Status, url)
	}

	return io.ReadAll(resp.Body)
}
