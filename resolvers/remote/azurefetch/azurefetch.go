// Package azurefetch fetches manifest/module pairs from Microsoft
// Azure Blob Storage, leveraging Azure/azure-sdk-for-go's storage
// client the way storagedriver/azure.FromParameters builds a basic
// client from an account name/key pair.
package azurefetch

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/storage"
	"github.com/mitchellh/mapstructure"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/resolvers/remote"
	"github.com/wraplang/goclient/resolvers/remote/factory"
)

const backendName = "azure"

func init() {
	factory.Register(backendName, &fetcherFactory{})
}

type fetcherFactory struct{}

func (fetcherFactory) Create(parameters map[string]interface{}) (remote.Fetcher, error) {
	return FromParameters(parameters)
}

// Params configures Fetcher, decoded via mapstructure the same way
// azure.FromParameters reads accountname/accountkey/container.
type Params struct {
	AccountName string `mapstructure:"accountname"`
	AccountKey  string `mapstructure:"accountkey"`
	Container   string `mapstructure:"container"`
}

// Fetcher fetches "<uri.Authority()>/<uri.Path()>/manifest.yaml" and
// "...module.wasm" blobs from one Azure Blob Storage container.
type Fetcher struct {
	blobs     storage.BlobStorageClient
	container string
}

var _ remote.Fetcher = (*Fetcher)(nil)

// FromParameters builds a Fetcher from a backend parameter bag.
func FromParameters(parameters map[string]interface{}) (*Fetcher, error) {
	var p Params
	if err := mapstructure.Decode(parameters, &p); err != nil {
		return nil, err
	}
	if p.AccountName == "" {
		return nil, fmt.Errorf("azurefetch: no accountname parameter provided")
	}
	if p.AccountKey == "" {
		return nil, fmt.Errorf("azurefetch: no accountkey parameter provided")
	}
	if p.Container == "" {
		return nil, fmt.Errorf("azurefetch: no container parameter provided")
	}

	client, err := storage.NewBasicClient(p.AccountName, p.AccountKey)
	if err != nil {
		return nil, err
	}

	return &Fetcher{blobs: client.GetBlobService(), container: p.Container}, nil
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

func (f *Fetcher) get(blobName string) ([]byte, error) {
	container := f.blobs.GetContainerReference(f.container)
	blob := container.GetBlobReference(blobName)

	exists, err := blob.Exists()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, remote.ErrObjectNotFound
	}

	reader, err := blob.Get(nil)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
