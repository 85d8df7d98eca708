// Package swiftfetch fetches manifest/module pairs from an OpenStack
// Swift container, leveraging ncw/swift the way
// registry/storage/driver/swift.FromParameters authenticates a
// swift.Connection from username/password/authurl/container
// parameters.
package swiftfetch

import (
	"bytes"
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/ncw/swift"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/resolvers/remote"
	"github.com/wraplang/goclient/resolvers/remote/factory"
)

const backendName = "swift"

func init() {
	factory.Register(backendName, &fetcherFactory{})
}

type fetcherFactory struct{}

func (fetcherFactory) Create(parameters map[string]interface{}) (remote.Fetcher, error) {
	return FromParameters(parameters)
}

// Params configures Fetcher, decoded via mapstructure the same way
// swift.Parameters is.
type Params struct {
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	AuthURL   string `mapstructure:"authurl"`
	Container string `mapstructure:"container"`
	Tenant    string `mapstructure:"tenant"`
	Region    string `mapstructure:"region"`
}

// Fetcher fetches "<uri.Authority()>/<uri.Path()>/manifest.yaml" and
// "...module.wasm" objects from one Swift container.
type Fetcher struct {
	conn      swift.Connection
	container string
}

var _ remote.Fetcher = (*Fetcher)(nil)

// FromParameters builds a Fetcher from a backend parameter bag,
// authenticating eagerly so a misconfigured backend fails at
// construction rather than on first resolve.
func FromParameters(parameters map[string]interface{}) (*Fetcher, error) {
	var p Params
	if err := mapstructure.Decode(parameters, &p); err != nil {
		return nil, err
	}
	if p.Username == "" {
		return nil, fmt.Errorf("swiftfetch: no username parameter provided")
	}
	if p.Password == "" {
		return nil, fmt.Errorf("swiftfetch: no password parameter provided")
	}
	if p.AuthURL == "" {
		return nil, fmt.Errorf("swiftfetch: no authurl parameter provided")
	}
	if p.Container == "" {
		return nil, fmt.Errorf("swiftfetch: no container parameter provided")
	}

	conn := swift.Connection{
		UserName: p.Username,
		ApiKey:   p.Password,
		AuthUrl:  p.AuthURL,
		Tenant:   p.Tenant,
		Region:   p.Region,
	}
	if err := conn.Authenticate(); err != nil {
		return nil, fmt.Errorf("swiftfetch: authentication failed: %w", err)
	}

	return &Fetcher{conn: conn, container: p.Container}, nil
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

func (f *Fetcher) get(objectName string) ([]byte, error) {
	buf := &bytes.Buffer{}
	_, err := f.conn.ObjectGet(f.container, objectName, buf, true, nil)
	if err != nil {
		if err == swift.ObjectNotFound {
			return nil, remote.ErrObjectNotFound
		}
		return nil, err
	}
	return buf.Bytes(), nil
}
