// Package factory registers named Fetcher constructors so a
// configuration file can select a remote backend by string, exactly
// as registry/storage/driver/factory.go registers named
// StorageDriverFactory constructors for the storage subsystem.
package factory

import (
	"fmt"

	"github.com/wraplang/goclient/resolvers/remote"
)

// FetcherFactory constructs a remote.Fetcher from a backend-specific
// parameter bag (bucket names, credentials, endpoints — see
// mapstructure.Decode usage in each fetcher package).
type FetcherFactory interface {
	Create(parameters map[string]interface{}) (remote.Fetcher, error)
}

var fetcherFactories = make(map[string]FetcherFactory)

// Register makes a fetcher backend available by name. Calling
// Register twice with the same name, or with a nil factory, panics —
// a registration collision is a build-time programming error, not a
// runtime condition to recover from.
func Register(name string, f FetcherFactory) {
	if f == nil {
		panic("factory: Register called with a nil FetcherFactory")
	}
	if _, ok := fetcherFactories[name]; ok {
		panic(fmt.Sprintf("factory: FetcherFactory named %q already registered", name))
	}
	fetcherFactories[name] = f
}

// InvalidFetcherError is returned by Create when no FetcherFactory is
// registered under name.
type InvalidFetcherError struct {
	Name string
}

func (e InvalidFetcherError) Error() string {
	return fmt.Sprintf("factory: no FetcherFactory registered under name %q", e.Name)
}

// Create constructs a remote.Fetcher using the factory registered
// under name.
func Create(name string, parameters map[string]interface{}) (remote.Fetcher, error) {
	f, ok := fetcherFactories[name]
	if !ok {
		return nil, InvalidFetcherError{Name: name}
	}
	return f.Create(parameters)
}
