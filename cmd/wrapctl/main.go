// Command wrapctl is the reference CLI/debug-server binary for a wrap
// client: resolving and invoking wrapper uris against a configured
// resolver pipeline, the way cmd/registry and cmd/dist are the
// reference binaries built atop the teacher's own library packages.
package main

import (
	"fmt"
	"os"

	// Blank-imported so each backend's init() registers itself with
	// resolvers/remote/factory, mirroring cmd/registry/main.go's own
	// blank imports of its storage drivers. ipfsfetch is not among
	// these: it needs a live blockservice.BlockService handle, not a
	// parameter bag, so it is wired up by an embedding application
	// rather than by name from a configuration file.
	_ "github.com/wraplang/goclient/resolvers/remote/azurefetch"
	_ "github.com/wraplang/goclient/resolvers/remote/gcsfetch"
	_ "github.com/wraplang/goclient/resolvers/remote/httpfetch"
	_ "github.com/wraplang/goclient/resolvers/remote/ossfetch"
	_ "github.com/wraplang/goclient/resolvers/remote/s3fetch"
	_ "github.com/wraplang/goclient/resolvers/remote/swiftfetch"
)

func main() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
