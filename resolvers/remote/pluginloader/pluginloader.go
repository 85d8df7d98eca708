// Package pluginloader dynamically loads -buildmode=plugin fetcher
// backends, mirroring registry/pluginloader.LoadPlugins: plugins are
// expected to self-register with resolvers/remote/factory the same
// way a built-in *fetch package does in its own init().
package pluginloader

import (
	"fmt"
	"os"
	"path/filepath"
	"plugin"

	wrapcontext "github.com/wraplang/goclient/context"
)

const pluginSuffix = ".so"

// LoadPlugins loads every fetcher plugin named by paths. A path
// naming a directory is scanned (non-recursively) for files ending
// in pluginSuffix; a path naming a file is loaded directly. Load
// failures are logged and skipped rather than aborting the whole
// list, matching LoadPlugins' own per-plugin error handling.
func LoadPlugins(ctx wrapcontext.Context, paths []string) error {
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			wrapcontext.GetLogger(ctx).Errorf("pluginloader: could not stat %s: %v", p, err)
			continue
		}

		if !fi.IsDir() {
			if err := load(p); err != nil {
				wrapcontext.GetLogger(ctx).Errorf("pluginloader: could not load plugin %s: %v", p, err)
			}
			continue
		}

		matches, err := filepath.Glob(filepath.Join(p, "*"+pluginSuffix))
		if err != nil {
			return err
		}
		for _, match := range matches {
			if err := load(match); err != nil {
				wrapcontext.GetLogger(ctx).Errorf("pluginloader: could not load plugin %s: %v", match, err)
			}
		}
	}
	return nil
}

func load(path string) error {
	if _, err := plugin.Open(path); err != nil {
		return fmt.Errorf("pluginloader: %w", err)
	}
	return nil
}
