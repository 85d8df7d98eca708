package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wrapcontext "github.com/wraplang/goclient/context"
	"github.com/wraplang/goclient/configuration"
	"github.com/wraplang/goclient/resolvers/remote/pluginloader"
)

var pluginPaths []string

func init() {
	RootCmd.PersistentFlags().StringSliceVar(&pluginPaths, "plugin", nil, "path to a fetcher plugin .so or a directory of them (repeatable)")
	RootCmd.AddCommand(ResolveCmd)
	RootCmd.AddCommand(InvokeCmd)
	RootCmd.AddCommand(ServeCmd)
}

// RootCmd is the main command for the wrapctl binary.
var RootCmd = &cobra.Command{
	Use:   "wrapctl",
	Short: "`wrapctl` resolves and invokes wrap package uris",
	Long:  "`wrapctl` resolves and invokes wrap package uris",
	Run: func(cmd *cobra.Command, args []string) {
		// nolint:errcheck
		cmd.Usage()
	},
}

// loadConfig opens and parses the configuration file at path, then
// loads any plugins named on the command line before a single fetcher
// backend is constructed from it.
func loadConfig(path string) (*configuration.Configuration, wrapcontext.Context, error) {
	ctx := wrapcontext.Background()

	fp, err := os.Open(path)
	if err != nil {
		return nil, ctx, err
	}
	defer fp.Close()

	cfg, err := configuration.Parse(fp)
	if err != nil {
		return nil, ctx, fmt.Errorf("error parsing %s: %w", path, err)
	}

	ctx, err = configureLogging(ctx, cfg)
	if err != nil {
		return nil, ctx, err
	}

	if len(pluginPaths) > 0 {
		if err := pluginloader.LoadPlugins(ctx, pluginPaths); err != nil {
			return nil, ctx, err
		}
	}

	return cfg, ctx, nil
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
