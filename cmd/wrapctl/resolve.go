package main

import (
	"fmt"

	"github.com/spf13/cobra"

	wrap "github.com/wraplang/goclient"
)

// ResolveCmd is the cobra command that resolves a uri one step
// through a client's resolver pipeline and prints what happened.
var ResolveCmd = &cobra.Command{
	Use:   "resolve <config> <uri>",
	Short: "`resolve` prints the resolution history tree for a uri",
	Long:  "`resolve` prints the resolution history tree for a uri",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ctx, err := loadConfig(args[0])
		if err != nil {
			fatalf("configuration error: %v", err)
		}

		uri, err := wrap.ParseUri(args[1])
		if err != nil {
			fatalf("invalid uri %q: %v", args[1], err)
		}

		c, err := buildClient(cfg)
		if err != nil {
			fatalf("could not build client: %v", err)
		}
		defer c.Close()

		result, history, err := c.ResolveWithHistory(ctx, uri)
		printHistory(history, 0)

		if err != nil {
			fatalf("resolution failed: %v", err)
		}

		if _, ok := result.IsWrapper(); ok {
			fmt.Println("resolved to an in-flight wrapper")
		} else if redirect, ok := result.IsUri(); ok {
			fmt.Printf("resolved to uri: %s\n", redirect)
		} else if pkg, ok := result.IsPackage(); ok {
			mf, err := pkg.GetManifest(ctx)
			if err != nil {
				fatalf("could not read manifest: %v", err)
			}
			fmt.Printf("resolved to package %q, methods: %v\n", mf.Name(), mf.Methods())
		}
	},
}
