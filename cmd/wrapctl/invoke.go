package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/client"
)

var (
	argsFile string
	envFile  string
)

func init() {
	InvokeCmd.Flags().StringVar(&argsFile, "args-file", "", "file containing raw argument bytes (defaults to empty args)")
	InvokeCmd.Flags().StringVar(&envFile, "env-file", "", "file containing raw env bytes (defaults to the uri's registered env)")
}

// InvokeCmd is the cobra command that invokes a method on a wrapper.
var InvokeCmd = &cobra.Command{
	Use:   "invoke <config> <uri> <method>",
	Short: "`invoke` runs a method on a resolved wrapper",
	Long:  "`invoke` runs a method on a resolved wrapper",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ctx, err := loadConfig(args[0])
		if err != nil {
			fatalf("configuration error: %v", err)
		}

		uri, err := wrap.ParseUri(args[1])
		if err != nil {
			fatalf("invalid uri %q: %v", args[1], err)
		}
		method := args[2]

		var argBytes []byte
		if argsFile != "" {
			argBytes, err = os.ReadFile(argsFile)
			if err != nil {
				fatalf("could not read args file: %v", err)
			}
		}

		var envBytes []byte
		if envFile != "" {
			envBytes, err = os.ReadFile(envFile)
			if err != nil {
				fatalf("could not read env file: %v", err)
			}
		}

		c, err := buildClient(cfg)
		if err != nil {
			fatalf("could not build client: %v", err)
		}
		defer c.Close()

		var result []byte
		if cfg.Reporting.Bugsnag.APIKey != "" || cfg.Reporting.NewRelic.LicenseKey != "" {
			reporter := client.WrapReporting(c, cfg.Reporting)
			result, err = reporter.Invoke(ctx, uri, method, argBytes, envBytes)
		} else {
			result, err = c.Invoke(ctx, uri, method, argBytes, envBytes)
		}
		if err != nil {
			fatalf("invoke failed: %v", err)
		}

		os.Stdout.Write(result)
		fmt.Println()
	},
}
