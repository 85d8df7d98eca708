package main

import (
	"encoding/json"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/client"
	wrapcontext "github.com/wraplang/goclient/context"
	"github.com/wraplang/goclient/invoker"
)

var serveAddr string

func init() {
	ServeCmd.Flags().StringVar(&serveAddr, "addr", "", "debug server listen address (overrides the config file's debug.addr)")
}

// ServeCmd is a cobra command that stands up a debug introspection
// HTTP server over a configured client: /debug/history resolves a
// uri given as a query parameter and returns its history tree as
// JSON, /debug/metrics exposes the invoker's prometheus registry —
// mirroring cmd/registry/main.go's configureDebugServer plus
// configureReporting's handler-wrapping chain, adapted from an
// application server to a pure debug surface.
var ServeCmd = &cobra.Command{
	Use:   "serve <config>",
	Short: "`serve` runs a debug introspection server over a resolver pipeline",
	Long:  "`serve` runs a debug introspection server over a resolver pipeline",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, ctx, err := loadConfig(args[0])
		if err != nil {
			fatalf("configuration error: %v", err)
		}

		addr := cfg.Debug.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		if addr == "" {
			fatalf("no debug server address configured (set debug.addr or pass --addr)")
		}

		c, err := buildClient(cfg)
		if err != nil {
			fatalf("could not build client: %v", err)
		}
		defer c.Close()

		var reporter *client.Reporter
		if cfg.Reporting.Bugsnag.APIKey != "" || cfg.Reporting.NewRelic.LicenseKey != "" {
			reporter = client.WrapReporting(c, cfg.Reporting)
		}

		router := mux.NewRouter()
		router.HandleFunc("/debug/history", historyHandler(c)).Methods(http.MethodGet)
		router.HandleFunc("/debug/invoke", invokeHandler(c, reporter)).Methods(http.MethodPost)
		if cfg.Debug.Metrics {
			router.Handle("/debug/metrics", promhttp.HandlerFor(invoker.Registry(), promhttp.HandlerOpts{})).Methods(http.MethodGet)
		}
		if cfg.Debug.PProf {
			router.PathPrefix("/debug/pprof/").Handler(http.DefaultServeMux)
		}

		var handler http.Handler = router
		handler = handlers.CombinedLoggingHandler(os.Stdout, handler)

		wrapcontext.GetLogger(ctx).Infof("listening on %v", addr)
		if err := http.ListenAndServe(addr, handler); err != nil {
			wrapcontext.GetLogger(ctx).Fatalln(err)
		}
	},
}

func historyHandler(c *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uriStr := r.URL.Query().Get("uri")
		uri, err := wrap.ParseUri(uriStr)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		_, history, err := c.ResolveWithHistory(r.Context(), uri)
		resp := struct {
			History []wrap.UriResolutionStep `json:"history"`
			Err     string                   `json:"error,omitempty"`
		}{History: history}
		if err != nil {
			resp.Err = err.Error()
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func invokeHandler(c *client.Client, reporter *client.Reporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Uri    string `json:"uri"`
			Method string `json:"method"`
			Args   []byte `json:"args"`
			Env    []byte `json:"env"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		uri, err := wrap.ParseUri(req.Uri)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var result []byte
		if reporter != nil {
			result, err = reporter.Invoke(r.Context(), uri, req.Method, req.Args, req.Env)
		} else {
			result, err = c.Invoke(r.Context(), uri, req.Method, req.Args, req.Env)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Write(result)
	}
}
