package client

import (
	"context"

	"github.com/bugsnag/bugsnag-go"
	"github.com/yvasiyarov/gorelic"

	wrap "github.com/wraplang/goclient"
	"github.com/wraplang/goclient/configuration"
)

// Reporter wraps a Client's Invoke calls with the error/APM reporting
// hooks cmd/registry/main.go's configureReporting installs around its
// http.Handler: a bugsnag-go notify-on-error hook and a gorelic APM
// transaction around every call, each independently gated on its
// configuration section being non-empty.
type Reporter struct {
	client *Client
	agent  *gorelic.Agent
}

// WrapReporting configures bugsnag-go and yvasiyarov/gorelic from cfg
// and returns a Reporter that drives c through them. Either hook is a
// no-op if its configuration section is blank, mirroring
// configureReporting's independent if-blocks.
func WrapReporting(c *Client, cfg configuration.Reporting) *Reporter {
	r := &Reporter{client: c}

	if cfg.Bugsnag.APIKey != "" {
		bugsnagConfig := bugsnag.Configuration{
			APIKey: cfg.Bugsnag.APIKey,
		}
		if cfg.Bugsnag.ReleaseStage != "" {
			bugsnagConfig.ReleaseStage = cfg.Bugsnag.ReleaseStage
		}
		if cfg.Bugsnag.Endpoint != "" {
			bugsnagConfig.Endpoint = cfg.Bugsnag.Endpoint
		}
		bugsnag.Configure(bugsnagConfig)
	}

	if cfg.NewRelic.LicenseKey != "" {
		agent := gorelic.NewAgent()
		agent.NewrelicLicense = cfg.NewRelic.LicenseKey
		if cfg.NewRelic.Name != "" {
			agent.NewrelicName = cfg.NewRelic.Name
		}
		agent.CollectHTTPStat = false
		agent.Verbose = true
		agent.Run()
		r.agent = agent
	}

	return r
}

// Invoke runs method on uri through the wrapped Client, tracing the
// call through the gorelic agent's Tracer when one is configured and
// notifying bugsnag on a non-nil error.
func (r *Reporter) Invoke(ctx context.Context, uri wrap.Uri, method string, args []byte, env []byte) ([]byte, error) {
	var (
		result []byte
		err    error
	)
	invoke := func() {
		result, err = r.client.Invoke(ctx, uri, method, args, env)
	}

	if r.agent != nil && r.agent.Tracer != nil {
		r.agent.Tracer.Trace(method, invoke)
	} else {
		invoke()
	}

	if err != nil {
		_ = bugsnag.Notify(err,
			bugsnag.MetaData{
				"wrap": {
					"uri":    uri.String(),
					"method": method,
				},
			},
		)
	}

	return result, err
}

// Close releases the wrapped Client. The gorelic agent has no stop
// hook of its own; its reporting goroutine runs for the life of the
// process once started.
func (r *Reporter) Close() error {
	return r.client.Close()
}
