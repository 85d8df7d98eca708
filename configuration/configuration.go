// Package configuration loads a wrap client's YAML configuration:
// logging, the resolver pipeline to build, the optional cache
// backend, static redirects/env overrides, and the debug server.
// Shaped after configuration/configuration.go's YAML-into-struct
// layout and configuration/parser.go's Parameters-map-per-backend
// convention (registry/storage/driver/s3's FromParameters idiom).
package configuration

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v2"
)

// Configuration is the top-level, versioned configuration document.
type Configuration struct {
	Version   string      `yaml:"version"`
	Log       Log         `yaml:"log"`
	Resolvers Resolvers   `yaml:"resolvers"`
	Cache     *Parameters `yaml:"cache,omitempty"`
	Redirects []Redirect  `yaml:"redirects,omitempty"`
	Env       []EnvEntry  `yaml:"env,omitempty"`
	Debug     Debug       `yaml:"debug,omitempty"`
	Reporting Reporting   `yaml:"reporting,omitempty"`
}

// Reporting configures the optional Bugsnag/New Relic hooks
// client.WrapReporting installs around a Client's invocations,
// mirroring cmd/registry/main.go's configureReporting.
type Reporting struct {
	Bugsnag  BugsnagReporting  `yaml:"bugsnag,omitempty"`
	NewRelic NewRelicReporting `yaml:"newrelic,omitempty"`
}

// BugsnagReporting configures bugsnag/bugsnag-go error reporting. A
// blank APIKey disables the hook.
type BugsnagReporting struct {
	APIKey       string `yaml:"apikey,omitempty"`
	ReleaseStage string `yaml:"releasestage,omitempty"`
	Endpoint     string `yaml:"endpoint,omitempty"`
}

// NewRelicReporting configures a yvasiyarov/gorelic APM agent. A
// blank LicenseKey disables the hook.
type NewRelicReporting struct {
	LicenseKey string `yaml:"licensekey,omitempty"`
	Name       string `yaml:"name,omitempty"`
}

// Log configures the logrus-based logger (see package context).
type Log struct {
	Level     string                 `yaml:"level"`
	Formatter string                 `yaml:"formatter,omitempty"`
	Fields    map[string]interface{} `yaml:"fields,omitempty"`
}

// Redirect is one static from->to uri redirect, applied before
// resolution (spec §4.5).
type Redirect struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// EnvEntry configures the env bytes registered for a uri. Value is
// the literal string form of the env bytes; binary env should be
// supplied programmatically rather than through YAML.
type EnvEntry struct {
	Uri   string `yaml:"uri"`
	Value string `yaml:"value"`
}

// Debug configures the optional gorilla/mux debug HTTP server.
type Debug struct {
	Addr    string `yaml:"addr,omitempty"`
	Metrics bool   `yaml:"metrics,omitempty"`
	PProf   bool   `yaml:"pprof,omitempty"`
}

// Parameters is an arbitrary, backend-specific parameter bag, decoded
// by each resolvers/remote/*fetch package with mapstructure.
type Parameters map[string]interface{}

// ResolverConfig is one named, ordered entry in the resolver
// pipeline: its kind (matching a resolvers/remote/factory
// registration, or one of the kinds cmd/wrapctl builds itself:
// "redirect" with from/to parameters, "extension-wrapper" with a uri
// parameter) and its backend-specific Parameters. There is no kind
// for static entries.
type ResolverConfig struct {
	Kind       string
	Parameters Parameters
}

// Resolvers is the ordered resolver pipeline: each entry becomes one
// child of the root aggregator, in list order.
type Resolvers []ResolverConfig

// UnmarshalYAML accepts a list of single-key maps, e.g.
//
//	resolvers:
//	  - redirect: {from: wrap://a/b, to: wrap://c/d}
//	  - s3: {bucket: my-bucket, region: us-east-1}
//
// mirroring Storage's single-key-map-per-driver convention.
func (rs *Resolvers) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw []map[string]Parameters
	if err := unmarshal(&raw); err != nil {
		return err
	}

	out := make(Resolvers, 0, len(raw))
	for _, entry := range raw {
		if len(entry) != 1 {
			return fmt.Errorf("resolvers: each list entry must name exactly one resolver kind, got %d", len(entry))
		}
		for kind, params := range entry {
			out = append(out, ResolverConfig{Kind: kind, Parameters: params})
		}
	}
	*rs = out
	return nil
}

// Parse decodes a Configuration from rd.
func Parse(rd io.Reader) (*Configuration, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}

	var c Configuration
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}

	if c.Version == "" {
		return nil, errors.New("configuration: missing version")
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	return &c, nil
}
