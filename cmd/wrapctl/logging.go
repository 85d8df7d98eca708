package main

import (
	"fmt"

	bugsnaghook "github.com/Shopify/logrus-bugsnag"
	logstash "github.com/bshuster-repo/logrus-logstash-hook"
	"github.com/sirupsen/logrus"

	wrapcontext "github.com/wraplang/goclient/context"
	"github.com/wraplang/goclient/configuration"
)

const defaultLogFormatter = "text"

// configureLogging prepares ctx with a logger built from cfg.Log,
// mirroring cmd/registry/main.go's configureLogging: level, a
// pluggable formatter (including the logstash formatter), static
// fields, and — when Bugsnag reporting is configured — a logrus hook
// that forwards Error/Fatal/Panic entries to Bugsnag in addition to
// Reporter's own per-call notify-on-error path.
func configureLogging(ctx wrapcontext.Context, cfg *configuration.Configuration) (wrapcontext.Context, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return ctx, fmt.Errorf("configuring logging: %w", err)
	}
	logger.SetLevel(level)

	formatter := cfg.Log.Formatter
	if formatter == "" {
		formatter = defaultLogFormatter
	}

	switch formatter {
	case "json":
		logger.Formatter = &logrus.JSONFormatter{}
	case "text":
		logger.Formatter = &logrus.TextFormatter{}
	case "logstash":
		logger.Formatter = &logstash.LogstashFormatter{Formatter: &logrus.JSONFormatter{}}
	default:
		return ctx, fmt.Errorf("unsupported logging formatter: %q", formatter)
	}

	if cfg.Reporting.Bugsnag.APIKey != "" {
		hook, err := bugsnaghook.NewBugsnagHook()
		if err != nil {
			return ctx, fmt.Errorf("configuring bugsnag log hook: %w", err)
		}
		logger.Hooks.Add(hook)
	}

	entry := logger.WithFields(logrus.Fields(cfg.Log.Fields))
	ctx = wrapcontext.WithLogger(ctx, entry)
	wrapcontext.GetLogger(ctx).Debugf("using %q logging formatter", formatter)

	return ctx, nil
}
