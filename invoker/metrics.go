package invoker

import (
	"github.com/docker/go-metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// metricsSet bundles the prometheus collectors an Invoker publishes,
// namespaced under "wrap_client" via docker/go-metrics the way the
// teacher's notifications/metrics.go wraps a Sink with counters.
type metricsSet struct {
	resolutionDuration metrics.LabeledTimer
	cacheHits          metrics.Counter
	cacheMisses        metrics.Counter
	invokeErrors       metrics.LabeledCounter
}

var (
	defaultNamespace = metrics.NewNamespace("wrap_client", "", nil)
	shared           = &metricsSet{
		resolutionDuration: defaultNamespace.NewLabeledTimer("resolution_duration_seconds", "time spent in an Invoke call, from redirects through wrapper execution", "outcome"),
		cacheHits:          defaultNamespace.NewCounter("resolution_cache_hits_total", "resolution-result cache hits"),
		cacheMisses:        defaultNamespace.NewCounter("resolution_cache_misses_total", "resolution-result cache misses"),
		invokeErrors:       defaultNamespace.NewLabeledCounter("invoke_errors_total", "invoke calls that returned an error", "code"),
	}
)

func init() {
	metrics.Register(defaultNamespace)
}

func newMetricsSet() *metricsSet {
	return shared
}

// Registry exposes the underlying prometheus registry for a debug
// server (cmd/wrapctl serve) to mount at /debug/metrics.
func Registry() prometheus.Gatherer {
	return prometheus.DefaultGatherer
}
