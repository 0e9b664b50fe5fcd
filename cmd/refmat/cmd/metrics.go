package cmd

import (
	"time"

	"github.com/oneconcern/refmat/pkg/metrics"
	"github.com/oneconcern/refmat/pkg/metrics/exporters/influxdb"
)

type metricsFlags struct {
	Enabled *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty"` // pointer because we want to distinguish unset from false
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	m       *M
}

func (m metricsFlags) IsEnabled() bool {
	return m.Enabled != nil && *m.Enabled
}

// M describes metrics for the cmd package
type M struct {
	Usage metrics.UsageMetrics `group:"telemetry" description:"usage stats for refmat CLI"`

	// more metrics here
}

// initMetrics wires the metrics collection when enabled. Safe to call on
// every command: the underlying registration happens only once.
func initMetrics() {
	if !refmatFlags.root.metrics.IsEnabled() {
		return
	}
	opts := []metrics.Option{
		metrics.WithBasePath("refmat"),
	}
	if url := refmatFlags.root.metrics.URL; url != "" {
		sink, err := influxdb.NewStore(
			influxdb.WithURL(url),
			influxdb.WithDatabase("refmat"),
			influxdb.WithNameAsTag("metrics"),
		)
		if err != nil {
			wrapFatalln("invalid metrics collector URL", err)
			return
		}
		opts = append(opts, metrics.WithExporter(metrics.DefaultExporter(influxdb.WithStore(sink))))
	}
	metrics.Init(opts...)
	refmatFlags.root.metrics.m = metrics.EnsureMetrics("cmd", &M{}).(*M)
}

// cliUsage records a usage metric in the CLI context in a single go.
// This is intended to be used in some defer statement.
//
// Metrics are flushed as soon as the command is done.
func cliUsage(t0 time.Time, command string, err error) {
	if refmatFlags.root.metrics.IsEnabled() && refmatFlags.root.metrics.m != nil {
		refmatFlags.root.metrics.m.Usage.UsedAll(t0, command)(err)
		metrics.Flush()
	}
}
