package core

import (
	"github.com/oneconcern/refmat/pkg/metrics"
)

// M describes metrics for the core package
type M struct {
	Volume struct {
		Artifacts metrics.FilesMetrics `group:"artifacts" description:"metrics about materialized reference artifacts"`
	} `group:"volumetry" description:""`
	Usage metrics.UsageMetrics `group:"telemetry" description:"usage stats for the core package"`

	// more metrics here
}
