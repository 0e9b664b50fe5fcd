// Copyright © 2019 One Concern

package fetch

import (
	"github.com/oneconcern/refmat/pkg/metrics"
)

// M describes metrics for the fetch package
type M struct {
	Volume struct {
		Archives metrics.IOMetrics `group:"archives" description:"metrics about archive downloads"`
	} `group:"volumetry" description:""`
	Usage metrics.UsageMetrics `group:"telemetry" description:"usage stats for the fetch package"`

	// more metrics here
}
