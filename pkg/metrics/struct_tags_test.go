package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/stats"
)

func TestStructTags(t *testing.T) {
	s := newSettings()
	m := &trackedMetrics{}

	scanStruct("parent", s.addMetric, m)

	assert.Nil(t, m.Telemetry.PerAssembly) // ignored slice
	assert.Nil(t, m.Telemetry.Retries)     // ignored slice

	assert.NotNil(t, m.Telemetry.RunCount)
	assert.NotNil(t, m.Volumetry.Artifacts.FileCount)
	assert.NotNil(t, m.Volumetry.Artifacts.FileSize)
	assert.NotNil(t, m.Network.Downloads.Count)
	assert.NotNil(t, m.Network.Downloads.Timing)
	assert.NotNil(t, m.Network.Downloads.Failures)
	assert.NotNil(t, m.Network.Downloads.IOSize)

	require.NotNil(t, m.Network.Downloads.IOThroughput)
	assert.IsType(t, &stats.Float64Measure{}, m.Network.Downloads.IOThroughput)
	assert.Len(t, s.allMetrics, 8)
	assert.Len(t, s.allViews, 11)
}
