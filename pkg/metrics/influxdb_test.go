// +build influxdbintegration

package metrics

import (
	"github.com/oneconcern/refmat/pkg/metrics/exporters/influxdb"

	"go.opencensus.io/stats/view"
)

// testExporter targets a live influxdb when the integration tag is set
func testExporter(tags map[string]string) view.Exporter {
	return DefaultExporter(influxdb.WithTags(tags))
}
