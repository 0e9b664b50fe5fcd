package influxdb

import (
	"context"
	"fmt"
	"strings"

	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var _ view.Exporter = &Exporter{}

func defaultExporter() *Exporter {
	sink, _ := NewStore()
	return &Exporter{
		errorHandler: func(_ error) {},
		store:        sink,
	}
}

// NewExporter creates a new influxdb exporter.
//
// Use options to configure:
//   - an influxdb.Store instance, built with the desired settings
//   - an error handler. When left nil, errors are silently dropped
//   - a map of custom tags added to every written record (may be nil)
func NewExporter(opts ...Option) *Exporter {
	e := defaultExporter()
	for _, apply := range opts {
		apply(e)
	}
	return e
}

const (
	// opencensus view metadata represented as influxdb tags
	descriptionTag = "description" // view description
	unitTag        = "unit"        // measurement unit
	groupingTag    = "grouping"    // view aggregation/filtering tag
	aggregationTag = "aggregation" // view aggregation type (count, sum, last, distribution)

	// opencensus row data represented as influxdb fields
	startField       = "start"             // start of the view aggregation period
	observationField = "observationPeriod" // duration of the view aggregation period
	valueField       = "value"
	minField         = "min" // statistics on distribution aggregations
	maxField         = "max"
	meanField        = "mean"
	countField       = "count"
	bucketsField     = "buckets" // buckets on distribution aggregations
)

// Exporter is an opencensus view exporter writing to influxdb
type Exporter struct {
	store        Store
	errorHandler func(error)
	customTags   map[string]string
}

// ExportView sends collected metrics to the backend sink.
// Nothing is written when a row cannot be converted.
func (e *Exporter) ExportView(viewData *view.Data) {
	points := make([]MetricPoint, 0, len(viewData.Rows))
	for i, row := range viewData.Rows {
		point, err := e.point(viewData, i, row)
		if err != nil {
			e.errorHandler(err)
			return
		}
		points = append(points, point)
	}

	if err := e.store.WriteBatch(context.Background(), points); err != nil {
		e.errorHandler(err)
	}
}

// point converts the i-th row of an exported view into an influxdb point
func (e *Exporter) point(viewData *view.Data, i int, row *view.Row) (MetricPoint, error) {
	fields := make(map[string]interface{}, 8)
	tags := make(map[string]string, len(e.customTags)+len(row.Tags)+2)

	// view metadata
	fields[startField] = viewData.Start
	fields[observationField] = viewData.End.Sub(viewData.Start)
	if viewData.View.Description != "" {
		tags[descriptionTag] = viewData.View.Description
	}
	tags[unitTag] = viewData.View.Measure.Unit()

	// view aggregation keys
	if i < len(viewData.View.TagKeys) {
		tags[groupingTag] = strings.ToLower(viewData.View.TagKeys[i].Name())
	}

	// aggregated row data
	switch d := row.Data.(type) {
	case *view.CountData:
		fields[valueField] = float64(d.Value)
		tags[aggregationTag] = "count"
	case *view.DistributionData:
		fields[minField] = d.Min
		fields[maxField] = d.Max
		fields[meanField] = d.Mean
		fields[countField] = d.Count
		fields[bucketsField] = d.CountPerBucket
		tags[aggregationTag] = "distribution"
	case *view.LastValueData:
		fields[valueField] = d.Value
		tags[aggregationTag] = "last"
	case *view.SumData:
		fields[valueField] = d.Value
		tags[aggregationTag] = "sum"
	default:
		return MetricPoint{}, fmt.Errorf("unknown AggregationData type: %T", row.Data)
	}

	mergeInto(tags, e.customTags)
	mergeInto(tags, convertTags(row.Tags))

	return MetricPoint{
		Measurement: viewData.View.Name,
		Tags:        tags,
		Fields:      fields,
		Timestamp:   viewData.End,
	}, nil
}

// mergeInto copies all entries from src into dst, overwriting on conflicts.
// dst must not be nil.
func mergeInto(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func convertTags(tags []tag.Tag) map[string]string {
	res := make(map[string]string, len(tags))
	for _, tg := range tags {
		res[tg.Key.Name()] = tg.Value
	}
	return res
}
