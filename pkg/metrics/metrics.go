package metrics

import (
	"context"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/oneconcern/refmat/pkg/metrics/exporters/influxdb"

	"github.com/docker/go-units"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

const (
	// KB stands for kilo bytes (1024 bytes)
	KB = units.KiB

	// MB stands for mega bytes (1024 kilo bytes)
	MB = units.MiB

	// GB stands for giga bytes (1024 mega bytes)
	GB = units.GiB

	unitCount    = "count"
	unitSumBytes = "sumbytes"
	unitBps      = "bps"
)

var (
	// package level state shared by all instrumented types
	global   *settings
	initOnce sync.Once
)

type settings struct {
	basePath  string
	contexter func() context.Context
	exporter  view.Exporter

	allMetrics []stats.Measure
	allViews   []*view.View

	// registered metrics trees, keyed by location
	modules   map[string]interface{}
	exclusive sync.Mutex

	period time.Duration
}

func defaultSettings() *settings {
	return &settings{
		modules:   make(map[string]interface{}),
		contexter: context.Background,
		// reporting period is left to the opencensus default (10s)
	}
}

func defaultStore() influxdb.Store {
	sink, _ := influxdb.NewStore(
		influxdb.WithDatabase("refmat"),
		influxdb.WithNameAsTag("metrics"), // fold metric names into a tag on a single "metrics" time series
	)
	return sink
}

// DefaultExporter returns a metrics exporter to an influxdb backend, with db "refmat" and time series "metrics"
func DefaultExporter(opts ...influxdb.Option) view.Exporter {
	return flusher(influxdb.NewExporter(
		append([]influxdb.Option{
			influxdb.WithStore(defaultStore()),
			influxdb.WithTags(map[string]string{"service": "refmat"}),
		}, opts...)...,
	))
}

func newSettings(opts ...Option) *settings {
	s := defaultSettings()
	for _, apply := range opts {
		apply(s)
	}

	if s.exporter == nil {
		s.exporter = DefaultExporter()
	}

	s.RegisterExporter()
	return s
}

func (s *settings) EnsureMetrics(location string, m interface{}) interface{} {
	s.exclusive.Lock()
	defer s.exclusive.Unlock()
	location = path.Join(s.basePath, location)

	if existing, ok := s.modules[location]; ok {
		if !equalType(existing, m) {
			panic("metrics location already registered with a different type")
		}
		return existing
	}
	scanStruct(location, s.addMetric, m)
	s.modules[location] = m
	return m
}

// Flush collects all remaining data for registered views and exports them
func (s *settings) Flush() {
	for _, v := range s.allViews {
		rows, err := view.RetrieveData(v.Name)
		if err != nil {
			continue // ignore errors when pushing metrics
		}
		data := &view.Data{
			View:  v,
			Start: time.Now(), // the background worker does not expose its last snapshot time
			End:   time.Now(),
			Rows:  rows,
		}
		s.exporter.ExportView(data)
	}
}

// RegisterExporter registers the configured exporter with the opencensus library
func (s *settings) RegisterExporter() {
	if s.exporter != nil {
		view.RegisterExporter(s.exporter)
		if s.period >= time.Second {
			view.SetReportingPeriod(s.period)
		}
	}
}

// addMetric allocates a measure and registers views for it, according to
// the decoded struct tags.
//
// The default view follows from the declared unit:
//   - counters (unit=unitCount or "") get a count view
//   - bytes get a bytes size distribution view
//   - milliseconds get a duration distribution view
//   - bytespersec get a throughput distribution view
//   - sumbytes get a cumulated bytes sum view
//
// Additional views come from the extraviews tag, e.g. extraviews:"sum,lastvalue,count"
func (s *settings) addMetric(m interface{}, metric, group string, tags map[string]string) interface{} {
	name := path.Join(group, metric)
	description := tags["description"]
	unit := tags["unit"]

	if description == "" {
		description = describeFromTags(name, tags)
	}
	// default view per unit
	u, dist := unitAndDist(unit)

	var measure stats.Measure
	switch m.(type) {
	case *stats.Int64Measure:
		measure = stats.Int64(name, description, u)
	case *stats.Float64Measure:
		measure = stats.Float64(name, description, u)
	default:
		return nil
	}

	s.allMetrics = append(s.allMetrics, measure)

	// tag keys the views aggregate by
	groupings := strings.Split(tags["groupings"], ",")
	keys := make([]tag.Key, 0, len(groupings))
	for _, g := range groupings {
		if g != "" {
			keys = append(keys, tag.MustNewKey(g))
		}
	}

	base := &view.View{
		Name:        name,
		Description: describeViewFromDist(description, dist),
		Measure:     measure,
		Aggregation: dist,
		TagKeys:     keys,
	}
	s.allViews = append(s.allViews, base)
	_ = view.Register(base)

	for _, extra := range strings.Split(tags["views"], ",") {
		extraView := &view.View{
			Measure: measure,
			TagKeys: keys,
		}
		switch extra {
		case unitCount:
			extraView.Aggregation = view.Count()
		case "sum":
			extraView.Aggregation = view.Sum()
		case "lastvalue":
			extraView.Aggregation = view.LastValue()
		}
		if extraView.Aggregation != nil {
			extraView.Name = describeViewFromDist(name, extraView.Aggregation)
			extraView.Description = describeViewFromDist(description, extraView.Aggregation)
			s.allViews = append(s.allViews, extraView)
			_ = view.Register(extraView)
		}
	}
	return measure
}

func durationDistribution() *view.Aggregation {
	// buckets in milliseconds, up to the many minutes a large archive download may take
	return view.Distribution(
		10, 50,
		100, 300, 500, 700, 900,
		1000, 1300, 1500, 1700, 1900,
		2000, 3000, 5000, 7000, 9000,
		10000, 30000, 50000, 70000, 90000,
		100000, 300000, 600000, 900000,
	)
}

func bytesDistribution() *view.Aggregation {
	// buckets in bytes, with headroom for genome scale archives
	return view.Distribution(
		500,
		1*KB, 5*KB, 10*KB, 50*KB,
		100*KB, 500*KB, 1*GB,
		1.5*GB,
		5*GB, 10*GB, 50*GB,
		100*GB, 500*GB, 1000*GB,
	)
}

func throughputDistribution() *view.Aggregation {
	// network fetches sit in the lower buckets, local moves in the upper ones
	return view.Distribution(
		1*KB, 5*KB, 50*KB, 100*KB, // for small files
		1*MB,
		10*MB,
		20*MB,
		50*MB,
		100*MB,
		150*MB,
		500*MB,
	)
}

func unitAndDist(unit string) (string, *view.Aggregation) {
	switch unit {
	case "milliseconds":
		return stats.UnitMilliseconds, durationDistribution()
	case "bytes":
		return stats.UnitBytes, bytesDistribution()
	case unitSumBytes:
		return stats.UnitBytes, view.Sum()
	case "bytespersec", unitBps:
		return unitBps, throughputDistribution()
	case unitCount:
		fallthrough
	default:
		return stats.UnitDimensionless, view.Count()
	}
}

func describeFromTags(name string, tags map[string]string) string {
	unit := tags["unit"]
	switch unit {
	case unitSumBytes:
		name += " cumulated bytes"
	case "", unitCount:
		name += " counter"
	default:
		name += " in " + unit
	}
	return name
}

func describeViewFromDist(desc string, in *view.Aggregation) string {
	if in == nil {
		return desc
	}
	switch in.Type {
	case view.AggTypeCount:
		return desc + " [count]"
	case view.AggTypeSum:
		return desc + " [cumulated]"
	case view.AggTypeDistribution:
		return desc + " [distribution]"
	case view.AggTypeLastValue:
		return desc + " [last]"
	case view.AggTypeNone:
		fallthrough
	default:
		return desc
	}
}

// FlushExporter is a view exporter with an explicit flush entry point,
// so views may be pushed on demand while the background exporter keeps
// running.
type FlushExporter interface {
	view.Exporter
	Flush(*view.Data)
}

// flusher makes a FlushExporter of any view.Exporter
func flusher(e view.Exporter) FlushExporter {
	return &lockedFlusher{
		e: e,
	}
}

type lockedFlusher struct {
	e view.Exporter
	m sync.RWMutex
}

func (f *lockedFlusher) ExportView(viewData *view.Data) {
	f.m.RLock() // background workers may export concurrently, only Flush is exclusive
	f.e.ExportView(viewData)
	f.m.RUnlock()
}

func (f *lockedFlusher) Flush(viewData *view.Data) {
	f.m.Lock()
	f.e.ExportView(viewData)
	f.m.Unlock()
}
