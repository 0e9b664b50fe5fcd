package metrics

import (
	"time"

	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
)

// Init sets the global metrics configuration: exporter, base path, tags.
//
// It is called by the top-level driver (e.g. the CLI), while instrumented
// packages only declare and record their own metrics.
//
// Calling Init again is a no-op: only the first call applies.
//
// Metrics trees may be registered before or after Init.
func Init(opts ...Option) {
	initOnce.Do(func() {
		global = newSettings(opts...)
	})
}

// Flush pushes all data collected so far to the backend
func Flush() {
	global.Flush()
}

// EnsureMetrics registers a metrics tree at some unique location.
//
// Registration is lazy and idempotent: the first call for a given location
// wins and is returned to all subsequent callers.
//
// Registering a different type at an already taken location panics.
func EnsureMetrics(location string, m interface{}) interface{} {
	return global.EnsureMetrics(location, m)
}

// Inc increments a counter-like metric
func Inc(counter *stats.Int64Measure, tags ...map[string]string) {
	_ = stats.RecordWithTags(global.contexter(), mergeTags(tags), counter.M(1))
}

// Int64 records a value on an integer measurement
func Int64(measure *stats.Int64Measure, value int64, tags ...map[string]string) {
	_ = stats.RecordWithTags(global.contexter(), mergeTags(tags), measure.M(value))
}

// Float64 records a value on a float measurement
func Float64(measure *stats.Float64Measure, value float64, tags ...map[string]string) {
	_ = stats.RecordWithTags(global.contexter(), mergeTags(tags), measure.M(value))
}

// Since records the milliseconds elapsed since start on a timing measurement
func Since(start time.Time, measure *stats.Float64Measure, tags ...map[string]string) {
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	_ = stats.RecordWithTags(global.contexter(), mergeTags(tags), measure.M(ms))
}

// Duration records the milliseconds between start and end on a timing measurement
func Duration(start, end time.Time, measure *stats.Float64Measure, tags ...map[string]string) {
	ms := float64(end.Sub(start).Nanoseconds()) / 1e6
	_ = stats.RecordWithTags(global.contexter(), mergeTags(tags), measure.M(ms))
}

// mergeTags turns per-call tag maps into tag mutators for a single record
func mergeTags(extras []map[string]string) []tag.Mutator {
	mutators := make([]tag.Mutator, 0, 2*len(extras))
	for _, extra := range extras {
		for k, v := range extra {
			mutators = append(mutators, tag.Upsert(tag.MustNewKey(k), v))
		}
	}
	return mutators
}

// Enable equips a type with an on/off switch for metrics collection and
// access to the global registry.
//
// Sample usage:
//
//   type downloader struct{
//     ...
//     metrics.Enable
//     m *downloaderMetrics // points to the collectors registered for this type
//   }
//
//   ...
//
//   // downloaderMetrics declares the metrics tree recorded by downloader
//   type downloaderMetrics struct {
//     Volume struct {
//       Archives IOMetrics           `group:"archives" description:"archive download activity"`
//       Runs     *stats.Int64Measure `metric:"runs" description:"number of download runs" extraviews:"sum"`
//     } `group:"volumetry" description:"data moved around by the downloader"`
//   }
//
//   func (m *downloaderMetrics) IncRun() {
//     metrics.Inc(m.Volume.Runs)
//   }
//
//   ...
//
//   func NewDownloader() *downloader {
//     ...
//     d := &downloader{}
//     d.m = d.EnsureMetrics("downloader", &downloaderMetrics{}).(*downloaderMetrics)
//     d.EnableMetrics(true)
//     return d
//   }
type Enable struct {
	metricsEnabled bool
}

// MetricsEnabled tells whether metrics are enabled or not
func (e Enable) MetricsEnabled() bool {
	return e.metricsEnabled
}

// EnableMetrics toggles metrics collection
func (e *Enable) EnableMetrics(enabled bool) {
	e.metricsEnabled = enabled
}

// EnsureMetrics registers a metrics tree under the given name.
//
// It is safe to call repeatedly and lazily: the first registration applies,
// and collection starts as soon as it happens.
//
// EnsureMetrics panics unless called with a pointer to a struct.
func (e *Enable) EnsureMetrics(name string, m interface{}) interface{} {
	return EnsureMetrics(name, m)
}
