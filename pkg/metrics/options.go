package metrics

import (
	"context"
	"time"

	"go.opencensus.io/stats/view"
)

// Option alters the global metrics settings at Init time
type Option func(*settings)

// WithBasePath defines the root path prefixing every registered metrics tree
func WithBasePath(location string) Option {
	return func(m *settings) {
		m.basePath = location
	}
}

// WithContexter sets a context generation function for recorded measurements.
// The default contexter is context.Background.
func WithContexter(c func() context.Context) Option {
	return func(m *settings) {
		if c != nil {
			m.contexter = c
		}
	}
}

// WithExporter sets the exporter conveying collected views to some backend
func WithExporter(exporter view.Exporter) Option {
	return func(m *settings) {
		if exporter != nil {
			m.exporter = flusher(exporter)
		}
	}
}

// WithReportingPeriod sets how often the exporter uploads metrics.
// Durations under 1 sec are ignored. The default is 10s.
func WithReportingPeriod(d time.Duration) Option {
	return func(m *settings) {
		m.period = d
	}
}
