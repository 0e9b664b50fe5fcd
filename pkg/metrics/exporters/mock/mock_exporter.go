package mocks

import (
	"go.opencensus.io/stats/view"
	"go.uber.org/zap"
)

var _ view.Exporter = &Exporter{}

// Exporter is an opencensus exporter that merely logs exported views.
// It stands in for a real backend in tests.
type Exporter struct {
	l *zap.Logger
}

// NewExporter builds a logging mock exporter
func NewExporter() *Exporter {
	l, err := zap.NewDevelopment()
	if err != nil {
		l = zap.NewNop()
	}
	return &Exporter{
		l: l,
	}
}

// ExportView logs the exported view data
func (e *Exporter) ExportView(viewData *view.Data) {
	e.l.Debug("mock exporter", zap.Any("data", viewData))
}
