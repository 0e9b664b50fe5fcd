package core

import (
	"github.com/oneconcern/refmat/pkg/postprocess"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// MaterializerOption is a functor to build a materializer with some options
type MaterializerOption func(*Materializer)

// Logger injects a logging facility into materializer operations
func Logger(l *zap.Logger) MaterializerOption {
	return func(m *Materializer) {
		if l != nil {
			m.l = l
		}
	}
}

// Registry selects the registry postprocess names resolve against.
// Defaults to the process-wide registry holding the builtin functions.
func Registry(r *postprocess.Registry) MaterializerOption {
	return func(m *Materializer) {
		if r != nil {
			m.registry = r
		}
	}
}

// Fetcher selects the download collaborator. Defaults to a fetcher rooted
// at the materializer's file system.
func Fetcher(dl Downloader) MaterializerOption {
	return func(m *Materializer) {
		if dl != nil {
			m.fetcher = dl
		}
	}
}

// FileSystem roots artifacts and temporary downloads at the given file
// system (defaults to the OS file system)
func FileSystem(fs afero.Fs) MaterializerOption {
	return func(m *Materializer) {
		if fs != nil {
			m.fs = fs
		}
	}
}

// WithMetrics toggles metrics on a core materializer
func WithMetrics(enabled bool) MaterializerOption {
	return func(m *Materializer) {
		m.EnableMetrics(enabled)
	}
}
